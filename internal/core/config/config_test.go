package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestReadDefaults(t *testing.T) {
	c, err := Read(writeConfig(t, "app:\n  name: tb\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if c.App.Name != "tb" {
		t.Errorf("App.Name = %q", c.App.Name)
	}
	if c.App.HTTP.Port != 8080 || c.App.Admin.Host != "127.0.0.1" {
		t.Errorf("unexpected http defaults: %+v %+v", c.App.HTTP, c.App.Admin)
	}
	if c.DB.Driver != "sqlite" || !c.DB.AtomicAssign || !c.DB.AutoMigrate {
		t.Errorf("unexpected db defaults: %+v", c.DB)
	}
	if c.Redis.TTLSec != 30 || c.Limits.Burst != 400 {
		t.Errorf("unexpected defaults: %+v %+v", c.Redis, c.Limits)
	}
}

func TestReadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
app:
  http:
    port: 9000
    basepath: /api
db:
  driver: postgres
  dsn: postgres://localhost/tasks
  atomicassign: false
redis:
  addr: localhost:6379
`)
	t.Setenv("APP_DB_DSN", "postgres://db/override")

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if c.App.HTTP.Port != 9000 || c.App.HTTP.BasePath != "/api" {
		t.Errorf("unexpected http: %+v", c.App.HTTP)
	}
	if c.DB.Driver != "postgres" || c.DB.AtomicAssign {
		t.Errorf("unexpected db: %+v", c.DB)
	}
	if c.DB.DSN != "postgres://db/override" {
		t.Errorf("env override ignored, DSN = %q", c.DB.DSN)
	}
	if c.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", c.Redis.Addr)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
