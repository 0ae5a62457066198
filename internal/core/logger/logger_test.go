package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskboard/internal/core/config"
)

func TestFromConfig(t *testing.T) {
	opt := FromConfig(config.Log{Level: "warn", JSON: true, File: config.LogFile{Enable: true, Filename: "x.log"}})
	if opt.Level != "warn" || !opt.JSON || opt.Development {
		t.Errorf("unexpected options %+v", opt)
	}
	if !opt.Rotate.Enable || opt.Rotate.Filename != "x.log" {
		t.Errorf("rotate not mapped: %+v", opt.Rotate)
	}
}

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := New(Options{Level: "info", NoSampling: true, Rotate: FileRotate{Enable: true, Filename: path}})
	l.Debug("hidden")
	l.Info("task assigned", zap.String("task_id", "t1"))
	cleanup()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"task_id":"t1"`) {
		t.Errorf("expected structured field in file, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry should be filtered at info level")
	}
}

func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	l, cleanup := New(Options{Level: "loud"})
	defer cleanup()
	if !l.Core().Enabled(zapcore.InfoLevel) || l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected info level")
	}
}

func TestToStdLogger(t *testing.T) {
	l, cleanup := New(Options{Level: "error"})
	defer cleanup()
	if ToStdLogger(l, zapcore.ErrorLevel) == nil {
		t.Fatal("expected std logger")
	}
}
