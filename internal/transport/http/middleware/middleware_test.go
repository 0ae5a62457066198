package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() { gin.SetMode(gin.TestMode) }

func engine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelopeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	if body.Success {
		t.Fatalf("success = true for status %d", w.Code)
	}
	return body.Message
}

func TestRequestID(t *testing.T) {
	r := engine(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := w.Header().Get(KeyRequestID); len(got) != 36 || got != w.Body.String() {
		t.Fatalf("generated id header %q body %q", got, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc")
	if got := do(r, req).Header().Get(KeyRequestID); got != "abc" {
		t.Fatalf("echoed id = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, strings.Repeat("x", maxRequestIDLen+1))
	if got := do(r, req).Header().Get(KeyRequestID); len(got) != 36 {
		t.Fatalf("oversized id not replaced: %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	for name, mw := range map[string]gin.HandlerFunc{
		"global": RateLimit(1, 1),
		"per ip": RateLimitPerIP(1, 1),
	} {
		t.Run(name, func(t *testing.T) {
			r := engine(mw)
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			if w := do(r, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusOK {
				t.Fatalf("first status = %d", w.Code)
			}
			w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != http.StatusTooManyRequests {
				t.Fatalf("second status = %d", w.Code)
			}
			if msg := envelopeMessage(t, w); msg != "Too Many Requests" {
				t.Fatalf("message = %q", msg)
			}
		})
	}
}

func TestRateLimitPerIPSeparatesClients(t *testing.T) {
	r := engine(RateLimitPerIP(1, 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, ip := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip
		if w := do(r, req); w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", ip, w.Code)
		}
	}
}

func TestZeroLimitsPassThrough(t *testing.T) {
	r := engine(RateLimit(0, 0), RateLimitPerIP(0, 0), ConcurrencyLimit(0), MaxBodyBytes(0), Timeout(0))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := do(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestMaxBodyBytes(t *testing.T) {
	r := engine(MaxBodyBytes(4))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", w.Code)
	}
	if w := do(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ok"))); w.Code != http.StatusOK {
		t.Fatalf("small body status = %d", w.Code)
	}
}

func TestTimeout(t *testing.T) {
	r := engine(Timeout(20 * time.Millisecond))
	r.GET("/", func(c *gin.Context) { <-c.Request.Context().Done() })

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestConcurrencyLimit(t *testing.T) {
	entered, release := make(chan struct{}), make(chan struct{})
	r := engine(ConcurrencyLimit(1))
	r.GET("/", func(c *gin.Context) {
		entered <- struct{}{}
		<-release
		c.Status(http.StatusOK)
	})

	done := make(chan int)
	go func() { done <- do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code }()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("busy status = %d", w.Code)
	}

	close(release)
	if code := <-done; code != http.StatusOK {
		t.Fatalf("holder status = %d", code)
	}
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := engine(Recovery(zap.New(core)))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Fatalf("panic not logged: %v", logs.All())
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := engine(RequestID(), AccessLog(zap.New(core)))
	r.GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "hello") })

	req := httptest.NewRequest(http.MethodGet, "/items?token=secret&q=x", nil)
	req.Header.Set(KeyRequestID, "rid-1")
	do(r, req)

	entries := logs.FilterMessage("HTTP").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	f := entries[0].ContextMap()
	if f["rid"] != "rid-1" || f["path"] != "/items" || f["size"] != int64(5) {
		t.Fatalf("fields = %v", f)
	}
	q := f["query"].(map[string][]string)
	if q["token"][0] != "****" || q["q"][0] != "x" {
		t.Fatalf("query = %v", q)
	}
}

func TestIPBucketsEvictIdleClients(t *testing.T) {
	now := time.Unix(0, 0)
	b := newIPBuckets(1, 1, time.Minute, func() time.Time { return now })

	if !b.allow("a") || b.allow("a") {
		t.Fatal("a: first request allowed, second limited")
	}
	now = now.Add(30 * time.Second)
	b.allow("b")
	if b.size() != 2 {
		t.Fatalf("size = %d, want 2", b.size())
	}

	// a has been idle a full ttl; b has not
	now = now.Add(40 * time.Second)
	if !b.allow("c") {
		t.Fatal("c limited")
	}
	if b.size() != 2 {
		t.Fatalf("size after sweep = %d, want 2 (b, c)", b.size())
	}
	if _, ok := b.m["a"]; ok {
		t.Fatal("idle bucket a was kept")
	}
}
