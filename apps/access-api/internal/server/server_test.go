package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/config"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/handler"
	"github.com/oyaguma3/captive-portal-access/pkg/httputil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTraceIDMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"propagated", "trace-abc"},
		{"generated", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(TraceIDMiddleware())
			var seen string
			r.GET("/", func(c *gin.Context) {
				v, _ := c.Get(handler.TraceIDKey)
				seen, _ = v.(string)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(config.HeaderTraceID, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if seen == "" {
				t.Fatal("trace id not set")
			}
			if tt.header != "" && seen != tt.header {
				t.Errorf("trace id = %q, want %q", seen, tt.header)
			}
			if got := w.Header().Get(config.HeaderTraceID); got != seen {
				t.Errorf("response header = %q, want %q", got, seen)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceIDMiddleware(), LoggingMiddleware(), RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	var p httputil.ProblemDetail
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if p.Instance != "/panic" {
		t.Errorf("Instance = %q, want %q", p.Instance, "/panic")
	}
}

func TestNew(t *testing.T) {
	cfg := &config.Config{ListenAddr: ":0", GinMode: gin.TestMode}
	h := handler.NewHandler(nil, nil, nil, nil, nil, nil)

	s, err := New(cfg, h)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /health Status = %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("GET /nope Status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestNew_InvalidTrustedProxies(t *testing.T) {
	cfg := &config.Config{GinMode: gin.TestMode, TrustedProxies: []string{"not-an-ip"}}
	if _, err := New(cfg, handler.NewHandler(nil, nil, nil, nil, nil, nil)); err == nil {
		t.Error("New() error = nil, want error")
	}
}
