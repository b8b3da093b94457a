package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	// テスト時はGinをテストモードに設定
	gin.SetMode(gin.TestMode)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteError(c, BadRequest("invalid parameter"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if ct := w.Header().Get("Content-Type"); ct != ContentType {
		t.Errorf("Content-Type = %q, want %q", ct, ContentType)
	}

	var parsed ProblemDetail
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if parsed.Detail != "invalid parameter" {
		t.Errorf("Response Detail = %q, want %q", parsed.Detail, "invalid parameter")
	}
}

func TestAbortWithError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	AbortWithError(c, Unauthorized("authentication required"))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if !c.IsAborted() {
		t.Error("Context should be aborted")
	}
	if ct := w.Header().Get("Content-Type"); ct != ContentType {
		t.Errorf("Content-Type = %q, want %q", ct, ContentType)
	}
}

func TestWriteErrorInHandler(t *testing.T) {
	router := gin.New()
	router.GET("/approved-devices", func(c *gin.Context) {
		WriteError(c, ServiceUnavailable("device registry temporarily unavailable"))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/approved-devices", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	var parsed ProblemDetail
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if parsed.Instance != "/approved-devices" {
		t.Errorf("Instance = %q, want %q", parsed.Instance, "/approved-devices")
	}
}

func TestAbortWithErrorInMiddleware(t *testing.T) {
	router := gin.New()

	// セッション必須ミドルウェア相当
	router.Use(func(c *gin.Context) {
		if c.GetHeader("X-Session-Token") == "" {
			AbortWithError(c, Unauthorized("authentication required"))
			return
		}
		c.Next()
	})

	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	t.Run("without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/me", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status code = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("with token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/me", nil)
		req.Header.Set("X-Session-Token", "tok")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
		}
	})
}
