// Package handler はHTTPリクエストハンドラーを提供する。
package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/config"
	"github.com/oyaguma3/captive-portal-access/pkg/httputil"
	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// コンテキストキー
const (
	// TraceIDKey はコンテキストにTraceIDを格納するキー。
	TraceIDKey = "trace_id"
	// PrincipalKey は認証済みPrincipalを格納するキー。
	PrincipalKey = "principal"
	// SessionTokenKey はセッショントークンを格納するキー。
	SessionTokenKey = "session_token"
)

// Handler はAccess APIのハンドラー。
type Handler struct {
	auth     Authenticator
	sessions SessionStore
	devices  DeviceService
	access   AccessQuery
	vendors  VendorLookup
	resolver AddressResolver
	now      func() time.Time
}

// NewHandler は新しいHandlerを生成する。
func NewHandler(auth Authenticator, sessions SessionStore, devices DeviceService, access AccessQuery, vendors VendorLookup, resolver AddressResolver) *Handler {
	return &Handler{
		auth:     auth,
		sessions: sessions,
		devices:  devices,
		access:   access,
		vendors:  vendors,
		resolver: resolver,
		now:      time.Now,
	}
}

// RequireSession はセッショントークンを検証し、Principalをコンテキストにセットするミドルウェア。
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		p, err := h.sessions.Get(c.Request.Context(), token)
		if err != nil {
			h.fail(c, "SESSION_INVALID", err)
			c.Abort()
			return
		}
		c.Set(PrincipalKey, p)
		c.Set(SessionTokenKey, token)
		c.Next()
	}
}

// principal はコンテキストから認証済みPrincipalを取得する。
func principal(c *gin.Context) *model.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*model.Principal)
	return p
}

// sessionToken はリクエストからセッショントークンを取得する。
// X-Session-Tokenヘッダを優先し、なければBearerトークンを使用する。
func sessionToken(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader(config.HeaderSessionToken)); t != "" {
		return t
	}
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func traceID(c *gin.Context) string {
	v, _ := c.Get(TraceIDKey)
	s, _ := v.(string)
	return s
}

// fail はエラーをProblemDetailとして返し、ログ出力する。
func (h *Handler) fail(c *gin.Context, eventID string, err error) {
	problem := httputil.FromError(err)
	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(c.Request.Context(), level, "request failed",
		logging.WithTraceID(traceID(c)),
		logging.WithEventID(eventID),
		logging.WithHTTPStatus(problem.Status),
		logging.WithError(err),
	)
	httputil.WriteError(c, problem)
}
