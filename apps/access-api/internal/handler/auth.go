package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/dto"
	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/identity"
	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/httputil"
	"github.com/oyaguma3/captive-portal-access/pkg/logging"
)

// HandleLogin はPOST /login のハンドラー。
func (h *Handler) HandleLogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "LOGIN_ERR", apperr.ErrInvalidRequest)
		return
	}
	h.login(c, req.Credential())
}

// HandleLDAPLogin はPOST /ldap-login のハンドラー。
func (h *Handler) HandleLDAPLogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "LOGIN_ERR", apperr.ErrInvalidRequest)
		return
	}
	cred := req.Credential()
	cred.Method = identity.MethodLDAP
	h.login(c, cred)
}

func (h *Handler) login(c *gin.Context, cred identity.Credential) {
	ctx := identity.WithTraceID(c.Request.Context(), traceID(c))

	p, err := h.auth.Authenticate(ctx, cred)
	if err != nil {
		// Identity Providerの障害も呼び出し元には未認証として返す
		var ae *apperr.AdapterError
		if errors.As(err, &ae) {
			slog.Error("identity provider unavailable",
				logging.WithTraceID(traceID(c)),
				logging.WithEventID("LOGIN_IDP_ERR"),
				logging.WithError(err),
			)
			httputil.WriteError(c, httputil.Unauthorized("Authentication service unavailable"))
			return
		}
		h.fail(c, "LOGIN_FAILED", err)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), p)
	if err != nil {
		h.fail(c, "LOGIN_ERR", err)
		return
	}

	slog.Info("login succeeded",
		logging.WithTraceID(traceID(c)),
		logging.WithEventID("LOGIN_OK"),
		logging.WithPrincipal(p.ID),
		"method", string(cred.Method),
	)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		Principal: dto.NewPrincipalResponse(p, h.devices.IsAdmin(p)),
	})
}

// HandleLogout はPOST/GET /logout のハンドラー。
// セッションの有無にかかわらず成功を返す。
func (h *Handler) HandleLogout(c *gin.Context) {
	token := sessionToken(c)
	if err := h.sessions.Delete(c.Request.Context(), token); err != nil {
		slog.Warn("logout failed",
			logging.WithTraceID(traceID(c)),
			logging.WithEventID("LOGOUT_ERR"),
			logging.WithError(err),
		)
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "logged_out"})
}

// HandleMe はGET /me のハンドラー。
func (h *Handler) HandleMe(c *gin.Context) {
	p := principal(c)
	if p == nil {
		h.fail(c, "SESSION_INVALID", apperr.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, dto.NewPrincipalResponse(p, h.devices.IsAdmin(p)))
}
