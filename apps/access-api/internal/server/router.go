package server

import (
	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/handler"
)

// SetupRouter はルーティングを設定する。
func SetupRouter(engine *gin.Engine, h *handler.Handler) {
	// ヘルスチェック
	engine.GET("/health", h.HandleHealth)

	// 認証
	engine.POST("/login", h.HandleLogin)
	engine.POST("/ldap-login", h.HandleLDAPLogin)
	engine.POST("/logout", h.HandleLogout)
	engine.GET("/logout", h.HandleLogout)

	// 認証不要の参照系
	engine.GET("/client-info", h.HandleClientInfo)
	engine.GET("/vendor-lookup", h.HandleVendorLookup)

	// セッション必須
	authed := engine.Group("/", h.RequireSession())
	{
		authed.GET("/me", h.HandleMe)
		authed.GET("/approved-devices", h.HandleApprovedDevices)
		authed.GET("/shared-devices", h.HandleSharedDevices)
		authed.POST("/approve", h.HandleApprove)
		authed.POST("/revoke", h.HandleRevoke)
	}

	// API v1（ネットワーク制御層向け、読み取り専用）
	v1 := engine.Group("/api/v1")
	{
		v1.GET("/access", h.HandleAccess)
	}
}
