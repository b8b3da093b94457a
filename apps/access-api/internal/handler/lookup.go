package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/dto"
	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
)

// HandleClientInfo はGET /client-info のハンドラー。
// アドレスは接続から導出し、クライアントの申告値は使わない。
func (h *Handler) HandleClientInfo(c *gin.Context) {
	addr := h.resolver.Resolve(c)
	c.JSON(http.StatusOK, dto.ClientInfoResponse{IP: addr.IP, MAC: addr.MAC})
}

// HandleVendorLookup はGET /vendor-lookup のハンドラー。
func (h *Handler) HandleVendorLookup(c *gin.Context) {
	vendor := h.vendors.Lookup(c.Request.Context(), c.Query("mac"))
	c.JSON(http.StatusOK, dto.VendorResponse{Vendor: vendor})
}

// HandleAccess はGET /api/v1/access のハンドラー。
// ネットワーク制御層向けの読み取り専用判定。
func (h *Handler) HandleAccess(c *gin.Context) {
	mac, ip := c.Query("mac"), c.Query("ip")
	if mac == "" || ip == "" {
		h.fail(c, "ACCESS_ERR", apperr.NewValidationError("mac", "mac and ip are required"))
		return
	}

	d, err := h.access.Decide(c.Request.Context(), mac, ip)
	if err != nil {
		h.fail(c, "ACCESS_ERR", err)
		return
	}

	resp := dto.AccessResponse{Authorized: d.Authorized}
	if d.Authorized {
		expiry := d.ExpiresAt
		resp.Expiry = &expiry
		resp.RemainingSeconds = int64(d.Remaining.Seconds())
	}
	c.JSON(http.StatusOK, resp)
}
