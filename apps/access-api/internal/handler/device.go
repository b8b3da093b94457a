package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/dto"
	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
)

// HandleApprovedDevices はGET /approved-devices のハンドラー。
// history=true の場合は終端レコードも含める。
func (h *Handler) HandleApprovedDevices(c *gin.Context) {
	includeHistory, _ := strconv.ParseBool(c.DefaultQuery("history", "false"))

	recs, err := h.devices.ListForOwner(c.Request.Context(), principal(c), includeHistory)
	if err != nil {
		h.fail(c, "LIST_ERR", err)
		return
	}
	c.JSON(http.StatusOK, dto.DevicesResponse{Devices: dto.NewDeviceResponses(recs, h.now())})
}

// HandleSharedDevices はGET /shared-devices のハンドラー。
func (h *Handler) HandleSharedDevices(c *gin.Context) {
	recs, err := h.devices.ListShared(c.Request.Context())
	if err != nil {
		h.fail(c, "LIST_ERR", err)
		return
	}
	c.JSON(http.StatusOK, dto.DevicesResponse{Devices: dto.NewDeviceResponses(recs, h.now())})
}

// HandleApprove はPOST /approve のハンドラー。
func (h *Handler) HandleApprove(c *gin.Context) {
	var body dto.ApproveRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, "APPROVE_ERR", apperr.ErrInvalidRequest)
		return
	}
	req, err := body.ToEngine()
	if err != nil {
		h.fail(c, "APPROVE_ERR", err)
		return
	}

	// 未指定のアドレスは接続元から補完する
	if req.IP == "" || req.MAC == "" {
		caller := h.resolver.Resolve(c)
		if req.IP == "" {
			req.IP = caller.IP
		}
		if req.MAC == "" {
			req.MAC = caller.MAC
		}
	}

	rec, err := h.devices.Approve(c.Request.Context(), principal(c), req)
	if err != nil {
		h.fail(c, "APPROVE_ERR", err)
		return
	}
	c.JSON(http.StatusOK, dto.ApproveResponse{
		Status: "approved",
		Device: dto.NewDeviceResponse(rec, h.now()),
	})
}

// HandleRevoke はPOST /revoke のハンドラー。
func (h *Handler) HandleRevoke(c *gin.Context) {
	var body dto.RevokeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, "REVOKE_ERR", apperr.ErrInvalidRequest)
		return
	}

	caller := h.resolver.Resolve(c)
	if err := h.devices.Revoke(c.Request.Context(), principal(c), caller, body.MAC, body.IP); err != nil {
		h.fail(c, "REVOKE_ERR", err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "revoked"})
}
