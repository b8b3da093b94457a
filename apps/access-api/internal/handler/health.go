package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/dto"
)

// HandleHealth はGET /health のハンドラー。
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
