package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/common/middleware"
	"flowclicker-backend/internal/features/admin/service"
)

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(service service.AdminService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup, apiKey gin.HandlerFunc) {
	admin := router.Group("/admin")
	admin.POST("/sync-balance", apiKey, h.syncBalance)
	admin.POST("/reset", h.reset)
}

type syncBalanceRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type resetRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// @Summary Sync on-chain balance
// @Description Overwrites the stored onchain_balance with the live balanceOf read. total_claimed is never touched.
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid API key"
// @Failure 404 {object} middleware.ErrorResponse "Player not found"
// @Router /admin/sync-balance [post]
func (h *AdminHandler) syncBalance(c *gin.Context) {
	var req syncBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	balance, err := h.service.SyncBalance(c.Request.Context(), req.UserID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"syncedBalance": balance.String(),
	})
}

// @Summary Reset all game data
// @Description Deletes every pending-click counter and zeroes the ledger totals. Requires the reset secret.
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} middleware.ErrorResponse "Invalid reset secret"
// @Router /admin/reset [post]
func (h *AdminHandler) reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	if err := h.service.ResetAll(c.Request.Context(), req.Secret); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Data reset successfully"})
}
