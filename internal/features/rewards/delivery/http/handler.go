package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/common/middleware"
	"flowclicker-backend/internal/features/rewards/service"
)

type RewardsHandler struct {
	service service.RewardsService
}

func NewRewardsHandler(service service.RewardsService) *RewardsHandler {
	return &RewardsHandler{
		service: service,
	}
}

func (h *RewardsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/claimable-amount", h.claimableAmount)
}

// @Summary Preview claimable amount
// @Description Computes clicks * current reward-per-click from the on-chain decay schedule. Side-effect free.
// @Tags rewards
// @Produce json
// @Param clicks query int false "Pending clicks" default(0)
// @Success 200 {object} models.ClaimableResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid clicks"
// @Failure 500 {object} middleware.ErrorResponse "Oracle unavailable"
// @Router /claimable-amount [get]
func (h *RewardsHandler) claimableAmount(c *gin.Context) {
	clicks := int64(0)
	if raw := c.Query("clicks"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			middleware.AbortWithError(c, apperrors.NewValidationError("clicks", "must be an integer"))
			return
		}
		clicks = parsed
	}

	preview, err := h.service.ClaimablePreview(c.Request.Context(), clicks)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}
