package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/common/middleware"
	"flowclicker-backend/internal/features/player/service"
)

type PlayerHandler struct {
	service service.PlayerService
}

func NewPlayerHandler(service service.PlayerService) *PlayerHandler {
	return &PlayerHandler{
		service: service,
	}
}

func (h *PlayerHandler) RegisterRoutes(router *gin.RouterGroup, apiKey gin.HandlerFunc) {
	router.POST("/click", apiKey, h.click)
	router.GET("/pending-clicks", h.pendingClicks)
	router.GET("/players/:address", h.getPlayer)
}

type clickRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Country string `json:"country"`
}

// @Summary Register a click
// @Description Atomically increments the player's pending-click counter and the lifetime click total.
// @Tags clicks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]int64 "New pending-click count"
// @Failure 400 {object} middleware.ErrorResponse "Invalid address or country"
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid API key"
// @Failure 503 {object} middleware.ErrorResponse "Counter store unavailable"
// @Router /click [post]
func (h *PlayerHandler) click(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	clicks, err := h.service.RegisterClick(c.Request.Context(), req.UserID, req.Country)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clicks": clicks})
}

// @Summary Get pending clicks
// @Description Reads the player's unclaimed click count from the counter store.
// @Tags clicks
// @Produce json
// @Param player query string true "Player address"
// @Success 200 {object} map[string]int64
// @Failure 400 {object} middleware.ErrorResponse "Invalid address"
// @Router /pending-clicks [get]
func (h *PlayerHandler) pendingClicks(c *gin.Context) {
	clicks, err := h.service.PendingClicks(c.Request.Context(), c.Query("player"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clicks": clicks})
}

// @Summary Get player totals
// @Description Returns the durable ledger totals for an address.
// @Tags players
// @Produce json
// @Param address path string true "Player address"
// @Success 200 {object} models.PlayerResponse
// @Failure 404 {object} middleware.ErrorResponse "Player not found"
// @Router /players/{address} [get]
func (h *PlayerHandler) getPlayer(c *gin.Context) {
	player, err := h.service.GetPlayer(c.Request.Context(), c.Param("address"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}
