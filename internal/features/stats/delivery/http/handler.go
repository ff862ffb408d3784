package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flowclicker-backend/internal/common/middleware"
	"flowclicker-backend/internal/features/stats/service"
)

type StatsHandler struct {
	service service.StatsService
}

func NewStatsHandler(service service.StatsService) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats/global", h.globalStats)
}

// @Summary Global game stats
// @Description On-chain supply and fee split plus the all-time off-chain click total.
// @Tags stats
// @Produce json
// @Success 200 {object} models.GlobalStats
// @Failure 500 {object} middleware.ErrorResponse "Oracle unavailable"
// @Router /stats/global [get]
func (h *StatsHandler) globalStats(c *gin.Context) {
	stats, err := h.service.GlobalStats(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
