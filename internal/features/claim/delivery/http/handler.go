package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/common/middleware"
	"flowclicker-backend/internal/features/claim/models"
	"flowclicker-backend/internal/features/claim/service"
	"flowclicker-backend/internal/features/claim/token"
)

type ClaimHandler struct {
	service service.ClaimService
	tokens  *token.Manager
}

func NewClaimHandler(service service.ClaimService, tokens *token.Manager) *ClaimHandler {
	return &ClaimHandler{
		service: service,
		tokens:  tokens,
	}
}

func (h *ClaimHandler) RegisterRoutes(router *gin.RouterGroup, rateLimit gin.HandlerFunc) {
	router.POST("/claim-signature", rateLimit, h.claimSignature)
	router.POST("/claim", h.requireBearer, h.claim)
}

// requireBearer verifies the bearer token issued alongside the signature and
// stores the bound player on the context.
func (h *ClaimHandler) requireBearer(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("missing bearer token"))
		return
	}

	claims, err := h.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("invalid or expired bearer token"))
		return
	}

	c.Set("player", claims.Player)
	c.Next()
}

// @Summary Issue a claim authorization
// @Description Signs Claim{player, clicks, nonce} with the server key, decrements the pending counter by the signed amount and returns a bearer token for the follow-up /claim call.
// @Tags claims
// @Accept json
// @Produce json
// @Success 200 {object} models.Authorization
// @Failure 400 {object} middleware.ErrorResponse "Invalid address or no clicks to claim"
// @Failure 429 {object} middleware.ErrorResponse "Rate limited"
// @Failure 500 {object} middleware.ErrorResponse "Oracle unavailable or signing failure"
// @Router /claim-signature [post]
func (h *ClaimHandler) claimSignature(c *gin.Context) {
	var req models.SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	authorization, err := h.service.IssueAuthorization(c.Request.Context(), req.Player)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, authorization)
}

// @Summary Confirm a claim transaction
// @Description Verifies the receipt of the submitted claim transaction and applies the on-chain amount and clicks to the ledger.
// @Tags claims
// @Accept json
// @Produce json
// @Security BearerToken
// @Success 200 {object} models.ClaimResult
// @Failure 400 {object} middleware.ErrorResponse "Verification failed"
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid bearer token"
// @Failure 500 {object} middleware.ErrorResponse "Ledger write failed after verification"
// @Router /claim [post]
func (h *ClaimHandler) claim(c *gin.Context) {
	var req models.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	player := c.GetString("player")
	if player == "" {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("no player bound to token"))
		return
	}

	result, err := h.service.ConfirmClaim(c.Request.Context(), player, req.TxHash)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
