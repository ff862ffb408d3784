package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/features/claim/models"
	"flowclicker-backend/internal/features/claim/token"
)

const (
	testAddr   = "0x1111111111111111111111111111111111111111"
	testTxHash = "0x3333333333333333333333333333333333333333333333333333333333333333"
	testSecret = "handler-test-secret"
)

type stubClaimService struct {
	authorization *models.Authorization
	issueErr      error
	result        *models.ClaimResult
	confirmErr    error

	confirmedPlayer string
	confirmedTx     string
}

func (s *stubClaimService) IssueAuthorization(ctx context.Context, player string) (*models.Authorization, error) {
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	return s.authorization, nil
}

func (s *stubClaimService) ConfirmClaim(ctx context.Context, player, txHash string) (*models.ClaimResult, error) {
	s.confirmedPlayer = player
	s.confirmedTx = txHash
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return s.result, nil
}

func passthrough(c *gin.Context) { c.Next() }

func setupRouter(svc *stubClaimService, tokens *token.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	NewClaimHandler(svc, tokens).RegisterRoutes(api, passthrough)
	return router
}

func doJSON(router *gin.Engine, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestClaimSignatureOK(t *testing.T) {
	svc := &stubClaimService{authorization: &models.Authorization{
		Player:    testAddr,
		Clicks:    50,
		Nonce:     "7",
		Signature: "0xsig",
		Token:     "jwt",
		ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
	}}
	router := setupRouter(svc, token.NewManager(testSecret, token.DefaultTTL))

	w := doJSON(router, http.MethodPost, "/api/v1/claim-signature", `{"player":"`+testAddr+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"signature":"0xsig"`)
}

func TestClaimSignatureMissingPlayer(t *testing.T) {
	router := setupRouter(&stubClaimService{}, token.NewManager(testSecret, token.DefaultTTL))

	w := doJSON(router, http.MethodPost, "/api/v1/claim-signature", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimSignatureNoClicks(t *testing.T) {
	svc := &stubClaimService{issueErr: apperrors.NewNoClicksError(testAddr)}
	router := setupRouter(svc, token.NewManager(testSecret, token.DefaultTTL))

	w := doJSON(router, http.MethodPost, "/api/v1/claim-signature", `{"player":"`+testAddr+`"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_CLICKS_TO_CLAIM")
}

func TestClaimRequiresBearer(t *testing.T) {
	router := setupRouter(&stubClaimService{}, token.NewManager(testSecret, token.DefaultTTL))

	w := doJSON(router, http.MethodPost, "/api/v1/claim", `{"txHash":"`+testTxHash+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClaimRejectsGarbageToken(t *testing.T) {
	router := setupRouter(&stubClaimService{}, token.NewManager(testSecret, token.DefaultTTL))

	w := doJSON(router, http.MethodPost, "/api/v1/claim", `{"txHash":"`+testTxHash+`"}`, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClaimRejectsExpiredToken(t *testing.T) {
	expired := token.NewManager(testSecret, -time.Minute)
	bearer, _, err := expired.Issue(testAddr, 50)
	require.NoError(t, err)

	router := setupRouter(&stubClaimService{}, token.NewManager(testSecret, token.DefaultTTL))
	w := doJSON(router, http.MethodPost, "/api/v1/claim", `{"txHash":"`+testTxHash+`"}`, bearer)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClaimOK(t *testing.T) {
	tokens := token.NewManager(testSecret, token.DefaultTTL)
	bearer, _, err := tokens.Issue(testAddr, 50)
	require.NoError(t, err)

	svc := &stubClaimService{result: &models.ClaimResult{
		Success:         true,
		ClaimedAmount:   "100",
		ClaimedClicks:   50,
		NewTotalClaimed: "100",
	}}
	router := setupRouter(svc, tokens)

	w := doJSON(router, http.MethodPost, "/api/v1/claim", `{"txHash":"`+testTxHash+`"}`, bearer)
	require.Equal(t, http.StatusOK, w.Code)

	// The player comes from the verified token, never from the request body.
	assert.Equal(t, testAddr, svc.confirmedPlayer)
	assert.Equal(t, testTxHash, svc.confirmedTx)
	assert.Contains(t, w.Body.String(), `"new_total_claimed":"100"`)
}

func TestClaimMissingTxHash(t *testing.T) {
	tokens := token.NewManager(testSecret, token.DefaultTTL)
	bearer, _, err := tokens.Issue(testAddr, 50)
	require.NoError(t, err)

	router := setupRouter(&stubClaimService{}, tokens)
	w := doJSON(router, http.MethodPost, "/api/v1/claim", `{}`, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimVerificationFailed(t *testing.T) {
	tokens := token.NewManager(testSecret, token.DefaultTTL)
	bearer, _, err := tokens.Issue(testAddr, 50)
	require.NoError(t, err)

	svc := &stubClaimService{confirmErr: apperrors.NewVerificationError("transaction reverted")}
	router := setupRouter(svc, tokens)

	w := doJSON(router, http.MethodPost, "/api/v1/claim", `{"txHash":"`+testTxHash+`"}`, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VERIFICATION_FAILED")
}
