package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"flowclicker-backend/internal/common/config"
	"flowclicker-backend/internal/common/logger"
	"flowclicker-backend/internal/common/middleware"
	adminhttp "flowclicker-backend/internal/features/admin/delivery/http"
	adminservice "flowclicker-backend/internal/features/admin/service"
	claimhttp "flowclicker-backend/internal/features/claim/delivery/http"
	claimservice "flowclicker-backend/internal/features/claim/service"
	"flowclicker-backend/internal/features/claim/token"
	playerhttp "flowclicker-backend/internal/features/player/delivery/http"
	playerpg "flowclicker-backend/internal/features/player/repository/postgres"
	playerredis "flowclicker-backend/internal/features/player/repository/redis"
	playerservice "flowclicker-backend/internal/features/player/service"
	rewardshttp "flowclicker-backend/internal/features/rewards/delivery/http"
	rewardsservice "flowclicker-backend/internal/features/rewards/service"
	statshttp "flowclicker-backend/internal/features/stats/delivery/http"
	statsservice "flowclicker-backend/internal/features/stats/service"
	"flowclicker-backend/internal/platform/chain"
	"flowclicker-backend/internal/platform/db"
	redisplatform "flowclicker-backend/internal/platform/redis"
)

// @title           FlowClicker API
// @version         1.0
// @description     Backend for the FlowClicker game: click accrual, claim authorization and on-chain claim reconciliation.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerToken
// @in header
// @name Authorization
// @description Short-lived bearer token issued by /claim-signature

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("flowclicker-backend", cfg.Debug)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	pg, err := db.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open postgres")
	}
	defer pg.Close()

	if err := playerpg.EnsureSchema(ctx, pg); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ensure ledger schema")
	}

	rdb, err := redisplatform.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open redis")
	}
	defer rdb.Close()

	chainTimeout := time.Duration(cfg.Chain.TimeoutSeconds) * time.Second
	oracle, err := chain.NewOracle(cfg.Chain.RPCURL, cfg.Chain.ContractAddress, chainTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect chain oracle")
	}

	signer, err := chain.NewSigner(cfg.Chain.SignerKey, cfg.Chain.ChainID, oracle.Contract())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load signer key")
	}
	logger.Info().Str("authorizer", signer.Address().Hex()).Msg("Claim signer loaded")

	tokens := token.NewManager(cfg.Auth.JWTSecret, token.DefaultTTL)

	counterRepo := playerredis.NewCounterRepository(rdb)
	ledgerRepo := playerpg.NewLedgerRepository(pg)

	playerSvc := playerservice.NewPlayerService(counterRepo, ledgerRepo)
	rewardsSvc := rewardsservice.NewRewardsService(oracle)
	claimSvc := claimservice.NewClaimService(counterRepo, ledgerRepo, oracle, signer, tokens)
	statsSvc := statsservice.NewStatsService(oracle, ledgerRepo)
	adminSvc := adminservice.NewAdminService(counterRepo, ledgerRepo, oracle, cfg.Auth.ResetSecret)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     []string{cfg.Server.Origin},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	apiKey := middleware.RequireAPIKey(cfg.Auth.APIKeys)
	rateLimit := middleware.RateLimit(rdb,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		cfg.RateLimit.MaxRequests)

	api := router.Group("/api/v1")
	playerhttp.NewPlayerHandler(playerSvc).RegisterRoutes(api, apiKey)
	rewardshttp.NewRewardsHandler(rewardsSvc).RegisterRoutes(api)
	claimhttp.NewClaimHandler(claimSvc, tokens).RegisterRoutes(api, rateLimit)
	statshttp.NewStatsHandler(statsSvc).RegisterRoutes(api)
	adminhttp.NewAdminHandler(adminSvc).RegisterRoutes(api, apiKey)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	logger.Info().Msg("Server stopped")
}
