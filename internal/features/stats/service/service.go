package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	playerrepo "flowclicker-backend/internal/features/player/repository"
	rewards "flowclicker-backend/internal/features/rewards/service"
	"flowclicker-backend/internal/features/stats/models"
	"flowclicker-backend/internal/platform/chain"
)

// StatsOracle is the chain view the stats endpoint needs.
type StatsOracle interface {
	TotalSupply(ctx context.Context) (*big.Int, error)
	Decimals(ctx context.Context) (uint8, error)
	FeeInfo(ctx context.Context) (*chain.FeeInfo, error)
	BalanceOf(ctx context.Context, address common.Address) (*big.Int, error)
}

type StatsService interface {
	GlobalStats(ctx context.Context) (*models.GlobalStats, error)
}

type statsService struct {
	oracle StatsOracle
	ledger playerrepo.LedgerRepository
}

func NewStatsService(oracle StatsOracle, ledger playerrepo.LedgerRepository) StatsService {
	return &statsService{
		oracle: oracle,
		ledger: ledger,
	}
}

func (s *statsService) GlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	totalSupply, err := s.oracle.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	decimals, err := s.oracle.Decimals(ctx)
	if err != nil {
		return nil, err
	}
	fees, err := s.oracle.FeeInfo(ctx)
	if err != nil {
		return nil, err
	}

	devBalance, err := s.oracle.BalanceOf(ctx, fees.DevWallet)
	if err != nil {
		return nil, err
	}
	foundationBalance, err := s.oracle.BalanceOf(ctx, fees.FoundationWallet)
	if err != nil {
		return nil, err
	}
	burnBalance, err := s.oracle.BalanceOf(ctx, fees.BurnAddress)
	if err != nil {
		return nil, err
	}

	// Supply not held by fee wallets is what reached players.
	circulating := new(big.Int).Sub(totalSupply, devBalance)
	circulating.Sub(circulating, foundationBalance)
	circulating.Sub(circulating, burnBalance)

	// The off-chain total is best effort; a database hiccup should not blank
	// the on-chain half of the dashboard.
	totalClicks, err := s.ledger.SumTotalClicks(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to sum all-time clicks")
		totalClicks = 0
	}

	return &models.GlobalStats{
		TotalSupply:        rewards.FormatUnits(totalSupply, decimals),
		TotalClaimed:       rewards.FormatUnits(circulating, decimals),
		TotalClicksAllTime: totalClicks,
		Tokenomics: models.Tokenomics{
			DevFeeBPS:        fees.DevFeeBPS,
			FoundationFeeBPS: fees.FoundationFeeBPS,
			BurnFeeBPS:       fees.BurnFeeBPS,
			TotalFeeBPS:      fees.DevFeeBPS + fees.FoundationFeeBPS + fees.BurnFeeBPS,
		},
	}, nil
}
