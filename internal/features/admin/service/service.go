package service

import (
	"context"
	"crypto/subtle"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/common/validation"
	playerrepo "flowclicker-backend/internal/features/player/repository"
)

// BalanceReader is the oracle slice the admin endpoints need.
type BalanceReader interface {
	BalanceOf(ctx context.Context, address common.Address) (*big.Int, error)
}

type AdminService interface {
	// SyncBalance overwrites the player's onchain_balance column with the
	// authoritative balanceOf read. Never touches total_claimed.
	SyncBalance(ctx context.Context, player string) (*big.Int, error)

	// ResetAll wipes every pending counter and zeroes the ledger totals.
	ResetAll(ctx context.Context, secret string) error
}

type adminService struct {
	counter     playerrepo.CounterRepository
	ledger      playerrepo.LedgerRepository
	oracle      BalanceReader
	resetSecret string
}

func NewAdminService(counter playerrepo.CounterRepository, ledger playerrepo.LedgerRepository, oracle BalanceReader, resetSecret string) AdminService {
	return &adminService{
		counter:     counter,
		ledger:      ledger,
		oracle:      oracle,
		resetSecret: resetSecret,
	}
}

func (s *adminService) SyncBalance(ctx context.Context, player string) (*big.Int, error) {
	if err := validation.ValidateAddress(player); err != nil {
		return nil, apperrors.NewValidationError("userId", err.Error())
	}
	player = validation.NormalizeAddress(player)

	balance, err := s.oracle.BalanceOf(ctx, common.HexToAddress(player))
	if err != nil {
		return nil, err
	}

	if err := s.ledger.SetOnchainBalance(ctx, player, balance); err != nil {
		if err == playerrepo.ErrPlayerNotFound {
			return nil, apperrors.New(apperrors.ErrCodePlayerNotFound, "Player not found")
		}
		return nil, apperrors.NewDatabaseError("setOnchainBalance", err)
	}

	log.Info().
		Str("player", player).
		Str("balance", balance.String()).
		Msg("Onchain balance synced")
	return balance, nil
}

func (s *adminService) ResetAll(ctx context.Context, secret string) error {
	if s.resetSecret == "" {
		return apperrors.New(apperrors.ErrCodeForbidden, "Reset is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.resetSecret)) != 1 {
		return apperrors.NewUnauthorizedError("invalid reset secret")
	}

	deleted, err := s.counter.ResetAll(ctx)
	if err != nil {
		return apperrors.NewCacheError("resetAll", err)
	}

	if err := s.ledger.ResetAll(ctx); err != nil {
		return apperrors.NewDatabaseError("resetAll", err)
	}

	log.Warn().
		Int64("counters_deleted", deleted).
		Msg("All game data reset")
	return nil
}
