package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/common/validation"
	"flowclicker-backend/internal/features/player/models"
	"flowclicker-backend/internal/features/player/repository"
)

type PlayerService interface {
	// RegisterClick bumps the pending-click counter and, best effort, the
	// durable total_clicks. Returns the new pending count.
	RegisterClick(ctx context.Context, player, country string) (int64, error)
	PendingClicks(ctx context.Context, player string) (int64, error)
	GetPlayer(ctx context.Context, address string) (*models.PlayerResponse, error)
}

type playerService struct {
	counter repository.CounterRepository
	ledger  repository.LedgerRepository
}

func NewPlayerService(counter repository.CounterRepository, ledger repository.LedgerRepository) PlayerService {
	return &playerService{
		counter: counter,
		ledger:  ledger,
	}
}

func (s *playerService) RegisterClick(ctx context.Context, player, country string) (int64, error) {
	if err := validation.ValidateAddress(player); err != nil {
		return 0, apperrors.NewValidationError("userId", err.Error())
	}
	if err := validation.ValidateCountry(country); err != nil {
		return 0, apperrors.NewValidationError("country", err.Error())
	}
	player = validation.NormalizeAddress(player)

	// Counter first, fail closed: a click the counter did not record does not
	// exist, so the UI can revert its optimistic increment.
	count, err := s.counter.Increment(ctx, player)
	if err != nil {
		return 0, apperrors.NewCacheError("increment", err)
	}

	// Ledger increment is best effort; a miss here skews lifetime stats, not
	// claimable value.
	if err := s.ledger.ApplyClickIncrement(ctx, player, country); err != nil {
		log.Warn().Err(err).Str("player", player).Msg("Ledger click increment failed")
	}

	return count, nil
}

func (s *playerService) PendingClicks(ctx context.Context, player string) (int64, error) {
	if err := validation.ValidateAddress(player); err != nil {
		return 0, apperrors.NewValidationError("player", err.Error())
	}

	count, err := s.counter.Get(ctx, validation.NormalizeAddress(player))
	if err != nil {
		return 0, apperrors.NewCacheError("get", err)
	}
	return count, nil
}

func (s *playerService) GetPlayer(ctx context.Context, address string) (*models.PlayerResponse, error) {
	if err := validation.ValidateAddress(address); err != nil {
		return nil, apperrors.NewValidationError("address", err.Error())
	}

	player, err := s.ledger.GetTotals(ctx, validation.NormalizeAddress(address))
	if err != nil {
		if err == repository.ErrPlayerNotFound {
			return nil, apperrors.New(apperrors.ErrCodePlayerNotFound, "Player not found")
		}
		return nil, apperrors.NewDatabaseError("getTotals", err)
	}
	return player.ToResponse(), nil
}
