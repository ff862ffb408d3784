package service

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/common/validation"
	"flowclicker-backend/internal/features/rewards/models"
	"flowclicker-backend/internal/platform/chain"
)

// scheduleTTL bounds how stale the cached on-chain schedule may be. The
// fields are contract constants, so the TTL mainly saves four RPC reads per
// preview request.
const scheduleTTL = 10 * time.Second

// ScheduleReader is the oracle slice the rewards service needs.
type ScheduleReader interface {
	DecaySchedule(ctx context.Context) (*chain.Schedule, error)
	Decimals(ctx context.Context) (uint8, error)
	CurrentReward(ctx context.Context) (*big.Int, error)
}

type RewardsService interface {
	// ClaimablePreview computes the claimable amount for N pending clicks at
	// the current reward rate. Pure preview, touches no store.
	ClaimablePreview(ctx context.Context, clicks int64) (*models.ClaimableResponse, error)

	// Schedule returns the cached decay schedule and token decimals.
	Schedule(ctx context.Context) (*chain.Schedule, uint8, error)
}

type rewardsService struct {
	oracle ScheduleReader
	now    func() time.Time

	mu        sync.Mutex
	cached    *chain.Schedule
	decimals  uint8
	fetchedAt time.Time
}

func NewRewardsService(oracle ScheduleReader) RewardsService {
	return &rewardsService{
		oracle: oracle,
		now:    time.Now,
	}
}

// NewRewardsServiceWithClock allows tests to pin time.
func NewRewardsServiceWithClock(oracle ScheduleReader, now func() time.Time) RewardsService {
	return &rewardsService{
		oracle: oracle,
		now:    now,
	}
}

func (s *rewardsService) Schedule(ctx context.Context) (*chain.Schedule, uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Sub(s.fetchedAt) < scheduleTTL {
		return s.cached, s.decimals, nil
	}

	schedule, err := s.oracle.DecaySchedule(ctx)
	if err != nil {
		return nil, 0, err
	}
	decimals, err := s.oracle.Decimals(ctx)
	if err != nil {
		return nil, 0, err
	}

	s.cached = schedule
	s.decimals = decimals
	s.fetchedAt = s.now()

	// Cross-check the local decay math against the contract's own view on
	// every refresh. A mismatch means the schedule constants drifted from the
	// deployed contract; previews would quote amounts the claim cannot pay.
	if onchain, err := s.oracle.CurrentReward(ctx); err == nil {
		local := RewardAt(schedule, s.now().Unix()-schedule.LaunchTimestamp)
		if onchain.Cmp(local) != 0 {
			log.Warn().
				Str("onchain", onchain.String()).
				Str("local", local.String()).
				Msg("Local reward calculation diverges from getCurrentReward")
		}
	}

	return schedule, decimals, nil
}

func (s *rewardsService) ClaimablePreview(ctx context.Context, clicks int64) (*models.ClaimableResponse, error) {
	if err := validation.ValidateClicks(clicks); err != nil {
		return nil, apperrors.NewValidationError("clicks", err.Error())
	}

	schedule, decimals, err := s.Schedule(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().Unix()
	reward := RewardAt(schedule, now-schedule.LaunchTimestamp)
	claimable := ClaimableAmount(schedule, clicks, now)

	return &models.ClaimableResponse{
		ClaimableAmount:       FormatUnits(claimable, decimals),
		CurrentRewardPerClick: FormatUnits(reward, decimals),
		Decay: models.DecayInfo{
			InitialReward:       FormatUnits(schedule.InitialReward, decimals),
			FinalReward:         FormatUnits(schedule.FinalReward, decimals),
			DecayDurationInDays: float64(schedule.DurationSeconds) / 86400,
			LaunchTimestamp:     schedule.LaunchTimestamp,
		},
	}, nil
}
