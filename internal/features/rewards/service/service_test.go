package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/platform/chain"
)

type fakeScheduleReader struct {
	schedule      *chain.Schedule
	decimals      uint8
	onchainReward *big.Int
	err           error
	callCount     int
	rewardCalls   int
}

func (f *fakeScheduleReader) DecaySchedule(ctx context.Context) (*chain.Schedule, error) {
	f.callCount++
	if f.err != nil {
		return nil, f.err
	}
	return f.schedule, nil
}

func (f *fakeScheduleReader) Decimals(ctx context.Context) (uint8, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.decimals, nil
}

func (f *fakeScheduleReader) CurrentReward(ctx context.Context) (*big.Int, error) {
	f.rewardCalls++
	if f.err != nil {
		return nil, f.err
	}
	if f.onchainReward != nil {
		return f.onchainReward, nil
	}
	return f.schedule.InitialReward, nil
}

func setupRewards(t *testing.T, nowUnix int64) (*fakeScheduleReader, RewardsService) {
	t.Helper()
	oracle := &fakeScheduleReader{schedule: testSchedule(), decimals: 18}
	svc := NewRewardsServiceWithClock(oracle, func() time.Time {
		return time.Unix(nowUnix, 0)
	})
	return oracle, svc
}

func TestClaimablePreviewAtLaunch(t *testing.T) {
	s := testSchedule()
	_, svc := setupRewards(t, s.LaunchTimestamp)

	preview, err := svc.ClaimablePreview(context.Background(), 50)
	require.NoError(t, err)

	// 50 clicks at 10 tokens each.
	assert.Equal(t, "500", preview.ClaimableAmount)
	assert.Equal(t, "10", preview.CurrentRewardPerClick)
	assert.Equal(t, "10", preview.Decay.InitialReward)
	assert.Equal(t, "1", preview.Decay.FinalReward)
	assert.Equal(t, float64(90), preview.Decay.DecayDurationInDays)
	assert.Equal(t, s.LaunchTimestamp, preview.Decay.LaunchTimestamp)
}

func TestClaimablePreviewAfterDecay(t *testing.T) {
	s := testSchedule()
	_, svc := setupRewards(t, s.LaunchTimestamp+s.DurationSeconds+1)

	preview, err := svc.ClaimablePreview(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "3", preview.ClaimableAmount)
	assert.Equal(t, "1", preview.CurrentRewardPerClick)
}

func TestClaimablePreviewZeroClicks(t *testing.T) {
	s := testSchedule()
	_, svc := setupRewards(t, s.LaunchTimestamp)

	preview, err := svc.ClaimablePreview(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "0", preview.ClaimableAmount)
}

func TestClaimablePreviewNegativeClicks(t *testing.T) {
	s := testSchedule()
	_, svc := setupRewards(t, s.LaunchTimestamp)

	_, err := svc.ClaimablePreview(context.Background(), -1)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestScheduleCached(t *testing.T) {
	s := testSchedule()
	oracle, svc := setupRewards(t, s.LaunchTimestamp)

	_, _, err := svc.Schedule(context.Background())
	require.NoError(t, err)
	_, _, err = svc.Schedule(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, oracle.callCount, "second read within TTL must hit the cache")
}

func TestScheduleCrossChecksContractReward(t *testing.T) {
	s := testSchedule()
	oracle, svc := setupRewards(t, s.LaunchTimestamp)

	_, _, err := svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, oracle.rewardCalls, "refresh must read getCurrentReward")

	_, _, err = svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, oracle.rewardCalls, "cache hit must not re-read")
}

func TestScheduleDivergentContractRewardStillServes(t *testing.T) {
	// A drifted getCurrentReward is logged, never fatal: the preview keeps
	// working from the schedule constants.
	s := testSchedule()
	oracle, svc := setupRewards(t, s.LaunchTimestamp)
	oracle.onchainReward = mustBig("999")

	schedule, decimals, err := svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(18), decimals)
	assert.Equal(t, s.InitialReward, schedule.InitialReward)
}

func TestScheduleOracleDown(t *testing.T) {
	oracle := &fakeScheduleReader{err: errors.New("rpc timeout")}
	svc := NewRewardsService(oracle)

	_, _, err := svc.Schedule(context.Background())
	require.Error(t, err)
}
