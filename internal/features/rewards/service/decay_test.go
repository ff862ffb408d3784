package service

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowclicker-backend/internal/platform/chain"
)

func testSchedule() *chain.Schedule {
	// 10 tokens/click decaying to 1 token/click over 90 days.
	return &chain.Schedule{
		InitialReward:   mustBig("10000000000000000000"),
		FinalReward:     mustBig("1000000000000000000"),
		DurationSeconds: 90 * 86400,
		LaunchTimestamp: 1_700_000_000,
	}
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big int literal: " + s)
	}
	return v
}

func TestRewardAtBounds(t *testing.T) {
	s := testSchedule()

	assert.Equal(t, s.InitialReward, RewardAt(s, 0))
	assert.Equal(t, s.FinalReward, RewardAt(s, s.DurationSeconds))
	assert.Equal(t, s.FinalReward, RewardAt(s, s.DurationSeconds+1))
	assert.Equal(t, s.FinalReward, RewardAt(s, s.DurationSeconds*10))

	// Negative elapsed clamps to launch.
	assert.Equal(t, s.InitialReward, RewardAt(s, -100))
}

func TestRewardAtMonotonicallyNonIncreasing(t *testing.T) {
	s := testSchedule()

	prev := RewardAt(s, 0)
	for elapsed := int64(0); elapsed <= s.DurationSeconds; elapsed += s.DurationSeconds / 1000 {
		current := RewardAt(s, elapsed)
		require.LessOrEqual(t, current.Cmp(prev), 0, "reward increased at elapsed=%d", elapsed)
		prev = current
	}
}

func TestRewardAtMidpoint(t *testing.T) {
	s := testSchedule()

	// Halfway through the window the reward is exactly halfway between
	// initial and final: 10 - (10-1)*0.5 = 5.5 tokens.
	mid := RewardAt(s, s.DurationSeconds/2)
	assert.Equal(t, mustBig("5500000000000000000"), mid)
}

func TestRewardAtZeroDuration(t *testing.T) {
	s := testSchedule()
	s.DurationSeconds = 0

	assert.Equal(t, s.FinalReward, RewardAt(s, 0))
}

func TestClaimableAmountExact(t *testing.T) {
	s := testSchedule()
	now := s.LaunchTimestamp // elapsed 0, reward == initial

	got := ClaimableAmount(s, 50, now)
	want := new(big.Int).Mul(s.InitialReward, big.NewInt(50))
	assert.Equal(t, want, got)

	// Repeated calls at the same timestamp produce identical results.
	assert.Equal(t, got, ClaimableAmount(s, 50, now))

	assert.Equal(t, int64(0), ClaimableAmount(s, 0, now).Int64())
}

func TestClaimableAmountMatchesReward(t *testing.T) {
	s := testSchedule()

	for _, clicks := range []int64{1, 7, 50, 100000} {
		now := s.LaunchTimestamp + s.DurationSeconds/3
		reward := RewardAt(s, now-s.LaunchTimestamp)
		want := new(big.Int).Mul(reward, big.NewInt(clicks))
		assert.Equal(t, want, ClaimableAmount(s, clicks, now))
	}
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		wei      string
		decimals uint8
		want     string
	}{
		{"zero", "0", 18, "0"},
		{"one token", "1000000000000000000", 18, "1"},
		{"fraction", "1500000000000000000", 18, "1.5"},
		{"sub unit", "1", 18, "0.000000000000000001"},
		{"trailing zeros trimmed", "1230000000000000000", 18, "1.23"},
		{"no decimals", "42", 0, "42"},
		{"six decimals", "1234567", 6, "1.234567"},
		{"negative", "-2500000000000000000", 18, "-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUnits(mustBig(tt.wei), tt.decimals))
		})
	}
}
