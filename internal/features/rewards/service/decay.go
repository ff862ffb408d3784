package service

import (
	"math/big"
	"strings"

	"flowclicker-backend/internal/platform/chain"
)

// RewardAt returns reward-per-click in wei after elapsed seconds, linearly
// interpolated from initial to final over the schedule duration. Pure integer
// arithmetic: amounts are fixed-point on-chain values and must not drift.
func RewardAt(s *chain.Schedule, elapsedSeconds int64) *big.Int {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	if s.DurationSeconds <= 0 || elapsedSeconds >= s.DurationSeconds {
		return new(big.Int).Set(s.FinalReward)
	}

	// initial - (initial - final) * elapsed / duration
	drop := new(big.Int).Sub(s.InitialReward, s.FinalReward)
	drop.Mul(drop, big.NewInt(elapsedSeconds))
	drop.Quo(drop, big.NewInt(s.DurationSeconds))
	return new(big.Int).Sub(s.InitialReward, drop)
}

// ClaimableAmount is clicks * RewardAt. Safe to call speculatively; touches
// no store.
func ClaimableAmount(s *chain.Schedule, clicks int64, nowUnix int64) *big.Int {
	reward := RewardAt(s, nowUnix-s.LaunchTimestamp)
	return reward.Mul(reward, big.NewInt(clicks))
}

// FormatUnits renders a wei amount as a decimal token string, the inverse of
// multiplying by 10^decimals. Trailing fractional zeros are trimmed.
func FormatUnits(wei *big.Int, decimals uint8) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}

	neg := wei.Sign() < 0
	s := new(big.Int).Abs(wei).String()

	d := int(decimals)
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}

	intPart := s[:len(s)-d]
	fracPart := strings.TrimRight(s[len(s)-d:], "0")

	out := intPart
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
