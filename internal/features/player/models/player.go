package models

import (
	"math/big"
	"time"
)

// Player is a ledger row keyed by the normalized wallet address.
//
// TotalClaimed is the cumulative amount of wei ever claimed through the game
// and is monotonically non-decreasing; it is updated only by the atomic
// claim_rewards database function. The live wallet balance, which can go down
// when the player transfers tokens out, is tracked separately in
// OnchainBalance.
type Player struct {
	Address        string
	Country        string
	TotalClicks    int64
	TotalClaimed   *big.Int
	ClaimedClicks  int64
	OnchainBalance *big.Int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PlayerResponse is the API shape of a ledger row. Wei amounts travel as
// decimal strings because they exceed every JSON-safe integer range.
type PlayerResponse struct {
	Address        string `json:"address"`
	Country        string `json:"country,omitempty"`
	TotalClicks    int64  `json:"totalClicks"`
	TotalClaimed   string `json:"totalClaimed"`
	ClaimedClicks  int64  `json:"claimedClicks"`
	OnchainBalance string `json:"onchainBalance"`
}

// ToResponse converts a ledger row to its API shape.
func (p *Player) ToResponse() *PlayerResponse {
	return &PlayerResponse{
		Address:        p.Address,
		Country:        p.Country,
		TotalClicks:    p.TotalClicks,
		TotalClaimed:   bigString(p.TotalClaimed),
		ClaimedClicks:  p.ClaimedClicks,
		OnchainBalance: bigString(p.OnchainBalance),
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
