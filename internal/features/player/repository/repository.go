package repository

import (
	"context"
	"errors"
	"math/big"

	"flowclicker-backend/internal/features/player/models"
)

// ErrPlayerNotFound is returned by GetTotals for an address that has never
// touched the ledger.
var ErrPlayerNotFound = errors.New("player not found")

// CounterRepository is the per-player pending-click counter: the source of
// truth for "accrued but not yet claimed". Increments must be atomic across
// concurrent tabs; compensations decrement by a known amount, never assign.
type CounterRepository interface {
	Increment(ctx context.Context, player string) (int64, error)
	Get(ctx context.Context, player string) (int64, error)
	DecrementBy(ctx context.Context, player string, n int64) error
	Reset(ctx context.Context, player string) error
	ResetAll(ctx context.Context) (int64, error)
}

// LedgerRepository is the durable per-player totals store.
type LedgerRepository interface {
	GetTotals(ctx context.Context, player string) (*models.Player, error)
	CreateIfAbsent(ctx context.Context, player, country string) (*models.Player, error)
	ApplyClickIncrement(ctx context.Context, player, country string) error

	// ApplyClaim runs the atomic claim_rewards function. The returned bool is
	// false when the tx hash was already credited, in which case the totals
	// are returned unchanged.
	ApplyClaim(ctx context.Context, player string, amount *big.Int, clicks int64, txHash string) (*models.Player, bool, error)

	SetOnchainBalance(ctx context.Context, player string, balance *big.Int) error
	SumTotalClicks(ctx context.Context) (int64, error)
	ResetAll(ctx context.Context) error
}
