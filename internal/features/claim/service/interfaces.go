package service

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"flowclicker-backend/internal/platform/chain"
)

// ClaimOracle is the chain view the claim workflow depends on.
type ClaimOracle interface {
	NonceOf(ctx context.Context, player common.Address) (*big.Int, error)
	GetReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	DecodeClaimEvent(receipt *types.Receipt) (*chain.ClaimEvent, error)
}

// ClaimSigner produces the typed-data signature the contract verifies.
type ClaimSigner interface {
	SignClaim(player common.Address, clicks, nonce *big.Int) (string, error)
}

// TokenIssuer mints the bearer credential for the follow-up /claim call.
type TokenIssuer interface {
	Issue(player string, clicks int64) (string, time.Time, error)
}
