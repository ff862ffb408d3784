package service

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/common/validation"
	"flowclicker-backend/internal/features/claim/models"
	playerrepo "flowclicker-backend/internal/features/player/repository"
	"flowclicker-backend/internal/platform/chain"
)

// ClaimService is the authorization issuer and claim coordinator.
//
// Issuance decrements the pending counter by the signed snapshot instead of
// assigning zero, so clicks arriving during the read-sign window survive.
// Confirmation verifies the on-chain receipt and applies the event's amount
// and clicks to the ledger; it never touches the counter again.
type ClaimService interface {
	IssueAuthorization(ctx context.Context, player string) (*models.Authorization, error)
	ConfirmClaim(ctx context.Context, player, txHash string) (*models.ClaimResult, error)
}

type claimService struct {
	counter playerrepo.CounterRepository
	ledger  playerrepo.LedgerRepository
	oracle  ClaimOracle
	signer  ClaimSigner
	tokens  TokenIssuer
}

func NewClaimService(
	counter playerrepo.CounterRepository,
	ledger playerrepo.LedgerRepository,
	oracle ClaimOracle,
	signer ClaimSigner,
	tokens TokenIssuer,
) ClaimService {
	return &claimService{
		counter: counter,
		ledger:  ledger,
		oracle:  oracle,
		signer:  signer,
		tokens:  tokens,
	}
}

// IssueAuthorization walks READ_PENDING -> READ_NONCE -> SIGN ->
// DECREMENT_COUNTER -> ISSUE_TOKEN. Failures before the decrement leave every
// store untouched; failures after it are logged with full reconciliation
// detail because the held clicks are now bound to a signature the caller
// never received.
func (s *claimService) IssueAuthorization(ctx context.Context, player string) (*models.Authorization, error) {
	if err := validation.ValidateAddress(player); err != nil {
		return nil, apperrors.NewValidationError("player", err.Error())
	}
	player = validation.NormalizeAddress(player)

	// READ_PENDING
	clicks, err := s.counter.Get(ctx, player)
	if err != nil {
		return nil, apperrors.NewCacheError("get", err)
	}
	if clicks <= 0 {
		// Overlapping authorizations can briefly leave the counter below zero;
		// a non-positive count is never signable.
		return nil, apperrors.NewNoClicksError(player)
	}

	// READ_NONCE
	address := common.HexToAddress(player)
	nonce, err := s.oracle.NonceOf(ctx, address)
	if err != nil {
		return nil, err
	}

	// SIGN
	signature, err := s.signer.SignClaim(address, big.NewInt(clicks), nonce)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to sign claim authorization")
	}

	// DECREMENT_COUNTER: by the signed amount, not to zero, so clicks accrued
	// since READ_PENDING stay claimable next round.
	if err := s.counter.DecrementBy(ctx, player, clicks); err != nil {
		// Signature is discarded, clicks remain intact; caller can retry.
		return nil, apperrors.NewCacheError("decrementBy", err)
	}

	// ISSUE_TOKEN
	bearerToken, expiresAt, err := s.tokens.Issue(player, clicks)
	if err != nil {
		log.Error().
			Err(err).
			Str("player", player).
			Int64("clicks", clicks).
			Str("stage", "issue_token").
			Msg("Counter decremented but bearer token issuance failed; clicks need manual reconciliation")
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to issue bearer token")
	}

	log.Info().
		Str("player", player).
		Int64("clicks", clicks).
		Str("nonce", nonce.String()).
		Msg("Claim authorization issued")

	return &models.Authorization{
		Player:    player,
		Clicks:    clicks,
		Nonce:     nonce.String(),
		Signature: signature,
		Token:     bearerToken,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// ConfirmClaim applies a mined claim transaction to the ledger. The on-chain
// event is the authority: client-supplied amounts are never trusted and the
// receipt must carry a Claimed event from the token contract for the
// authenticated player. Verification failure changes nothing anywhere.
func (s *claimService) ConfirmClaim(ctx context.Context, player, txHash string) (*models.ClaimResult, error) {
	if err := validation.ValidateTxHash(txHash); err != nil {
		return nil, apperrors.NewValidationError("txHash", err.Error())
	}
	player = validation.NormalizeAddress(player)
	txHash = strings.ToLower(txHash)

	receipt, err := s.oracle.GetReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, chain.ErrReceiptNotFound) {
			return nil, apperrors.NewVerificationError("transaction receipt not found")
		}
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, apperrors.NewVerificationError("transaction reverted")
	}

	event, err := s.oracle.DecodeClaimEvent(receipt)
	if err != nil {
		if errors.Is(err, chain.ErrEventNotFound) {
			return nil, apperrors.NewVerificationError("no claim event emitted by the token contract")
		}
		return nil, err
	}

	eventPlayer := validation.NormalizeAddress(event.Player.Hex())
	if eventPlayer != player {
		log.Warn().
			Str("player", player).
			Str("event_player", eventPlayer).
			Str("tx_hash", txHash).
			Msg("Claim event player mismatch")
		return nil, apperrors.NewVerificationError("claim event player does not match authenticated player")
	}

	// Verification passed; the on-chain transfer is irreversible from here on.
	// Any store failure below is surfaced, never rolled back, and logged with
	// enough detail for manual reconciliation.
	if _, err := s.ledger.CreateIfAbsent(ctx, player, ""); err != nil {
		s.logReconciliation(player, event, txHash, "create_player", err)
		return nil, apperrors.NewLedgerWriteError(player, err)
	}

	totals, applied, err := s.ledger.ApplyClaim(ctx, player, event.Amount, event.Clicks.Int64(), txHash)
	if err != nil {
		s.logReconciliation(player, event, txHash, "apply_claim", err)
		return nil, apperrors.NewLedgerWriteError(player, err)
	}

	if !applied {
		log.Info().
			Str("player", player).
			Str("tx_hash", txHash).
			Msg("Claim transaction already credited, coalescing")
		return &models.ClaimResult{
			Success:         true,
			ClaimedAmount:   "0",
			ClaimedClicks:   0,
			NewTotalClaimed: totals.TotalClaimed.String(),
		}, nil
	}

	log.Info().
		Str("player", player).
		Str("amount", event.Amount.String()).
		Int64("clicks", event.Clicks.Int64()).
		Str("tx_hash", txHash).
		Msg("Claim applied to ledger")

	return &models.ClaimResult{
		Success:         true,
		ClaimedAmount:   event.Amount.String(),
		ClaimedClicks:   event.Clicks.Int64(),
		NewTotalClaimed: totals.TotalClaimed.String(),
	}, nil
}

func (s *claimService) logReconciliation(player string, event *chain.ClaimEvent, txHash, stage string, err error) {
	log.Error().
		Err(err).
		Str("player", player).
		Str("amount", event.Amount.String()).
		Int64("clicks", event.Clicks.Int64()).
		Str("tx_hash", txHash).
		Str("stage", stage).
		Msg("Ledger write failed after on-chain verification; manual reconciliation required")
}
