package models

// Authorization is the issuer's output: everything the player's wallet needs
// to submit claimRewards on-chain, plus the bearer token for the follow-up
// /claim call. Never persisted server-side.
type Authorization struct {
	Player    string `json:"player"`
	Clicks    int64  `json:"clicks"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// ClaimResult reflects the true final ledger state after reconciliation.
// ClaimedAmount/ClaimedClicks are zero when the transaction had already been
// credited (duplicate confirmation).
type ClaimResult struct {
	Success         bool   `json:"success"`
	ClaimedAmount   string `json:"claimedAmount"`
	ClaimedClicks   int64  `json:"claimedClicks"`
	NewTotalClaimed string `json:"new_total_claimed"`
}

type SignatureRequest struct {
	Player string `json:"player" binding:"required"`
}

type ConfirmRequest struct {
	TxHash string `json:"txHash" binding:"required"`
}
