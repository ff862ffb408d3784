package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	_ "github.com/lib/pq"

	"flowclicker-backend/internal/features/player/models"
	"flowclicker-backend/internal/features/player/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository returns the postgres-backed ledger store.
func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

// EnsureSchema creates the ledger tables and the claim_rewards function if
// they do not exist yet. Idempotent, safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			country         TEXT NOT NULL DEFAULT '',
			total_clicks    BIGINT NOT NULL DEFAULT 0,
			-- Cumulative wei ever claimed through the game. Monotonically
			-- non-decreasing; updated only by claim_rewards().
			total_claimed   NUMERIC(78,0) NOT NULL DEFAULT 0,
			claimed_clicks  BIGINT NOT NULL DEFAULT 0,
			-- Live wallet balance, refreshed by the balance-sync endpoint.
			-- Can decrease when the player transfers tokens out.
			onchain_balance NUMERIC(78,0) NOT NULL DEFAULT 0,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS claims (
			tx_hash    TEXT PRIMARY KEY,
			player     TEXT NOT NULL REFERENCES users(id),
			amount     NUMERIC(78,0) NOT NULL,
			clicks     BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE OR REPLACE FUNCTION claim_rewards(p_player TEXT, p_amount NUMERIC, p_clicks BIGINT, p_tx_hash TEXT)
		RETURNS TABLE(applied BOOLEAN, total_clicks BIGINT, total_claimed NUMERIC, claimed_clicks BIGINT) AS $$
		DECLARE
			inserted BOOLEAN;
		BEGIN
			INSERT INTO claims (tx_hash, player, amount, clicks)
			VALUES (p_tx_hash, p_player, p_amount, p_clicks)
			ON CONFLICT (tx_hash) DO NOTHING;
			inserted := FOUND;

			IF inserted THEN
				UPDATE users
				SET total_claimed  = users.total_claimed + p_amount,
					claimed_clicks = users.claimed_clicks + p_clicks,
					updated_at     = NOW()
				WHERE users.id = p_player;
			END IF;

			RETURN QUERY
			SELECT inserted, u.total_clicks, u.total_claimed, u.claimed_clicks
			FROM users u WHERE u.id = p_player;
		END;
		$$ LANGUAGE plpgsql`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *ledgerRepository) GetTotals(ctx context.Context, player string) (*models.Player, error) {
	query := `
		SELECT id, country, total_clicks, total_claimed, claimed_clicks, onchain_balance, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var (
		p              models.Player
		totalClaimed   string
		onchainBalance string
	)
	err := r.db.QueryRowContext(ctx, query, player).Scan(
		&p.Address, &p.Country, &p.TotalClicks, &totalClaimed,
		&p.ClaimedClicks, &onchainBalance, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if p.TotalClaimed, err = parseNumeric(totalClaimed); err != nil {
		return nil, err
	}
	if p.OnchainBalance, err = parseNumeric(onchainBalance); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateIfAbsent provisions a zeroed row on first contact. Concurrent first
// touches resolve to the existing row via ON CONFLICT.
func (r *ledgerRepository) CreateIfAbsent(ctx context.Context, player, country string) (*models.Player, error) {
	query := `
		INSERT INTO users (id, country)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, player, country); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return r.GetTotals(ctx, player)
}

func (r *ledgerRepository) ApplyClickIncrement(ctx context.Context, player, country string) error {
	query := `
		INSERT INTO users (id, country, total_clicks)
		VALUES ($1, $2, 1)
		ON CONFLICT (id) DO UPDATE SET
			total_clicks = users.total_clicks + 1,
			updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, player, country); err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}
	return nil
}

func (r *ledgerRepository) ApplyClaim(ctx context.Context, player string, amount *big.Int, clicks int64, txHash string) (*models.Player, bool, error) {
	query := `SELECT applied, total_clicks, total_claimed, claimed_clicks FROM claim_rewards($1, $2, $3, $4)`

	var (
		applied      bool
		totalClicks  int64
		totalClaimed string
		claimedCount int64
	)
	err := r.db.QueryRowContext(ctx, query, player, amount.String(), clicks, txHash).Scan(
		&applied, &totalClicks, &totalClaimed, &claimedCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, repository.ErrPlayerNotFound
		}
		return nil, false, fmt.Errorf("claim_rewards failed: %w", err)
	}

	claimed, err := parseNumeric(totalClaimed)
	if err != nil {
		return nil, false, err
	}

	return &models.Player{
		Address:       player,
		TotalClicks:   totalClicks,
		TotalClaimed:  claimed,
		ClaimedClicks: claimedCount,
	}, applied, nil
}

func (r *ledgerRepository) SetOnchainBalance(ctx context.Context, player string, balance *big.Int) error {
	query := `UPDATE users SET onchain_balance = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, player, balance.String())
	if err != nil {
		return fmt.Errorf("failed to set onchain balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrPlayerNotFound
	}
	return nil
}

func (r *ledgerRepository) SumTotalClicks(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_clicks), 0) FROM users`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum clicks: %w", err)
	}
	return sum, nil
}

// ResetAll zeroes every counter. Claims history is kept for reconciliation.
func (r *ledgerRepository) ResetAll(ctx context.Context) error {
	query := `UPDATE users SET total_clicks = 0, total_claimed = 0, claimed_clicks = 0, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	return nil
}

func parseNumeric(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid numeric value %q", s)
	}
	return v, nil
}
