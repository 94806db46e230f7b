package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"arcadebot/database"
	"arcadebot/models"
)

// queryable abstracts over a pool and a transaction
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists users, daily claims, and the ledger audit log in
// PostgreSQL.
type PostgresStore struct {
	q queryable
}

// NewPostgresStore creates a store over the given connection pool.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{q: db.Pool}
}

// NewPostgresStoreWithTx creates a store bound to an open transaction, so a
// batch of writes commits or rolls back as one unit.
func NewPostgresStoreWithTx(tx pgx.Tx) *PostgresStore {
	return &PostgresStore{q: tx}
}

const userColumns = `
	user_id,
	username,
	credits,
	is_premium,
	premium_expiry,
	games_played,
	games_won,
	total_earnings,
	created_at,
	updated_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Credits,
		&user.IsPremium,
		&user.PremiumExpiry,
		&user.GamesPlayed,
		&user.GamesWon,
		&user.TotalEarnings,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser retrieves a user by ID, returning nil when absent.
func (s *PostgresStore) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(s.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username, returning nil when absent.
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`

	user, err := scanUser(s.q.QueryRow(ctx, query, username))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return user, nil
}

// PutUser upserts the full user record.
func (s *PostgresStore) PutUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (user_id, username, credits, is_premium, premium_expiry,
			games_played, games_won, total_earnings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			credits = EXCLUDED.credits,
			is_premium = EXCLUDED.is_premium,
			premium_expiry = EXCLUDED.premium_expiry,
			games_played = EXCLUDED.games_played,
			games_won = EXCLUDED.games_won,
			total_earnings = EXCLUDED.total_earnings,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.q.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Credits,
		user.IsPremium,
		user.PremiumExpiry,
		user.GamesPlayed,
		user.GamesWon,
		user.TotalEarnings,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put user %d: %w", user.ID, err)
	}
	return nil
}

// AllUsers returns every user record.
func (s *PostgresStore) AllUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// AppendLedgerEntry writes an audit record for a balance change.
func (s *PostgresStore) AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_log (user_id, delta, balance_after, reason, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.q.Exec(ctx, query,
		entry.UserID,
		entry.Delta,
		entry.BalanceAfter,
		entry.Reason,
		entry.Metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry for user %d: %w", entry.UserID, err)
	}
	return nil
}

// LastClaim returns the user's most recent daily claim date as YYYY-MM-DD,
// or "" if the user has never claimed.
func (s *PostgresStore) LastClaim(ctx context.Context, userID int64) (string, error) {
	query := `SELECT to_char(claim_date, 'YYYY-MM-DD') FROM daily_claims WHERE user_id = $1`

	var date string
	err := s.q.QueryRow(ctx, query, userID).Scan(&date)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last claim for user %d: %w", userID, err)
	}
	return date, nil
}

// PutClaim records the user's claim date, replacing any previous one.
func (s *PostgresStore) PutClaim(ctx context.Context, userID int64, date string) error {
	query := `
		INSERT INTO daily_claims (user_id, claim_date, updated_at)
		VALUES ($1, $2::date, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			claim_date = EXCLUDED.claim_date,
			updated_at = NOW()
	`

	_, err := s.q.Exec(ctx, query, userID, date)
	if err != nil {
		return fmt.Errorf("failed to put claim for user %d: %w", userID, err)
	}
	return nil
}
