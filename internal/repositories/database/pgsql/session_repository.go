package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSessionRepository struct {
	BaseRepository
}

func newPgxSessionRepository(pool *pgxpool.Pool) portsrepo.SessionRepositoryFacade {
	return &PgxSessionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SessionRepositoryFacade = (*PgxSessionRepository)(nil)

func (r *PgxSessionRepository) SaveRefreshToken(ctx context.Context, tx pgx.Tx, cred domain.RefreshCredential) error {
	query := `
		INSERT INTO refresh_tokens (token_id, actor_id, token_hash, expires_at, created_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.conn(tx).Exec(ctx, query, cred.TokenID, cred.ActorID, cred.TokenHash, cred.ExpiresAt,
		cred.CreatedAt, cred.IPAddress, cred.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", mapPgError(err))
	}
	return nil
}

// FindRefreshTokenForUpdate looks a token up by its exact hash and locks the row.
func (r *PgxSessionRepository) FindRefreshTokenForUpdate(ctx context.Context, tx pgx.Tx, tokenHash string) (*domain.RefreshCredential, error) {
	query := `
		SELECT token_id, actor_id, token_hash, expires_at, created_at, ip_address, user_agent
		FROM refresh_tokens
		WHERE token_hash = $1
		FOR UPDATE;
	`
	var c domain.RefreshCredential
	err := r.conn(tx).QueryRow(ctx, query, tokenHash).Scan(&c.TokenID, &c.ActorID, &c.TokenHash, &c.ExpiresAt,
		&c.CreatedAt, &c.IPAddress, &c.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to find refresh token: %w", mapPgError(err))
	}
	return &c, nil
}

func (r *PgxSessionRepository) DeleteRefreshToken(ctx context.Context, tx pgx.Tx, tokenID string) error {
	if _, err := r.conn(tx).Exec(ctx, `DELETE FROM refresh_tokens WHERE token_id = $1`, tokenID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", mapPgError(err))
	}
	return nil
}

func (r *PgxSessionRepository) DeleteActorRefreshToken(ctx context.Context, tx pgx.Tx, actorID, tokenHash string) (int64, error) {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM refresh_tokens WHERE actor_id = $1 AND token_hash = $2`, actorID, tokenHash)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh token: %w", mapPgError(err))
	}
	return tag.RowsAffected(), nil
}

func (r *PgxSessionRepository) DeleteAllActorRefreshTokens(ctx context.Context, tx pgx.Tx, actorID string) (int64, error) {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM refresh_tokens WHERE actor_id = $1`, actorID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens of %s: %w", actorID, mapPgError(err))
	}
	return tag.RowsAffected(), nil
}

func (r *PgxSessionRepository) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired refresh tokens: %w", mapPgError(err))
	}
	return tag.RowsAffected(), nil
}

func (r *PgxSessionRepository) SaveLoginHistory(ctx context.Context, tx pgx.Tx, e domain.LoginHistory) error {
	query := `
		INSERT INTO login_history (id, actor_id, username, success, reason, ip_address, user_agent, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.conn(tx).Exec(ctx, query, e.ID, e.ActorID, e.Username, e.Success, e.Reason, e.IPAddress, e.UserAgent, e.AttemptedAt)
	if err != nil {
		return fmt.Errorf("failed to save login history: %w", mapPgError(err))
	}
	return nil
}

func (r *PgxSessionRepository) ListLoginHistory(ctx context.Context, actorID string, limit int) ([]domain.LoginHistory, error) {
	query := `
		SELECT id, actor_id, username, success, reason, ip_address, user_agent, attempted_at
		FROM login_history
		WHERE actor_id = $1
		ORDER BY attempted_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, actorID, normaliseLimit(limit, 50, 500))
	if err != nil {
		return nil, fmt.Errorf("failed to query login history: %w", mapPgError(err))
	}
	defer rows.Close()

	history := []domain.LoginHistory{}
	for rows.Next() {
		var h domain.LoginHistory
		if err := rows.Scan(&h.ID, &h.ActorID, &h.Username, &h.Success, &h.Reason, &h.IPAddress, &h.UserAgent, &h.AttemptedAt); err != nil {
			return nil, fmt.Errorf("failed to scan login history row: %w", mapPgError(err))
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating login history rows: %w", mapPgError(err))
	}
	return history, nil
}
