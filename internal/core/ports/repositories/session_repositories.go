package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// RefreshTokenStore persists refresh credentials by hash.
type RefreshTokenStore interface {
	SaveRefreshToken(ctx context.Context, tx pgx.Tx, cred domain.RefreshCredential) error
	// FindRefreshTokenForUpdate loads and row-locks the credential with the given hash.
	FindRefreshTokenForUpdate(ctx context.Context, tx pgx.Tx, tokenHash string) (*domain.RefreshCredential, error)
	DeleteRefreshToken(ctx context.Context, tx pgx.Tx, tokenID string) error
	// DeleteActorRefreshToken deletes the credential with tokenHash only if actorID owns it.
	DeleteActorRefreshToken(ctx context.Context, tx pgx.Tx, actorID, tokenHash string) (int64, error)
	DeleteAllActorRefreshTokens(ctx context.Context, tx pgx.Tx, actorID string) (int64, error)
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}

// LoginHistoryStore persists login attempts.
type LoginHistoryStore interface {
	SaveLoginHistory(ctx context.Context, tx pgx.Tx, entry domain.LoginHistory) error
	ListLoginHistory(ctx context.Context, actorID string, limit int) ([]domain.LoginHistory, error)
}

// SessionRepositoryFacade combines refresh token and login history storage
type SessionRepositoryFacade interface {
	RefreshTokenStore
	LoginHistoryStore
}
