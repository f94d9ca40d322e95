package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ActorReader defines read operations for actors
type ActorReader interface {
	FindActorByID(ctx context.Context, actorID string) (*domain.Actor, error)
	FindActorByUsername(ctx context.Context, username string) (*domain.Actor, error)
	FindActorByEmail(ctx context.Context, email string) (*domain.Actor, error)
	ListActors(ctx context.Context, filter domain.ListFilter) ([]domain.Actor, error)
	CountActors(ctx context.Context) (int64, error)
	// CountOwnedRecords counts financial records created by the actor.
	CountOwnedRecords(ctx context.Context, tx pgx.Tx, actorID string) (int64, error)
}

// ActorWriter defines write operations for actors
type ActorWriter interface {
	SaveActor(ctx context.Context, tx pgx.Tx, actor domain.Actor) error
	UpdateActor(ctx context.Context, tx pgx.Tx, actor domain.Actor) error
	DeleteActor(ctx context.Context, tx pgx.Tx, actorID string) error
}

// ActorLoginManager defines the bookkeeping done while authenticating. Every method must
// be called inside the login transaction.
type ActorLoginManager interface {
	// FindActorByUsernameForUpdate loads and row-locks the actor.
	FindActorByUsernameForUpdate(ctx context.Context, tx pgx.Tx, username string) (*domain.Actor, error)
	// FindActorByEmailForUpdate loads and row-locks the actor with the given email.
	FindActorByEmailForUpdate(ctx context.Context, tx pgx.Tx, email string) (*domain.Actor, error)
	// RecordFailedLogin increments the attempt counter and locks the actor once it reaches
	// maxAttempts, in a single statement. It returns the new counter and lock state.
	RecordFailedLogin(ctx context.Context, tx pgx.Tx, actorID string, maxAttempts int) (attempts int, locked bool, err error)
	// RecordSuccessfulLogin resets the attempt counter and stamps last_login_at.
	RecordSuccessfulLogin(ctx context.Context, tx pgx.Tx, actorID string, at time.Time) error
	// UnlockActor clears the lock flag and the attempt counter.
	UnlockActor(ctx context.Context, tx pgx.Tx, actorID string, by string, at time.Time) error
}

// ActorRepositoryFacade combines all actor repository interfaces
type ActorRepositoryFacade interface {
	ActorReader
	ActorWriter
	ActorLoginManager
}
