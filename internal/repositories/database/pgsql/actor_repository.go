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

type PgxActorRepository struct {
	BaseRepository
}

func newPgxActorRepository(pool *pgxpool.Pool) portsrepo.ActorRepositoryFacade {
	return &PgxActorRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ActorRepositoryFacade = (*PgxActorRepository)(nil)

const actorColumns = `actor_id, username, email, full_name, password_hash, role_id, branch_code, is_active, is_locked,
	failed_attempts, last_login_at, created_at, created_by, last_updated_at, last_updated_by`

func scanActor(row pgx.Row) (*domain.Actor, error) {
	var a domain.Actor
	err := row.Scan(&a.ActorID, &a.Username, &a.Email, &a.FullName, &a.PasswordHash, &a.RoleID, &a.BranchCode,
		&a.IsActive, &a.IsLocked, &a.FailedAttempts, &a.LastLoginAt,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PgxActorRepository) findOne(ctx context.Context, db dbtx, where string, arg any, lock bool) (*domain.Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM actors WHERE ` + where
	if lock {
		query += ` FOR UPDATE`
	}
	a, err := scanActor(db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, fmt.Errorf("failed to find actor: %w", mapPgError(err))
	}
	return a, nil
}

func (r *PgxActorRepository) FindActorByID(ctx context.Context, actorID string) (*domain.Actor, error) {
	return r.findOne(ctx, r.Pool, `actor_id = $1`, actorID, false)
}

func (r *PgxActorRepository) FindActorByUsername(ctx context.Context, username string) (*domain.Actor, error) {
	return r.findOne(ctx, r.Pool, `LOWER(username) = LOWER($1)`, username, false)
}

func (r *PgxActorRepository) FindActorByEmail(ctx context.Context, email string) (*domain.Actor, error) {
	return r.findOne(ctx, r.Pool, `LOWER(email) = LOWER($1)`, email, false)
}

// FindActorByUsernameForUpdate locks the actor row for the rest of tx.
func (r *PgxActorRepository) FindActorByUsernameForUpdate(ctx context.Context, tx pgx.Tx, username string) (*domain.Actor, error) {
	return r.findOne(ctx, r.conn(tx), `LOWER(username) = LOWER($1)`, username, true)
}

func (r *PgxActorRepository) FindActorByEmailForUpdate(ctx context.Context, tx pgx.Tx, email string) (*domain.Actor, error) {
	return r.findOne(ctx, r.conn(tx), `LOWER(email) = LOWER($1)`, email, true)
}

func (r *PgxActorRepository) ListActors(ctx context.Context, filter domain.ListFilter) ([]domain.Actor, error) {
	var w whereBuilder
	if filter.BranchCode != nil {
		w.add("branch_code = ?", *filter.BranchCode)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		w.add("(username ILIKE ? OR full_name ILIKE ?)", p, p)
	}
	query := `SELECT ` + actorColumns + ` FROM actors` + w.clause() +
		` ORDER BY username LIMIT ` + w.arg(normaliseLimit(filter.Limit, 20, 200)) + ` OFFSET ` + w.arg(max(filter.Offset, 0))

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query actors: %w", mapPgError(err))
	}
	defer rows.Close()

	actors := []domain.Actor{}
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actor row: %w", mapPgError(err))
		}
		actors = append(actors, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actor rows: %w", mapPgError(err))
	}
	return actors, nil
}

func (r *PgxActorRepository) CountActors(ctx context.Context) (int64, error) {
	var n int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM actors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count actors: %w", mapPgError(err))
	}
	return n, nil
}

// CountOwnedRecords counts financial records created by the actor.
func (r *PgxActorRepository) CountOwnedRecords(ctx context.Context, tx pgx.Tx, actorID string) (int64, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM contributions WHERE created_by = $1) +
			(SELECT COUNT(*) FROM transactions WHERE created_by = $1) +
			(SELECT COUNT(*) FROM expenditures WHERE created_by = $1);
	`
	var n int64
	if err := r.conn(tx).QueryRow(ctx, query, actorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records owned by %s: %w", actorID, mapPgError(err))
	}
	return n, nil
}

func (r *PgxActorRepository) SaveActor(ctx context.Context, tx pgx.Tx, a domain.Actor) error {
	query := `
		INSERT INTO actors (` + actorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.conn(tx).Exec(ctx, query, a.ActorID, a.Username, a.Email, a.FullName, a.PasswordHash, a.RoleID,
		a.BranchCode, a.IsActive, a.IsLocked, a.FailedAttempts, a.LastLoginAt,
		a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save actor %q: %w", a.Username, mapPgError(err))
	}
	return nil
}

func (r *PgxActorRepository) UpdateActor(ctx context.Context, tx pgx.Tx, a domain.Actor) error {
	query := `
		UPDATE actors
		SET email = $1, full_name = $2, password_hash = $3, role_id = $4, branch_code = $5,
			is_active = $6, is_locked = $7, failed_attempts = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE actor_id = $11;
	`
	tag, err := r.conn(tx).Exec(ctx, query, a.Email, a.FullName, a.PasswordHash, a.RoleID, a.BranchCode,
		a.IsActive, a.IsLocked, a.FailedAttempts, a.LastUpdatedAt, a.LastUpdatedBy, a.ActorID)
	if err != nil {
		return fmt.Errorf("failed to update actor %s: %w", a.ActorID, mapPgError(err))
	}
	return expectAffected(tag, "user")
}

// DeleteActor removes the actor; refresh tokens cascade.
func (r *PgxActorRepository) DeleteActor(ctx context.Context, tx pgx.Tx, actorID string) error {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM actors WHERE actor_id = $1`, actorID)
	if err != nil {
		return fmt.Errorf("failed to delete actor %s: %w", actorID, mapPgError(err))
	}
	return expectAffected(tag, "user")
}

// RecordFailedLogin increments the failure counter and applies the lock in a single statement.
func (r *PgxActorRepository) RecordFailedLogin(ctx context.Context, tx pgx.Tx, actorID string, maxAttempts int) (int, bool, error) {
	query := `
		UPDATE actors
		SET failed_attempts = failed_attempts + 1,
			is_locked = is_locked OR (failed_attempts + 1 >= $2)
		WHERE actor_id = $1
		RETURNING failed_attempts, is_locked;
	`
	var (
		attempts int
		locked   bool
	)
	if err := r.conn(tx).QueryRow(ctx, query, actorID, maxAttempts).Scan(&attempts, &locked); err != nil {
		return 0, false, fmt.Errorf("failed to record failed login for %s: %w", actorID, mapPgError(err))
	}
	return attempts, locked, nil
}

func (r *PgxActorRepository) RecordSuccessfulLogin(ctx context.Context, tx pgx.Tx, actorID string, at time.Time) error {
	tag, err := r.conn(tx).Exec(ctx, `UPDATE actors SET failed_attempts = 0, last_login_at = $2 WHERE actor_id = $1`, actorID, at)
	if err != nil {
		return fmt.Errorf("failed to record login for %s: %w", actorID, mapPgError(err))
	}
	return expectAffected(tag, "user")
}

func (r *PgxActorRepository) UnlockActor(ctx context.Context, tx pgx.Tx, actorID string, by string, at time.Time) error {
	query := `
		UPDATE actors
		SET is_locked = FALSE, failed_attempts = 0, last_updated_at = $2, last_updated_by = $3
		WHERE actor_id = $1;
	`
	tag, err := r.conn(tx).Exec(ctx, query, actorID, at, by)
	if err != nil {
		return fmt.Errorf("failed to unlock actor %s: %w", actorID, mapPgError(err))
	}
	return expectAffected(tag, "user")
}
