package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReferenceRepository stores currencies, payment methods and account heads.
type PgxReferenceRepository struct {
	BaseRepository
}

func newPgxReferenceRepository(pool *pgxpool.Pool) portsrepo.ReferenceRepositoryFacade {
	return &PgxReferenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReferenceRepositoryFacade = (*PgxReferenceRepository)(nil)

// --- currencies ---

func (r *PgxReferenceRepository) SaveCurrency(ctx context.Context, tx pgx.Tx, c domain.Currency) error {
	query := `
		INSERT INTO currencies (currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.conn(tx).Exec(ctx, query, c.CurrencyCode, c.Symbol, c.Name, c.Precision,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save currency %s: %w", c.CurrencyCode, mapPgError(err))
	}
	return nil
}

const currencyColumns = `currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by`

func scanCurrency(row pgx.Row) (*domain.Currency, error) {
	var c domain.Currency
	if err := row.Scan(&c.CurrencyCode, &c.Symbol, &c.Name, &c.Precision,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgxReferenceRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	c, err := scanCurrency(r.Pool.QueryRow(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE currency_code = $1`, code))
	if err != nil {
		return nil, fmt.Errorf("failed to find currency %s: %w", code, mapPgError(err))
	}
	return c, nil
}

func (r *PgxReferenceRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+currencyColumns+` FROM currencies ORDER BY currency_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", mapPgError(err))
	}
	defer rows.Close()

	currencies := []domain.Currency{}
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", mapPgError(err))
		}
		currencies = append(currencies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", mapPgError(err))
	}
	return currencies, nil
}

// --- payment methods ---

const paymentMethodColumns = `payment_method_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanPaymentMethod(row pgx.Row) (*domain.PaymentMethod, error) {
	var m domain.PaymentMethod
	if err := row.Scan(&m.PaymentMethodID, &m.Name, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxReferenceRepository) SavePaymentMethod(ctx context.Context, tx pgx.Tx, m domain.PaymentMethod) error {
	query := `INSERT INTO payment_methods (` + paymentMethodColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := r.conn(tx).Exec(ctx, query, m.PaymentMethodID, m.Name, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save payment method %q: %w", m.Name, mapPgError(err))
	}
	return nil
}

func (r *PgxReferenceRepository) FindPaymentMethodByID(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	m, err := scanPaymentMethod(r.Pool.QueryRow(ctx, `SELECT `+paymentMethodColumns+` FROM payment_methods WHERE payment_method_id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to find payment method %s: %w", id, mapPgError(err))
	}
	return m, nil
}

func (r *PgxReferenceRepository) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+paymentMethodColumns+` FROM payment_methods ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment methods: %w", mapPgError(err))
	}
	defer rows.Close()

	methods := []domain.PaymentMethod{}
	for rows.Next() {
		m, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment method row: %w", mapPgError(err))
		}
		methods = append(methods, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment method rows: %w", mapPgError(err))
	}
	return methods, nil
}

// --- account heads ---

const headColumns = `head_id, code, kind, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanHead(row pgx.Row) (*domain.AccountHead, error) {
	var h domain.AccountHead
	if err := row.Scan(&h.HeadID, &h.Code, &h.Kind, &h.Name, &h.Description, &h.IsActive,
		&h.CreatedAt, &h.CreatedBy, &h.LastUpdatedAt, &h.LastUpdatedBy); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PgxReferenceRepository) SaveHead(ctx context.Context, tx pgx.Tx, h domain.AccountHead) error {
	query := `INSERT INTO account_heads (` + headColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := r.conn(tx).Exec(ctx, query, h.HeadID, h.Code, h.Kind, h.Name, h.Description, h.IsActive,
		h.CreatedAt, h.CreatedBy, h.LastUpdatedAt, h.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save head %q: %w", h.Name, mapPgError(err))
	}
	return nil
}

func (r *PgxReferenceRepository) UpdateHead(ctx context.Context, tx pgx.Tx, h domain.AccountHead) error {
	query := `
		UPDATE account_heads
		SET name = $1, description = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE head_id = $6;
	`
	tag, err := r.conn(tx).Exec(ctx, query, h.Name, h.Description, h.IsActive, h.LastUpdatedAt, h.LastUpdatedBy, h.HeadID)
	if err != nil {
		return fmt.Errorf("failed to update head %s: %w", h.HeadID, mapPgError(err))
	}
	return expectAffected(tag, "head")
}

func (r *PgxReferenceRepository) DeleteHead(ctx context.Context, tx pgx.Tx, headID string) error {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM account_heads WHERE head_id = $1`, headID)
	if err != nil {
		return fmt.Errorf("failed to delete head %s: %w", headID, mapPgError(err))
	}
	return expectAffected(tag, "head")
}

func (r *PgxReferenceRepository) FindHeadByID(ctx context.Context, headID string) (*domain.AccountHead, error) {
	h, err := scanHead(r.Pool.QueryRow(ctx, `SELECT `+headColumns+` FROM account_heads WHERE head_id = $1`, headID))
	if err != nil {
		return nil, fmt.Errorf("failed to find head %s: %w", headID, mapPgError(err))
	}
	return h, nil
}

func (r *PgxReferenceRepository) ListHeads(ctx context.Context, kind *domain.HeadKind) ([]domain.AccountHead, error) {
	var w whereBuilder
	if kind != nil {
		w.add("kind = ?", string(*kind))
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+headColumns+` FROM account_heads`+w.clause()+` ORDER BY code`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query heads: %w", mapPgError(err))
	}
	defer rows.Close()

	heads := []domain.AccountHead{}
	for rows.Next() {
		h, err := scanHead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan head row: %w", mapPgError(err))
		}
		heads = append(heads, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating head rows: %w", mapPgError(err))
	}
	return heads, nil
}

// CountHeadUsage counts records and budgets that reference the head.
func (r *PgxReferenceRepository) CountHeadUsage(ctx context.Context, tx pgx.Tx, headID string) (int64, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM transactions WHERE revenue_head_id = $1) +
			(SELECT COUNT(*) FROM expenditures WHERE expenditure_head_id = $1) +
			(SELECT COUNT(*) FROM budgets WHERE expenditure_head_id = $1);
	`
	var n int64
	if err := r.conn(tx).QueryRow(ctx, query, headID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count usage of head %s: %w", headID, mapPgError(err))
	}
	return n, nil
}
