package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCatalogRepository stores suppliers, assets and contracts.
type PgxCatalogRepository struct {
	BaseRepository
}

func newPgxCatalogRepository(pool *pgxpool.Pool) portsrepo.CatalogRepositoryFacade {
	return &PgxCatalogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CatalogRepositoryFacade = (*PgxCatalogRepository)(nil)

// --- suppliers ---

const supplierColumns = `supplier_id, code, name, contact_person, phone, email, address, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	if err := row.Scan(&s.SupplierID, &s.Code, &s.Name, &s.ContactPerson, &s.Phone, &s.Email, &s.Address, &s.IsActive,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgxCatalogRepository) SaveSupplier(ctx context.Context, tx pgx.Tx, s domain.Supplier) error {
	query := `INSERT INTO suppliers (` + supplierColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.conn(tx).Exec(ctx, query, s.SupplierID, s.Code, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address,
		s.IsActive, s.CreatedAt, s.CreatedBy, s.LastUpdatedAt, s.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save supplier %q: %w", s.Name, mapPgError(err))
	}
	return nil
}

func (r *PgxCatalogRepository) UpdateSupplier(ctx context.Context, tx pgx.Tx, s domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $1, contact_person = $2, phone = $3, email = $4, address = $5, is_active = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE supplier_id = $9;
	`
	tag, err := r.conn(tx).Exec(ctx, query, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address, s.IsActive,
		s.LastUpdatedAt, s.LastUpdatedBy, s.SupplierID)
	if err != nil {
		return fmt.Errorf("failed to update supplier %s: %w", s.SupplierID, mapPgError(err))
	}
	return expectAffected(tag, "supplier")
}

func (r *PgxCatalogRepository) DeleteSupplier(ctx context.Context, tx pgx.Tx, supplierID string) error {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM suppliers WHERE supplier_id = $1`, supplierID)
	if err != nil {
		return fmt.Errorf("failed to delete supplier %s: %w", supplierID, mapPgError(err))
	}
	return expectAffected(tag, "supplier")
}

func (r *PgxCatalogRepository) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	s, err := scanSupplier(r.Pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE supplier_id = $1`, supplierID))
	if err != nil {
		return nil, fmt.Errorf("failed to find supplier %s: %w", supplierID, mapPgError(err))
	}
	return s, nil
}

func (r *PgxCatalogRepository) ListSuppliers(ctx context.Context, filter domain.ListFilter) ([]domain.Supplier, error) {
	var w whereBuilder
	if filter.Search != "" {
		p := likePattern(filter.Search)
		w.add("(name ILIKE ? OR code ILIKE ?)", p, p)
	}
	query := `SELECT ` + supplierColumns + ` FROM suppliers` + w.clause() +
		` ORDER BY code LIMIT ` + w.arg(normaliseLimit(filter.Limit, 20, 200)) + ` OFFSET ` + w.arg(max(filter.Offset, 0))

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", mapPgError(err))
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", mapPgError(err))
		}
		suppliers = append(suppliers, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier rows: %w", mapPgError(err))
	}
	return suppliers, nil
}

// CountSupplierUsage counts assets, contracts and expenditures referencing the supplier.
func (r *PgxCatalogRepository) CountSupplierUsage(ctx context.Context, tx pgx.Tx, supplierID string) (int64, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM assets WHERE supplier_id = $1) +
			(SELECT COUNT(*) FROM contracts WHERE supplier_id = $1) +
			(SELECT COUNT(*) FROM expenditures WHERE supplier_id = $1);
	`
	var n int64
	if err := r.conn(tx).QueryRow(ctx, query, supplierID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count usage of supplier %s: %w", supplierID, mapPgError(err))
	}
	return n, nil
}

// --- assets ---

const assetColumns = `asset_id, code, branch_code, name, category, supplier_id, purchase_date, purchase_value,
	currency_code, condition, created_at, created_by, last_updated_at, last_updated_by`

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	var a domain.Asset
	if err := row.Scan(&a.AssetID, &a.Code, &a.BranchCode, &a.Name, &a.Category, &a.SupplierID, &a.PurchaseDate,
		&a.PurchaseValue, &a.CurrencyCode, &a.Condition,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PgxCatalogRepository) SaveAsset(ctx context.Context, tx pgx.Tx, a domain.Asset) error {
	query := `INSERT INTO assets (` + assetColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`
	_, err := r.conn(tx).Exec(ctx, query, a.AssetID, a.Code, a.BranchCode, a.Name, a.Category, a.SupplierID,
		a.PurchaseDate, a.PurchaseValue, a.CurrencyCode, a.Condition,
		a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save asset %q: %w", a.Name, mapPgError(err))
	}
	return nil
}

func (r *PgxCatalogRepository) UpdateAsset(ctx context.Context, tx pgx.Tx, a domain.Asset) error {
	query := `
		UPDATE assets
		SET name = $1, category = $2, supplier_id = $3, purchase_date = $4, purchase_value = $5,
			currency_code = $6, condition = $7, last_updated_at = $8, last_updated_by = $9
		WHERE asset_id = $10;
	`
	tag, err := r.conn(tx).Exec(ctx, query, a.Name, a.Category, a.SupplierID, a.PurchaseDate, a.PurchaseValue,
		a.CurrencyCode, a.Condition, a.LastUpdatedAt, a.LastUpdatedBy, a.AssetID)
	if err != nil {
		return fmt.Errorf("failed to update asset %s: %w", a.AssetID, mapPgError(err))
	}
	return expectAffected(tag, "asset")
}

func (r *PgxCatalogRepository) DeleteAsset(ctx context.Context, tx pgx.Tx, assetID string) error {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM assets WHERE asset_id = $1`, assetID)
	if err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", assetID, mapPgError(err))
	}
	return expectAffected(tag, "asset")
}

func (r *PgxCatalogRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	a, err := scanAsset(r.Pool.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE asset_id = $1`, assetID))
	if err != nil {
		return nil, fmt.Errorf("failed to find asset %s: %w", assetID, mapPgError(err))
	}
	return a, nil
}

func (r *PgxCatalogRepository) ListAssets(ctx context.Context, filter domain.ListFilter) ([]domain.Asset, error) {
	var w whereBuilder
	if filter.BranchCode != nil {
		w.add("branch_code = ?", *filter.BranchCode)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		w.add("(name ILIKE ? OR code ILIKE ? OR category ILIKE ?)", p, p, p)
	}
	query := `SELECT ` + assetColumns + ` FROM assets` + w.clause() +
		` ORDER BY code LIMIT ` + w.arg(normaliseLimit(filter.Limit, 20, 200)) + ` OFFSET ` + w.arg(max(filter.Offset, 0))

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", mapPgError(err))
	}
	defer rows.Close()

	assets := []domain.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", mapPgError(err))
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset rows: %w", mapPgError(err))
	}
	return assets, nil
}

// --- contracts ---

const contractColumns = `contract_id, code, branch_code, supplier_id, title, start_date, end_date, value, currency_code,
	is_active, reminded_at, created_at, created_by, last_updated_at, last_updated_by`

func scanContract(row pgx.Row) (*domain.Contract, error) {
	var c domain.Contract
	if err := row.Scan(&c.ContractID, &c.Code, &c.BranchCode, &c.SupplierID, &c.Title, &c.StartDate, &c.EndDate,
		&c.Value, &c.CurrencyCode, &c.IsActive, &c.RemindedAt,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgxCatalogRepository) SaveContract(ctx context.Context, tx pgx.Tx, c domain.Contract) error {
	query := `INSERT INTO contracts (` + contractColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.conn(tx).Exec(ctx, query, c.ContractID, c.Code, c.BranchCode, c.SupplierID, c.Title, c.StartDate,
		c.EndDate, c.Value, c.CurrencyCode, c.IsActive, c.RemindedAt,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save contract %q: %w", c.Title, mapPgError(err))
	}
	return nil
}

// UpdateContract rewrites the editable fields. A changed end date clears the reminder marker
// so the new expiry is announced again.
func (r *PgxCatalogRepository) UpdateContract(ctx context.Context, tx pgx.Tx, c domain.Contract) error {
	query := `
		UPDATE contracts
		SET title = $1, start_date = $2, value = $4, currency_code = $5, is_active = $6,
			reminded_at = CASE WHEN end_date <> $3 THEN NULL ELSE reminded_at END,
			end_date = $3,
			last_updated_at = $7, last_updated_by = $8
		WHERE contract_id = $9;
	`
	tag, err := r.conn(tx).Exec(ctx, query, c.Title, c.StartDate, c.EndDate, c.Value, c.CurrencyCode, c.IsActive,
		c.LastUpdatedAt, c.LastUpdatedBy, c.ContractID)
	if err != nil {
		return fmt.Errorf("failed to update contract %s: %w", c.ContractID, mapPgError(err))
	}
	return expectAffected(tag, "contract")
}

func (r *PgxCatalogRepository) DeleteContract(ctx context.Context, tx pgx.Tx, contractID string) error {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM contracts WHERE contract_id = $1`, contractID)
	if err != nil {
		return fmt.Errorf("failed to delete contract %s: %w", contractID, mapPgError(err))
	}
	return expectAffected(tag, "contract")
}

func (r *PgxCatalogRepository) FindContractByID(ctx context.Context, contractID string) (*domain.Contract, error) {
	c, err := scanContract(r.Pool.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE contract_id = $1`, contractID))
	if err != nil {
		return nil, fmt.Errorf("failed to find contract %s: %w", contractID, mapPgError(err))
	}
	return c, nil
}

func (r *PgxCatalogRepository) ListContracts(ctx context.Context, filter domain.ListFilter) ([]domain.Contract, error) {
	var w whereBuilder
	if filter.BranchCode != nil {
		w.add("branch_code = ?", *filter.BranchCode)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		w.add("(title ILIKE ? OR code ILIKE ?)", p, p)
	}
	query := `SELECT ` + contractColumns + ` FROM contracts` + w.clause() +
		` ORDER BY end_date, code LIMIT ` + w.arg(normaliseLimit(filter.Limit, 20, 200)) + ` OFFSET ` + w.arg(max(filter.Offset, 0))

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", mapPgError(err))
	}
	defer rows.Close()

	contracts := []domain.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract row: %w", mapPgError(err))
		}
		contracts = append(contracts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contract rows: %w", mapPgError(err))
	}
	return contracts, nil
}
