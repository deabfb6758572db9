package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/annam-erp/annam-erp/internal/platform/db"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Repository abstracts persistence for product variants.
type Repository interface {
	List(ctx context.Context, search string) ([]Variant, error)
	Get(ctx context.Context, id int64) (Variant, error)
	GetBySKU(ctx context.Context, sku string) (Variant, error)
	Insert(ctx context.Context, v Variant) (Variant, error)
	Update(ctx context.Context, v Variant) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	HasMovements(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed variant repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const variantCols = `id, sku, name, search_key, unit, sale_price, is_active, created_at, updated_at`

func scanVariant(row pgx.Row) (Variant, error) {
	var v Variant
	err := row.Scan(&v.ID, &v.SKU, &v.Name, &v.SearchKey, &v.Unit, &v.SalePrice, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Variant{}, ErrVariantNotFound
	}
	return v, err
}

func (r *repository) List(ctx context.Context, search string) ([]Variant, error) {
	sql := `SELECT ` + variantCols + ` FROM product_variants`
	args := []any{}
	if search != "" {
		sql += ` WHERE search_key LIKE $1 OR sku ILIKE $2`
		args = append(args, "%"+shared.SearchKey(search)+"%", "%"+search+"%")
	}
	sql += ` ORDER BY sku`
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.TranslateError(err)
	}
	defer rows.Close()
	var out []Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Variant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+variantCols+` FROM product_variants WHERE id=$1`, id)
	return scanVariant(row)
}

func (r *repository) GetBySKU(ctx context.Context, sku string) (Variant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+variantCols+` FROM product_variants WHERE sku=$1`, sku)
	return scanVariant(row)
}

func (r *repository) Insert(ctx context.Context, v Variant) (Variant, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO product_variants (sku, name, search_key, unit, sale_price)
VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`,
		v.SKU, v.Name, v.SearchKey, v.Unit, v.SalePrice).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return Variant{}, db.TranslateError(err)
	}
	v.IsActive = true
	return v, nil
}

func (r *repository) Update(ctx context.Context, v Variant) error {
	tag, err := r.pool.Exec(ctx, `UPDATE product_variants SET name=$2, search_key=$3, unit=$4, sale_price=$5, updated_at=NOW() WHERE id=$1`,
		v.ID, v.Name, v.SearchKey, v.Unit, v.SalePrice)
	if err != nil {
		return db.TranslateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVariantNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE product_variants SET is_active=$2, updated_at=NOW() WHERE id=$1`, id, active)
	if err != nil {
		return db.TranslateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVariantNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product_variants WHERE id=$1`, id)
	if err != nil {
		return db.TranslateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVariantNotFound
	}
	return nil
}

func (r *repository) HasMovements(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM inventory_movements WHERE variant_id=$1)`, id).Scan(&exists)
	return exists, err
}
