package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/annam-erp/annam-erp/internal/platform/db"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Repository opens transactions for the standalone inventory service.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Store) error) error
	GetBalance(ctx context.Context, variantID int64) (Balance, error)
	MovementsByRef(ctx context.Context, ref shared.DocRef) ([]Movement, error)
	StockCard(ctx context.Context, variantID int64, from, to time.Time, limit int) ([]Movement, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed inventory repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewStore(tx))
	})
}

func (r *repository) GetBalance(ctx context.Context, variantID int64) (Balance, error) {
	var b Balance
	err := r.pool.QueryRow(ctx, `SELECT variant_id, qty, value, updated_at FROM inventory_balances WHERE variant_id=$1`, variantID).
		Scan(&b.VariantID, &b.Qty, &b.Value, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrBalanceNotFound
	}
	return b, err
}

func (r *repository) MovementsByRef(ctx context.Context, ref shared.DocRef) ([]Movement, error) {
	return NewStore(r.pool).MovementsByRef(ctx, ref)
}

// StockCard lists a variant's movements in posting order for the stock card
// report.
func (r *repository) StockCard(ctx context.Context, variantID int64, from, to time.Time, limit int) ([]Movement, error) {
	if limit <= 0 {
		limit = 200
	}
	sql := `SELECT ` + movementCols + ` FROM inventory_movements WHERE variant_id=$1`
	args := []any{variantID}
	if !from.IsZero() {
		args = append(args, from)
		sql += fmt.Sprintf(` AND moved_at >= $%d`, len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		sql += fmt.Sprintf(` AND moved_at <= $%d`, len(args))
	}
	args = append(args, limit)
	sql += fmt.Sprintf(` ORDER BY moved_at, id LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovements(rows)
}

// pgStore implements Store over a pool or transaction.
type pgStore struct {
	q db.Querier
}

// NewStore wraps a Querier (pool or open transaction) as a Store.
func NewStore(q db.Querier) *pgStore {
	return &pgStore{q: q}
}

const movementCols = `id, variant_id, direction, qty, unit_cost, total_cost, ref_kind, ref_id, moved_at, before_qty, before_value, after_qty, after_value, note, created_by, created_at`

func scanMovement(row pgx.Row) (Movement, error) {
	var m Movement
	err := row.Scan(&m.ID, &m.VariantID, &m.Direction, &m.Qty, &m.UnitCost, &m.TotalCost, &m.Ref.Kind, &m.Ref.ID,
		&m.MovedAt, &m.BeforeQty, &m.BeforeValue, &m.AfterQty, &m.AfterValue, &m.Note, &m.CreatedBy, &m.CreatedAt)
	return m, err
}

func collectMovements(rows pgx.Rows) ([]Movement, error) {
	var out []Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetBalanceForUpdate locks the variant balance row for the duration of the
// read-modify-write. Concurrent confirmations touching the same variant
// queue here instead of racing on (qty, value).
func (s *pgStore) GetBalanceForUpdate(ctx context.Context, variantID int64) (Balance, error) {
	var b Balance
	err := s.q.QueryRow(ctx, `SELECT variant_id, qty, value, updated_at FROM inventory_balances WHERE variant_id=$1 FOR UPDATE`, variantID).
		Scan(&b.VariantID, &b.Qty, &b.Value, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrBalanceNotFound
	}
	return b, err
}

func (s *pgStore) UpsertBalance(ctx context.Context, balance Balance) error {
	_, err := s.q.Exec(ctx, `INSERT INTO inventory_balances (variant_id, qty, value, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (variant_id) DO UPDATE SET qty=EXCLUDED.qty, value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		balance.VariantID, balance.Qty, balance.Value, balance.UpdatedAt)
	return err
}

func (s *pgStore) InsertMovement(ctx context.Context, m Movement) (Movement, error) {
	row := s.q.QueryRow(ctx, `INSERT INTO inventory_movements
(variant_id, direction, qty, unit_cost, total_cost, ref_kind, ref_id, moved_at, before_qty, before_value, after_qty, after_value, note, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14) RETURNING id, created_at`,
		m.VariantID, m.Direction, m.Qty, m.UnitCost, m.TotalCost, m.Ref.Kind, m.Ref.ID, m.MovedAt,
		m.BeforeQty, m.BeforeValue, m.AfterQty, m.AfterValue, m.Note, m.CreatedBy)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		return Movement{}, db.TranslateError(err)
	}
	return m, nil
}

func (s *pgStore) MovementsByRef(ctx context.Context, ref shared.DocRef) ([]Movement, error) {
	rows, err := s.q.Query(ctx, `SELECT `+movementCols+` FROM inventory_movements WHERE ref_kind=$1 AND ref_id=$2 ORDER BY id`, ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovements(rows)
}
