package parties

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/annam-erp/annam-erp/internal/debt"
	"github.com/annam-erp/annam-erp/internal/platform/db"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Repository abstracts persistence for customers and suppliers.
type Repository interface {
	List(ctx context.Context, kind debt.PartyKind, search string) ([]Party, error)
	Get(ctx context.Context, kind debt.PartyKind, id int64) (Party, error)
	Insert(ctx context.Context, kind debt.PartyKind, p Party) (Party, error)
	Update(ctx context.Context, kind debt.PartyKind, p Party) error
	SetActive(ctx context.Context, kind debt.PartyKind, id int64, active bool) error
	Delete(ctx context.Context, kind debt.PartyKind, id int64) error
	HasDebts(ctx context.Context, kind debt.PartyKind, id int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed party repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func partyTable(kind debt.PartyKind) string {
	if kind == debt.PartySupplier {
		return "suppliers"
	}
	return "customers"
}

func debtTable(kind debt.PartyKind) string {
	if kind == debt.PartySupplier {
		return "supplier_debts"
	}
	return "customer_debts"
}

const partyCols = `id, name, search_key, phone, is_active, created_at`

func scanParty(row pgx.Row) (Party, error) {
	var p Party
	err := row.Scan(&p.ID, &p.Name, &p.SearchKey, &p.Phone, &p.IsActive, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Party{}, ErrPartyNotFound
	}
	return p, err
}

func (r *repository) List(ctx context.Context, kind debt.PartyKind, search string) ([]Party, error) {
	sql := `SELECT ` + partyCols + ` FROM ` + partyTable(kind)
	args := []any{}
	if search != "" {
		sql += ` WHERE search_key LIKE $1 OR name ILIKE $2`
		args = append(args, "%"+shared.SearchKey(search)+"%", "%"+search+"%")
	}
	sql += ` ORDER BY name`
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.TranslateError(err)
	}
	defer rows.Close()
	var out []Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, kind debt.PartyKind, id int64) (Party, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+partyCols+` FROM `+partyTable(kind)+` WHERE id=$1`, id)
	return scanParty(row)
}

func (r *repository) Insert(ctx context.Context, kind debt.PartyKind, p Party) (Party, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO `+partyTable(kind)+` (name, search_key, phone)
VALUES ($1, $2, $3) RETURNING id, created_at`,
		p.Name, p.SearchKey, p.Phone).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return Party{}, db.TranslateError(err)
	}
	p.IsActive = true
	return p, nil
}

func (r *repository) Update(ctx context.Context, kind debt.PartyKind, p Party) error {
	tag, err := r.pool.Exec(ctx, `UPDATE `+partyTable(kind)+` SET name=$2, search_key=$3, phone=$4 WHERE id=$1`,
		p.ID, p.Name, p.SearchKey, p.Phone)
	if err != nil {
		return db.TranslateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPartyNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, kind debt.PartyKind, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE `+partyTable(kind)+` SET is_active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return db.TranslateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPartyNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, kind debt.PartyKind, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+partyTable(kind)+` WHERE id=$1`, id)
	if err != nil {
		return db.TranslateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPartyNotFound
	}
	return nil
}

func (r *repository) HasDebts(ctx context.Context, kind debt.PartyKind, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+debtTable(kind)+` WHERE party_id=$1)`, id).Scan(&exists)
	return exists, err
}
