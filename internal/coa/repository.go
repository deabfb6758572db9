package coa

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/annam-erp/annam-erp/internal/platform/db"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Repository abstracts persistence for the registry service.
type Repository interface {
	GetByCode(ctx context.Context, code string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	Subtree(ctx context.Context, code string) ([]Account, error)
	Insert(ctx context.Context, a Account) (Account, error)
	Update(ctx context.Context, a Account) error
	SetActive(ctx context.Context, code string, active bool) error
	Delete(ctx context.Context, code string) error
	HasPostings(ctx context.Context, accountID int64) (bool, error)
	UpdateBounds(ctx context.Context, accounts []Account) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed registry repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const accountCols = `id, code, name, search_key, account_type, normal_balance, parent_id, lft, rgt, depth, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Code, &a.Name, &a.SearchKey, &a.Type, &a.NormalBalance, &a.ParentID, &a.Lft, &a.Rgt, &a.Depth, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return a, err
}

func (r *repository) GetByCode(ctx context.Context, code string) (Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE code=$1`, code)
	return scanAccount(row)
}

func (r *repository) List(ctx context.Context) ([]Account, error) {
	return r.queryAccounts(ctx, `SELECT `+accountCols+` FROM accounts ORDER BY lft`)
}

func (r *repository) Subtree(ctx context.Context, code string) ([]Account, error) {
	return r.queryAccounts(ctx, `SELECT `+accountCols+` FROM accounts
WHERE lft >= (SELECT lft FROM accounts WHERE code=$1)
  AND rgt <= (SELECT rgt FROM accounts WHERE code=$1)
ORDER BY lft`, code)
}

func (r *repository) queryAccounts(ctx context.Context, sql string, args ...any) ([]Account, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Insert(ctx context.Context, a Account) (Account, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO accounts (code, name, search_key, account_type, normal_balance, parent_id, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at`,
		a.Code, a.Name, a.SearchKey, a.Type, a.NormalBalance, a.ParentID, a.IsActive)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Account{}, db.TranslateError(err)
	}
	return a, nil
}

func (r *repository) Update(ctx context.Context, a Account) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET name=$2, search_key=$3, account_type=$4, normal_balance=$5, parent_id=$6, updated_at=NOW() WHERE code=$1`,
		a.Code, a.Name, a.SearchKey, a.Type, a.NormalBalance, a.ParentID)
	if err != nil {
		return db.TranslateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, code string, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET is_active=$2, updated_at=NOW() WHERE code=$1`, code, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE code=$1`, code)
	if err != nil {
		return db.TranslateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *repository) HasPostings(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM journal_lines WHERE account_id=$1)`, accountID).Scan(&exists)
	return exists, err
}

// UpdateBounds persists rebuilt nested-set bounds in a single transaction.
func (r *repository) UpdateBounds(ctx context.Context, accounts []Account) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, a := range accounts {
			tag, err := tx.Exec(ctx, `UPDATE accounts SET lft=$2, rgt=$3, depth=$4, updated_at=NOW() WHERE id=$1`, a.ID, a.Lft, a.Rgt, a.Depth)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%w: account %d vanished during rebuild", shared.ErrIntegrity, a.ID)
			}
		}
		return nil
	})
}
