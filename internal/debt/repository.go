package debt

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/platform/db"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Customer and supplier lines live in separate tables keyed the same way.
func tableFor(party PartyKind) (string, error) {
	switch party {
	case PartyCustomer:
		return "customer_debts", nil
	case PartySupplier:
		return "supplier_debts", nil
	}
	return "", fmt.Errorf("%w: unknown party kind %q", shared.ErrValidation, party)
}

// Repository opens transactions and serves ledger reads.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Store) error) error
	PartyLedger(ctx context.Context, party PartyKind, partyID int64, from, to time.Time) ([]Entry, error)
	PartyBalance(ctx context.Context, party PartyKind, partyID int64) (decimal.Decimal, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed debt repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewStore(tx))
	})
}

func (r *repository) PartyLedger(ctx context.Context, party PartyKind, partyID int64, from, to time.Time) ([]Entry, error) {
	table, err := tableFor(party)
	if err != nil {
		return nil, err
	}
	sql := `SELECT id, party_id, ref_kind, ref_id, debit, credit, entry_date, created_at FROM ` + table + ` WHERE party_id=$1`
	args := []any{partyID}
	if !from.IsZero() {
		args = append(args, from)
		sql += fmt.Sprintf(` AND entry_date >= $%d`, len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		sql += fmt.Sprintf(` AND entry_date <= $%d`, len(args))
	}
	sql += ` ORDER BY entry_date, id`

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		e := Entry{Party: party}
		if err := rows.Scan(&e.ID, &e.PartyID, &e.Ref.Kind, &e.Ref.ID, &e.Debit, &e.Credit, &e.EntryDate, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) PartyBalance(ctx context.Context, party PartyKind, partyID int64) (decimal.Decimal, error) {
	table, err := tableFor(party)
	if err != nil {
		return decimal.Zero, err
	}
	var balance decimal.Decimal
	err = r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(debit)-SUM(credit), 0) FROM `+table+` WHERE party_id=$1`, partyID).Scan(&balance)
	return balance, err
}

// pgStore implements Store over a pool or transaction.
type pgStore struct {
	q db.Querier
}

// NewStore wraps a Querier (pool or open transaction) as a Store.
func NewStore(q db.Querier) *pgStore {
	return &pgStore{q: q}
}

func (s *pgStore) InsertEntry(ctx context.Context, e Entry) (Entry, error) {
	table, err := tableFor(e.Party)
	if err != nil {
		return Entry{}, err
	}
	row := s.q.QueryRow(ctx, `INSERT INTO `+table+` (party_id, ref_kind, ref_id, debit, credit, entry_date)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at`,
		e.PartyID, e.Ref.Kind, e.Ref.ID, e.Debit, e.Credit, e.EntryDate)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return Entry{}, db.TranslateError(err)
	}
	return e, nil
}

func (s *pgStore) DeleteByRef(ctx context.Context, ref shared.DocRef) (int64, error) {
	var total int64
	for _, table := range []string{"customer_debts", "supplier_debts"} {
		tag, err := s.q.Exec(ctx, `DELETE FROM `+table+` WHERE ref_kind=$1 AND ref_id=$2`, ref.Kind, ref.ID)
		if err != nil {
			return total, err
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

func (s *pgStore) PartyExists(ctx context.Context, party PartyKind, partyID int64) (bool, error) {
	table := "customers"
	if party == PartySupplier {
		table = "suppliers"
	}
	var exists bool
	err := s.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id=$1)`, partyID).Scan(&exists)
	return exists, err
}
