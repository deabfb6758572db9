package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/annam-erp/annam-erp/internal/platform/db"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Repository opens transactions for the standalone journal service.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Store) error) error
	GetEntryByRef(ctx context.Context, ref shared.DocRef) (JournalEntry, error)
	List(ctx context.Context, limit int) ([]JournalEntry, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed journal repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewStore(tx))
	})
}

func (r *repository) GetEntryByRef(ctx context.Context, ref shared.DocRef) (JournalEntry, error) {
	return NewStore(r.pool).GetEntryByRef(ctx, ref)
}

func (r *repository) List(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	store := NewStore(r.pool)
	rows, err := r.pool.Query(ctx, `SELECT `+entryCols+` FROM journal_entries ORDER BY entry_date DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range entries {
		lines, err := store.linesForEntry(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Lines = lines
	}
	return entries, nil
}

// pgStore implements Store over a pool or transaction.
type pgStore struct {
	q db.Querier
}

// NewStore wraps a Querier (pool or open transaction) as a Store.
func NewStore(q db.Querier) *pgStore {
	return &pgStore{q: q}
}

const entryCols = `id, code, entry_date, ref_kind, ref_id, note, created_by, posted_at, created_at, updated_at`

func scanEntry(row pgx.Row) (JournalEntry, error) {
	var e JournalEntry
	err := row.Scan(&e.ID, &e.Code, &e.EntryDate, &e.Ref.Kind, &e.Ref.ID, &e.Note, &e.CreatedBy, &e.PostedAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return JournalEntry{}, ErrEntryNotFound
	}
	return e, err
}

func (s *pgStore) ResolveAccount(ctx context.Context, code string) (AccountRef, error) {
	var ref AccountRef
	var lft, rgt int
	err := s.q.QueryRow(ctx, `SELECT id, code, is_active, lft, rgt FROM accounts WHERE code=$1`, code).
		Scan(&ref.ID, &ref.Code, &ref.Active, &lft, &rgt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AccountRef{}, ErrAccountUnknown
	}
	if err != nil {
		return AccountRef{}, err
	}
	ref.Leaf = rgt-lft == 1
	return ref, nil
}

func (s *pgStore) GetEntryByRef(ctx context.Context, ref shared.DocRef) (JournalEntry, error) {
	row := s.q.QueryRow(ctx, `SELECT `+entryCols+` FROM journal_entries WHERE ref_kind=$1 AND ref_id=$2`, ref.Kind, ref.ID)
	entry, err := scanEntry(row)
	if err != nil {
		return JournalEntry{}, err
	}
	entry.Lines, err = s.linesForEntry(ctx, entry.ID)
	return entry, err
}

func (s *pgStore) linesForEntry(ctx context.Context, entryID int64) ([]JournalLine, error) {
	rows, err := s.q.Query(ctx, `SELECT l.id, l.entry_id, l.account_id, a.code, l.debit, l.credit
FROM journal_lines l JOIN accounts a ON a.id = l.account_id
WHERE l.entry_id=$1 ORDER BY l.id`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []JournalLine
	for rows.Next() {
		var l JournalLine
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.AccountCode, &l.Debit, &l.Credit); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *pgStore) InsertEntry(ctx context.Context, entry JournalEntry) (JournalEntry, error) {
	row := s.q.QueryRow(ctx, `INSERT INTO journal_entries (code, entry_date, ref_kind, ref_id, note, created_by)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at, updated_at`,
		entry.Code, entry.EntryDate, entry.Ref.Kind, entry.Ref.ID, entry.Note, entry.CreatedBy)
	if err := row.Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return JournalEntry{}, db.TranslateError(err)
	}
	return entry, nil
}

func (s *pgStore) InsertLines(ctx context.Context, entryID int64, lines []JournalLine) error {
	for _, line := range lines {
		if _, err := s.q.Exec(ctx, `INSERT INTO journal_lines (entry_id, account_id, debit, credit) VALUES ($1,$2,$3,$4)`,
			entryID, line.AccountID, line.Debit, line.Credit); err != nil {
			return err
		}
	}
	return nil
}

func (s *pgStore) DeleteLines(ctx context.Context, entryID int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id=$1`, entryID)
	return err
}

func (s *pgStore) MarkPosted(ctx context.Context, entryID int64, at time.Time) error {
	_, err := s.q.Exec(ctx, `UPDATE journal_entries SET posted_at=$2, updated_at=NOW() WHERE id=$1`, entryID, at)
	return err
}

func (s *pgStore) DeleteEntry(ctx context.Context, entryID int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM journal_entries WHERE id=$1`, entryID)
	return err
}
