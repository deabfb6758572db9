package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/annam-erp/annam-erp/internal/shared"
)

type memoryLedgerStore struct {
	accounts map[string]AccountRef
	entries  map[int64]JournalEntry
	lines    map[int64][]JournalLine
	nextID   int64
}

func newMemoryLedgerStore() *memoryLedgerStore {
	return &memoryLedgerStore{
		accounts: map[string]AccountRef{
			"111":  {ID: 1, Code: "111", Active: true, Leaf: true},
			"131":  {ID: 2, Code: "131", Active: true, Leaf: true},
			"331":  {ID: 3, Code: "331", Active: true, Leaf: true},
			"511":  {ID: 4, Code: "511", Active: true, Leaf: false},
			"5111": {ID: 5, Code: "5111", Active: true, Leaf: true},
			"641":  {ID: 6, Code: "641", Active: false, Leaf: true},
			"3331": {ID: 7, Code: "3331", Active: true, Leaf: true},
		},
		entries: make(map[int64]JournalEntry),
		lines:   make(map[int64][]JournalLine),
	}
}

func (s *memoryLedgerStore) ResolveAccount(ctx context.Context, code string) (AccountRef, error) {
	ref, ok := s.accounts[code]
	if !ok {
		return AccountRef{}, ErrAccountUnknown
	}
	return ref, nil
}

func (s *memoryLedgerStore) GetEntryByRef(ctx context.Context, ref shared.DocRef) (JournalEntry, error) {
	for _, e := range s.entries {
		if e.Ref == ref {
			e.Lines = append([]JournalLine(nil), s.lines[e.ID]...)
			return e, nil
		}
	}
	return JournalEntry{}, ErrEntryNotFound
}

func (s *memoryLedgerStore) InsertEntry(ctx context.Context, entry JournalEntry) (JournalEntry, error) {
	s.nextID++
	entry.ID = s.nextID
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	s.entries[entry.ID] = entry
	return entry, nil
}

func (s *memoryLedgerStore) InsertLines(ctx context.Context, entryID int64, lines []JournalLine) error {
	for _, l := range lines {
		l.EntryID = entryID
		s.lines[entryID] = append(s.lines[entryID], l)
	}
	return nil
}

func (s *memoryLedgerStore) DeleteLines(ctx context.Context, entryID int64) error {
	delete(s.lines, entryID)
	return nil
}

func (s *memoryLedgerStore) MarkPosted(ctx context.Context, entryID int64, at time.Time) error {
	e := s.entries[entryID]
	e.PostedAt = &at
	s.entries[entryID] = e
	return nil
}

func (s *memoryLedgerStore) DeleteEntry(ctx context.Context, entryID int64) error {
	delete(s.entries, entryID)
	return nil
}

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func testRef() shared.DocRef {
	return shared.DocRef{Kind: shared.DocKindSalesReceipt, ID: uuid.New()}
}

func balancedInput(ref shared.DocRef) PostingInput {
	return PostingInput{
		Ref:       ref,
		EntryDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Note:      "bán hàng",
		CreatedBy: 7,
		Lines: []LineInput{
			{AccountCode: "131", Debit: money("1100000")},
			{AccountCode: "5111", Credit: money("1000000")},
			{AccountCode: "3331", Credit: money("100000")},
		},
	}
}

func TestEnginePostBalanced(t *testing.T) {
	store := newMemoryLedgerStore()
	engine := NewEngine()
	ref := testRef()

	entry, err := engine.Post(context.Background(), store, balancedInput(ref))
	require.NoError(t, err)
	require.Len(t, entry.Lines, 3)
	require.True(t, entry.TotalDebit().Equal(entry.TotalCredit()))
	require.Equal(t, ref, entry.Ref)

	// One entry per document per confirmation cycle.
	_, err = engine.Post(context.Background(), store, balancedInput(ref))
	require.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestEnginePostRejectsImbalance(t *testing.T) {
	store := newMemoryLedgerStore()
	engine := NewEngine()

	in := balancedInput(testRef())
	in.Lines = []LineInput{
		{AccountCode: "131", Debit: money("100")},
		{AccountCode: "5111", Credit: money("90")},
	}
	_, err := engine.Post(context.Background(), store, in)
	require.ErrorIs(t, err, ErrUnbalanced)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestEnginePostToleratesRoundingDrift(t *testing.T) {
	store := newMemoryLedgerStore()
	engine := NewEngine()

	in := balancedInput(testRef())
	in.Lines = []LineInput{
		{AccountCode: "131", Debit: money("100.00")},
		{AccountCode: "5111", Credit: money("99.99")},
	}
	_, err := engine.Post(context.Background(), store, in)
	require.NoError(t, err)
}

func TestEnginePostValidationFailures(t *testing.T) {
	store := newMemoryLedgerStore()
	engine := NewEngine()
	ctx := context.Background()

	in := balancedInput(testRef())
	in.Lines = in.Lines[:1]
	_, err := engine.Post(ctx, store, in)
	require.ErrorIs(t, err, ErrTooFewLines)

	in = balancedInput(testRef())
	in.Lines[0].AccountCode = "999"
	_, err = engine.Post(ctx, store, in)
	require.ErrorIs(t, err, ErrAccountUnknown)

	// Non-leaf account.
	in = balancedInput(testRef())
	in.Lines[1].AccountCode = "511"
	_, err = engine.Post(ctx, store, in)
	require.ErrorIs(t, err, ErrAccountUnpostable)

	// Archived account.
	in = balancedInput(testRef())
	in.Lines[2].AccountCode = "641"
	_, err = engine.Post(ctx, store, in)
	require.ErrorIs(t, err, ErrAccountUnpostable)

	// Both sides on one line.
	in = balancedInput(testRef())
	in.Lines[0].Credit = money("1")
	_, err = engine.Post(ctx, store, in)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestEngineReplaceSwapsLines(t *testing.T) {
	store := newMemoryLedgerStore()
	engine := NewEngine()
	ctx := context.Background()
	ref := testRef()

	_, err := engine.Post(ctx, store, balancedInput(ref))
	require.NoError(t, err)

	in := balancedInput(ref)
	in.Lines = []LineInput{
		{AccountCode: "111", Debit: money("500000")},
		{AccountCode: "131", Credit: money("500000")},
	}
	entry, err := engine.Replace(ctx, store, in)
	require.NoError(t, err)
	require.Len(t, entry.Lines, 2)

	stored, err := store.GetEntryByRef(ctx, ref)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	require.Equal(t, "111", stored.Lines[0].AccountCode)
}

func TestEngineReplaceRejectsPosted(t *testing.T) {
	store := newMemoryLedgerStore()
	engine := NewEngine()
	ctx := context.Background()
	ref := testRef()

	_, err := engine.Post(ctx, store, balancedInput(ref))
	require.NoError(t, err)
	require.NoError(t, engine.Confirm(ctx, store, ref))

	_, err = engine.Replace(ctx, store, balancedInput(ref))
	require.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestEngineRemove(t *testing.T) {
	store := newMemoryLedgerStore()
	engine := NewEngine()
	ctx := context.Background()
	ref := testRef()

	_, err := engine.Post(ctx, store, balancedInput(ref))
	require.NoError(t, err)

	require.NoError(t, engine.Remove(ctx, store, ref))
	_, err = store.GetEntryByRef(ctx, ref)
	require.ErrorIs(t, err, ErrEntryNotFound)

	// Removing a document without an entry is a no-op.
	require.NoError(t, engine.Remove(ctx, store, testRef()))
}
