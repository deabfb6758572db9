package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// Sentinel errors. Each wraps a taxonomy root from internal/shared.
var (
	ErrUnbalanced        = fmt.Errorf("%w: journal lines must balance", shared.ErrValidation)
	ErrTooFewLines       = fmt.Errorf("%w: journal requires at least two lines", shared.ErrValidation)
	ErrEntryNotFound     = fmt.Errorf("%w: journal entry", shared.ErrNotFound)
	ErrAccountUnknown    = fmt.Errorf("%w: posting account", shared.ErrNotFound)
	ErrAccountUnpostable = fmt.Errorf("%w: only active leaf accounts accept postings", shared.ErrValidation)
)

// Store is the transaction-scoped persistence surface of the engine. The
// document state machines hand it the same pgx transaction their other
// engine calls run in, so a failed balance check aborts everything.
type Store interface {
	ResolveAccount(ctx context.Context, code string) (AccountRef, error)
	GetEntryByRef(ctx context.Context, ref shared.DocRef) (JournalEntry, error)
	InsertEntry(ctx context.Context, entry JournalEntry) (JournalEntry, error)
	InsertLines(ctx context.Context, entryID int64, lines []JournalLine) error
	DeleteLines(ctx context.Context, entryID int64) error
	MarkPosted(ctx context.Context, entryID int64, at time.Time) error
	DeleteEntry(ctx context.Context, entryID int64) error
}

// Engine holds the journal posting rules. It carries no state beyond the
// clock and operates entirely through the Store it is handed.
type Engine struct {
	now func() time.Time
}

// NewEngine constructs the engine.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// WithNow overrides the clock for testing.
func (e *Engine) WithNow(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// Post validates the input and persists one entry plus its lines. At most
// one entry may exist per document; posting over an existing one fails.
func (e *Engine) Post(ctx context.Context, store Store, in PostingInput) (JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return JournalEntry{}, err
	}
	if _, err := store.GetEntryByRef(ctx, in.Ref); err == nil {
		return JournalEntry{}, fmt.Errorf("%w: document %s already has a journal entry", shared.ErrInvalidState, in.Ref)
	} else if !errors.Is(err, ErrEntryNotFound) {
		return JournalEntry{}, err
	}
	lines, err := e.resolveLines(ctx, store, in.Lines)
	if err != nil {
		return JournalEntry{}, err
	}
	code := in.Code
	if code == "" {
		code = fmt.Sprintf("JE-%s", in.Ref.ID)
	}
	entry := JournalEntry{
		Code:      code,
		EntryDate: in.EntryDate,
		Ref:       in.Ref,
		Note:      in.Note,
		CreatedBy: in.CreatedBy,
	}
	inserted, err := store.InsertEntry(ctx, entry)
	if err != nil {
		return JournalEntry{}, err
	}
	if err := store.InsertLines(ctx, inserted.ID, lines); err != nil {
		return JournalEntry{}, err
	}
	for i := range lines {
		lines[i].EntryID = inserted.ID
	}
	inserted.Lines = lines
	return inserted, nil
}

// Replace swaps all lines of the document's existing entry with the given
// ones, delete-then-insert, re-validating the balance. Used while the
// owning document is still a draft.
func (e *Engine) Replace(ctx context.Context, store Store, in PostingInput) (JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return JournalEntry{}, err
	}
	current, err := store.GetEntryByRef(ctx, in.Ref)
	if err != nil {
		return JournalEntry{}, err
	}
	if current.Posted() {
		return JournalEntry{}, fmt.Errorf("%w: cannot edit a posted journal entry", shared.ErrInvalidState)
	}
	lines, err := e.resolveLines(ctx, store, in.Lines)
	if err != nil {
		return JournalEntry{}, err
	}
	if err := store.DeleteLines(ctx, current.ID); err != nil {
		return JournalEntry{}, err
	}
	if err := store.InsertLines(ctx, current.ID, lines); err != nil {
		return JournalEntry{}, err
	}
	for i := range lines {
		lines[i].EntryID = current.ID
	}
	current.EntryDate = in.EntryDate
	current.Note = in.Note
	current.Lines = lines
	return current, nil
}

// Confirm marks the document's entry as posted. Structurally a no-op today;
// it is the hook where period locking would attach.
func (e *Engine) Confirm(ctx context.Context, store Store, ref shared.DocRef) error {
	entry, err := store.GetEntryByRef(ctx, ref)
	if err != nil {
		return err
	}
	if entry.Posted() {
		return nil
	}
	return store.MarkPosted(ctx, entry.ID, e.now())
}

// Remove deletes the document's entry and all its lines. Called on
// cancellation; the document keeps no journal after that.
func (e *Engine) Remove(ctx context.Context, store Store, ref shared.DocRef) error {
	entry, err := store.GetEntryByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil
		}
		return err
	}
	if err := store.DeleteLines(ctx, entry.ID); err != nil {
		return err
	}
	return store.DeleteEntry(ctx, entry.ID)
}

func (e *Engine) resolveLines(ctx context.Context, store Store, inputs []LineInput) ([]JournalLine, error) {
	lines := make([]JournalLine, 0, len(inputs))
	for _, in := range inputs {
		account, err := store.ResolveAccount(ctx, in.AccountCode)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrAccountUnknown, in.AccountCode)
		}
		if !account.Active || !account.Leaf {
			return nil, fmt.Errorf("%w: %q", ErrAccountUnpostable, in.AccountCode)
		}
		lines = append(lines, JournalLine{
			AccountID:   account.ID,
			AccountCode: account.Code,
			Debit:       shared.Round2(in.Debit),
			Credit:      shared.Round2(in.Credit),
		})
	}
	return lines, nil
}
