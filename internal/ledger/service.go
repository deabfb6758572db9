package ledger

import (
	"context"
	"time"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// Service wraps the engine for callers outside a document transition, such
// as the HTTP surface and background integrity jobs. Each call opens its own
// transaction; the document state machines bypass this and drive the engine
// inside their composite transaction instead.
type Service struct {
	repo   Repository
	engine *Engine
	audit  shared.AuditPort
	now    func() time.Time
}

// NewService constructs the journal service.
func NewService(repo Repository, engine *Engine, audit shared.AuditPort) *Service {
	return &Service{repo: repo, engine: engine, audit: audit, now: time.Now}
}

// Post creates a balanced journal entry for a source document.
func (s *Service) Post(ctx context.Context, in PostingInput) (JournalEntry, error) {
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, store Store) error {
		var err error
		entry, err = s.engine.Post(ctx, store, in)
		return err
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.record(ctx, in.CreatedBy, "journal.post", entry)
	return entry, nil
}

// Replace rewrites the lines of the document's draft entry.
func (s *Service) Replace(ctx context.Context, in PostingInput) (JournalEntry, error) {
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, store Store) error {
		var err error
		entry, err = s.engine.Replace(ctx, store, in)
		return err
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.record(ctx, in.CreatedBy, "journal.replace", entry)
	return entry, nil
}

// Confirm marks the document's entry posted.
func (s *Service) Confirm(ctx context.Context, ref shared.DocRef) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, store Store) error {
		return s.engine.Confirm(ctx, store, ref)
	})
}

// Remove deletes the document's entry and lines.
func (s *Service) Remove(ctx context.Context, ref shared.DocRef) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, store Store) error {
		return s.engine.Remove(ctx, store, ref)
	})
}

// GetByRef loads the entry owned by a document.
func (s *Service) GetByRef(ctx context.Context, ref shared.DocRef) (JournalEntry, error) {
	return s.repo.GetEntryByRef(ctx, ref)
}

// List returns recent entries with their lines.
func (s *Service) List(ctx context.Context, limit int) ([]JournalEntry, error) {
	return s.repo.List(ctx, limit)
}

func (s *Service) record(ctx context.Context, actorID int64, action string, entry JournalEntry) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "journal_entry",
		EntityID: entry.Code,
		Meta: map[string]any{
			"ref":    entry.Ref.String(),
			"debit":  entry.TotalDebit().String(),
			"credit": entry.TotalCredit().String(),
		},
		At: s.now(),
	})
}
