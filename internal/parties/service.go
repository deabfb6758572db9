package parties

import (
	"context"
	"fmt"
	"strings"

	"github.com/annam-erp/annam-erp/internal/debt"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Service manages the customer and supplier registries. Parties that
// already appear in a debt ledger are archived rather than deleted so
// their ledger history keeps a valid reference.
type Service struct {
	repo  Repository
	audit shared.AuditPort
}

// NewService constructs the party service.
func NewService(repo Repository, audit shared.AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns parties of the given kind, optionally filtered by a
// diacritic-insensitive search term.
func (s *Service) List(ctx context.Context, kind debt.PartyKind, search string) ([]Party, error) {
	return s.repo.List(ctx, kind, strings.TrimSpace(search))
}

// Get returns one party by id.
func (s *Service) Get(ctx context.Context, kind debt.PartyKind, id int64) (Party, error) {
	return s.repo.Get(ctx, kind, id)
}

// CreateInput carries fields for a new party.
type CreateInput struct {
	Name    string
	Phone   string
	ActorID int64
}

// Create inserts a party record.
func (s *Service) Create(ctx context.Context, kind debt.PartyKind, in CreateInput) (Party, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Party{}, fmt.Errorf("%w: party name required", shared.ErrValidation)
	}
	p, err := s.repo.Insert(ctx, kind, Party{
		Name:      name,
		SearchKey: shared.SearchKey(name),
		Phone:     strings.TrimSpace(in.Phone),
	})
	if err != nil {
		return Party{}, err
	}
	s.record(ctx, kind, in.ActorID, "create", p.ID)
	return p, nil
}

// UpdateInput carries fields for an existing party.
type UpdateInput struct {
	ID      int64
	Name    string
	Phone   string
	ActorID int64
}

// Update rewrites a party's name and phone.
func (s *Service) Update(ctx context.Context, kind debt.PartyKind, in UpdateInput) (Party, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Party{}, fmt.Errorf("%w: party name required", shared.ErrValidation)
	}
	current, err := s.repo.Get(ctx, kind, in.ID)
	if err != nil {
		return Party{}, err
	}
	current.Name = name
	current.SearchKey = shared.SearchKey(name)
	current.Phone = strings.TrimSpace(in.Phone)
	if err := s.repo.Update(ctx, kind, current); err != nil {
		return Party{}, err
	}
	s.record(ctx, kind, in.ActorID, "update", in.ID)
	return current, nil
}

// Archive deactivates a party without touching its history.
func (s *Service) Archive(ctx context.Context, kind debt.PartyKind, id, actorID int64) error {
	if err := s.repo.SetActive(ctx, kind, id, false); err != nil {
		return err
	}
	s.record(ctx, kind, actorID, "archive", id)
	return nil
}

// Delete removes a party that has no debt ledger entries. Parties with
// ledger history can only be archived.
func (s *Service) Delete(ctx context.Context, kind debt.PartyKind, id, actorID int64) error {
	hasDebts, err := s.repo.HasDebts(ctx, kind, id)
	if err != nil {
		return err
	}
	if hasDebts {
		return ErrPartyHasDebts
	}
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.record(ctx, kind, actorID, "delete", id)
	return nil
}

func (s *Service) record(ctx context.Context, kind debt.PartyKind, actorID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   string(kind) + "." + action,
		Entity:   string(kind),
		EntityID: fmt.Sprintf("%d", id),
	})
}
