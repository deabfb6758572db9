package coa

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// Sentinel errors for the registry.
var (
	ErrAccountNotFound    = fmt.Errorf("%w: account", shared.ErrNotFound)
	ErrAccountHasPostings = fmt.Errorf("%w: account has journal postings", shared.ErrInvalidState)
)

// Service is the Account Registry: create/update/archive plus the guarded
// nested-set rebuild. Accounts with postings are never deleted, only
// archived.
type Service struct {
	repo    Repository
	audit   shared.AuditPort
	rebuild sync.Mutex
	now     func() time.Time
}

// NewService constructs the registry service.
func NewService(repo Repository, audit shared.AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// Get returns one account by code.
func (s *Service) Get(ctx context.Context, code string) (Account, error) {
	return s.repo.GetByCode(ctx, code)
}

// List returns the whole chart in tree (lft) order.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// Subtree returns an account and all of its descendants.
func (s *Service) Subtree(ctx context.Context, code string) ([]Account, error) {
	return s.repo.Subtree(ctx, code)
}

// CreateInput carries fields for a new account.
type CreateInput struct {
	Code       string
	Name       string
	Type       AccountType
	ParentCode string
	ActorID    int64
}

// Create inserts an account and rebuilds tree bounds.
func (s *Service) Create(ctx context.Context, in CreateInput) (Account, error) {
	account := Account{
		Code:          in.Code,
		Name:          in.Name,
		SearchKey:     shared.SearchKey(in.Name),
		Type:          in.Type,
		NormalBalance: in.Type.NormalBalance(),
		IsActive:      true,
	}
	if in.ParentCode != "" {
		parent, err := s.repo.GetByCode(ctx, in.ParentCode)
		if err != nil {
			return Account{}, err
		}
		if parent.Type != in.Type {
			return Account{}, fmt.Errorf("%w: child type %s does not match parent type %s", shared.ErrValidation, in.Type, parent.Type)
		}
		account.ParentID = &parent.ID
	}
	if err := account.Validate(); err != nil {
		return Account{}, err
	}
	created, err := s.repo.Insert(ctx, account)
	if err != nil {
		return Account{}, err
	}
	if err := s.Rebuild(ctx); err != nil {
		return Account{}, err
	}
	s.record(ctx, in.ActorID, "coa.create", created.Code, map[string]any{"name": created.Name, "type": created.Type})
	return s.repo.GetByCode(ctx, created.Code)
}

// UpdateInput carries editable fields.
type UpdateInput struct {
	Code       string
	Name       string
	ParentCode *string // nil leaves the parent unchanged, empty string detaches
	ActorID    int64
}

// Update renames or re-parents an account, then rebuilds bounds when the
// parent changed.
func (s *Service) Update(ctx context.Context, in UpdateInput) (Account, error) {
	account, err := s.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return Account{}, err
	}
	if in.Name != "" {
		account.Name = in.Name
		account.SearchKey = shared.SearchKey(in.Name)
	}
	reparented := false
	if in.ParentCode != nil {
		reparented = true
		if *in.ParentCode == "" {
			account.ParentID = nil
		} else {
			parent, err := s.repo.GetByCode(ctx, *in.ParentCode)
			if err != nil {
				return Account{}, err
			}
			if parent.Code == account.Code {
				return Account{}, fmt.Errorf("%w: account cannot parent itself", shared.ErrValidation)
			}
			account.ParentID = &parent.ID
		}
	}
	if err := account.Validate(); err != nil {
		return Account{}, err
	}
	if err := s.repo.Update(ctx, account); err != nil {
		return Account{}, err
	}
	if reparented {
		if err := s.Rebuild(ctx); err != nil {
			return Account{}, err
		}
	}
	s.record(ctx, in.ActorID, "coa.update", account.Code, map[string]any{"name": account.Name})
	return s.repo.GetByCode(ctx, account.Code)
}

// Archive soft-deletes an account. Accounts carrying postings are archived,
// never removed, so historical journals keep resolving.
func (s *Service) Archive(ctx context.Context, code string, actorID int64) error {
	account, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if !account.IsLeaf() {
		return fmt.Errorf("%w: archive children first", shared.ErrInvalidState)
	}
	if err := s.repo.SetActive(ctx, code, false); err != nil {
		return err
	}
	s.record(ctx, actorID, "coa.archive", code, nil)
	return nil
}

// Delete removes an account that never received postings. Anything with
// ledger history must be archived instead.
func (s *Service) Delete(ctx context.Context, code string, actorID int64) error {
	account, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if !account.IsLeaf() {
		return fmt.Errorf("%w: delete children first", shared.ErrInvalidState)
	}
	posted, err := s.repo.HasPostings(ctx, account.ID)
	if err != nil {
		return err
	}
	if posted {
		return ErrAccountHasPostings
	}
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}
	if err := s.Rebuild(ctx); err != nil {
		return err
	}
	s.record(ctx, actorID, "coa.delete", code, nil)
	return nil
}

// Rebuild recomputes nested-set bounds for the whole chart. The mutex keeps
// concurrent registry edits from interleaving rebuild passes.
func (s *Service) Rebuild(ctx context.Context) error {
	s.rebuild.Lock()
	defer s.rebuild.Unlock()
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	rebuilt, err := RebuildBounds(accounts)
	if err != nil {
		return err
	}
	return s.repo.UpdateBounds(ctx, rebuilt)
}

func (s *Service) record(ctx context.Context, actorID int64, action, code string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "account",
		EntityID: code,
		Meta:     meta,
		At:       s.now(),
	})
}
