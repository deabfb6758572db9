package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// Service manages the product variant registry. Variants that already
// appear in the inventory movement stream are archived rather than
// deleted so stock cards keep a valid reference.
type Service struct {
	repo  Repository
	audit shared.AuditPort
}

// NewService constructs the product service.
func NewService(repo Repository, audit shared.AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns variants, optionally filtered by a diacritic-insensitive
// search term or SKU fragment.
func (s *Service) List(ctx context.Context, search string) ([]Variant, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// Get returns one variant by id.
func (s *Service) Get(ctx context.Context, id int64) (Variant, error) {
	return s.repo.Get(ctx, id)
}

// Input carries fields for creating or updating a variant.
type Input struct {
	SKU       string
	Name      string
	Unit      string
	SalePrice decimal.Decimal
	ActorID   int64
}

func (in *Input) normalize() error {
	in.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.SKU == "" {
		return fmt.Errorf("%w: sku required", shared.ErrValidation)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: variant name required", shared.ErrValidation)
	}
	if in.SalePrice.IsNegative() {
		return fmt.Errorf("%w: sale price must not be negative", shared.ErrValidation)
	}
	return nil
}

// Create inserts a variant record.
func (s *Service) Create(ctx context.Context, in Input) (Variant, error) {
	if err := in.normalize(); err != nil {
		return Variant{}, err
	}
	if _, err := s.repo.GetBySKU(ctx, in.SKU); err == nil {
		return Variant{}, ErrDuplicateSKU
	} else if !errors.Is(err, ErrVariantNotFound) {
		return Variant{}, err
	}
	v, err := s.repo.Insert(ctx, Variant{
		SKU:       in.SKU,
		Name:      in.Name,
		SearchKey: shared.SearchKey(in.Name),
		Unit:      in.Unit,
		SalePrice: in.SalePrice,
	})
	if err != nil {
		return Variant{}, err
	}
	s.record(ctx, in.ActorID, "create", v.ID)
	return v, nil
}

// Update rewrites a variant's descriptive fields. The SKU is immutable
// once assigned.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Variant, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Variant{}, err
	}
	in.SKU = current.SKU
	if err := in.normalize(); err != nil {
		return Variant{}, err
	}
	current.Name = in.Name
	current.SearchKey = shared.SearchKey(in.Name)
	current.Unit = in.Unit
	current.SalePrice = in.SalePrice
	if err := s.repo.Update(ctx, current); err != nil {
		return Variant{}, err
	}
	s.record(ctx, in.ActorID, "update", id)
	return current, nil
}

// Archive deactivates a variant without touching its movement history.
func (s *Service) Archive(ctx context.Context, id, actorID int64) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.record(ctx, actorID, "archive", id)
	return nil
}

// Delete removes a variant with no inventory movements. Variants with
// movement history can only be archived.
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	hasMoves, err := s.repo.HasMovements(ctx, id)
	if err != nil {
		return err
	}
	if hasMoves {
		return ErrVariantHasMoves
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", id)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "variant." + action,
		Entity:   "product_variant",
		EntityID: fmt.Sprintf("%d", id),
	})
}
