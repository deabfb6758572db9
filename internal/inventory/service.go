package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// Service wraps the engine for standalone movements (adjustments, opening
// balances) and reads. Document transitions drive the engine directly
// inside their own transaction instead.
type Service struct {
	repo   Repository
	engine *Engine
	audit  shared.AuditPort
	now    func() time.Time
}

// NewService constructs the inventory service.
func NewService(repo Repository, engine *Engine, audit shared.AuditPort) *Service {
	return &Service{repo: repo, engine: engine, audit: audit, now: time.Now}
}

// ApplyInbound posts an inbound movement in its own transaction.
func (s *Service) ApplyInbound(ctx context.Context, in InboundInput) (Movement, error) {
	var m Movement
	err := s.repo.WithTx(ctx, func(ctx context.Context, store Store) error {
		var err error
		m, err = s.engine.ApplyInbound(ctx, store, in)
		return err
	})
	if err != nil {
		return Movement{}, err
	}
	s.record(ctx, in.CreatedBy, "inventory.in", m)
	return m, nil
}

// ApplyOutbound posts an outbound movement in its own transaction.
func (s *Service) ApplyOutbound(ctx context.Context, in OutboundInput) (Movement, error) {
	var m Movement
	err := s.repo.WithTx(ctx, func(ctx context.Context, store Store) error {
		var err error
		m, err = s.engine.ApplyOutbound(ctx, store, in)
		return err
	})
	if err != nil {
		return Movement{}, err
	}
	s.record(ctx, in.CreatedBy, "inventory.out", m)
	return m, nil
}

// Reverse appends compensating movements for everything the reference owns.
func (s *Service) Reverse(ctx context.Context, ref shared.DocRef, actorID int64) ([]Movement, error) {
	var out []Movement
	err := s.repo.WithTx(ctx, func(ctx context.Context, store Store) error {
		var err error
		out, err = s.engine.Reverse(ctx, store, ref, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, m := range out {
		s.record(ctx, actorID, "inventory.reverse", m)
	}
	return out, nil
}

// Balance returns the cached running balance for a variant.
func (s *Service) Balance(ctx context.Context, variantID int64) (Balance, error) {
	return s.repo.GetBalance(ctx, variantID)
}

// StockCard lists a variant's movement history.
func (s *Service) StockCard(ctx context.Context, variantID int64, from, to time.Time, limit int) ([]Movement, error) {
	if variantID == 0 {
		return nil, fmt.Errorf("%w: variant required", shared.ErrValidation)
	}
	return s.repo.StockCard(ctx, variantID, from, to, limit)
}

func (s *Service) record(ctx context.Context, actorID int64, action string, m Movement) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "inventory_movement",
		EntityID: fmt.Sprintf("%d", m.ID),
		Meta: map[string]any{
			"variant_id": m.VariantID,
			"direction":  m.Direction,
			"qty":        m.Qty,
			"total_cost": m.TotalCost.String(),
			"ref":        m.Ref.String(),
		},
		At: s.now(),
	})
}
