package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// ErrBalanceNotFound indicates a missing balance row; the engine treats it
// as an empty balance on inbound and as missing stock on outbound.
var ErrBalanceNotFound = errors.New("inventory: balance not found")

// Store is the transaction-scoped persistence surface. GetBalanceForUpdate
// must take a row lock (SELECT ... FOR UPDATE) so concurrent postings
// against the same variant serialise on the read-modify-write.
type Store interface {
	GetBalanceForUpdate(ctx context.Context, variantID int64) (Balance, error)
	UpsertBalance(ctx context.Context, balance Balance) error
	InsertMovement(ctx context.Context, m Movement) (Movement, error)
	MovementsByRef(ctx context.Context, ref shared.DocRef) ([]Movement, error)
}

// Engine applies weighted-average costing to the running balance.
type Engine struct {
	allowNegative bool
	now           func() time.Time
}

// Config groups engine settings.
type Config struct {
	// AllowNegativeStock disables the negative-quantity guard. Off by
	// default; the guard exists because an outbound past zero corrupts the
	// average cost for every later movement.
	AllowNegativeStock bool
}

// NewEngine constructs the engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{allowNegative: cfg.AllowNegativeStock, now: time.Now}
}

// WithNow overrides the clock for testing.
func (e *Engine) WithNow(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// ApplyInbound receives stock at the given unit cost and recomputes the
// weighted average: newValue = value + qty*cost, avg = newValue/newQty.
func (e *Engine) ApplyInbound(ctx context.Context, store Store, in InboundInput) (Movement, error) {
	if in.VariantID == 0 {
		return Movement{}, fmt.Errorf("%w: variant required", shared.ErrValidation)
	}
	if in.Qty <= 0 {
		return Movement{}, ErrInvalidQuantity
	}
	if in.UnitCost.IsNegative() {
		return Movement{}, ErrInvalidUnitCost
	}
	balance, err := e.lockBalance(ctx, store, in.VariantID)
	if err != nil {
		return Movement{}, err
	}

	unitCost := shared.Round2(in.UnitCost)
	totalCost := shared.Round2(unitCost.Mul(shared.QtyDec(in.Qty)))

	m := Movement{
		VariantID:   in.VariantID,
		Direction:   DirectionIn,
		Qty:         in.Qty,
		UnitCost:    unitCost,
		TotalCost:   totalCost,
		Ref:         in.Ref,
		MovedAt:     e.movedAt(in.MovedAt),
		BeforeQty:   balance.Qty,
		BeforeValue: balance.Value,
		AfterQty:    balance.Qty + in.Qty,
		AfterValue:  balance.Value.Add(totalCost),
		Note:        in.Note,
		CreatedBy:   in.CreatedBy,
	}
	return e.commit(ctx, store, balance, m)
}

// ApplyOutbound issues stock at the current weighted-average cost. The
// quantity may never drive the balance negative, and issuing against an
// empty balance is a hard integrity failure, not a zero-cost movement.
func (e *Engine) ApplyOutbound(ctx context.Context, store Store, in OutboundInput) (Movement, error) {
	if in.VariantID == 0 {
		return Movement{}, fmt.Errorf("%w: variant required", shared.ErrValidation)
	}
	if in.Qty <= 0 {
		return Movement{}, ErrInvalidQuantity
	}
	balance, err := e.lockBalance(ctx, store, in.VariantID)
	if err != nil {
		return Movement{}, err
	}
	if balance.Qty <= qtyEpsilon {
		return Movement{}, fmt.Errorf("%w: variant %d", ErrNoStockValue, in.VariantID)
	}
	newQty := balance.Qty - in.Qty
	if newQty < -qtyEpsilon && !e.allowNegative {
		return Movement{}, fmt.Errorf("%w: variant %d has %g, outbound %g", shared.ErrInsufficientStock, in.VariantID, balance.Qty, in.Qty)
	}
	if math.Abs(newQty) < qtyEpsilon {
		newQty = 0
	}

	unitCost := balance.AvgCost()
	var totalCost decimal.Decimal
	if newQty == 0 {
		// Issuing the whole balance takes the whole value, so rounding can
		// never strand a residual on an empty quantity.
		totalCost = balance.Value
	} else {
		totalCost = shared.Round2(unitCost.Mul(shared.QtyDec(in.Qty)))
	}

	m := Movement{
		VariantID:   in.VariantID,
		Direction:   DirectionOut,
		Qty:         in.Qty,
		UnitCost:    shared.Round2(unitCost),
		TotalCost:   totalCost,
		Ref:         in.Ref,
		MovedAt:     e.movedAt(in.MovedAt),
		BeforeQty:   balance.Qty,
		BeforeValue: balance.Value,
		AfterQty:    newQty,
		AfterValue:  balance.Value.Sub(totalCost),
		Note:        in.Note,
		CreatedBy:   in.CreatedBy,
	}
	return e.commit(ctx, store, balance, m)
}

// Reverse appends the exact inverse of every movement the reference owns,
// newest first, restoring the balance the document found. The original
// movements stay untouched as the audit trail.
func (e *Engine) Reverse(ctx context.Context, store Store, ref shared.DocRef, actorID int64) ([]Movement, error) {
	movements, err := store.MovementsByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	var reversals []Movement
	for i := len(movements) - 1; i >= 0; i-- {
		orig := movements[i]
		if orig.Note == reversalNote(orig.Ref) || hasReversal(movements, orig) {
			continue
		}
		balance, err := e.lockBalance(ctx, store, orig.VariantID)
		if err != nil {
			return nil, err
		}
		direction := orig.Direction.Invert()
		afterQty := balance.Qty + orig.Qty
		afterValue := balance.Value.Add(orig.TotalCost)
		if direction == DirectionOut {
			afterQty = balance.Qty - orig.Qty
			afterValue = balance.Value.Sub(orig.TotalCost)
			if math.Abs(afterQty) < qtyEpsilon {
				afterQty = 0
			}
			if afterQty < -qtyEpsilon && !e.allowNegative {
				return nil, fmt.Errorf("%w: reversing inbound of variant %d", shared.ErrInsufficientStock, orig.VariantID)
			}
		}
		m := Movement{
			VariantID:   orig.VariantID,
			Direction:   direction,
			Qty:         orig.Qty,
			UnitCost:    orig.UnitCost,
			TotalCost:   orig.TotalCost,
			Ref:         orig.Ref,
			MovedAt:     e.now(),
			BeforeQty:   balance.Qty,
			BeforeValue: balance.Value,
			AfterQty:    afterQty,
			AfterValue:  afterValue,
			Note:        reversalNote(orig.Ref),
			CreatedBy:   actorID,
		}
		committed, err := e.commit(ctx, store, balance, m)
		if err != nil {
			return nil, err
		}
		reversals = append(reversals, committed)
	}
	return reversals, nil
}

func (e *Engine) lockBalance(ctx context.Context, store Store, variantID int64) (Balance, error) {
	balance, err := store.GetBalanceForUpdate(ctx, variantID)
	if errors.Is(err, ErrBalanceNotFound) {
		return Balance{VariantID: variantID, Value: decimal.Zero}, nil
	}
	return balance, err
}

func (e *Engine) commit(ctx context.Context, store Store, balance Balance, m Movement) (Movement, error) {
	inserted, err := store.InsertMovement(ctx, m)
	if err != nil {
		return Movement{}, err
	}
	balance.Qty = m.AfterQty
	balance.Value = m.AfterValue
	balance.UpdatedAt = e.now()
	if err := store.UpsertBalance(ctx, balance); err != nil {
		return Movement{}, err
	}
	return inserted, nil
}

func (e *Engine) movedAt(t time.Time) time.Time {
	if t.IsZero() {
		return e.now()
	}
	return t
}

func reversalNote(ref shared.DocRef) string {
	return fmt.Sprintf("reversal of %s", ref)
}

// hasReversal reports whether orig already has a compensating movement in
// the same reference group, so Reverse stays idempotent.
func hasReversal(movements []Movement, orig Movement) bool {
	note := reversalNote(orig.Ref)
	var originals, reversals int
	for _, m := range movements {
		if m.VariantID != orig.VariantID || m.Qty != orig.Qty {
			continue
		}
		if m.Note == note {
			reversals++
		} else if m.Direction == orig.Direction {
			originals++
		}
	}
	return reversals >= originals
}
