// Package inventory maintains per-variant running stock and value under
// weighted-average costing. Movements are append-only; cancellations add
// inverse movements instead of rewriting history.
package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// Direction enumerates stock movement directions.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Invert flips the direction, used when reversing a document.
func (d Direction) Invert() Direction {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}

// Movement is one stock transaction with before/after snapshots of the
// variant's running (quantity, value) pair.
type Movement struct {
	ID          int64
	VariantID   int64
	Direction   Direction
	Qty         float64
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	Ref         shared.DocRef
	MovedAt     time.Time
	BeforeQty   float64
	BeforeValue decimal.Decimal
	AfterQty    float64
	AfterValue  decimal.Decimal
	Note        string
	CreatedBy   int64
	CreatedAt   time.Time
}

// Balance is the cached running state per product variant.
type Balance struct {
	VariantID int64
	Qty       float64
	Value     decimal.Decimal
	UpdatedAt time.Time
}

// AvgCost returns value/quantity, zero for an empty balance.
func (b Balance) AvgCost() decimal.Decimal {
	if b.Qty <= qtyEpsilon {
		return decimal.Zero
	}
	return b.Value.DivRound(shared.QtyDec(b.Qty), 6)
}

// qtyEpsilon absorbs float64 noise when comparing quantities.
const qtyEpsilon = 1e-9

// Sentinel errors.
var (
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	ErrInvalidUnitCost = fmt.Errorf("%w: unit cost must be >= 0", shared.ErrValidation)
	// ErrNoStockValue fires when an outbound hits a zero-quantity balance.
	// Costing at zero would silently erase value, so it is treated as a
	// data-integrity failure rather than a zero-cost issue.
	ErrNoStockValue = fmt.Errorf("%w: outbound against empty balance", shared.ErrIntegrity)
)

// InboundInput describes an inbound movement request.
type InboundInput struct {
	VariantID int64
	Qty       float64
	UnitCost  decimal.Decimal
	Ref       shared.DocRef
	MovedAt   time.Time
	Note      string
	CreatedBy int64
}

// OutboundInput describes an outbound movement request. No unit cost: the
// engine always costs outbound stock at the current weighted average.
type OutboundInput struct {
	VariantID int64
	Qty       float64
	Ref       shared.DocRef
	MovedAt   time.Time
	Note      string
	CreatedBy int64
}
