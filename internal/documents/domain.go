// Package documents implements the four commercial document state machines
// (purchase receipt, sales receipt, receipt voucher, payment voucher) and
// orchestrates the journal, inventory, and debt engines through their
// draft -> confirmed -> cancelled lifecycle.
package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Status enumerates document lifecycle values.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus normalises free-form status tokens to the canonical set.
// Upstream callers historically send both "cancel" and "cancelled".
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return StatusDraft, nil
	case "confirm", "confirmed":
		return StatusConfirmed, nil
	case "cancel", "cancelled", "canceled":
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", shared.ErrValidation, s)
}

// Sentinel errors.
var (
	ErrDocumentNotFound = fmt.Errorf("%w: document", shared.ErrNotFound)
	ErrNotDraft         = fmt.Errorf("%w: document is not a draft", shared.ErrInvalidState)
	ErrNotConfirmed     = fmt.Errorf("%w: document is not confirmed", shared.ErrInvalidState)
	ErrAlreadyCancelled = fmt.Errorf("%w: document is cancelled", shared.ErrInvalidState)
)

// ReceiptItem is one line on a purchase or sales receipt. Subtotal and
// VATAmount are derived by ComputeAmounts, never trusted from input.
type ReceiptItem struct {
	ID        int64
	VariantID int64
	Qty       float64
	Price     decimal.Decimal
	VATRate   decimal.Decimal // percent, e.g. 10
	VATAmount decimal.Decimal
	Subtotal  decimal.Decimal

	// Sales-only pricing fields; zero on purchase receipts.
	ListPrice       decimal.Decimal
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal
}

// ComputeAmounts derives discount, subtotal, and VAT for the line.
func (it *ReceiptItem) ComputeAmounts() error {
	if it.VariantID == 0 {
		return fmt.Errorf("%w: item variant required", shared.ErrValidation)
	}
	if it.Qty <= 0 {
		return fmt.Errorf("%w: item quantity must be positive", shared.ErrValidation)
	}
	if it.Price.IsNegative() || it.VATRate.IsNegative() {
		return fmt.Errorf("%w: negative price or VAT rate", shared.ErrValidation)
	}
	qty := shared.QtyDec(it.Qty)
	if it.DiscountPercent.IsPositive() {
		if it.ListPrice.IsZero() {
			return fmt.Errorf("%w: discount percent requires a list price", shared.ErrValidation)
		}
		it.DiscountAmount = shared.Round2(it.ListPrice.Mul(qty).Mul(it.DiscountPercent).Div(decimal.NewFromInt(100)))
		it.Price = shared.Round2(it.ListPrice.Sub(it.ListPrice.Mul(it.DiscountPercent).Div(decimal.NewFromInt(100))))
	}
	it.Subtotal = shared.Round2(it.Price.Mul(qty))
	it.VATAmount = shared.Round2(it.Subtotal.Mul(it.VATRate).Div(decimal.NewFromInt(100)))
	return nil
}

// PurchaseReceipt records goods received from a supplier.
type PurchaseReceipt struct {
	ID          uuid.UUID
	Code        string
	ReceiptDate time.Time
	SupplierID  int64
	Status      Status
	Note        string
	CreatedBy   int64
	Subtotal    decimal.Decimal
	VATTotal    decimal.Decimal
	GrandTotal  decimal.Decimal
	Items       []ReceiptItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ref returns the polymorphic reference derived records carry.
func (r PurchaseReceipt) Ref() shared.DocRef {
	return shared.DocRef{Kind: shared.DocKindPurchaseReceipt, ID: r.ID}
}

// SalesReceipt records goods sold to a customer.
type SalesReceipt struct {
	ID          uuid.UUID
	Code        string
	ReceiptDate time.Time
	CustomerID  int64
	Status      Status
	Note        string
	CreatedBy   int64
	Subtotal    decimal.Decimal
	VATTotal    decimal.Decimal
	GrandTotal  decimal.Decimal
	Items       []ReceiptItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ref returns the polymorphic reference derived records carry.
func (r SalesReceipt) Ref() shared.DocRef {
	return shared.DocRef{Kind: shared.DocKindSalesReceipt, ID: r.ID}
}

// PaymentMethod enumerates voucher settlement channels.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentBank PaymentMethod = "bank"
)

// Voucher is a cash/bank receipt or payment document. Unlike receipts it
// owns journal lines directly instead of item lines; the lines are stored
// on the draft and only posted to the ledger on confirmation.
type Voucher struct {
	ID          uuid.UUID
	Kind        shared.DocKind // receipt_voucher or payment_voucher
	Code        string
	VoucherDate time.Time
	PartyID     int64
	Amount      decimal.Decimal
	Method      PaymentMethod
	Status      Status
	Note        string
	CreatedBy   int64
	Lines       []ledger.LineInput
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ref returns the polymorphic reference derived records carry.
func (v Voucher) Ref() shared.DocRef {
	return shared.DocRef{Kind: v.Kind, ID: v.ID}
}

func computeTotals(items []ReceiptItem) (subtotal, vat, grand decimal.Decimal, err error) {
	subtotal, vat = decimal.Zero, decimal.Zero
	if len(items) == 0 {
		return subtotal, vat, grand, fmt.Errorf("%w: receipt requires at least one item", shared.ErrValidation)
	}
	for i := range items {
		if err := items[i].ComputeAmounts(); err != nil {
			return subtotal, vat, grand, err
		}
		subtotal = subtotal.Add(items[i].Subtotal)
		vat = vat.Add(items[i].VATAmount)
	}
	return subtotal, vat, subtotal.Add(vat), nil
}
