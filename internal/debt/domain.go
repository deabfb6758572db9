// Package debt keeps the running receivable/payable ledgers for customers
// and suppliers. One line per debt-affecting event, tied to its source
// document; edits are delete-and-recreate, never update-in-place.
package debt

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// PartyKind distinguishes the two ledgers.
type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartySupplier PartyKind = "supplier"
)

// Entry is one ledger line. The sign convention is fixed by document type:
// a confirmed sale debits the customer, a receipt voucher credits them; a
// confirmed purchase credits the supplier, a payment voucher debits them.
type Entry struct {
	ID        int64
	Party     PartyKind
	PartyID   int64
	Ref       shared.DocRef
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	EntryDate time.Time
	CreatedAt time.Time
}

// Validate checks structural rules on a new line.
func (e Entry) Validate() error {
	switch e.Party {
	case PartyCustomer, PartySupplier:
	default:
		return fmt.Errorf("%w: unknown party kind %q", shared.ErrValidation, e.Party)
	}
	if e.PartyID == 0 {
		return fmt.Errorf("%w: party required", shared.ErrValidation)
	}
	if e.Ref.IsZero() {
		return fmt.Errorf("%w: debt line requires a source document", shared.ErrValidation)
	}
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return fmt.Errorf("%w: negative debt amount", shared.ErrValidation)
	}
	if e.Debit.IsZero() == e.Credit.IsZero() {
		return fmt.Errorf("%w: exactly one of debit/credit must be set", shared.ErrValidation)
	}
	if e.EntryDate.IsZero() {
		return fmt.Errorf("%w: entry date required", shared.ErrValidation)
	}
	return nil
}

// RunningBalance folds a party's lines into sum(debit) - sum(credit).
func RunningBalance(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Debit).Sub(e.Credit)
	}
	return total
}
