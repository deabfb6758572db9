package debt

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// Store is the transaction-scoped persistence surface.
type Store interface {
	InsertEntry(ctx context.Context, e Entry) (Entry, error)
	DeleteByRef(ctx context.Context, ref shared.DocRef) (int64, error)
	PartyExists(ctx context.Context, party PartyKind, partyID int64) (bool, error)
}

// Ledger posts and removes debt lines. Like the other engines it is
// stateless and runs inside whatever transaction the caller owns.
type Ledger struct{}

// NewLedger constructs the ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// PostForDocument appends the debt line a confirmed document implies. The
// side is fixed per document kind; amounts come from the document total.
func (l *Ledger) PostForDocument(ctx context.Context, store Store, ref shared.DocRef, partyID int64, amount decimal.Decimal, date time.Time) (Entry, error) {
	if amount.IsNegative() {
		return Entry{}, fmt.Errorf("%w: negative document amount", shared.ErrValidation)
	}
	amount = shared.Round2(amount)
	entry := Entry{PartyID: partyID, Ref: ref, EntryDate: date}
	switch ref.Kind {
	case shared.DocKindSalesReceipt:
		entry.Party, entry.Debit = PartyCustomer, amount
	case shared.DocKindReceiptVoucher:
		entry.Party, entry.Credit = PartyCustomer, amount
	case shared.DocKindPurchaseReceipt:
		entry.Party, entry.Credit = PartySupplier, amount
	case shared.DocKindPaymentVoucher:
		entry.Party, entry.Debit = PartySupplier, amount
	default:
		return Entry{}, fmt.Errorf("%w: document kind %q carries no debt", shared.ErrValidation, ref.Kind)
	}
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}
	ok, err := store.PartyExists(ctx, entry.Party, entry.PartyID)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s %d", shared.ErrNotFound, entry.Party, entry.PartyID)
	}
	return store.InsertEntry(ctx, entry)
}

// RemoveByRef deletes every line the document owns. Used on cancellation
// and before re-posting an edited draft.
func (l *Ledger) RemoveByRef(ctx context.Context, store Store, ref shared.DocRef) error {
	_, err := store.DeleteByRef(ctx, ref)
	return err
}
