// Package ledger implements the double-entry journal engine. Every document
// confirmation posts exactly one balanced entry here; cancellation removes
// it. The engine never commits an entry whose debit and credit totals drift
// apart by more than the fixed tolerance.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// JournalEntry is one balanced posting event owned by a source document.
type JournalEntry struct {
	ID        int64
	Code      string
	EntryDate time.Time
	Ref       shared.DocRef
	Note      string
	CreatedBy int64
	PostedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Lines     []JournalLine
}

// Posted reports whether the entry has been confirmed.
func (e JournalEntry) Posted() bool {
	return e.PostedAt != nil
}

// TotalDebit sums the debit side.
func (e JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the credit side.
func (e JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// JournalLine stores the debit or credit amount for one account.
type JournalLine struct {
	ID          int64
	EntryID     int64
	AccountID   int64
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// AccountRef is the slice of chart-of-accounts data the engine needs to
// admit a posting line.
type AccountRef struct {
	ID     int64
	Code   string
	Active bool
	Leaf   bool
}
