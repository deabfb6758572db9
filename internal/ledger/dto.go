package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// LineInput describes one requested journal line.
type LineInput struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// PostingInput groups fields required to create a journal entry.
type PostingInput struct {
	Ref       shared.DocRef
	Code      string
	EntryDate time.Time
	Note      string
	CreatedBy int64
	Lines     []LineInput
}

// Validate checks structural rules and the balance invariant:
// |sum(debit) - sum(credit)| must stay within shared.BalanceTolerance.
func (in PostingInput) Validate() error {
	if in.Ref.IsZero() {
		return fmt.Errorf("%w: journal entry requires a source document", shared.ErrValidation)
	}
	if in.EntryDate.IsZero() {
		return fmt.Errorf("%w: entry date required", shared.ErrValidation)
	}
	if len(in.Lines) < 2 {
		return ErrTooFewLines
	}
	debit, credit := decimal.Zero, decimal.Zero
	for idx, line := range in.Lines {
		if line.AccountCode == "" {
			return fmt.Errorf("%w: line %d missing account code", shared.ErrValidation, idx)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d negative amount", shared.ErrValidation, idx)
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return fmt.Errorf("%w: line %d cannot carry both debit and credit", shared.ErrValidation, idx)
		}
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if debit.Sub(credit).Abs().GreaterThan(shared.BalanceTolerance) {
		return fmt.Errorf("%w: debit %s vs credit %s", ErrUnbalanced, debit, credit)
	}
	return nil
}
