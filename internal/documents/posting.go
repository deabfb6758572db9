package documents

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Posting accounts from the Vietnamese small-business chart (TT133).
const (
	acctCash        = "111"  // tiền mặt
	acctBank        = "112"  // tiền gửi ngân hàng
	acctReceivable  = "131"  // phải thu khách hàng
	acctVATIn       = "133"  // thuế GTGT được khấu trừ
	acctMerchandise = "156"  // hàng hóa
	acctPayable     = "331"  // phải trả người bán
	acctVATOut      = "3331" // thuế GTGT phải nộp
	acctRevenue     = "5111" // doanh thu bán hàng hóa
	acctCOGS        = "632"  // giá vốn hàng bán
)

// purchaseJournalLines derives the entry for a confirmed purchase:
// inventory and deductible VAT against the supplier payable.
func purchaseJournalLines(r PurchaseReceipt) []ledger.LineInput {
	lines := []ledger.LineInput{
		{AccountCode: acctMerchandise, Debit: r.Subtotal},
	}
	if r.VATTotal.IsPositive() {
		lines = append(lines, ledger.LineInput{AccountCode: acctVATIn, Debit: r.VATTotal})
	}
	return append(lines, ledger.LineInput{AccountCode: acctPayable, Credit: r.GrandTotal})
}

// salesJournalLines derives the two-legged entry for a confirmed sale:
// revenue recognition against the receivable, plus cost of goods sold at
// the weighted-average cost the inventory engine just charged.
func salesJournalLines(r SalesReceipt, cogs decimal.Decimal) []ledger.LineInput {
	lines := []ledger.LineInput{
		{AccountCode: acctReceivable, Debit: r.GrandTotal},
		{AccountCode: acctRevenue, Credit: r.Subtotal},
	}
	if r.VATTotal.IsPositive() {
		lines = append(lines, ledger.LineInput{AccountCode: acctVATOut, Credit: r.VATTotal})
	}
	if cogs.IsPositive() {
		lines = append(lines,
			ledger.LineInput{AccountCode: acctCOGS, Debit: cogs},
			ledger.LineInput{AccountCode: acctMerchandise, Credit: cogs},
		)
	}
	return lines
}

// voucherJournalLines returns the voucher's own lines when the user
// supplied them, otherwise the default cash/bank template.
func voucherJournalLines(v Voucher) ([]ledger.LineInput, error) {
	if len(v.Lines) >= 2 {
		return v.Lines, nil
	}
	if len(v.Lines) == 1 {
		return nil, fmt.Errorf("%w: voucher journal needs at least two lines", shared.ErrValidation)
	}
	cashAccount := acctCash
	if v.Method == PaymentBank {
		cashAccount = acctBank
	}
	switch v.Kind {
	case shared.DocKindReceiptVoucher:
		return []ledger.LineInput{
			{AccountCode: cashAccount, Debit: v.Amount},
			{AccountCode: acctReceivable, Credit: v.Amount},
		}, nil
	case shared.DocKindPaymentVoucher:
		return []ledger.LineInput{
			{AccountCode: acctPayable, Debit: v.Amount},
			{AccountCode: cashAccount, Credit: v.Amount},
		}, nil
	}
	return nil, fmt.Errorf("%w: %q is not a voucher kind", shared.ErrValidation, v.Kind)
}
