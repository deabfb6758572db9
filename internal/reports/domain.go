// Package reports aggregates posted journal data into the two read-only
// statements the application ships: the general ledger and the business
// result. It owns no invariants; everything here is a projection of what
// the engines already committed.
package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/coa"
)

// AccountActivity is one account's aggregated movement, as loaded from
// journal_lines: sums before the window (opening) and inside it.
type AccountActivity struct {
	AccountID     int64
	Code          string
	Name          string
	Type          coa.AccountType
	OpeningDebit  decimal.Decimal
	OpeningCredit decimal.Decimal
	PeriodDebit   decimal.Decimal
	PeriodCredit  decimal.Decimal
}

// LedgerRow is one presented general-ledger line. Opening and Closing are
// signed per the account's normal balance side, so a receivable and a
// payable both read as positive when they carry their usual balance.
type LedgerRow struct {
	Code    string
	Name    string
	Opening decimal.Decimal
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Closing decimal.Decimal
}

// LedgerGroup aggregates rows under a shared account-class prefix.
type LedgerGroup struct {
	Key     string
	Rows    []LedgerRow
	Opening decimal.Decimal
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Closing decimal.Decimal
}

// GeneralLedger is the full statement for a date window.
type GeneralLedger struct {
	From         time.Time
	To           time.Time
	Groups       []LedgerGroup
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
	TotalOpening decimal.Decimal
	TotalClosing decimal.Decimal
}

// groupKey buckets accounts by their class prefix: "5111" and "511" both
// land in "511", three-digit roots stand alone.
func groupKey(code string) string {
	if len(code) >= 3 {
		return code[:3]
	}
	return code
}

func signedBalance(t coa.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if t.NormalBalance() == coa.BalanceSideCredit {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// BuildGeneralLedger converts raw account activity into the grouped
// statement. Accounts with no opening balance and no period movement are
// dropped.
func BuildGeneralLedger(from, to time.Time, activity []AccountActivity) GeneralLedger {
	groups := make(map[string]*LedgerGroup)
	keys := make([]string, 0)
	out := GeneralLedger{
		From:         from,
		To:           to,
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
		TotalOpening: decimal.Zero,
		TotalClosing: decimal.Zero,
	}

	for _, a := range activity {
		opening := signedBalance(a.Type, a.OpeningDebit, a.OpeningCredit)
		if opening.IsZero() && a.PeriodDebit.IsZero() && a.PeriodCredit.IsZero() {
			continue
		}
		row := LedgerRow{
			Code:    a.Code,
			Name:    a.Name,
			Opening: opening,
			Debit:   a.PeriodDebit,
			Credit:  a.PeriodCredit,
		}
		row.Closing = opening.Add(signedBalance(a.Type, a.PeriodDebit, a.PeriodCredit))

		key := groupKey(a.Code)
		grp, ok := groups[key]
		if !ok {
			grp = &LedgerGroup{
				Key:     key,
				Opening: decimal.Zero,
				Debit:   decimal.Zero,
				Credit:  decimal.Zero,
				Closing: decimal.Zero,
			}
			groups[key] = grp
			keys = append(keys, key)
		}
		grp.Rows = append(grp.Rows, row)
		grp.Opening = grp.Opening.Add(row.Opening)
		grp.Debit = grp.Debit.Add(row.Debit)
		grp.Credit = grp.Credit.Add(row.Credit)
		grp.Closing = grp.Closing.Add(row.Closing)
	}

	sort.Strings(keys)
	for _, key := range keys {
		grp := groups[key]
		sort.Slice(grp.Rows, func(i, j int) bool {
			return grp.Rows[i].Code < grp.Rows[j].Code
		})
		out.Groups = append(out.Groups, *grp)
		out.TotalOpening = out.TotalOpening.Add(grp.Opening)
		out.TotalDebit = out.TotalDebit.Add(grp.Debit)
		out.TotalCredit = out.TotalCredit.Add(grp.Credit)
		out.TotalClosing = out.TotalClosing.Add(grp.Closing)
	}
	return out
}

// ResultLine is one labelled figure on the business-result statement.
type ResultLine struct {
	Code   string
	Label  string
	Amount decimal.Decimal
}

// BusinessResult summarises trading performance for a date window.
type BusinessResult struct {
	From        time.Time
	To          time.Time
	Locale      string
	Lines       []ResultLine
	GrossProfit decimal.Decimal
	NetResult   decimal.Decimal
}

// ResultTotals carries the raw sums the repository provides.
type ResultTotals struct {
	Revenue  decimal.Decimal // credit turnover on 511*
	COGS     decimal.Decimal // debit turnover on 632
	Expenses decimal.Decimal // debit turnover on 64*
}

var resultLabels = map[string]map[string]string{
	"vi": {
		"revenue":      "Doanh thu bán hàng",
		"cogs":         "Giá vốn hàng bán",
		"gross_profit": "Lợi nhuận gộp",
		"expenses":     "Chi phí hoạt động",
		"net_result":   "Lợi nhuận thuần",
	},
	"en": {
		"revenue":      "Sales revenue",
		"cogs":         "Cost of goods sold",
		"gross_profit": "Gross profit",
		"expenses":     "Operating expenses",
		"net_result":   "Net result",
	},
}

func label(locale, key string) string {
	if m, ok := resultLabels[locale]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return resultLabels["en"][key]
}

// BuildBusinessResult derives profit lines from the raw totals, labelled
// for the requested locale (fallback: English).
func BuildBusinessResult(from, to time.Time, locale string, totals ResultTotals) BusinessResult {
	gross := totals.Revenue.Sub(totals.COGS)
	net := gross.Sub(totals.Expenses)
	return BusinessResult{
		From:        from,
		To:          to,
		Locale:      locale,
		GrossProfit: gross,
		NetResult:   net,
		Lines: []ResultLine{
			{Code: "revenue", Label: label(locale, "revenue"), Amount: totals.Revenue},
			{Code: "cogs", Label: label(locale, "cogs"), Amount: totals.COGS},
			{Code: "gross_profit", Label: label(locale, "gross_profit"), Amount: gross},
			{Code: "expenses", Label: label(locale, "expenses"), Amount: totals.Expenses},
			{Code: "net_result", Label: label(locale, "net_result"), Amount: net},
		},
	}
}
