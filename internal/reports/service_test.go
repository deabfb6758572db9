package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/annam-erp/annam-erp/internal/coa"
	"github.com/annam-erp/annam-erp/internal/shared"
)

type memoryReportRepo struct {
	activity []AccountActivity
	totals   ResultTotals
	calls    int
}

func (r *memoryReportRepo) AccountActivity(ctx context.Context, from, to time.Time) ([]AccountActivity, error) {
	r.calls++
	return r.activity, nil
}

func (r *memoryReportRepo) ResultTotals(ctx context.Context, from, to time.Time) (ResultTotals, error) {
	r.calls++
	return r.totals, nil
}

func money(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func window() (time.Time, time.Time) {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
}

func TestGeneralLedgerGroupsAndSigns(t *testing.T) {
	repo := &memoryReportRepo{activity: []AccountActivity{
		{Code: "111", Name: "Cash", Type: coa.AccountTypeAsset,
			OpeningDebit: money("300"), PeriodDebit: money("100"), PeriodCredit: money("40"),
			OpeningCredit: decimal.Zero},
		{Code: "5111", Name: "Merchandise revenue", Type: coa.AccountTypeRevenue,
			OpeningDebit: decimal.Zero, OpeningCredit: decimal.Zero,
			PeriodDebit: decimal.Zero, PeriodCredit: money("500")},
		{Code: "5112", Name: "Finished goods revenue", Type: coa.AccountTypeRevenue,
			OpeningDebit: decimal.Zero, OpeningCredit: decimal.Zero,
			PeriodDebit: decimal.Zero, PeriodCredit: money("200")},
		{Code: "642", Name: "Admin expense", Type: coa.AccountTypeExpense,
			OpeningDebit: decimal.Zero, OpeningCredit: decimal.Zero,
			PeriodDebit: decimal.Zero, PeriodCredit: decimal.Zero},
	}}
	svc := NewService(repo, "vi")
	from, to := window()

	gl, err := svc.GeneralLedger(context.Background(), from, to)
	require.NoError(t, err)

	// The idle expense account is dropped; revenue sub-accounts share a group.
	require.Len(t, gl.Groups, 2)
	require.Equal(t, "111", gl.Groups[0].Key)
	require.Equal(t, "511", gl.Groups[1].Key)
	require.Len(t, gl.Groups[1].Rows, 2)

	cash := gl.Groups[0].Rows[0]
	require.True(t, cash.Opening.Equal(money("300")))
	require.True(t, cash.Closing.Equal(money("360")), "closing %s", cash.Closing)

	// Credit-normal accounts read positive when in credit.
	revenue := gl.Groups[1].Rows[0]
	require.True(t, revenue.Closing.Equal(money("500")))
	require.True(t, gl.Groups[1].Closing.Equal(money("700")))

	require.True(t, gl.TotalDebit.Equal(money("100")))
	require.True(t, gl.TotalCredit.Equal(money("740")))
}

func TestBusinessResultArithmeticAndLocale(t *testing.T) {
	repo := &memoryReportRepo{totals: ResultTotals{
		Revenue:  money("1000"),
		COGS:     money("600"),
		Expenses: money("150"),
	}}
	svc := NewService(repo, "vi")
	from, to := window()

	br, err := svc.BusinessResult(context.Background(), from, to, "")
	require.NoError(t, err)
	require.Equal(t, "vi", br.Locale)
	require.True(t, br.GrossProfit.Equal(money("400")))
	require.True(t, br.NetResult.Equal(money("250")))
	require.Equal(t, "Doanh thu bán hàng", br.Lines[0].Label)

	en, err := svc.BusinessResult(context.Background(), from, to, "en")
	require.NoError(t, err)
	require.Equal(t, "Sales revenue", en.Lines[0].Label)

	// Unknown locales fall back to English labels.
	fr, err := svc.BusinessResult(context.Background(), from, to, "fr")
	require.NoError(t, err)
	require.Equal(t, "Net result", fr.Lines[4].Label)
}

func TestReportWindowValidation(t *testing.T) {
	svc := NewService(&memoryReportRepo{}, "")
	from, to := window()

	_, err := svc.GeneralLedger(context.Background(), time.Time{}, to)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.BusinessResult(context.Background(), to, from, "")
	require.ErrorIs(t, err, shared.ErrValidation)
}
