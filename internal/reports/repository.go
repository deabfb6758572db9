package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads aggregated posting data. Only posted journal entries
// count; drafts never reach journal_lines in the first place and cancelled
// documents delete theirs.
type Repository interface {
	AccountActivity(ctx context.Context, from, to time.Time) ([]AccountActivity, error)
	ResultTotals(ctx context.Context, from, to time.Time) (ResultTotals, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed report reader.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) AccountActivity(ctx context.Context, from, to time.Time) ([]AccountActivity, error) {
	rows, err := r.pool.Query(ctx, `
SELECT a.id, a.code, a.name, a.account_type,
       COALESCE(SUM(l.debit)  FILTER (WHERE e.entry_date <  $1), 0) AS opening_debit,
       COALESCE(SUM(l.credit) FILTER (WHERE e.entry_date <  $1), 0) AS opening_credit,
       COALESCE(SUM(l.debit)  FILTER (WHERE e.entry_date >= $1 AND e.entry_date <= $2), 0) AS period_debit,
       COALESCE(SUM(l.credit) FILTER (WHERE e.entry_date >= $1 AND e.entry_date <= $2), 0) AS period_credit
FROM accounts a
LEFT JOIN journal_lines l ON l.account_id = a.id
LEFT JOIN journal_entries e ON e.id = l.entry_id AND e.posted_at IS NOT NULL AND e.entry_date <= $2
GROUP BY a.id, a.code, a.name, a.account_type
ORDER BY a.code`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccountActivity
	for rows.Next() {
		var a AccountActivity
		if err := rows.Scan(&a.AccountID, &a.Code, &a.Name, &a.Type,
			&a.OpeningDebit, &a.OpeningCredit, &a.PeriodDebit, &a.PeriodCredit); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) ResultTotals(ctx context.Context, from, to time.Time) (ResultTotals, error) {
	var totals ResultTotals
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(l.credit) FILTER (WHERE a.code LIKE '511%'), 0) AS revenue,
       COALESCE(SUM(l.debit)  FILTER (WHERE a.code = '632'),     0) AS cogs,
       COALESCE(SUM(l.debit)  FILTER (WHERE a.code LIKE '64%'),  0) AS expenses
FROM journal_lines l
JOIN journal_entries e ON e.id = l.entry_id
JOIN accounts a ON a.id = l.account_id
WHERE e.posted_at IS NOT NULL AND e.entry_date >= $1 AND e.entry_date <= $2`, from, to).
		Scan(&totals.Revenue, &totals.COGS, &totals.Expenses)
	return totals, err
}
