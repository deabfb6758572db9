package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/coa"
	"github.com/annam-erp/annam-erp/internal/inventory"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Checker owns the out-of-band consistency scans. Every scan is read-only
// except the tree rebuild; none of them sit on a document's hot path.
type Checker struct {
	pool   *pgxpool.Pool
	coa    *coa.Service
	logger *slog.Logger
}

// NewChecker constructs the checker.
func NewChecker(pool *pgxpool.Pool, coaService *coa.Service, logger *slog.Logger) *Checker {
	return &Checker{pool: pool, coa: coaService, logger: logger}
}

// Handlers returns the task registrations for the worker mux.
func (c *Checker) Handlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskGLIntegrity, Handler: c.HandleGLIntegrity},
		{Type: TaskInventoryRecost, Handler: c.HandleInventoryRecost},
		{Type: TaskCoARebuild, Handler: c.HandleCoARebuild},
	}
}

// Cron returns the nightly schedule for all three scans.
func Cron() []CronRegistration {
	return []CronRegistration{
		{Spec: "0 1 * * *", Task: asynq.NewTask(TaskGLIntegrity, nil)},
		{Spec: "30 1 * * *", Task: asynq.NewTask(TaskInventoryRecost, nil)},
		{Spec: "0 2 * * *", Task: NewCoARebuildTask()},
	}
}

// HandleGLIntegrity verifies that every posted journal entry balances
// within the shared tolerance. A violation is logged and fails the task so
// it surfaces in the asynq dead queue.
func (c *Checker) HandleGLIntegrity(ctx context.Context, t *asynq.Task) error {
	var payload GLIntegrityPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	rows, err := c.pool.Query(ctx, `
SELECT e.id, e.code, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
FROM journal_entries e
LEFT JOIN journal_lines l ON l.entry_id = e.id
WHERE e.posted_at IS NOT NULL AND e.entry_date >= $1
GROUP BY e.id, e.code`, payload.Since)
	if err != nil {
		return err
	}
	defer rows.Close()

	var violations int
	for rows.Next() {
		var (
			id            int64
			code          string
			debit, credit decimal.Decimal
		)
		if err := rows.Scan(&id, &code, &debit, &credit); err != nil {
			return err
		}
		if debit.Sub(credit).Abs().GreaterThan(shared.BalanceTolerance) {
			violations++
			c.logger.Error("unbalanced journal entry",
				slog.Int64("entry_id", id),
				slog.String("code", code),
				slog.String("debit", debit.String()),
				slog.String("credit", credit.String()))
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if violations > 0 {
		return fmt.Errorf("jobs: %d unbalanced journal entries", violations)
	}
	c.logger.Info("gl integrity check passed", slog.Time("since", payload.Since))
	return nil
}

// HandleInventoryRecost replays the movement stream per variant and
// compares the result with the cached balance row.
func (c *Checker) HandleInventoryRecost(ctx context.Context, t *asynq.Task) error {
	var payload InventoryRecostPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	query := `
SELECT variant_id, direction, qty, total_cost
FROM inventory_movements ORDER BY variant_id, id`
	args := []any{}
	if payload.VariantID != 0 {
		query = `
SELECT variant_id, direction, qty, total_cost
FROM inventory_movements WHERE variant_id=$1 ORDER BY id`
		args = append(args, payload.VariantID)
	}
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	type replayed struct {
		qty   float64
		value decimal.Decimal
	}
	state := make(map[int64]*replayed)
	for rows.Next() {
		var (
			variantID int64
			direction string
			qty       float64
			totalCost decimal.Decimal
		)
		if err := rows.Scan(&variantID, &direction, &qty, &totalCost); err != nil {
			return err
		}
		r, ok := state[variantID]
		if !ok {
			r = &replayed{value: decimal.Zero}
			state[variantID] = r
		}
		if direction == string(inventory.DirectionIn) {
			r.qty += qty
			r.value = r.value.Add(totalCost)
		} else {
			r.qty -= qty
			r.value = r.value.Sub(totalCost)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var drift int
	for variantID, r := range state {
		var cachedQty float64
		var cachedValue decimal.Decimal
		err := c.pool.QueryRow(ctx, `SELECT qty, value FROM inventory_balances WHERE variant_id=$1`, variantID).
			Scan(&cachedQty, &cachedValue)
		if err != nil {
			return err
		}
		if math.Abs(cachedQty-r.qty) > 1e-9 || !cachedValue.Equal(r.value) {
			drift++
			c.logger.Error("inventory balance drift",
				slog.Int64("variant_id", variantID),
				slog.Float64("cached_qty", cachedQty),
				slog.Float64("replayed_qty", r.qty),
				slog.String("cached_value", cachedValue.String()),
				slog.String("replayed_value", r.value.String()))
		}
	}
	if drift > 0 {
		return fmt.Errorf("jobs: %d variants drifted from their movement stream", drift)
	}
	c.logger.Info("inventory recost check passed", slog.Int("variants", len(state)))
	return nil
}

// HandleCoARebuild recomputes nested-set bounds for the whole tree.
func (c *Checker) HandleCoARebuild(ctx context.Context, t *asynq.Task) error {
	start := time.Now()
	if err := c.coa.Rebuild(ctx); err != nil {
		return err
	}
	c.logger.Info("account tree rebuilt", slog.Duration("took", time.Since(start)))
	return nil
}
