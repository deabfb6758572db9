package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/annam-erp/annam-erp/internal/platform/httpx"
)

// Handler exposes read access to balances and the stock card. Movements
// are only ever written by document confirmation.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Mount attaches routes under the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/inventory/{variantID}/balance", h.balance)
	r.Get("/inventory/{variantID}/stock-card", h.stockCard)
}

func variantID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "variantID"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	id, ok := variantID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed variant id")
		return
	}
	balance, err := h.service.Balance(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"variant_id": balance.VariantID,
		"qty":        balance.Qty,
		"value":      balance.Value,
		"avg_cost":   balance.AvgCost(),
	})
}

func (h *Handler) stockCard(w http.ResponseWriter, r *http.Request) {
	id, ok := variantID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed variant id")
		return
	}
	q := r.URL.Query()
	var from, to time.Time
	if v := q.Get("from"); v != "" {
		parsed, err := time.Parse(time.DateOnly, v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if v := q.Get("to"); v != "" {
		parsed, err := time.Parse(time.DateOnly, v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "to must be YYYY-MM-DD")
			return
		}
		to = parsed
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	movements, err := h.service.StockCard(r.Context(), id, from, to, limit)
	if err != nil {
		h.logger.Error("stock card failed", "variant_id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, movements)
}
