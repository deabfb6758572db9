package debt

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/annam-erp/annam-erp/internal/platform/httpx"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Handler exposes per-party debt history and balances.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs the debt handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// Mount attaches routes under the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/debts/{party}/{partyID}", h.ledger)
	r.Get("/debts/{party}/{partyID}/balance", h.balance)
}

func parseParty(r *http.Request) (PartyKind, int64, error) {
	var party PartyKind
	switch chi.URLParam(r, "party") {
	case "customers":
		party = PartyCustomer
	case "suppliers":
		party = PartySupplier
	default:
		return "", 0, shared.ErrValidation
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "partyID"), 10, 64)
	if err != nil || id <= 0 {
		return "", 0, shared.ErrValidation
	}
	return party, id, nil
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	party, partyID, err := parseParty(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "party must be customers|suppliers with a numeric id")
		return
	}
	q := r.URL.Query()
	var from, to time.Time
	if v := q.Get("from"); v != "" {
		from, err = time.Parse(time.DateOnly, v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "from must be YYYY-MM-DD")
			return
		}
	}
	if v := q.Get("to"); v != "" {
		to, err = time.Parse(time.DateOnly, v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "to must be YYYY-MM-DD")
			return
		}
	}
	entries, err := h.repo.PartyLedger(r.Context(), party, partyID, from, to)
	if err != nil {
		h.logger.Error("party ledger failed", "party", party, "party_id", partyID, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"balance": RunningBalance(entries),
	})
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	party, partyID, err := parseParty(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "party must be customers|suppliers with a numeric id")
		return
	}
	balance, err := h.repo.PartyBalance(r.Context(), party, partyID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"party": party, "party_id": partyID, "balance": balance})
}
