package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/annam-erp/annam-erp/internal/platform/httpx"
)

// Handler exposes the two statements.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the reports handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Mount attaches routes under the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/reports/general-ledger", h.generalLedger)
	r.Get("/reports/business-result", h.businessResult)
}

func parseWindow(r *http.Request) (time.Time, time.Time, bool) {
	from, err := time.Parse(time.DateOnly, r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.DateOnly, r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *Handler) generalLedger(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseWindow(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "from and to must be YYYY-MM-DD")
		return
	}
	gl, err := h.service.GeneralLedger(r.Context(), from, to)
	if err != nil {
		h.logger.Error("general ledger failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, gl)
}

func (h *Handler) businessResult(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseWindow(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "from and to must be YYYY-MM-DD")
		return
	}
	br, err := h.service.BusinessResult(r.Context(), from, to, r.URL.Query().Get("locale"))
	if err != nil {
		h.logger.Error("business result failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, br)
}
