package ledger

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/annam-erp/annam-erp/internal/platform/httpx"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Handler exposes read access to posted journal entries. Writes only
// happen through document transitions, never directly.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the journal handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Mount attaches routes under the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/journal-entries", h.list)
	r.Get("/journal-entries/{kind}/{id}", h.getByRef)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.service.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list journal entries failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) getByRef(w http.ResponseWriter, r *http.Request) {
	kind, err := shared.ParseDocKind(chi.URLParam(r, "kind"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	entry, err := h.service.GetByRef(r.Context(), shared.DocRef{Kind: kind, ID: id})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}
