package parties

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/annam-erp/annam-erp/internal/debt"
	"github.com/annam-erp/annam-erp/internal/platform/httpx"
)

// Handler exposes customer and supplier registries over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the party handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// Mount attaches routes under the given router.
func (h *Handler) Mount(r chi.Router) {
	h.mountKind(r, "/customers", debt.PartyCustomer)
	h.mountKind(r, "/suppliers", debt.PartySupplier)
}

func (h *Handler) mountKind(r chi.Router, prefix string, kind debt.PartyKind) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.list(kind))
		r.Post("/", h.create(kind))
		r.Get("/{id}", h.get(kind))
		r.Put("/{id}", h.update(kind))
		r.Post("/{id}/archive", h.archive(kind))
		r.Delete("/{id}", h.delete(kind))
	})
}

type partyResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

func toPartyResponse(p Party) partyResponse {
	return partyResponse{ID: p.ID, Name: p.Name, Phone: p.Phone, IsActive: p.IsActive}
}

type partyRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Phone string `json:"phone" validate:"max=32"`
}

func partyID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) list(kind debt.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.service.List(r.Context(), kind, r.URL.Query().Get("q"))
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		out := make([]partyResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPartyResponse(p))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func (h *Handler) get(kind debt.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := partyID(r)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "invalid id", "id must be a positive integer")
			return
		}
		p, err := h.service.Get(r.Context(), kind, id)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toPartyResponse(p))
	}
}

func (h *Handler) create(kind debt.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req partyRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "invalid body", err.Error())
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		p, err := h.service.Create(r.Context(), kind, CreateInput{
			Name:    req.Name,
			Phone:   req.Phone,
			ActorID: httpx.ActorID(r),
		})
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, toPartyResponse(p))
	}
}

func (h *Handler) update(kind debt.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := partyID(r)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "invalid id", "id must be a positive integer")
			return
		}
		var req partyRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "invalid body", err.Error())
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		p, err := h.service.Update(r.Context(), kind, UpdateInput{
			ID:      id,
			Name:    req.Name,
			Phone:   req.Phone,
			ActorID: httpx.ActorID(r),
		})
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toPartyResponse(p))
	}
}

func (h *Handler) archive(kind debt.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := partyID(r)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "invalid id", "id must be a positive integer")
			return
		}
		if err := h.service.Archive(r.Context(), kind, id, httpx.ActorID(r)); err != nil {
			httpx.RespondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) delete(kind debt.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := partyID(r)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "invalid id", "id must be a positive integer")
			return
		}
		if err := h.service.Delete(r.Context(), kind, id, httpx.ActorID(r)); err != nil {
			httpx.RespondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
