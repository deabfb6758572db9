package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/platform/httpx"
)

// Handler exposes the product variant registry over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the product handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// Mount attaches routes under the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Post("/{id}/archive", h.archive)
		r.Delete("/{id}", h.delete)
	})
}

type variantResponse struct {
	ID        int64  `json:"id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Unit      string `json:"unit,omitempty"`
	SalePrice string `json:"sale_price"`
	IsActive  bool   `json:"is_active"`
}

func toVariantResponse(v Variant) variantResponse {
	return variantResponse{
		ID:        v.ID,
		SKU:       v.SKU,
		Name:      v.Name,
		Unit:      v.Unit,
		SalePrice: v.SalePrice.StringFixed(2),
		IsActive:  v.IsActive,
	}
}

type variantRequest struct {
	SKU       string          `json:"sku" validate:"required,max=64"`
	Name      string          `json:"name" validate:"required,max=255"`
	Unit      string          `json:"unit" validate:"max=32"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

func variantID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]variantResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toVariantResponse(v))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := variantID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "invalid id", "id must be a positive integer")
		return
	}
	v, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toVariantResponse(v))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req variantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	v, err := h.service.Create(r.Context(), Input{
		SKU:       req.SKU,
		Name:      req.Name,
		Unit:      req.Unit,
		SalePrice: req.SalePrice,
		ActorID:   httpx.ActorID(r),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toVariantResponse(v))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := variantID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "invalid id", "id must be a positive integer")
		return
	}
	var req variantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	v, err := h.service.Update(r.Context(), id, Input{
		SKU:       req.SKU,
		Name:      req.Name,
		Unit:      req.Unit,
		SalePrice: req.SalePrice,
		ActorID:   httpx.ActorID(r),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toVariantResponse(v))
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	id, ok := variantID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "invalid id", "id must be a positive integer")
		return
	}
	if err := h.service.Archive(r.Context(), id, httpx.ActorID(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := variantID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "invalid id", "id must be a positive integer")
		return
	}
	if err := h.service.Delete(r.Context(), id, httpx.ActorID(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
