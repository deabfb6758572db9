package coa

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/annam-erp/annam-erp/internal/platform/httpx"
)

// Handler exposes the chart of accounts over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the account handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// Mount attaches routes under the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/accounts", h.list)
	r.Post("/accounts", h.create)
	r.Get("/accounts/{code}", h.get)
	r.Get("/accounts/{code}/subtree", h.subtree)
	r.Put("/accounts/{code}", h.update)
	r.Post("/accounts/{code}/archive", h.archive)
	r.Delete("/accounts/{code}", h.delete)
	r.Post("/accounts/rebuild", h.rebuild)
}

type accountResponse struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Parent   *string `json:"parent_code,omitempty"`
	Depth    int     `json:"depth"`
	IsLeaf   bool    `json:"is_leaf"`
	IsActive bool    `json:"is_active"`
}

func toAccountResponse(accounts []Account) []accountResponse {
	byID := make(map[int64]string, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a.Code
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp := accountResponse{
			Code:     a.Code,
			Name:     a.Name,
			Type:     string(a.Type),
			Depth:    a.Depth,
			IsLeaf:   a.IsLeaf(),
			IsActive: a.IsActive,
		}
		if a.ParentID != nil {
			if code, ok := byID[*a.ParentID]; ok {
				resp.Parent = &code
			}
		}
		out = append(out, resp)
	}
	return out
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list accounts failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAccountResponse(accounts))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAccountResponse([]Account{account})[0])
}

func (h *Handler) subtree(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.Subtree(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAccountResponse(accounts))
}

type createAccountRequest struct {
	Code       string `json:"code" validate:"required,max=16"`
	Name       string `json:"name" validate:"required,max=255"`
	Type       string `json:"type" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentCode string `json:"parent_code"`
	ActorID    int64  `json:"actor_id"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	account, err := h.service.Create(r.Context(), CreateInput{
		Code:       req.Code,
		Name:       req.Name,
		Type:       AccountType(req.Type),
		ParentCode: req.ParentCode,
		ActorID:    req.ActorID,
	})
	if err != nil {
		h.logger.Error("create account failed", "code", req.Code, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toAccountResponse([]Account{account})[0])
}

type updateAccountRequest struct {
	Name       string  `json:"name" validate:"omitempty,max=255"`
	ParentCode *string `json:"parent_code"`
	ActorID    int64   `json:"actor_id"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	account, err := h.service.Update(r.Context(), UpdateInput{
		Code:       chi.URLParam(r, "code"),
		Name:       req.Name,
		ParentCode: req.ParentCode,
		ActorID:    req.ActorID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAccountResponse([]Account{account})[0])
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Archive(r.Context(), chi.URLParam(r, "code"), httpx.ActorID(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "code"), httpx.ActorID(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rebuild(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Rebuild(r.Context()); err != nil {
		h.logger.Error("tree rebuild failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
