package documents

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/platform/httpx"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Handler exposes the four document state machines over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the document handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// Mount attaches routes under the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/purchase-receipts", func(r chi.Router) {
		r.Post("/", h.createPurchase)
		r.Get("/{id}", h.getPurchase)
		r.Put("/{id}", h.updatePurchase)
		r.Delete("/{id}", h.deletePurchase)
		r.Post("/{id}/confirm", h.confirmPurchase)
		r.Post("/{id}/cancel", h.cancelPurchase)
	})
	r.Route("/sales-receipts", func(r chi.Router) {
		r.Post("/", h.createSales)
		r.Get("/{id}", h.getSales)
		r.Put("/{id}", h.updateSales)
		r.Delete("/{id}", h.deleteSales)
		r.Post("/{id}/confirm", h.confirmSales)
		r.Post("/{id}/cancel", h.cancelSales)
	})
	r.Route("/receipt-vouchers", func(r chi.Router) {
		h.mountVoucher(r, shared.DocKindReceiptVoucher)
	})
	r.Route("/payment-vouchers", func(r chi.Router) {
		h.mountVoucher(r, shared.DocKindPaymentVoucher)
	})
}

func (h *Handler) mountVoucher(r chi.Router, kind shared.DocKind) {
	r.Post("/", h.createVoucher(kind))
	r.Get("/{id}", h.getVoucher(kind))
	r.Put("/{id}", h.updateVoucher(kind))
	r.Delete("/{id}", h.deleteVoucher(kind))
	r.Post("/{id}/confirm", h.confirmVoucher(kind))
	r.Post("/{id}/cancel", h.cancelVoucher(kind))
}

func docID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

type itemRequest struct {
	VariantID       int64           `json:"variant_id" validate:"required"`
	Qty             float64         `json:"qty" validate:"required,gt=0"`
	Price           decimal.Decimal `json:"price"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	ListPrice       decimal.Decimal `json:"list_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

func toItems(in []itemRequest) []ReceiptItem {
	out := make([]ReceiptItem, 0, len(in))
	for _, it := range in {
		out = append(out, ReceiptItem{
			VariantID:       it.VariantID,
			Qty:             it.Qty,
			Price:           it.Price,
			VATRate:         it.VATRate,
			ListPrice:       it.ListPrice,
			DiscountPercent: it.DiscountPercent,
		})
	}
	return out
}

type receiptRequest struct {
	ReceiptDate time.Time     `json:"receipt_date" validate:"required"`
	PartyID     int64         `json:"party_id" validate:"required"`
	Note        string        `json:"note"`
	Items       []itemRequest `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) decodeReceipt(w http.ResponseWriter, r *http.Request) (receiptRequest, bool) {
	var req receiptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeReceipt(w, r)
	if !ok {
		return
	}
	receipt, err := h.service.CreatePurchaseDraft(r.Context(), PurchaseInput{
		ReceiptDate: req.ReceiptDate,
		SupplierID:  req.PartyID,
		Note:        req.Note,
		ActorID:     httpx.ActorID(r),
		Items:       toItems(req.Items),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, receipt)
}

func (h *Handler) getPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	receipt, err := h.service.GetPurchase(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func (h *Handler) updatePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	req, ok := h.decodeReceipt(w, r)
	if !ok {
		return
	}
	receipt, err := h.service.UpdatePurchaseDraft(r.Context(), id, PurchaseInput{
		ReceiptDate: req.ReceiptDate,
		SupplierID:  req.PartyID,
		Note:        req.Note,
		ActorID:     httpx.ActorID(r),
		Items:       toItems(req.Items),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func (h *Handler) deletePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	if err := h.service.DeletePurchaseDraft(r.Context(), id, httpx.ActorID(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) confirmPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	receipt, err := h.service.ConfirmPurchase(r.Context(), id, httpx.ActorID(r))
	if err != nil {
		h.logger.Error("confirm purchase failed", "id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func (h *Handler) cancelPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	receipt, err := h.service.CancelPurchase(r.Context(), id, httpx.ActorID(r))
	if err != nil {
		h.logger.Error("cancel purchase failed", "id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func (h *Handler) createSales(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeReceipt(w, r)
	if !ok {
		return
	}
	receipt, err := h.service.CreateSalesDraft(r.Context(), SalesInput{
		ReceiptDate: req.ReceiptDate,
		CustomerID:  req.PartyID,
		Note:        req.Note,
		ActorID:     httpx.ActorID(r),
		Items:       toItems(req.Items),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, receipt)
}

func (h *Handler) getSales(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	receipt, err := h.service.GetSales(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func (h *Handler) updateSales(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	req, ok := h.decodeReceipt(w, r)
	if !ok {
		return
	}
	receipt, err := h.service.UpdateSalesDraft(r.Context(), id, SalesInput{
		ReceiptDate: req.ReceiptDate,
		CustomerID:  req.PartyID,
		Note:        req.Note,
		ActorID:     httpx.ActorID(r),
		Items:       toItems(req.Items),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func (h *Handler) deleteSales(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	if err := h.service.DeleteSalesDraft(r.Context(), id, httpx.ActorID(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) confirmSales(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	receipt, err := h.service.ConfirmSales(r.Context(), id, httpx.ActorID(r))
	if err != nil {
		h.logger.Error("confirm sales failed", "id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func (h *Handler) cancelSales(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
		return
	}
	receipt, err := h.service.CancelSales(r.Context(), id, httpx.ActorID(r))
	if err != nil {
		h.logger.Error("cancel sales failed", "id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

type voucherLineRequest struct {
	AccountCode string          `json:"account_code" validate:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type voucherRequest struct {
	VoucherDate time.Time            `json:"voucher_date" validate:"required"`
	PartyID     int64                `json:"party_id" validate:"required"`
	Amount      decimal.Decimal      `json:"amount" validate:"required"`
	Method      string               `json:"method" validate:"required,oneof=cash bank"`
	Note        string               `json:"note"`
	Lines       []voucherLineRequest `json:"lines" validate:"omitempty,dive"`
}

func (req voucherRequest) toInput(kind shared.DocKind, actorID int64) VoucherInput {
	lines := make([]ledger.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, ledger.LineInput{AccountCode: l.AccountCode, Debit: l.Debit, Credit: l.Credit})
	}
	return VoucherInput{
		Kind:        kind,
		VoucherDate: req.VoucherDate,
		PartyID:     req.PartyID,
		Amount:      req.Amount,
		Method:      PaymentMethod(req.Method),
		Note:        req.Note,
		ActorID:     actorID,
		Lines:       lines,
	}
}

func (h *Handler) decodeVoucher(w http.ResponseWriter, r *http.Request) (voucherRequest, bool) {
	var req voucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) createVoucher(kind shared.DocKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodeVoucher(w, r)
		if !ok {
			return
		}
		voucher, err := h.service.CreateVoucherDraft(r.Context(), req.toInput(kind, httpx.ActorID(r)))
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, voucher)
	}
}

func (h *Handler) getVoucher(kind shared.DocKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := docID(r)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
			return
		}
		voucher, err := h.service.GetVoucher(r.Context(), kind, id)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, voucher)
	}
}

func (h *Handler) updateVoucher(kind shared.DocKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := docID(r)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
			return
		}
		req, ok := h.decodeVoucher(w, r)
		if !ok {
			return
		}
		voucher, err := h.service.UpdateVoucherDraft(r.Context(), kind, id, req.toInput(kind, httpx.ActorID(r)))
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, voucher)
	}
}

func (h *Handler) deleteVoucher(kind shared.DocKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := docID(r)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
			return
		}
		if err := h.service.DeleteVoucherDraft(r.Context(), kind, id, httpx.ActorID(r)); err != nil {
			httpx.RespondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) confirmVoucher(kind shared.DocKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := docID(r)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
			return
		}
		voucher, err := h.service.ConfirmVoucher(r.Context(), kind, id, httpx.ActorID(r))
		if err != nil {
			h.logger.Error("confirm voucher failed", "kind", kind, "id", id, "error", err)
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, voucher)
	}
}

func (h *Handler) cancelVoucher(kind shared.DocKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := docID(r)
		if !ok {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed document id")
			return
		}
		voucher, err := h.service.CancelVoucher(r.Context(), kind, id, httpx.ActorID(r))
		if err != nil {
			h.logger.Error("cancel voucher failed", "kind", kind, "id", id, "error", err)
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, voucher)
	}
}
