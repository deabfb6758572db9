package documents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/annam-erp/annam-erp/internal/inventory"
	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// PurchaseInput carries a draft purchase receipt.
type PurchaseInput struct {
	ReceiptDate time.Time
	SupplierID  int64
	Note        string
	ActorID     int64
	Items       []ReceiptItem
}

// CreatePurchaseDraft computes totals and stores a new draft. No engine
// rows exist until confirmation.
func (s *Service) CreatePurchaseDraft(ctx context.Context, in PurchaseInput) (PurchaseReceipt, error) {
	subtotal, vat, grand, err := computeTotals(in.Items)
	if err != nil {
		return PurchaseReceipt{}, err
	}
	code, err := s.seq.NextCode(ctx, shared.DocKindPurchaseReceipt)
	if err != nil {
		return PurchaseReceipt{}, err
	}
	receipt := PurchaseReceipt{
		ID:          uuid.New(),
		Code:        code,
		ReceiptDate: in.ReceiptDate,
		SupplierID:  in.SupplierID,
		Status:      StatusDraft,
		Note:        in.Note,
		CreatedBy:   in.ActorID,
		Subtotal:    subtotal,
		VATTotal:    vat,
		GrandTotal:  grand,
		Items:       in.Items,
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := tx.Docs().InsertPurchase(ctx, receipt)
		if err != nil {
			return err
		}
		receipt = inserted
		return tx.Docs().ReplacePurchaseItems(ctx, receipt.ID, receipt.Items)
	})
	if err != nil {
		return PurchaseReceipt{}, err
	}
	s.record(ctx, in.ActorID, "purchase.draft", receipt.Ref(), map[string]any{"code": receipt.Code, "grand_total": grand.String()})
	return receipt, nil
}

// UpdatePurchaseDraft replaces header fields and items on a draft,
// delete-then-recreate, recomputing every total.
func (s *Service) UpdatePurchaseDraft(ctx context.Context, id uuid.UUID, in PurchaseInput) (PurchaseReceipt, error) {
	var receipt PurchaseReceipt
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetPurchase(ctx, id)
		if err != nil {
			return err
		}
		if err := guardDraft(current.Status); err != nil {
			return err
		}
		subtotal, vat, grand, err := computeTotals(in.Items)
		if err != nil {
			return err
		}
		current.ReceiptDate = in.ReceiptDate
		current.SupplierID = in.SupplierID
		current.Note = in.Note
		current.Subtotal = subtotal
		current.VATTotal = vat
		current.GrandTotal = grand
		current.Items = in.Items
		if err := tx.Docs().UpdatePurchaseHeader(ctx, current); err != nil {
			return err
		}
		if err := tx.Docs().ReplacePurchaseItems(ctx, id, in.Items); err != nil {
			return err
		}
		receipt = current
		return nil
	})
	if err != nil {
		return PurchaseReceipt{}, err
	}
	s.record(ctx, in.ActorID, "purchase.update", receipt.Ref(), nil)
	return receipt, nil
}

// DeletePurchaseDraft removes a draft and its items. Confirmed documents
// are cancelled, never deleted.
func (s *Service) DeletePurchaseDraft(ctx context.Context, id uuid.UUID, actorID int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetPurchase(ctx, id)
		if err != nil {
			return err
		}
		if err := guardDraft(current.Status); err != nil {
			return err
		}
		if err := tx.Docs().ReplacePurchaseItems(ctx, id, nil); err != nil {
			return err
		}
		return tx.Docs().DeletePurchase(ctx, id)
	})
	if err != nil {
		return err
	}
	s.record(ctx, actorID, "purchase.delete", PurchaseReceipt{ID: id}.Ref(), nil)
	return nil
}

// ConfirmPurchase posts the journal entry, applies one inbound movement per
// item, and credits the supplier's payable in a single transaction.
func (s *Service) ConfirmPurchase(ctx context.Context, id uuid.UUID, actorID int64) (PurchaseReceipt, error) {
	var receipt PurchaseReceipt
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetPurchase(ctx, id)
		if err != nil {
			return err
		}
		if err := guardDraft(current.Status); err != nil {
			return err
		}
		ref := current.Ref()
		if _, err := s.journal.Post(ctx, tx.Journal(), ledger.PostingInput{
			Ref:       ref,
			Code:      "JE-" + current.Code,
			EntryDate: current.ReceiptDate,
			Note:      current.Note,
			CreatedBy: actorID,
			Lines:     purchaseJournalLines(current),
		}); err != nil {
			return err
		}
		for _, item := range current.Items {
			if _, err := s.inventory.ApplyInbound(ctx, tx.Inventory(), inventory.InboundInput{
				VariantID: item.VariantID,
				Qty:       item.Qty,
				UnitCost:  item.Price,
				Ref:       ref,
				MovedAt:   current.ReceiptDate,
				Note:      current.Code,
				CreatedBy: actorID,
			}); err != nil {
				return err
			}
		}
		if _, err := s.debts.PostForDocument(ctx, tx.Debts(), ref, current.SupplierID, current.GrandTotal, current.ReceiptDate); err != nil {
			return err
		}
		if err := s.journal.Confirm(ctx, tx.Journal(), ref); err != nil {
			return err
		}
		if err := tx.Docs().SetStatus(ctx, ref, StatusConfirmed); err != nil {
			return err
		}
		current.Status = StatusConfirmed
		receipt = current
		return nil
	})
	if err != nil {
		return PurchaseReceipt{}, err
	}
	s.record(ctx, actorID, "purchase.confirm", receipt.Ref(), map[string]any{"grand_total": receipt.GrandTotal.String()})
	return receipt, nil
}

// CancelPurchase reverses a confirmed receipt: inventory first, then the
// supplier debt, then the journal entry.
func (s *Service) CancelPurchase(ctx context.Context, id uuid.UUID, actorID int64) (PurchaseReceipt, error) {
	var receipt PurchaseReceipt
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetPurchase(ctx, id)
		if err != nil {
			return err
		}
		switch current.Status {
		case StatusConfirmed:
		case StatusCancelled:
			return ErrAlreadyCancelled
		default:
			return ErrNotConfirmed
		}
		ref := current.Ref()
		if _, err := s.inventory.Reverse(ctx, tx.Inventory(), ref, actorID); err != nil {
			return err
		}
		if err := s.debts.RemoveByRef(ctx, tx.Debts(), ref); err != nil {
			return err
		}
		if err := s.journal.Remove(ctx, tx.Journal(), ref); err != nil {
			return err
		}
		if err := tx.Docs().SetStatus(ctx, ref, StatusCancelled); err != nil {
			return err
		}
		current.Status = StatusCancelled
		receipt = current
		return nil
	})
	if err != nil {
		return PurchaseReceipt{}, err
	}
	s.record(ctx, actorID, "purchase.cancel", receipt.Ref(), nil)
	return receipt, nil
}

// GetPurchase loads a receipt with items.
func (s *Service) GetPurchase(ctx context.Context, id uuid.UUID) (PurchaseReceipt, error) {
	return s.repo.View().GetPurchase(ctx, id)
}
