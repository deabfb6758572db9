package documents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/inventory"
	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// SalesInput carries a draft sales receipt.
type SalesInput struct {
	ReceiptDate time.Time
	CustomerID  int64
	Note        string
	ActorID     int64
	Items       []ReceiptItem
}

// CreateSalesDraft computes discounts/totals and stores a new draft.
func (s *Service) CreateSalesDraft(ctx context.Context, in SalesInput) (SalesReceipt, error) {
	subtotal, vat, grand, err := computeTotals(in.Items)
	if err != nil {
		return SalesReceipt{}, err
	}
	code, err := s.seq.NextCode(ctx, shared.DocKindSalesReceipt)
	if err != nil {
		return SalesReceipt{}, err
	}
	receipt := SalesReceipt{
		ID:          uuid.New(),
		Code:        code,
		ReceiptDate: in.ReceiptDate,
		CustomerID:  in.CustomerID,
		Status:      StatusDraft,
		Note:        in.Note,
		CreatedBy:   in.ActorID,
		Subtotal:    subtotal,
		VATTotal:    vat,
		GrandTotal:  grand,
		Items:       in.Items,
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := tx.Docs().InsertSales(ctx, receipt)
		if err != nil {
			return err
		}
		receipt = inserted
		return tx.Docs().ReplaceSalesItems(ctx, receipt.ID, receipt.Items)
	})
	if err != nil {
		return SalesReceipt{}, err
	}
	s.record(ctx, in.ActorID, "sales.draft", receipt.Ref(), map[string]any{"code": receipt.Code, "grand_total": grand.String()})
	return receipt, nil
}

// UpdateSalesDraft replaces header fields and items on a draft.
func (s *Service) UpdateSalesDraft(ctx context.Context, id uuid.UUID, in SalesInput) (SalesReceipt, error) {
	var receipt SalesReceipt
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetSales(ctx, id)
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
		current.CustomerID = in.CustomerID
		current.Note = in.Note
		current.Subtotal = subtotal
		current.VATTotal = vat
		current.GrandTotal = grand
		current.Items = in.Items
		if err := tx.Docs().UpdateSalesHeader(ctx, current); err != nil {
			return err
		}
		if err := tx.Docs().ReplaceSalesItems(ctx, id, in.Items); err != nil {
			return err
		}
		receipt = current
		return nil
	})
	if err != nil {
		return SalesReceipt{}, err
	}
	s.record(ctx, in.ActorID, "sales.update", receipt.Ref(), nil)
	return receipt, nil
}

// DeleteSalesDraft removes a draft and its items.
func (s *Service) DeleteSalesDraft(ctx context.Context, id uuid.UUID, actorID int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetSales(ctx, id)
		if err != nil {
			return err
		}
		if err := guardDraft(current.Status); err != nil {
			return err
		}
		if err := tx.Docs().ReplaceSalesItems(ctx, id, nil); err != nil {
			return err
		}
		return tx.Docs().DeleteSales(ctx, id)
	})
	if err != nil {
		return err
	}
	s.record(ctx, actorID, "sales.delete", SalesReceipt{ID: id}.Ref(), nil)
	return nil
}

// ConfirmSales issues stock at weighted-average cost per item, then posts
// revenue plus the cost-of-goods entry and debits the customer. Any failure
// rolls back the whole transaction including the movements.
func (s *Service) ConfirmSales(ctx context.Context, id uuid.UUID, actorID int64) (SalesReceipt, error) {
	var receipt SalesReceipt
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetSales(ctx, id)
		if err != nil {
			return err
		}
		if err := guardDraft(current.Status); err != nil {
			return err
		}
		ref := current.Ref()
		cogs := decimal.Zero
		for _, item := range current.Items {
			movement, err := s.inventory.ApplyOutbound(ctx, tx.Inventory(), inventory.OutboundInput{
				VariantID: item.VariantID,
				Qty:       item.Qty,
				Ref:       ref,
				MovedAt:   current.ReceiptDate,
				Note:      current.Code,
				CreatedBy: actorID,
			})
			if err != nil {
				return err
			}
			cogs = cogs.Add(movement.TotalCost)
		}
		if _, err := s.journal.Post(ctx, tx.Journal(), ledger.PostingInput{
			Ref:       ref,
			Code:      "JE-" + current.Code,
			EntryDate: current.ReceiptDate,
			Note:      current.Note,
			CreatedBy: actorID,
			Lines:     salesJournalLines(current, cogs),
		}); err != nil {
			return err
		}
		if _, err := s.debts.PostForDocument(ctx, tx.Debts(), ref, current.CustomerID, current.GrandTotal, current.ReceiptDate); err != nil {
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
		return SalesReceipt{}, err
	}
	s.record(ctx, actorID, "sales.confirm", receipt.Ref(), map[string]any{"grand_total": receipt.GrandTotal.String()})
	return receipt, nil
}

// CancelSales restores stock via inverse movements, removes the customer
// debt, then deletes the journal entry.
func (s *Service) CancelSales(ctx context.Context, id uuid.UUID, actorID int64) (SalesReceipt, error) {
	var receipt SalesReceipt
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetSales(ctx, id)
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
		return SalesReceipt{}, err
	}
	s.record(ctx, actorID, "sales.cancel", receipt.Ref(), nil)
	return receipt, nil
}

// GetSales loads a receipt with items.
func (s *Service) GetSales(ctx context.Context, id uuid.UUID) (SalesReceipt, error) {
	return s.repo.View().GetSales(ctx, id)
}
