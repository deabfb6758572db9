package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// VoucherInput carries a draft cash voucher. Lines are optional; when
// omitted the posting layer synthesizes the cash/counterpart pair.
type VoucherInput struct {
	Kind        shared.DocKind
	VoucherDate time.Time
	PartyID     int64
	Amount      decimal.Decimal
	Method      PaymentMethod
	Note        string
	ActorID     int64
	Lines       []ledger.LineInput
}

func (in VoucherInput) validate() error {
	switch in.Kind {
	case shared.DocKindReceiptVoucher, shared.DocKindPaymentVoucher:
	default:
		return fmt.Errorf("%w: kind %q is not a voucher", shared.ErrValidation, in.Kind)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: voucher amount must be positive", shared.ErrValidation)
	}
	if in.VoucherDate.IsZero() {
		return fmt.Errorf("%w: voucher date is required", shared.ErrValidation)
	}
	return nil
}

// CreateVoucherDraft stores a new draft voucher.
func (s *Service) CreateVoucherDraft(ctx context.Context, in VoucherInput) (Voucher, error) {
	if err := in.validate(); err != nil {
		return Voucher{}, err
	}
	code, err := s.seq.NextCode(ctx, in.Kind)
	if err != nil {
		return Voucher{}, err
	}
	voucher := Voucher{
		ID:          uuid.New(),
		Kind:        in.Kind,
		Code:        code,
		VoucherDate: in.VoucherDate,
		PartyID:     in.PartyID,
		Amount:      shared.Round2(in.Amount),
		Method:      in.Method,
		Status:      StatusDraft,
		Note:        in.Note,
		CreatedBy:   in.ActorID,
		Lines:       in.Lines,
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := tx.Docs().InsertVoucher(ctx, voucher)
		if err != nil {
			return err
		}
		voucher = inserted
		return nil
	})
	if err != nil {
		return Voucher{}, err
	}
	s.record(ctx, in.ActorID, string(in.Kind)+".draft", voucher.Ref(), map[string]any{"code": voucher.Code, "amount": voucher.Amount.String()})
	return voucher, nil
}

// UpdateVoucherDraft replaces a draft voucher's fields.
func (s *Service) UpdateVoucherDraft(ctx context.Context, kind shared.DocKind, id uuid.UUID, in VoucherInput) (Voucher, error) {
	in.Kind = kind
	if err := in.validate(); err != nil {
		return Voucher{}, err
	}
	var voucher Voucher
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetVoucher(ctx, kind, id)
		if err != nil {
			return err
		}
		if err := guardDraft(current.Status); err != nil {
			return err
		}
		current.VoucherDate = in.VoucherDate
		current.PartyID = in.PartyID
		current.Amount = shared.Round2(in.Amount)
		current.Method = in.Method
		current.Note = in.Note
		current.Lines = in.Lines
		if err := tx.Docs().UpdateVoucher(ctx, current); err != nil {
			return err
		}
		voucher = current
		return nil
	})
	if err != nil {
		return Voucher{}, err
	}
	s.record(ctx, in.ActorID, string(kind)+".update", voucher.Ref(), nil)
	return voucher, nil
}

// DeleteVoucherDraft removes a draft voucher.
func (s *Service) DeleteVoucherDraft(ctx context.Context, kind shared.DocKind, id uuid.UUID, actorID int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetVoucher(ctx, kind, id)
		if err != nil {
			return err
		}
		if err := guardDraft(current.Status); err != nil {
			return err
		}
		return tx.Docs().DeleteVoucher(ctx, kind, id)
	})
	if err != nil {
		return err
	}
	s.record(ctx, actorID, string(kind)+".delete", shared.DocRef{Kind: kind, ID: id}, nil)
	return nil
}

// ConfirmVoucher posts the journal entry and the matching debt-ledger
// settlement row, then marks the voucher confirmed.
func (s *Service) ConfirmVoucher(ctx context.Context, kind shared.DocKind, id uuid.UUID, actorID int64) (Voucher, error) {
	var voucher Voucher
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetVoucher(ctx, kind, id)
		if err != nil {
			return err
		}
		if err := guardDraft(current.Status); err != nil {
			return err
		}
		ref := current.Ref()
		lines, err := voucherJournalLines(current)
		if err != nil {
			return err
		}
		if _, err := s.journal.Post(ctx, tx.Journal(), ledger.PostingInput{
			Ref:       ref,
			Code:      "JE-" + current.Code,
			EntryDate: current.VoucherDate,
			Note:      current.Note,
			CreatedBy: actorID,
			Lines:     lines,
		}); err != nil {
			return err
		}
		if _, err := s.debts.PostForDocument(ctx, tx.Debts(), ref, current.PartyID, current.Amount, current.VoucherDate); err != nil {
			return err
		}
		if err := s.journal.Confirm(ctx, tx.Journal(), ref); err != nil {
			return err
		}
		if err := tx.Docs().SetStatus(ctx, ref, StatusConfirmed); err != nil {
			return err
		}
		current.Status = StatusConfirmed
		voucher = current
		return nil
	})
	if err != nil {
		return Voucher{}, err
	}
	s.record(ctx, actorID, string(kind)+".confirm", voucher.Ref(), map[string]any{"amount": voucher.Amount.String()})
	return voucher, nil
}

// CancelVoucher voids a voucher. Unlike receipts a draft voucher may be
// cancelled directly; a confirmed one first unwinds its journal entry and
// debt settlement.
func (s *Service) CancelVoucher(ctx context.Context, kind shared.DocKind, id uuid.UUID, actorID int64) (Voucher, error) {
	var voucher Voucher
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Docs().GetVoucher(ctx, kind, id)
		if err != nil {
			return err
		}
		if current.Status == StatusCancelled {
			return ErrAlreadyCancelled
		}
		ref := current.Ref()
		if current.Status == StatusConfirmed {
			if err := s.debts.RemoveByRef(ctx, tx.Debts(), ref); err != nil {
				return err
			}
			if err := s.journal.Remove(ctx, tx.Journal(), ref); err != nil {
				return err
			}
		}
		if err := tx.Docs().SetStatus(ctx, ref, StatusCancelled); err != nil {
			return err
		}
		current.Status = StatusCancelled
		voucher = current
		return nil
	})
	if err != nil {
		return Voucher{}, err
	}
	s.record(ctx, actorID, string(kind)+".cancel", voucher.Ref(), nil)
	return voucher, nil
}

// GetVoucher loads one voucher.
func (s *Service) GetVoucher(ctx context.Context, kind shared.DocKind, id uuid.UUID) (Voucher, error) {
	return s.repo.View().GetVoucher(ctx, kind, id)
}
