package documents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/annam-erp/annam-erp/internal/debt"
	"github.com/annam-erp/annam-erp/internal/inventory"
	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// Store is the persistence surface for document headers and item lines.
type Store interface {
	InsertPurchase(ctx context.Context, r PurchaseReceipt) (PurchaseReceipt, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (PurchaseReceipt, error)
	UpdatePurchaseHeader(ctx context.Context, r PurchaseReceipt) error
	ReplacePurchaseItems(ctx context.Context, id uuid.UUID, items []ReceiptItem) error
	DeletePurchase(ctx context.Context, id uuid.UUID) error

	InsertSales(ctx context.Context, r SalesReceipt) (SalesReceipt, error)
	GetSales(ctx context.Context, id uuid.UUID) (SalesReceipt, error)
	UpdateSalesHeader(ctx context.Context, r SalesReceipt) error
	ReplaceSalesItems(ctx context.Context, id uuid.UUID, items []ReceiptItem) error
	DeleteSales(ctx context.Context, id uuid.UUID) error

	InsertVoucher(ctx context.Context, v Voucher) (Voucher, error)
	GetVoucher(ctx context.Context, kind shared.DocKind, id uuid.UUID) (Voucher, error)
	UpdateVoucher(ctx context.Context, v Voucher) error
	DeleteVoucher(ctx context.Context, kind shared.DocKind, id uuid.UUID) error

	SetStatus(ctx context.Context, ref shared.DocRef, status Status) error
}

// TxRepository exposes every store a document transition touches, all bound
// to one open transaction. A failed engine call rolls back the lot.
type TxRepository interface {
	Docs() Store
	Journal() ledger.Store
	Inventory() inventory.Store
	Debts() debt.Store
}

// RepositoryPort abstracts transactional repository behaviour.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	View() Store
}

// Service drives the four document state machines.
type Service struct {
	repo      RepositoryPort
	journal   *ledger.Engine
	inventory *inventory.Engine
	debts     *debt.Ledger
	seq       *shared.SequenceAllocator
	audit     shared.AuditPort
	now       func() time.Time
}

// NewService constructs the document service.
func NewService(repo RepositoryPort, journal *ledger.Engine, inv *inventory.Engine, debts *debt.Ledger, seq *shared.SequenceAllocator, audit shared.AuditPort) *Service {
	if seq == nil {
		seq = shared.NewSequenceAllocator(nil)
	}
	return &Service{
		repo:      repo,
		journal:   journal,
		inventory: inv,
		debts:     debts,
		seq:       seq,
		audit:     audit,
		now:       time.Now,
	}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) record(ctx context.Context, actorID int64, action string, ref shared.DocRef, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   string(ref.Kind),
		EntityID: ref.ID.String(),
		Meta:     meta,
		At:       s.now(),
	})
}

// guardDraft rejects any edit against a document that left draft.
func guardDraft(status Status) error {
	switch status {
	case StatusDraft:
		return nil
	case StatusCancelled:
		return ErrAlreadyCancelled
	default:
		return ErrNotDraft
	}
}
