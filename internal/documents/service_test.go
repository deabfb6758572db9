package documents

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/annam-erp/annam-erp/internal/debt"
	"github.com/annam-erp/annam-erp/internal/inventory"
	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/shared"
)

// memoryBackend implements RepositoryPort, TxRepository, and all four
// engine stores in memory. There is no rollback: tests that exercise
// failure paths only assert on the returned error.
type memoryBackend struct {
	docs      *memoryDocStore
	journal   *memoryJournalStore
	inventory *memoryStockStore
	debts     *memoryDebtStore
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		docs:      newMemoryDocStore(),
		journal:   newMemoryJournalStore(),
		inventory: newMemoryStockStore(),
		debts:     newMemoryDebtStore(),
	}
}

func (b *memoryBackend) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, b)
}

func (b *memoryBackend) View() Store                { return b.docs }
func (b *memoryBackend) Docs() Store                { return b.docs }
func (b *memoryBackend) Journal() ledger.Store      { return b.journal }
func (b *memoryBackend) Inventory() inventory.Store { return b.inventory }
func (b *memoryBackend) Debts() debt.Store          { return b.debts }

type voucherKey struct {
	kind shared.DocKind
	id   uuid.UUID
}

type memoryDocStore struct {
	purchases map[uuid.UUID]PurchaseReceipt
	sales     map[uuid.UUID]SalesReceipt
	vouchers  map[voucherKey]Voucher
}

func newMemoryDocStore() *memoryDocStore {
	return &memoryDocStore{
		purchases: make(map[uuid.UUID]PurchaseReceipt),
		sales:     make(map[uuid.UUID]SalesReceipt),
		vouchers:  make(map[voucherKey]Voucher),
	}
}

func (s *memoryDocStore) InsertPurchase(ctx context.Context, r PurchaseReceipt) (PurchaseReceipt, error) {
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	s.purchases[r.ID] = r
	return r, nil
}

func (s *memoryDocStore) GetPurchase(ctx context.Context, id uuid.UUID) (PurchaseReceipt, error) {
	r, ok := s.purchases[id]
	if !ok {
		return PurchaseReceipt{}, ErrDocumentNotFound
	}
	return r, nil
}

func (s *memoryDocStore) UpdatePurchaseHeader(ctx context.Context, r PurchaseReceipt) error {
	stored, ok := s.purchases[r.ID]
	if !ok {
		return ErrDocumentNotFound
	}
	r.Status = stored.Status
	r.Items = stored.Items
	s.purchases[r.ID] = r
	return nil
}

func (s *memoryDocStore) ReplacePurchaseItems(ctx context.Context, id uuid.UUID, items []ReceiptItem) error {
	r, ok := s.purchases[id]
	if !ok {
		return ErrDocumentNotFound
	}
	r.Items = items
	s.purchases[id] = r
	return nil
}

func (s *memoryDocStore) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.purchases[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.purchases, id)
	return nil
}

func (s *memoryDocStore) InsertSales(ctx context.Context, r SalesReceipt) (SalesReceipt, error) {
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	s.sales[r.ID] = r
	return r, nil
}

func (s *memoryDocStore) GetSales(ctx context.Context, id uuid.UUID) (SalesReceipt, error) {
	r, ok := s.sales[id]
	if !ok {
		return SalesReceipt{}, ErrDocumentNotFound
	}
	return r, nil
}

func (s *memoryDocStore) UpdateSalesHeader(ctx context.Context, r SalesReceipt) error {
	stored, ok := s.sales[r.ID]
	if !ok {
		return ErrDocumentNotFound
	}
	r.Status = stored.Status
	r.Items = stored.Items
	s.sales[r.ID] = r
	return nil
}

func (s *memoryDocStore) ReplaceSalesItems(ctx context.Context, id uuid.UUID, items []ReceiptItem) error {
	r, ok := s.sales[id]
	if !ok {
		return ErrDocumentNotFound
	}
	r.Items = items
	s.sales[id] = r
	return nil
}

func (s *memoryDocStore) DeleteSales(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.sales[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.sales, id)
	return nil
}

func (s *memoryDocStore) InsertVoucher(ctx context.Context, v Voucher) (Voucher, error) {
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	s.vouchers[voucherKey{v.Kind, v.ID}] = v
	return v, nil
}

func (s *memoryDocStore) GetVoucher(ctx context.Context, kind shared.DocKind, id uuid.UUID) (Voucher, error) {
	v, ok := s.vouchers[voucherKey{kind, id}]
	if !ok {
		return Voucher{}, ErrDocumentNotFound
	}
	return v, nil
}

func (s *memoryDocStore) UpdateVoucher(ctx context.Context, v Voucher) error {
	key := voucherKey{v.Kind, v.ID}
	stored, ok := s.vouchers[key]
	if !ok {
		return ErrDocumentNotFound
	}
	v.Status = stored.Status
	s.vouchers[key] = v
	return nil
}

func (s *memoryDocStore) DeleteVoucher(ctx context.Context, kind shared.DocKind, id uuid.UUID) error {
	key := voucherKey{kind, id}
	if _, ok := s.vouchers[key]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.vouchers, key)
	return nil
}

func (s *memoryDocStore) SetStatus(ctx context.Context, ref shared.DocRef, status Status) error {
	switch ref.Kind {
	case shared.DocKindPurchaseReceipt:
		r, ok := s.purchases[ref.ID]
		if !ok {
			return ErrDocumentNotFound
		}
		r.Status = status
		s.purchases[ref.ID] = r
	case shared.DocKindSalesReceipt:
		r, ok := s.sales[ref.ID]
		if !ok {
			return ErrDocumentNotFound
		}
		r.Status = status
		s.sales[ref.ID] = r
	default:
		key := voucherKey{ref.Kind, ref.ID}
		v, ok := s.vouchers[key]
		if !ok {
			return ErrDocumentNotFound
		}
		v.Status = status
		s.vouchers[key] = v
	}
	return nil
}

type memoryJournalStore struct {
	accounts map[string]ledger.AccountRef
	entries  map[int64]ledger.JournalEntry
	lines    map[int64][]ledger.JournalLine
	nextID   int64
}

func newMemoryJournalStore() *memoryJournalStore {
	accounts := make(map[string]ledger.AccountRef)
	for i, code := range []string{"111", "112", "131", "133", "156", "331", "3331", "5111", "632"} {
		accounts[code] = ledger.AccountRef{ID: int64(i + 1), Code: code, Active: true, Leaf: true}
	}
	return &memoryJournalStore{
		accounts: accounts,
		entries:  make(map[int64]ledger.JournalEntry),
		lines:    make(map[int64][]ledger.JournalLine),
	}
}

func (s *memoryJournalStore) ResolveAccount(ctx context.Context, code string) (ledger.AccountRef, error) {
	ref, ok := s.accounts[code]
	if !ok {
		return ledger.AccountRef{}, ledger.ErrAccountUnknown
	}
	return ref, nil
}

func (s *memoryJournalStore) GetEntryByRef(ctx context.Context, ref shared.DocRef) (ledger.JournalEntry, error) {
	for _, e := range s.entries {
		if e.Ref == ref {
			e.Lines = append([]ledger.JournalLine(nil), s.lines[e.ID]...)
			return e, nil
		}
	}
	return ledger.JournalEntry{}, ledger.ErrEntryNotFound
}

func (s *memoryJournalStore) InsertEntry(ctx context.Context, entry ledger.JournalEntry) (ledger.JournalEntry, error) {
	s.nextID++
	entry.ID = s.nextID
	s.entries[entry.ID] = entry
	return entry, nil
}

func (s *memoryJournalStore) InsertLines(ctx context.Context, entryID int64, lines []ledger.JournalLine) error {
	for _, l := range lines {
		l.EntryID = entryID
		s.lines[entryID] = append(s.lines[entryID], l)
	}
	return nil
}

func (s *memoryJournalStore) DeleteLines(ctx context.Context, entryID int64) error {
	delete(s.lines, entryID)
	return nil
}

func (s *memoryJournalStore) MarkPosted(ctx context.Context, entryID int64, at time.Time) error {
	e := s.entries[entryID]
	e.PostedAt = &at
	s.entries[entryID] = e
	return nil
}

func (s *memoryJournalStore) DeleteEntry(ctx context.Context, entryID int64) error {
	delete(s.entries, entryID)
	return nil
}

type memoryStockStore struct {
	balances  map[int64]inventory.Balance
	movements []inventory.Movement
	nextID    int64
}

func newMemoryStockStore() *memoryStockStore {
	return &memoryStockStore{balances: make(map[int64]inventory.Balance)}
}

func (s *memoryStockStore) GetBalanceForUpdate(ctx context.Context, variantID int64) (inventory.Balance, error) {
	b, ok := s.balances[variantID]
	if !ok {
		return inventory.Balance{}, inventory.ErrBalanceNotFound
	}
	return b, nil
}

func (s *memoryStockStore) UpsertBalance(ctx context.Context, balance inventory.Balance) error {
	s.balances[balance.VariantID] = balance
	return nil
}

func (s *memoryStockStore) InsertMovement(ctx context.Context, m inventory.Movement) (inventory.Movement, error) {
	s.nextID++
	m.ID = s.nextID
	s.movements = append(s.movements, m)
	return m, nil
}

func (s *memoryStockStore) MovementsByRef(ctx context.Context, ref shared.DocRef) ([]inventory.Movement, error) {
	var out []inventory.Movement
	for _, m := range s.movements {
		if m.Ref == ref {
			out = append(out, m)
		}
	}
	return out, nil
}

type memoryDebtStore struct {
	entries []debt.Entry
	nextID  int64
}

func (s *memoryDebtStore) InsertEntry(ctx context.Context, e debt.Entry) (debt.Entry, error) {
	s.nextID++
	e.ID = s.nextID
	s.entries = append(s.entries, e)
	return e, nil
}

func (s *memoryDebtStore) DeleteByRef(ctx context.Context, ref shared.DocRef) (int64, error) {
	var kept []debt.Entry
	var removed int64
	for _, e := range s.entries {
		if e.Ref == ref {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

func (s *memoryDebtStore) PartyExists(ctx context.Context, party debt.PartyKind, partyID int64) (bool, error) {
	return true, nil
}

func newMemoryDebtStore() *memoryDebtStore {
	return &memoryDebtStore{}
}

func newTestService(backend *memoryBackend) *Service {
	return NewService(
		backend,
		ledger.NewEngine(),
		inventory.NewEngine(inventory.Config{}),
		debt.NewLedger(),
		shared.NewSequenceAllocator(nil),
		nil,
	)
}

func money(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func purchaseInput() PurchaseInput {
	return PurchaseInput{
		ReceiptDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		SupplierID:  20,
		ActorID:     1,
		Items: []ReceiptItem{
			{VariantID: 1, Qty: 10, Price: money("5.00"), VATRate: money("10")},
			{VariantID: 2, Qty: 3, Price: money("20.00"), VATRate: money("10")},
		},
	}
}

func TestConfirmPurchasePostsAllThreeLedgers(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	draft, err := svc.CreatePurchaseDraft(ctx, purchaseInput())
	require.NoError(t, err)
	require.Equal(t, StatusDraft, draft.Status)
	require.True(t, draft.Subtotal.Equal(money("110.00")), "subtotal %s", draft.Subtotal)
	require.True(t, draft.GrandTotal.Equal(money("121.00")), "grand %s", draft.GrandTotal)

	confirmed, err := svc.ConfirmPurchase(ctx, draft.ID, 1)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, confirmed.Status)

	entry, err := backend.journal.GetEntryByRef(ctx, confirmed.Ref())
	require.NoError(t, err)
	require.NotNil(t, entry.PostedAt)
	require.True(t, entry.TotalDebit().Equal(entry.TotalCredit()))
	require.True(t, entry.TotalDebit().Equal(money("121.00")))

	moves, err := backend.inventory.MovementsByRef(ctx, confirmed.Ref())
	require.NoError(t, err)
	require.Len(t, moves, 2)
	require.Equal(t, float64(10), backend.inventory.balances[1].Qty)
	require.True(t, backend.inventory.balances[1].AvgCost().Equal(money("5.00")))

	require.Len(t, backend.debts.entries, 1)
	require.Equal(t, debt.PartySupplier, backend.debts.entries[0].Party)
	require.True(t, backend.debts.entries[0].Credit.Equal(money("121.00")))
}

func TestConfirmedPurchaseRejectsEdits(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	draft, err := svc.CreatePurchaseDraft(ctx, purchaseInput())
	require.NoError(t, err)
	_, err = svc.ConfirmPurchase(ctx, draft.ID, 1)
	require.NoError(t, err)

	_, err = svc.UpdatePurchaseDraft(ctx, draft.ID, purchaseInput())
	require.ErrorIs(t, err, shared.ErrInvalidState)

	err = svc.DeletePurchaseDraft(ctx, draft.ID, 1)
	require.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = svc.ConfirmPurchase(ctx, draft.ID, 1)
	require.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCancelPurchaseRestoresStockAndRemovesDerivedRows(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	draft, err := svc.CreatePurchaseDraft(ctx, purchaseInput())
	require.NoError(t, err)
	confirmed, err := svc.ConfirmPurchase(ctx, draft.ID, 1)
	require.NoError(t, err)

	cancelled, err := svc.CancelPurchase(ctx, draft.ID, 1)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)

	// Quantity and value both back to zero, exactly.
	for _, variantID := range []int64{1, 2} {
		b := backend.inventory.balances[variantID]
		require.Equal(t, float64(0), b.Qty, "variant %d", variantID)
		require.True(t, b.Value.IsZero(), "variant %d value %s", variantID, b.Value)
	}
	require.Empty(t, backend.debts.entries)
	_, err = backend.journal.GetEntryByRef(ctx, confirmed.Ref())
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.CancelPurchase(ctx, draft.ID, 1)
	require.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestPurchaseDraftCannotBeCancelled(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	draft, err := svc.CreatePurchaseDraft(ctx, purchaseInput())
	require.NoError(t, err)

	_, err = svc.CancelPurchase(ctx, draft.ID, 1)
	require.ErrorIs(t, err, ErrNotConfirmed)
}

func TestConfirmSalesPostsRevenueAndCOGS(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	purchase, err := svc.CreatePurchaseDraft(ctx, purchaseInput())
	require.NoError(t, err)
	_, err = svc.ConfirmPurchase(ctx, purchase.ID, 1)
	require.NoError(t, err)

	draft, err := svc.CreateSalesDraft(ctx, SalesInput{
		ReceiptDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		CustomerID:  10,
		ActorID:     1,
		Items: []ReceiptItem{
			{VariantID: 1, Qty: 4, Price: money("9.00"), VATRate: money("10")},
		},
	})
	require.NoError(t, err)
	require.True(t, draft.GrandTotal.Equal(money("39.60")), "grand %s", draft.GrandTotal)

	confirmed, err := svc.ConfirmSales(ctx, draft.ID, 1)
	require.NoError(t, err)

	entry, err := backend.journal.GetEntryByRef(ctx, confirmed.Ref())
	require.NoError(t, err)
	require.True(t, entry.TotalDebit().Equal(entry.TotalCredit()))

	var cogsDebit, merchandiseCredit decimal.Decimal
	for _, l := range entry.Lines {
		switch l.AccountCode {
		case "632":
			cogsDebit = l.Debit
		case "156":
			merchandiseCredit = l.Credit
		}
	}
	// 4 units at the 5.00 moving average.
	require.True(t, cogsDebit.Equal(money("20.00")), "cogs %s", cogsDebit)
	require.True(t, merchandiseCredit.Equal(money("20.00")))

	require.Equal(t, float64(6), backend.inventory.balances[1].Qty)
	require.Len(t, backend.debts.entries, 2)
	last := backend.debts.entries[1]
	require.Equal(t, debt.PartyCustomer, last.Party)
	require.True(t, last.Debit.Equal(money("39.60")))
}

func TestConfirmSalesFailsOnInsufficientStock(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	draft, err := svc.CreateSalesDraft(ctx, SalesInput{
		ReceiptDate: time.Now(),
		CustomerID:  10,
		ActorID:     1,
		Items:       []ReceiptItem{{VariantID: 99, Qty: 1, Price: money("10"), VATRate: money("0")}},
	})
	require.NoError(t, err)

	_, err = svc.ConfirmSales(ctx, draft.ID, 1)
	require.Error(t, err)

	got, err := svc.GetSales(ctx, draft.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDraft, got.Status)
}

func TestSalesDiscountPercentDerivesAmounts(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	draft, err := svc.CreateSalesDraft(ctx, SalesInput{
		ReceiptDate: time.Now(),
		CustomerID:  10,
		ActorID:     1,
		Items: []ReceiptItem{
			{VariantID: 1, Qty: 2, ListPrice: money("100.00"), DiscountPercent: money("10"), VATRate: money("10")},
		},
	})
	require.NoError(t, err)

	item := draft.Items[0]
	require.True(t, item.Price.Equal(money("90.00")), "price %s", item.Price)
	require.True(t, item.DiscountAmount.Equal(money("20.00")), "discount %s", item.DiscountAmount)
	require.True(t, item.Subtotal.Equal(money("180.00")))
	require.True(t, item.VATAmount.Equal(money("18.00")))
	require.True(t, draft.GrandTotal.Equal(money("198.00")))
}

func TestCancelSalesRestoresInventoryExactly(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	purchase, err := svc.CreatePurchaseDraft(ctx, purchaseInput())
	require.NoError(t, err)
	_, err = svc.ConfirmPurchase(ctx, purchase.ID, 1)
	require.NoError(t, err)

	before := backend.inventory.balances[1]

	draft, err := svc.CreateSalesDraft(ctx, SalesInput{
		ReceiptDate: time.Now(),
		CustomerID:  10,
		ActorID:     1,
		Items:       []ReceiptItem{{VariantID: 1, Qty: 7, Price: money("8.00"), VATRate: money("10")}},
	})
	require.NoError(t, err)
	_, err = svc.ConfirmSales(ctx, draft.ID, 1)
	require.NoError(t, err)

	_, err = svc.CancelSales(ctx, draft.ID, 1)
	require.NoError(t, err)

	after := backend.inventory.balances[1]
	require.Equal(t, before.Qty, after.Qty)
	require.True(t, before.Value.Equal(after.Value), "value before %s after %s", before.Value, after.Value)
}

func TestVoucherLifecycle(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	draft, err := svc.CreateVoucherDraft(ctx, VoucherInput{
		Kind:        shared.DocKindReceiptVoucher,
		VoucherDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		PartyID:     10,
		Amount:      money("1000000"),
		Method:      PaymentCash,
		ActorID:     1,
	})
	require.NoError(t, err)
	require.Equal(t, StatusDraft, draft.Status)

	confirmed, err := svc.ConfirmVoucher(ctx, shared.DocKindReceiptVoucher, draft.ID, 1)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, confirmed.Status)

	entry, err := backend.journal.GetEntryByRef(ctx, confirmed.Ref())
	require.NoError(t, err)
	require.Len(t, entry.Lines, 2)
	require.True(t, entry.TotalDebit().Equal(money("1000000")))

	// Money received from a customer reduces the receivable.
	require.Len(t, backend.debts.entries, 1)
	require.Equal(t, debt.PartyCustomer, backend.debts.entries[0].Party)
	require.True(t, backend.debts.entries[0].Credit.Equal(money("1000000")))

	cancelled, err := svc.CancelVoucher(ctx, shared.DocKindReceiptVoucher, draft.ID, 1)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)
	require.Empty(t, backend.debts.entries)
	_, err = backend.journal.GetEntryByRef(ctx, confirmed.Ref())
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestVoucherMayBeCancelledFromDraft(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	draft, err := svc.CreateVoucherDraft(ctx, VoucherInput{
		Kind:        shared.DocKindPaymentVoucher,
		VoucherDate: time.Now(),
		PartyID:     20,
		Amount:      money("500"),
		Method:      PaymentBank,
		ActorID:     1,
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelVoucher(ctx, shared.DocKindPaymentVoucher, draft.ID, 1)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)
	require.Empty(t, backend.journal.entries)

	_, err = svc.CancelVoucher(ctx, shared.DocKindPaymentVoucher, draft.ID, 1)
	require.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestVoucherWithSingleManualLineRejected(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestService(backend)
	ctx := context.Background()

	draft, err := svc.CreateVoucherDraft(ctx, VoucherInput{
		Kind:        shared.DocKindPaymentVoucher,
		VoucherDate: time.Now(),
		PartyID:     20,
		Amount:      money("500"),
		Method:      PaymentCash,
		ActorID:     1,
		Lines:       []ledger.LineInput{{AccountCode: "331", Debit: money("500")}},
	})
	require.NoError(t, err)

	_, err = svc.ConfirmVoucher(ctx, shared.DocKindPaymentVoucher, draft.ID, 1)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestParseStatusNormalisesLegacyTokens(t *testing.T) {
	for token, want := range map[string]Status{
		"draft":     StatusDraft,
		"confirm":   StatusConfirmed,
		"Confirmed": StatusConfirmed,
		"cancel":    StatusCancelled,
		"canceled":  StatusCancelled,
		"CANCELLED": StatusCancelled,
	} {
		got, err := ParseStatus(token)
		require.NoError(t, err, token)
		require.Equal(t, want, got, token)
	}
	_, err := ParseStatus("posted")
	require.ErrorIs(t, err, shared.ErrValidation)
}
