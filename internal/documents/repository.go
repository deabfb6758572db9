package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/debt"
	"github.com/annam-erp/annam-erp/internal/inventory"
	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/platform/db"
	"github.com/annam-erp/annam-erp/internal/shared"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed document repository.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func (r *repository) View() Store {
	return NewStore(r.pool)
}

// txRepository hands out every engine store bound to one transaction.
type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) Docs() Store                { return NewStore(t.tx) }
func (t *txRepository) Journal() ledger.Store      { return ledger.NewStore(t.tx) }
func (t *txRepository) Inventory() inventory.Store { return inventory.NewStore(t.tx) }
func (t *txRepository) Debts() debt.Store          { return debt.NewStore(t.tx) }

// pgStore implements Store over a pool or transaction.
type pgStore struct {
	q db.Querier
}

// NewStore wraps a Querier (pool or open transaction) as a Store.
func NewStore(q db.Querier) *pgStore {
	return &pgStore{q: q}
}

const receiptCols = `id, code, receipt_date, party_id, status, note, created_by, subtotal, vat_total, grand_total, created_at, updated_at`

func (s *pgStore) InsertPurchase(ctx context.Context, r PurchaseReceipt) (PurchaseReceipt, error) {
	err := s.q.QueryRow(ctx, `INSERT INTO purchase_receipts (id, code, receipt_date, party_id, status, note, created_by, subtotal, vat_total, grand_total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING created_at, updated_at`,
		r.ID, r.Code, r.ReceiptDate, r.SupplierID, r.Status, r.Note, r.CreatedBy, r.Subtotal, r.VATTotal, r.GrandTotal).
		Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return PurchaseReceipt{}, fmt.Errorf("documents: insert purchase: %w", err)
	}
	return r, nil
}

func (s *pgStore) GetPurchase(ctx context.Context, id uuid.UUID) (PurchaseReceipt, error) {
	var r PurchaseReceipt
	err := s.q.QueryRow(ctx, `SELECT `+receiptCols+` FROM purchase_receipts WHERE id=$1`, id).
		Scan(&r.ID, &r.Code, &r.ReceiptDate, &r.SupplierID, &r.Status, &r.Note, &r.CreatedBy, &r.Subtotal, &r.VATTotal, &r.GrandTotal, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseReceipt{}, ErrDocumentNotFound
	}
	if err != nil {
		return PurchaseReceipt{}, err
	}
	r.Items, err = s.receiptItems(ctx, "purchase_receipt_items", id)
	return r, err
}

func (s *pgStore) UpdatePurchaseHeader(ctx context.Context, r PurchaseReceipt) error {
	tag, err := s.q.Exec(ctx, `UPDATE purchase_receipts
SET receipt_date=$2, party_id=$3, note=$4, subtotal=$5, vat_total=$6, grand_total=$7, updated_at=now()
WHERE id=$1`,
		r.ID, r.ReceiptDate, r.SupplierID, r.Note, r.Subtotal, r.VATTotal, r.GrandTotal)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *pgStore) ReplacePurchaseItems(ctx context.Context, id uuid.UUID, items []ReceiptItem) error {
	return s.replaceItems(ctx, "purchase_receipt_items", id, items)
}

func (s *pgStore) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	return s.deleteReceipt(ctx, "purchase_receipts", id)
}

func (s *pgStore) InsertSales(ctx context.Context, r SalesReceipt) (SalesReceipt, error) {
	err := s.q.QueryRow(ctx, `INSERT INTO sales_receipts (id, code, receipt_date, party_id, status, note, created_by, subtotal, vat_total, grand_total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING created_at, updated_at`,
		r.ID, r.Code, r.ReceiptDate, r.CustomerID, r.Status, r.Note, r.CreatedBy, r.Subtotal, r.VATTotal, r.GrandTotal).
		Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return SalesReceipt{}, fmt.Errorf("documents: insert sales: %w", err)
	}
	return r, nil
}

func (s *pgStore) GetSales(ctx context.Context, id uuid.UUID) (SalesReceipt, error) {
	var r SalesReceipt
	err := s.q.QueryRow(ctx, `SELECT `+receiptCols+` FROM sales_receipts WHERE id=$1`, id).
		Scan(&r.ID, &r.Code, &r.ReceiptDate, &r.CustomerID, &r.Status, &r.Note, &r.CreatedBy, &r.Subtotal, &r.VATTotal, &r.GrandTotal, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SalesReceipt{}, ErrDocumentNotFound
	}
	if err != nil {
		return SalesReceipt{}, err
	}
	r.Items, err = s.receiptItems(ctx, "sales_receipt_items", id)
	return r, err
}

func (s *pgStore) UpdateSalesHeader(ctx context.Context, r SalesReceipt) error {
	tag, err := s.q.Exec(ctx, `UPDATE sales_receipts
SET receipt_date=$2, party_id=$3, note=$4, subtotal=$5, vat_total=$6, grand_total=$7, updated_at=now()
WHERE id=$1`,
		r.ID, r.ReceiptDate, r.CustomerID, r.Note, r.Subtotal, r.VATTotal, r.GrandTotal)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *pgStore) ReplaceSalesItems(ctx context.Context, id uuid.UUID, items []ReceiptItem) error {
	return s.replaceItems(ctx, "sales_receipt_items", id, items)
}

func (s *pgStore) DeleteSales(ctx context.Context, id uuid.UUID) error {
	return s.deleteReceipt(ctx, "sales_receipts", id)
}

func (s *pgStore) receiptItems(ctx context.Context, table string, receiptID uuid.UUID) ([]ReceiptItem, error) {
	rows, err := s.q.Query(ctx, `SELECT id, variant_id, qty, price, vat_rate, vat_amount, subtotal, list_price, discount_amount, discount_percent
FROM `+table+` WHERE receipt_id=$1 ORDER BY id`, receiptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReceiptItem
	for rows.Next() {
		var it ReceiptItem
		if err := rows.Scan(&it.ID, &it.VariantID, &it.Qty, &it.Price, &it.VATRate, &it.VATAmount, &it.Subtotal, &it.ListPrice, &it.DiscountAmount, &it.DiscountPercent); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *pgStore) replaceItems(ctx context.Context, table string, receiptID uuid.UUID, items []ReceiptItem) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM `+table+` WHERE receipt_id=$1`, receiptID); err != nil {
		return err
	}
	for _, it := range items {
		_, err := s.q.Exec(ctx, `INSERT INTO `+table+` (receipt_id, variant_id, qty, price, vat_rate, vat_amount, subtotal, list_price, discount_amount, discount_percent)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			receiptID, it.VariantID, it.Qty, it.Price, it.VATRate, it.VATAmount, it.Subtotal, it.ListPrice, it.DiscountAmount, it.DiscountPercent)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *pgStore) deleteReceipt(ctx context.Context, table string, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM `+table+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// voucherLine is the stored shape of a manual journal line on a voucher.
type voucherLine struct {
	AccountCode string `json:"account_code"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

func marshalLines(lines []ledger.LineInput) ([]byte, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	out := make([]voucherLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, voucherLine{AccountCode: l.AccountCode, Debit: l.Debit.String(), Credit: l.Credit.String()})
	}
	return json.Marshal(out)
}

func decimalFromStored(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("documents: voucher line amount %q: %w", s, err)
	}
	return d, nil
}

func unmarshalLines(raw []byte) ([]ledger.LineInput, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var stored []voucherLine
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("documents: voucher lines: %w", err)
	}
	lines := make([]ledger.LineInput, 0, len(stored))
	for _, l := range stored {
		debit, err := decimalFromStored(l.Debit)
		if err != nil {
			return nil, err
		}
		credit, err := decimalFromStored(l.Credit)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ledger.LineInput{AccountCode: l.AccountCode, Debit: debit, Credit: credit})
	}
	return lines, nil
}

func voucherTable(kind shared.DocKind) (string, error) {
	switch kind {
	case shared.DocKindReceiptVoucher:
		return "receipt_vouchers", nil
	case shared.DocKindPaymentVoucher:
		return "payment_vouchers", nil
	}
	return "", fmt.Errorf("%w: kind %q is not a voucher", shared.ErrValidation, kind)
}

func (s *pgStore) InsertVoucher(ctx context.Context, v Voucher) (Voucher, error) {
	table, err := voucherTable(v.Kind)
	if err != nil {
		return Voucher{}, err
	}
	raw, err := marshalLines(v.Lines)
	if err != nil {
		return Voucher{}, err
	}
	err = s.q.QueryRow(ctx, `INSERT INTO `+table+` (id, code, voucher_date, party_id, amount, method, status, note, created_by, journal_lines)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING created_at, updated_at`,
		v.ID, v.Code, v.VoucherDate, v.PartyID, v.Amount, v.Method, v.Status, v.Note, v.CreatedBy, raw).
		Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return Voucher{}, fmt.Errorf("documents: insert voucher: %w", err)
	}
	return v, nil
}

func (s *pgStore) GetVoucher(ctx context.Context, kind shared.DocKind, id uuid.UUID) (Voucher, error) {
	table, err := voucherTable(kind)
	if err != nil {
		return Voucher{}, err
	}
	var v Voucher
	var raw []byte
	err = s.q.QueryRow(ctx, `SELECT id, code, voucher_date, party_id, amount, method, status, note, created_by, journal_lines, created_at, updated_at
FROM `+table+` WHERE id=$1`, id).
		Scan(&v.ID, &v.Code, &v.VoucherDate, &v.PartyID, &v.Amount, &v.Method, &v.Status, &v.Note, &v.CreatedBy, &raw, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Voucher{}, ErrDocumentNotFound
	}
	if err != nil {
		return Voucher{}, err
	}
	v.Kind = kind
	v.Lines, err = unmarshalLines(raw)
	return v, err
}

func (s *pgStore) UpdateVoucher(ctx context.Context, v Voucher) error {
	table, err := voucherTable(v.Kind)
	if err != nil {
		return err
	}
	raw, err := marshalLines(v.Lines)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `UPDATE `+table+`
SET voucher_date=$2, party_id=$3, amount=$4, method=$5, note=$6, journal_lines=$7, updated_at=now()
WHERE id=$1`,
		v.ID, v.VoucherDate, v.PartyID, v.Amount, v.Method, v.Note, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *pgStore) DeleteVoucher(ctx context.Context, kind shared.DocKind, id uuid.UUID) error {
	table, err := voucherTable(kind)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `DELETE FROM `+table+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *pgStore) SetStatus(ctx context.Context, ref shared.DocRef, status Status) error {
	var table string
	switch ref.Kind {
	case shared.DocKindPurchaseReceipt:
		table = "purchase_receipts"
	case shared.DocKindSalesReceipt:
		table = "sales_receipts"
	case shared.DocKindReceiptVoucher:
		table = "receipt_vouchers"
	case shared.DocKindPaymentVoucher:
		table = "payment_vouchers"
	default:
		return fmt.Errorf("%w: unknown document kind %q", shared.ErrValidation, ref.Kind)
	}
	tag, err := s.q.Exec(ctx, `UPDATE `+table+` SET status=$2, updated_at=now() WHERE id=$1`, ref.ID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
