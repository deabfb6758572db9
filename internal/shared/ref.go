package shared

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DocKind tags the document table a polymorphic reference points into.
type DocKind string

const (
	DocKindPurchaseReceipt DocKind = "purchase_receipt"
	DocKindSalesReceipt    DocKind = "sales_receipt"
	DocKindReceiptVoucher  DocKind = "receipt_voucher"
	DocKindPaymentVoucher  DocKind = "payment_voucher"
)

// ParseDocKind normalises free-form document type tokens.
func ParseDocKind(s string) (DocKind, error) {
	switch DocKind(strings.ToLower(strings.TrimSpace(s))) {
	case DocKindPurchaseReceipt:
		return DocKindPurchaseReceipt, nil
	case DocKindSalesReceipt:
		return DocKindSalesReceipt, nil
	case DocKindReceiptVoucher:
		return DocKindReceiptVoucher, nil
	case DocKindPaymentVoucher:
		return DocKindPaymentVoucher, nil
	}
	return "", fmt.Errorf("%w: unknown document kind %q", ErrValidation, s)
}

// DocRef identifies the source document of a journal entry, inventory
// movement, or debt line. It is the composite key every derived record
// carries instead of a dynamically typed foreign key.
type DocRef struct {
	Kind DocKind
	ID   uuid.UUID
}

// NewDocRef builds a reference, rejecting the zero UUID.
func NewDocRef(kind DocKind, id uuid.UUID) (DocRef, error) {
	if _, err := ParseDocKind(string(kind)); err != nil {
		return DocRef{}, err
	}
	if id == uuid.Nil {
		return DocRef{}, fmt.Errorf("%w: document id required", ErrValidation)
	}
	return DocRef{Kind: kind, ID: id}, nil
}

func (r DocRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// IsZero reports whether the reference is unset.
func (r DocRef) IsZero() bool {
	return r.Kind == "" && r.ID == uuid.Nil
}
