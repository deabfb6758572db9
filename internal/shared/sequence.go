package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Document code prefixes follow the Vietnamese voucher naming the business
// already uses on paper.
var docCodePrefix = map[DocKind]string{
	DocKindPurchaseReceipt: "PNK", // phiếu nhập kho
	DocKindSalesReceipt:    "PBH", // phiếu bán hàng
	DocKindReceiptVoucher:  "PT",  // phiếu thu
	DocKindPaymentVoucher:  "PC",  // phiếu chi
}

// SequenceAllocator hands out monotonically increasing document codes,
// one Redis counter per document kind per year.
type SequenceAllocator struct {
	rdb *redis.Client
	now func() time.Time
}

// NewSequenceAllocator constructs the allocator. rdb may be nil; NextCode
// then falls back to timestamp-derived codes.
func NewSequenceAllocator(rdb *redis.Client) *SequenceAllocator {
	return &SequenceAllocator{rdb: rdb, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *SequenceAllocator) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// NextCode allocates the next code for the document kind, e.g. "PT-2026-000042".
func (s *SequenceAllocator) NextCode(ctx context.Context, kind DocKind) (string, error) {
	prefix, ok := docCodePrefix[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown document kind %q", ErrValidation, kind)
	}
	year := s.now().Year()
	if s.rdb == nil {
		return fmt.Sprintf("%s-%d-%d", prefix, year, s.now().UnixNano()), nil
	}
	key := fmt.Sprintf("seq:doc:%s:%d", kind, year)
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("sequence: incr %s: %w", key, err)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, n), nil
}
