package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestSequenceAllocatorNextCode(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	seq := NewSequenceAllocator(rdb)
	seq.WithNow(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) })

	ctx := context.Background()
	first, err := seq.NextCode(ctx, DocKindReceiptVoucher)
	require.NoError(t, err)
	require.Equal(t, "PT-2026-000001", first)

	second, err := seq.NextCode(ctx, DocKindReceiptVoucher)
	require.NoError(t, err)
	require.Equal(t, "PT-2026-000002", second)

	// Counters are independent per document kind.
	purchase, err := seq.NextCode(ctx, DocKindPurchaseReceipt)
	require.NoError(t, err)
	require.Equal(t, "PNK-2026-000001", purchase)
}

func TestSequenceAllocatorUnknownKind(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	seq := NewSequenceAllocator(rdb)
	_, err := seq.NextCode(context.Background(), DocKind("invoice"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestSequenceAllocatorWithoutRedis(t *testing.T) {
	seq := NewSequenceAllocator(nil)
	code, err := seq.NextCode(context.Background(), DocKindPaymentVoucher)
	require.NoError(t, err)
	require.Contains(t, code, "PC-")
}
