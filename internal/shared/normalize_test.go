package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchKey(t *testing.T) {
	cases := map[string]string{
		"Tiền mặt":              "tien mat",
		"Phải thu khách hàng":   "phai thu khach hang",
		"Doanh thu bán hàng":    "doanh thu ban hang",
		"Công ty TNHH Đại Phát": "cong ty tnhh dai phat",
		"  Hàng   hóa  ":        "hang hoa",
		"ABC-123":               "abc-123",
	}
	for in, want := range cases {
		require.Equal(t, want, SearchKey(in), "input %q", in)
	}
}

func TestParseDocKind(t *testing.T) {
	kind, err := ParseDocKind("  Purchase_Receipt ")
	require.NoError(t, err)
	require.Equal(t, DocKindPurchaseReceipt, kind)

	_, err = ParseDocKind("invoice")
	require.ErrorIs(t, err, ErrValidation)
}
