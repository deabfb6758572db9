package coa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annam-erp/annam-erp/internal/shared"
)

func ptr(v int64) *int64 { return &v }

func TestRebuildBounds(t *testing.T) {
	accounts := []Account{
		{ID: 1, Code: "111"},
		{ID: 2, Code: "1111", ParentID: ptr(1)},
		{ID: 3, Code: "1112", ParentID: ptr(1)},
		{ID: 4, Code: "131"},
	}
	rebuilt, err := RebuildBounds(accounts)
	require.NoError(t, err)

	byCode := make(map[string]Account)
	for _, a := range rebuilt {
		byCode[a.Code] = a
	}

	require.Equal(t, 1, byCode["111"].Lft)
	require.Equal(t, 6, byCode["111"].Rgt)
	require.Equal(t, 0, byCode["111"].Depth)
	require.False(t, byCode["111"].IsLeaf())

	require.Equal(t, 2, byCode["1111"].Lft)
	require.Equal(t, 3, byCode["1111"].Rgt)
	require.Equal(t, 1, byCode["1111"].Depth)
	require.True(t, byCode["1111"].IsLeaf())

	require.Equal(t, 4, byCode["1112"].Lft)
	require.Equal(t, 5, byCode["1112"].Rgt)

	require.Equal(t, 7, byCode["131"].Lft)
	require.Equal(t, 8, byCode["131"].Rgt)
	require.True(t, byCode["131"].IsLeaf())
}

func TestRebuildBoundsMissingParent(t *testing.T) {
	_, err := RebuildBounds([]Account{{ID: 1, Code: "111", ParentID: ptr(99)}})
	require.ErrorIs(t, err, shared.ErrIntegrity)
}

func TestRebuildBoundsCycle(t *testing.T) {
	_, err := RebuildBounds([]Account{
		{ID: 1, Code: "111", ParentID: ptr(2)},
		{ID: 2, Code: "112", ParentID: ptr(1)},
	})
	require.ErrorIs(t, err, shared.ErrIntegrity)
}

func TestNormalBalance(t *testing.T) {
	require.Equal(t, BalanceSideDebit, AccountTypeAsset.NormalBalance())
	require.Equal(t, BalanceSideDebit, AccountTypeExpense.NormalBalance())
	require.Equal(t, BalanceSideCredit, AccountTypeLiability.NormalBalance())
	require.Equal(t, BalanceSideCredit, AccountTypeRevenue.NormalBalance())
	require.Equal(t, BalanceSideCredit, AccountTypeEquity.NormalBalance())
}
