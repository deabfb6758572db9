package coa

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/annam-erp/annam-erp/internal/shared"
)

type memoryCoARepo struct {
	byCode   map[string]Account
	postings map[int64]bool
	nextID   int64
}

func newMemoryCoARepo() *memoryCoARepo {
	return &memoryCoARepo{byCode: make(map[string]Account), postings: make(map[int64]bool)}
}

func (r *memoryCoARepo) GetByCode(ctx context.Context, code string) (Account, error) {
	a, ok := r.byCode[code]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

func (r *memoryCoARepo) List(ctx context.Context) ([]Account, error) {
	out := make([]Account, 0, len(r.byCode))
	for _, a := range r.byCode {
		out = append(out, a)
	}
	return out, nil
}

func (r *memoryCoARepo) Subtree(ctx context.Context, code string) ([]Account, error) {
	root, ok := r.byCode[code]
	if !ok {
		return nil, ErrAccountNotFound
	}
	var out []Account
	for _, a := range r.byCode {
		if a.Lft >= root.Lft && a.Rgt <= root.Rgt {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryCoARepo) Insert(ctx context.Context, a Account) (Account, error) {
	if _, exists := r.byCode[a.Code]; exists {
		return Account{}, shared.ErrIntegrity
	}
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.byCode[a.Code] = a
	return a, nil
}

func (r *memoryCoARepo) Update(ctx context.Context, a Account) error {
	current, ok := r.byCode[a.Code]
	if !ok {
		return ErrAccountNotFound
	}
	a.ID = current.ID
	a.Lft, a.Rgt, a.Depth = current.Lft, current.Rgt, current.Depth
	a.IsActive = current.IsActive
	r.byCode[a.Code] = a
	return nil
}

func (r *memoryCoARepo) SetActive(ctx context.Context, code string, active bool) error {
	a, ok := r.byCode[code]
	if !ok {
		return ErrAccountNotFound
	}
	a.IsActive = active
	r.byCode[code] = a
	return nil
}

func (r *memoryCoARepo) Delete(ctx context.Context, code string) error {
	if _, ok := r.byCode[code]; !ok {
		return ErrAccountNotFound
	}
	delete(r.byCode, code)
	return nil
}

func (r *memoryCoARepo) HasPostings(ctx context.Context, accountID int64) (bool, error) {
	return r.postings[accountID], nil
}

func (r *memoryCoARepo) UpdateBounds(ctx context.Context, accounts []Account) error {
	for _, a := range accounts {
		stored := r.byCode[a.Code]
		stored.Lft, stored.Rgt, stored.Depth = a.Lft, a.Rgt, a.Depth
		r.byCode[a.Code] = stored
	}
	return nil
}

func TestRegistryCreateAndRebuild(t *testing.T) {
	repo := newMemoryCoARepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	cash, err := svc.Create(ctx, CreateInput{Code: "111", Name: "Tiền mặt", Type: AccountTypeAsset})
	require.NoError(t, err)
	require.Equal(t, BalanceSideDebit, cash.NormalBalance)
	require.Equal(t, "tien mat", cash.SearchKey)
	require.True(t, cash.IsLeaf())

	child, err := svc.Create(ctx, CreateInput{Code: "1111", Name: "Tiền Việt Nam", Type: AccountTypeAsset, ParentCode: "111"})
	require.NoError(t, err)
	require.True(t, child.IsLeaf())

	parent, err := svc.Get(ctx, "111")
	require.NoError(t, err)
	require.False(t, parent.IsLeaf())
}

func TestRegistryCreateRejectsTypeMismatch(t *testing.T) {
	repo := newMemoryCoARepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Code: "511", Name: "Doanh thu", Type: AccountTypeRevenue})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Code: "5111", Name: "Hàng hóa", Type: AccountTypeAsset, ParentCode: "511"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRegistryDeleteGuards(t *testing.T) {
	repo := newMemoryCoARepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	acc, err := svc.Create(ctx, CreateInput{Code: "331", Name: "Phải trả người bán", Type: AccountTypeLiability})
	require.NoError(t, err)

	repo.postings[acc.ID] = true
	err = svc.Delete(ctx, "331", 1)
	require.ErrorIs(t, err, ErrAccountHasPostings)

	// Archiving is always allowed for leaves.
	require.NoError(t, svc.Archive(ctx, "331", 1))
	archived, err := svc.Get(ctx, "331")
	require.NoError(t, err)
	require.False(t, archived.IsActive)

	repo.postings[acc.ID] = false
	require.NoError(t, svc.Delete(ctx, "331", 1))
	_, err = svc.Get(ctx, "331")
	require.ErrorIs(t, err, shared.ErrNotFound)
}
