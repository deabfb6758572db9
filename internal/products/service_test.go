package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/annam-erp/annam-erp/internal/shared"
)

type memoryVariantRepo struct {
	nextID  int64
	records map[int64]Variant
	moves   map[int64]bool
}

func newMemoryVariantRepo() *memoryVariantRepo {
	return &memoryVariantRepo{nextID: 1, records: map[int64]Variant{}, moves: map[int64]bool{}}
}

func (m *memoryVariantRepo) List(_ context.Context, _ string) ([]Variant, error) {
	var out []Variant
	for _, v := range m.records {
		out = append(out, v)
	}
	return out, nil
}

func (m *memoryVariantRepo) Get(_ context.Context, id int64) (Variant, error) {
	v, ok := m.records[id]
	if !ok {
		return Variant{}, ErrVariantNotFound
	}
	return v, nil
}

func (m *memoryVariantRepo) GetBySKU(_ context.Context, sku string) (Variant, error) {
	for _, v := range m.records {
		if v.SKU == sku {
			return v, nil
		}
	}
	return Variant{}, ErrVariantNotFound
}

func (m *memoryVariantRepo) Insert(_ context.Context, v Variant) (Variant, error) {
	v.ID = m.nextID
	v.IsActive = true
	m.nextID++
	m.records[v.ID] = v
	return v, nil
}

func (m *memoryVariantRepo) Update(_ context.Context, v Variant) error {
	if _, ok := m.records[v.ID]; !ok {
		return ErrVariantNotFound
	}
	m.records[v.ID] = v
	return nil
}

func (m *memoryVariantRepo) SetActive(_ context.Context, id int64, active bool) error {
	v, ok := m.records[id]
	if !ok {
		return ErrVariantNotFound
	}
	v.IsActive = active
	m.records[id] = v
	return nil
}

func (m *memoryVariantRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return ErrVariantNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memoryVariantRepo) HasMovements(_ context.Context, id int64) (bool, error) {
	return m.moves[id], nil
}

func TestCreateUppercasesSKU(t *testing.T) {
	svc := NewService(newMemoryVariantRepo(), nil)

	v, err := svc.Create(context.Background(), Input{SKU: " sp001 ", Name: "Gạo ST25 5kg", Unit: "túi", SalePrice: decimal.NewFromInt(150000)})
	require.NoError(t, err)
	require.Equal(t, "SP001", v.SKU)
	require.Equal(t, shared.SearchKey("Gạo ST25 5kg"), v.SearchKey)
}

func TestCreateRejectsDuplicateSKU(t *testing.T) {
	svc := NewService(newMemoryVariantRepo(), nil)

	_, err := svc.Create(context.Background(), Input{SKU: "SP001", Name: "Gạo ST25 5kg"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), Input{SKU: "sp001", Name: "Gạo ST25 10kg"})
	require.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := NewService(newMemoryVariantRepo(), nil)

	_, err := svc.Create(context.Background(), Input{SKU: "SP002", Name: "Đường", SalePrice: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateKeepsSKUImmutable(t *testing.T) {
	repo := newMemoryVariantRepo()
	svc := NewService(repo, nil)

	v, err := svc.Create(context.Background(), Input{SKU: "SP001", Name: "Gạo ST25 5kg"})
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), v.ID, Input{SKU: "OTHER", Name: "Gạo ST25 5kg (mới)", Unit: "túi"})
	require.NoError(t, err)
	require.Equal(t, "SP001", got.SKU)
	require.Equal(t, "Gạo ST25 5kg (mới)", got.Name)
}

func TestDeleteRefusedWhenVariantHasMovements(t *testing.T) {
	repo := newMemoryVariantRepo()
	svc := NewService(repo, nil)

	v, err := svc.Create(context.Background(), Input{SKU: "SP001", Name: "Gạo"})
	require.NoError(t, err)
	repo.moves[v.ID] = true

	require.ErrorIs(t, svc.Delete(context.Background(), v.ID, 1), ErrVariantHasMoves)

	require.NoError(t, svc.Archive(context.Background(), v.ID, 1))
	got, err := svc.Get(context.Background(), v.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}
