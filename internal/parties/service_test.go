package parties

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annam-erp/annam-erp/internal/debt"
	"github.com/annam-erp/annam-erp/internal/shared"
)

type memoryPartyRepo struct {
	nextID  int64
	records map[debt.PartyKind]map[int64]Party
	debts   map[debt.PartyKind]map[int64]bool
}

func newMemoryPartyRepo() *memoryPartyRepo {
	return &memoryPartyRepo{
		nextID:  1,
		records: map[debt.PartyKind]map[int64]Party{debt.PartyCustomer: {}, debt.PartySupplier: {}},
		debts:   map[debt.PartyKind]map[int64]bool{debt.PartyCustomer: {}, debt.PartySupplier: {}},
	}
}

func (m *memoryPartyRepo) List(_ context.Context, kind debt.PartyKind, _ string) ([]Party, error) {
	var out []Party
	for _, p := range m.records[kind] {
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryPartyRepo) Get(_ context.Context, kind debt.PartyKind, id int64) (Party, error) {
	p, ok := m.records[kind][id]
	if !ok {
		return Party{}, ErrPartyNotFound
	}
	return p, nil
}

func (m *memoryPartyRepo) Insert(_ context.Context, kind debt.PartyKind, p Party) (Party, error) {
	p.ID = m.nextID
	p.IsActive = true
	m.nextID++
	m.records[kind][p.ID] = p
	return p, nil
}

func (m *memoryPartyRepo) Update(_ context.Context, kind debt.PartyKind, p Party) error {
	if _, ok := m.records[kind][p.ID]; !ok {
		return ErrPartyNotFound
	}
	m.records[kind][p.ID] = p
	return nil
}

func (m *memoryPartyRepo) SetActive(_ context.Context, kind debt.PartyKind, id int64, active bool) error {
	p, ok := m.records[kind][id]
	if !ok {
		return ErrPartyNotFound
	}
	p.IsActive = active
	m.records[kind][id] = p
	return nil
}

func (m *memoryPartyRepo) Delete(_ context.Context, kind debt.PartyKind, id int64) error {
	if _, ok := m.records[kind][id]; !ok {
		return ErrPartyNotFound
	}
	delete(m.records[kind], id)
	return nil
}

func (m *memoryPartyRepo) HasDebts(_ context.Context, kind debt.PartyKind, id int64) (bool, error) {
	return m.debts[kind][id], nil
}

func TestCreateNormalizesNameAndSearchKey(t *testing.T) {
	repo := newMemoryPartyRepo()
	svc := NewService(repo, nil)

	p, err := svc.Create(context.Background(), debt.PartyCustomer, CreateInput{Name: "  Cửa hàng Minh Anh  ", Phone: "0901 234 567"})
	require.NoError(t, err)
	require.Equal(t, "Cửa hàng Minh Anh", p.Name)
	require.Equal(t, shared.SearchKey("Cửa hàng Minh Anh"), p.SearchKey)
	require.True(t, p.IsActive)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc := NewService(newMemoryPartyRepo(), nil)

	_, err := svc.Create(context.Background(), debt.PartySupplier, CreateInput{Name: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteRefusedWhenPartyHasDebtHistory(t *testing.T) {
	repo := newMemoryPartyRepo()
	svc := NewService(repo, nil)

	p, err := svc.Create(context.Background(), debt.PartySupplier, CreateInput{Name: "Đại Phát"})
	require.NoError(t, err)
	repo.debts[debt.PartySupplier][p.ID] = true

	err = svc.Delete(context.Background(), debt.PartySupplier, p.ID, 1)
	require.ErrorIs(t, err, ErrPartyHasDebts)
	require.True(t, errors.Is(err, shared.ErrInvalidState))

	require.NoError(t, svc.Archive(context.Background(), debt.PartySupplier, p.ID, 1))
	got, err := svc.Get(context.Background(), debt.PartySupplier, p.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestDeleteRemovesPartyWithoutHistory(t *testing.T) {
	repo := newMemoryPartyRepo()
	svc := NewService(repo, nil)

	p, err := svc.Create(context.Background(), debt.PartyCustomer, CreateInput{Name: "Hòa Bình"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), debt.PartyCustomer, p.ID, 1))
	_, err = svc.Get(context.Background(), debt.PartyCustomer, p.ID)
	require.ErrorIs(t, err, ErrPartyNotFound)
}

func TestUpdateUnknownParty(t *testing.T) {
	svc := NewService(newMemoryPartyRepo(), nil)

	_, err := svc.Update(context.Background(), debt.PartyCustomer, UpdateInput{ID: 99, Name: "Ai đó"})
	require.ErrorIs(t, err, ErrPartyNotFound)
}
