package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-shop-backend/internal/model"
)

func seedSearchData(t *testing.T, s *gormStore) fixture {
	t.Helper()
	ctx := context.Background()
	f := seedFixture(t, s)

	for i := 0; i < 7; i++ {
		require.NoError(t, s.CreateClient(ctx, &model.Client{
			Name:  fmt.Sprintf("Acme Branch %d", i),
			Email: fmt.Sprintf("branch%d@example.com", i),
		}))
	}
	require.NoError(t, s.CreateMachine(ctx, &model.Machine{ModelName: "ACME Oven", CatalogNumber: "AO-1"}))
	require.NoError(t, s.CreatePart(ctx, &model.Part{Name: "Acme hinge", Price: 4}))
	_, err := s.AssignSerial(ctx, SerialInput{ClientID: f.client.ID, MachineID: f.machine.ID, Serial: "ACME-0001"})
	require.NoError(t, err)
	_, err = s.CreateRepair(ctx, RepairInput{ClientID: f.client.ID, MachineID: f.machine.ID, RepairedBy: f.technician.UserID})
	require.NoError(t, err)
	return f
}

func TestGormStore_SearchAllKinds(t *testing.T) {
	s, _ := newTestStore(t)
	seedSearchData(t, s)

	res, err := s.Search(context.Background(), "acme", SearchAll)
	require.NoError(t, err)

	assert.Len(t, res.Clients, SearchLimit, "each kind is capped")
	assert.Len(t, res.Machines, 1)
	assert.Len(t, res.Parts, 1)
	require.Len(t, res.Serials, 1)
	assert.Equal(t, "ACME-0001", res.Serials[0].SerialNumber)
	require.Len(t, res.Repairs, 1, "repairs match on client name")
	assert.Equal(t, "Acme Bakery", res.Repairs[0].ClientName)
}

func TestGormStore_SearchTypeFilter(t *testing.T) {
	s, _ := newTestStore(t)
	seedSearchData(t, s)

	res, err := s.Search(context.Background(), "acme", SearchClients)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Clients)
	assert.NotNil(t, res.Machines)
	assert.Empty(t, res.Machines)
	assert.Empty(t, res.Repairs)
	assert.Empty(t, res.Parts)
	assert.Empty(t, res.Serials)
}

func TestGormStore_SearchRequiresQuery(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Search(context.Background(), "   ", SearchAll)
	assert.ErrorIs(t, err, ErrSearchQuery)

	res, err := s.Search(context.Background(), "nothing-matches", SearchAll)
	require.NoError(t, err)
	assert.Empty(t, res.Clients)
	assert.NotNil(t, res.Serials)
}

func TestParseSearchKind(t *testing.T) {
	k, ok := ParseSearchKind("serials")
	assert.True(t, ok)
	assert.Equal(t, SearchSerials, k)

	k, ok = ParseSearchKind("")
	assert.True(t, ok)
	assert.Equal(t, SearchAll, k)

	_, ok = ParseSearchKind("invoices")
	assert.False(t, ok)
}
