package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-shop-backend/internal/model"
	"repair-shop-backend/internal/parse"
)

func TestGormStore_Admissions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)

	assert.ErrorIs(t, s.CreateAdmission(ctx, &model.Admission{MachineID: f.machine.ID}), ErrAdmissionFields)
	assert.ErrorIs(t, s.CreateAdmission(ctx, &model.Admission{ClientID: 404, MachineID: f.machine.ID}), ErrAdmissionClient)
	assert.ErrorIs(t, s.CreateAdmission(ctx, &model.Admission{ClientID: f.client.ID, MachineID: 404}), ErrAdmissionMachine)

	var created []*model.Admission
	for i := 0; i < 3; i++ {
		a := &model.Admission{
			ClientID:           f.client.ID,
			MachineID:          f.machine.ID,
			ProblemDescription: "does not heat",
			ReceivedBy:         &f.technician.UserID,
		}
		require.NoError(t, s.CreateAdmission(ctx, a))
		require.NotNil(t, a.AdmissionName)
		assert.Equal(t, parse.FormatDisplayID(a.ID, a.CreatedAt), *a.AdmissionName)
		created = append(created, a)
	}

	got, err := s.GetAdmission(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, *created[1].AdmissionName, *got.AdmissionName)
	assert.Equal(t, "Acme Bakery", got.ClientName)
	assert.Equal(t, "Rational SCC 61", got.MachineName)
	require.NotNil(t, got.ReceivedByName)
	assert.Equal(t, "Tina Tech", *got.ReceivedByName)

	page, err := s.ListAdmissions(ctx, ListParams{Search: *created[2].AdmissionName})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total, "a display id matches exactly")
	require.Len(t, page.Data, 1)
	assert.Equal(t, created[2].ID, page.Data[0].ID)

	page, err = s.ListAdmissions(ctx, ListParams{Search: "acme", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Data, 2)

	_, err = s.GetAdmission(ctx, 404)
	assert.ErrorIs(t, err, ErrAdmissionNotFound)
}
