package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/model"
	"repair-shop-backend/internal/parse"
)

func seedParts(t *testing.T, s *gormStore, names ...string) []model.Part {
	t.Helper()
	parts := make([]model.Part, len(names))
	for i, n := range names {
		parts[i] = model.Part{Name: n, Price: float64(10 * (i + 1))}
		require.NoError(t, s.CreatePart(context.Background(), &parts[i]))
	}
	return parts
}

func TestGormStore_CreateRepairAssignsDisplayName(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)
	parts := seedParts(t, s, "Door seal", "Fan motor")

	r, err := s.CreateRepair(ctx, RepairInput{
		ClientID:    f.client.ID,
		MachineID:   f.machine.ID,
		RepairedBy:  f.technician.UserID,
		Description: "replaced seal",
		Parts:       []PartLine{{PartID: parts[0].ID, Quantity: 2}, {PartID: parts[1].ID}},
	})
	require.NoError(t, err)
	require.NotNil(t, r.RepairName)
	assert.Equal(t, parse.FormatDisplayID(r.ID, r.CreatedAt), *r.RepairName)
	assert.WithinDuration(t, time.Now(), r.RepairDate, 5*time.Second, "repair date defaults to now")

	view, err := s.GetRepair(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, *r.RepairName, *view.RepairName)
	assert.Equal(t, "Acme Bakery", view.ClientName)
	assert.Equal(t, "Rational SCC 61", view.MachineName)
	require.NotNil(t, view.RepairmanName)
	assert.Equal(t, "Tina Tech", *view.RepairmanName)
	assert.NotEmpty(t, view.RepairDay)
	require.Len(t, view.PartsUsed, 2)
	assert.Equal(t, "Door seal", view.PartsUsed[0].Name)
	assert.Equal(t, 2, view.PartsUsed[0].Quantity)
	assert.Equal(t, 1, view.PartsUsed[1].Quantity, "missing quantity defaults to one")

	used, err := s.RepairsForPart(ctx, parts[0].ID)
	require.NoError(t, err)
	require.Len(t, used, 1)
	assert.Equal(t, r.ID, used[0].RepairID)
}

func TestGormStore_CreateRepairRejectsBadReferences(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)

	base := RepairInput{ClientID: f.client.ID, MachineID: f.machine.ID, RepairedBy: f.technician.UserID}

	testCases := []struct {
		name   string
		mutate func(in *RepairInput)
		want   error
	}{
		{name: "no client", mutate: func(in *RepairInput) { in.ClientID = 0 }, want: ErrRepairFields},
		{name: "unknown client", mutate: func(in *RepairInput) { in.ClientID = 404 }, want: ErrRepairClient},
		{name: "unknown machine", mutate: func(in *RepairInput) { in.MachineID = 404 }, want: ErrRepairMachine},
		{name: "unknown technician", mutate: func(in *RepairInput) { in.RepairedBy = 404 }, want: ErrRepairTechnician},
		{name: "unknown serial", mutate: func(in *RepairInput) { in.SerialNumberID = ptr(int64(404)) }, want: ErrRepairSerial},
		{name: "unknown part", mutate: func(in *RepairInput) { in.Parts = []PartLine{{PartID: 404, Quantity: 1}} }, want: ErrRepairPart},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := s.CreateRepair(ctx, in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var count int64
	require.NoError(t, s.db.Model(&model.Repair{}).Count(&count).Error)
	assert.Zero(t, count, "a failed part insert rolls the repair back")
}

func TestGormStore_UpdateRepairReplacesParts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)
	parts := seedParts(t, s, "Filter", "Pump", "Valve")

	r, err := s.CreateRepair(ctx, RepairInput{
		ClientID:   f.client.ID,
		MachineID:  f.machine.ID,
		RepairedBy: f.technician.UserID,
		RepairDate: ptr(day(2025, 3, 7)),
		Parts:      []PartLine{{PartID: parts[0].ID, Quantity: 1}, {PartID: parts[1].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	view, err := s.UpdateRepair(ctx, r.ID, RepairPatch{Description: ptr("descaled")})
	require.NoError(t, err)
	assert.Equal(t, "descaled", view.Description)
	assert.Len(t, view.PartsUsed, 2, "parts are kept when not in the patch")
	assert.Equal(t, "07.03.2025 - Friday", view.RepairDay)

	view, err = s.UpdateRepair(ctx, r.ID, RepairPatch{Parts: &[]PartLine{{PartID: parts[2].ID, Quantity: 3}}})
	require.NoError(t, err)
	require.Len(t, view.PartsUsed, 1)
	assert.Equal(t, "Valve", view.PartsUsed[0].Name)
	assert.Equal(t, 3, view.PartsUsed[0].Quantity)

	_, err = s.UpdateRepair(ctx, r.ID, RepairPatch{
		Description: ptr("should not stick"),
		Parts:       &[]PartLine{{PartID: 404, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrRepairPart)

	view, err = s.GetRepair(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "descaled", view.Description, "failed replace rolls back the field update")
	require.Len(t, view.PartsUsed, 1)
	assert.Equal(t, "Valve", view.PartsUsed[0].Name)

	view, err = s.UpdateRepair(ctx, r.ID, RepairPatch{Parts: &[]PartLine{}})
	require.NoError(t, err)
	assert.Empty(t, view.PartsUsed)

	_, err = s.UpdateRepair(ctx, 999, RepairPatch{})
	assert.ErrorIs(t, err, ErrRepairNotFound)
}

func TestGormStore_RepairPartsAndDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)
	parts := seedParts(t, s, "Gasket")

	sn, err := s.AssignSerial(ctx, SerialInput{ClientID: f.client.ID, MachineID: f.machine.ID, Serial: "SN-9"})
	require.NoError(t, err)
	r, err := s.CreateRepair(ctx, RepairInput{
		ClientID: f.client.ID, MachineID: f.machine.ID, RepairedBy: f.technician.UserID, SerialNumberID: &sn.ID,
	})
	require.NoError(t, err)

	_, err = s.AddRepairPart(ctx, 999, parts[0].ID, 1)
	assert.ErrorIs(t, err, ErrRepairMissing)
	_, err = s.AddRepairPart(ctx, r.ID, 999, 1)
	assert.ErrorIs(t, err, ErrRepairPart)

	link, err := s.AddRepairPart(ctx, r.ID, parts[0].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, link.Quantity)

	lines, err := s.ListRepairParts(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Gasket", lines[0].Name)

	history, err := s.RepairsForMachineClient(ctx, f.machine.ID, f.client.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "SN-9", history[0].SerialNumber)
	require.NotNil(t, history[0].RepairID)
	assert.Equal(t, r.ID, *history[0].RepairID)

	require.NoError(t, s.DeleteRepairPart(ctx, link.ID))
	assert.ErrorIs(t, s.DeleteRepairPart(ctx, link.ID), ErrRepairPartNotFound)

	require.NoError(t, s.DeleteRepair(ctx, r.ID))
	assert.ErrorIs(t, s.DeleteRepair(ctx, r.ID), ErrRepairNotFound)
	_, err = s.ListRepairParts(ctx, r.ID)
	assert.ErrorIs(t, err, ErrRepairNotFound)
}

func TestGormStore_DeleteReferencedRowsIsRejected(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)
	parts := seedParts(t, s, "Door seal")

	sn, err := s.AssignSerial(ctx, SerialInput{ClientID: f.client.ID, MachineID: f.machine.ID, Serial: "SN-42"})
	require.NoError(t, err)
	r, err := s.CreateRepair(ctx, RepairInput{
		ClientID:       f.client.ID,
		MachineID:      f.machine.ID,
		RepairedBy:     f.technician.UserID,
		SerialNumberID: &sn.ID,
		Parts:          []PartLine{{PartID: parts[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = s.DeleteClient(ctx, f.client.ID)
	assert.ErrorIs(t, err, ErrClientInUse)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.ErrorIs(t, s.DeleteMachine(ctx, f.machine.ID), ErrMachineInUse)
	assert.ErrorIs(t, s.DeletePart(ctx, parts[0].ID), ErrPartInUse)

	// The failed client delete must not have cascaded into the serial binding.
	serials, err := s.SerialsForClient(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Len(t, serials, 1)

	got, err := s.GetRepair(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, got.PartsUsed, 1)
	page, err := s.ListRepairs(ctx, ListParams{}.Normalized())
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	// Deleting a serial only detaches it from the repair.
	require.NoError(t, s.DeleteSerial(ctx, sn.ID))
	got, err = s.GetRepair(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SerialNumberID)

	require.NoError(t, s.DeleteRepair(ctx, r.ID))
	require.NoError(t, s.DeletePart(ctx, parts[0].ID))
	require.NoError(t, s.DeleteMachine(ctx, f.machine.ID))
	require.NoError(t, s.DeleteClient(ctx, f.client.ID))
}

func TestGormStore_RepairSerialMustMatchClientAndMachine(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)

	other := &model.Client{Name: "Corner Cafe", Email: "cafe@example.com"}
	require.NoError(t, s.CreateClient(ctx, other))
	own, err := s.AssignSerial(ctx, SerialInput{ClientID: f.client.ID, MachineID: f.machine.ID, Serial: "OWN-1"})
	require.NoError(t, err)
	foreign, err := s.AssignSerial(ctx, SerialInput{ClientID: other.ID, MachineID: f.machine.ID, Serial: "CAFE-1"})
	require.NoError(t, err)

	base := RepairInput{ClientID: f.client.ID, MachineID: f.machine.ID, RepairedBy: f.technician.UserID}

	in := base
	in.SerialNumberID = &foreign.ID
	_, err = s.CreateRepair(ctx, in)
	assert.ErrorIs(t, err, ErrRepairSerialBind)

	in.SerialNumberID = &own.ID
	r, err := s.CreateRepair(ctx, in)
	require.NoError(t, err)

	_, err = s.UpdateRepair(ctx, r.ID, RepairPatch{SerialNumberID: &foreign.ID})
	assert.ErrorIs(t, err, ErrRepairSerialBind)
	_, err = s.UpdateRepair(ctx, r.ID, RepairPatch{ClientID: &other.ID})
	assert.ErrorIs(t, err, ErrRepairSerialBind, "moving the repair must not strand its serial")

	view, err := s.UpdateRepair(ctx, r.ID, RepairPatch{ClientID: &other.ID, SerialNumberID: &foreign.ID})
	require.NoError(t, err)
	require.NotNil(t, view.SerialNumberID)
	assert.Equal(t, foreign.ID, *view.SerialNumberID)

	view, err = s.UpdateRepair(ctx, r.ID, RepairPatch{ClearSerial: true, Description: ptr("unit swapped")})
	require.NoError(t, err)
	assert.Nil(t, view.SerialNumberID)
	assert.Equal(t, "unit swapped", view.Description)

	view, err = s.UpdateRepair(ctx, r.ID, RepairPatch{ClientID: &f.client.ID})
	require.NoError(t, err, "without a serial the client can change freely")
	assert.Equal(t, f.client.ID, view.ClientID)
}
