package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"repair-shop-backend/internal/model"
)

// Totals counts the main entities for the dashboard.
func (s *gormStore) Totals(ctx context.Context) (*Totals, error) {
	var t Totals
	g, gctx := errgroup.WithContext(ctx)
	counts := []struct {
		value any
		dest  *int64
	}{
		{&model.Client{}, &t.Clients},
		{&model.Machine{}, &t.Machines},
		{&model.Repair{}, &t.Repairs},
		{&model.Part{}, &t.Parts},
	}
	for _, c := range counts {
		c := c
		g.Go(func() error {
			return s.db.WithContext(gctx).Model(c.value).Count(c.dest).Error
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrapDB("count totals", err)
	}
	return &t, nil
}

// TopUsedParts ranks parts by the number of repairs that used them.
func (s *gormStore) TopUsedParts(ctx context.Context) ([]NamedCount, error) {
	return s.ranking(ctx, "repair_parts rp", "pa.name", "COUNT(rp.part_id)",
		"JOIN parts pa ON pa.id = rp.part_id")
}

// TopAssignedMachines ranks machine models by the number of bound serials.
func (s *gormStore) TopAssignedMachines(ctx context.Context) ([]NamedCount, error) {
	return s.ranking(ctx, "serial_numbers s", "m.model_name", "COUNT(s.id)",
		"JOIN machines m ON m.id = s.machine_id")
}

// TopRepairedMachines ranks machine models by the number of repairs.
func (s *gormStore) TopRepairedMachines(ctx context.Context) ([]NamedCount, error) {
	return s.ranking(ctx, "repairs r", "m.model_name", "COUNT(r.id)",
		"JOIN machines m ON m.id = r.repaired_machine")
}

// TopTechnicians ranks profiles by the number of repairs they handled.
func (s *gormStore) TopTechnicians(ctx context.Context) ([]NamedCount, error) {
	return s.ranking(ctx, "repairs r", "p.full_name", "COUNT(r.id)",
		"JOIN profiles p ON p.user_id = r.repaired_by")
}

func (s *gormStore) ranking(ctx context.Context, table, nameExpr, countExpr, join string) ([]NamedCount, error) {
	rows := []NamedCount{}
	err := s.db.WithContext(ctx).
		Table(table).
		Select(nameExpr + " AS name, " + countExpr + " AS count").
		Joins(join).
		Group(nameExpr).
		Order("count DESC, name ASC").
		Limit(TopLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDB("ranking", err)
	}
	return rows, nil
}

// RecentRepairs lists the latest repairs with their machine model.
func (s *gormStore) RecentRepairs(ctx context.Context) ([]RecentRepair, error) {
	rows := []RecentRepair{}
	err := s.db.WithContext(ctx).
		Table("repairs r").
		Select("r.id AS repair_id, r.repair_name, m.model_name AS machine_name, r.repair_date").
		Joins("JOIN machines m ON m.id = r.repaired_machine").
		Order("r.repair_date DESC, r.id DESC").
		Limit(TopLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDB("recent repairs", err)
	}
	for i := range rows {
		rows[i].RepairDay = rows[i].RepairDate.Format(repairDayLayout)
	}
	return rows, nil
}
