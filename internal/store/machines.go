package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/model"
)

var (
	ErrMachineNotFound = apperr.NotFound("Machine not found")
	ErrMachineFields   = apperr.Validation("Model Name and Catalog Number are required.")
	ErrMachineInUse    = apperr.Conflict("Machine is referenced by repairs or admissions")
)

const serialViewColumns = `s.id, s.serial, s.client_id, c.name AS client_name, s.machine_id,
	m.model_name AS machine_name, m.catalog_number, s.date_of_sale`

func (s *gormStore) ListMachines(ctx context.Context, p ListParams) (*Page[MachineView], error) {
	p = p.Normalized()
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&model.Machine{})
		if p.Search != "" {
			like := likePattern(p.Search)
			q = q.Where("LOWER(model_name) LIKE ? OR LOWER(catalog_number) LIKE ?", like, like)
		}
		return q
	}
	machines, err := paginate[model.Machine](base, p, "", orderBy(machineSorts, p.Sort, "id"))
	if err != nil {
		return nil, wrapDB("list machines", err)
	}

	views, err := s.attachSerials(ctx, machines.Data, nil)
	if err != nil {
		return nil, err
	}
	return newPage(p, machines.Total, views), nil
}

func (s *gormStore) GetMachine(ctx context.Context, id int64) (*MachineView, error) {
	var m model.Machine
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, wrapDB("get machine", err)
	}
	views, err := s.attachSerials(ctx, []model.Machine{m}, nil)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *gormStore) CreateMachine(ctx context.Context, m *model.Machine) error {
	m.ModelName = strings.TrimSpace(m.ModelName)
	m.CatalogNumber = strings.TrimSpace(m.CatalogNumber)
	if m.ModelName == "" || m.CatalogNumber == "" {
		return ErrMachineFields
	}
	if m.DateOfAdding == nil {
		now := time.Now()
		m.DateOfAdding = &now
	}
	if err := s.db.WithContext(ctx).Omit("Serials").Create(m).Error; err != nil {
		return wrapDB("create machine", err)
	}
	s.log.Info("machine created", zap.Int64("machine_id", m.ID))
	return nil
}

func (s *gormStore) UpdateMachine(ctx context.Context, id int64, patch MachinePatch) (*model.Machine, error) {
	var m model.Machine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMachineNotFound
			}
			return wrapDB("load machine", err)
		}

		updates := map[string]any{}
		if patch.ModelName != nil {
			if strings.TrimSpace(*patch.ModelName) == "" {
				return ErrMachineFields
			}
			updates["model_name"] = strings.TrimSpace(*patch.ModelName)
		}
		if patch.CatalogNumber != nil {
			if strings.TrimSpace(*patch.CatalogNumber) == "" {
				return ErrMachineFields
			}
			updates["catalog_number"] = strings.TrimSpace(*patch.CatalogNumber)
		}
		if patch.DateOfAdding != nil {
			updates["date_of_adding"] = *patch.DateOfAdding
		}
		setString(updates, "notes", patch.Notes)
		setString(updates, "url", patch.URL)
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&m).Updates(updates).Error; err != nil {
			return wrapDB("update machine", err)
		}
		return tx.First(&m, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) DeleteMachine(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Machine{}, id)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return ErrMachineInUse
		}
		return wrapDB("delete machine", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMachineNotFound
	}
	s.log.Info("machine deleted", zap.Int64("machine_id", id))
	return nil
}

// MachinesForClient lists the machines a client owns a serial of, each with
// only that client's serials.
func (s *gormStore) MachinesForClient(ctx context.Context, clientID int64) ([]MachineView, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&model.SerialNumber{}).Select("machine_id").Where("client_id = ?", clientID)).
		Order("model_name ASC, id ASC").
		Find(&machines).Error; err != nil {
		return nil, wrapDB("machines for client", err)
	}
	return s.attachSerials(ctx, machines, &clientID)
}

// attachSerials loads the serial bindings of the given machines in one query,
// optionally restricted to one client.
func (s *gormStore) attachSerials(ctx context.Context, machines []model.Machine, clientID *int64) ([]MachineView, error) {
	views := make([]MachineView, len(machines))
	if len(machines) == 0 {
		return views, nil
	}

	ids := make([]int64, len(machines))
	index := make(map[int64]int, len(machines))
	for i, m := range machines {
		ids[i] = m.ID
		index[m.ID] = i
		views[i] = MachineView{Machine: m, Serials: []SerialView{}}
	}

	q := s.serialQuery(ctx).Where("s.machine_id IN ?", ids)
	if clientID != nil {
		q = q.Where("s.client_id = ?", *clientID)
	}
	var serials []SerialView
	if err := q.Select(serialViewColumns).Order("s.serial ASC, s.id ASC").Scan(&serials).Error; err != nil {
		return nil, wrapDB("load machine serials", err)
	}
	for _, sv := range serials {
		i := index[sv.MachineID]
		views[i].Serials = append(views[i].Serials, sv)
	}
	return views, nil
}
