package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/model"
	"repair-shop-backend/internal/parse"
)

var (
	ErrRepairNotFound   = apperr.NotFound("Repair not found")
	ErrRepairFields     = apperr.Validation("Client and repaired machine are required")
	ErrRepairClient     = apperr.Validation("Client does not exist")
	ErrRepairMachine    = apperr.Validation("Machine does not exist")
	ErrRepairTechnician = apperr.Validation("Technician does not exist")
	ErrRepairSerial     = apperr.Validation("Serial number does not exist")
	ErrRepairPart       = apperr.Validation("Part does not exist")
	ErrRepairSerialBind = apperr.Validation("Serial number does not belong to this client and machine")
)

// repairDayLayout renders dates as e.g. "07.03.2025 - Friday".
const repairDayLayout = "02.01.2006 - Monday"

const repairViewColumns = `r.id, r.repair_name, r.client_id, c.name AS client_name,
	c.email AS client_email, c.phone AS client_phone, c.address AS client_address, c.city AS client_city,
	r.repaired_machine, m.model_name AS machine_name, m.catalog_number,
	r.repaired_by, p.full_name AS repairman_name,
	r.serial_number_id, s.serial AS serial_number,
	r.repair_date, r.description, r.created_at`

func (s *gormStore) repairQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("repairs r").
		Joins("JOIN clients c ON c.id = r.client_id").
		Joins("JOIN machines m ON m.id = r.repaired_machine").
		Joins("LEFT JOIN profiles p ON p.user_id = r.repaired_by").
		Joins("LEFT JOIN serial_numbers s ON s.id = r.serial_number_id")
}

func (s *gormStore) ListRepairs(ctx context.Context, p ListParams) (*Page[RepairView], error) {
	p = p.Normalized()
	base := func() *gorm.DB {
		q := s.repairQuery(ctx)
		if p.Search != "" {
			like := likePattern(p.Search)
			q = q.Where("LOWER(r.repair_name) LIKE ? OR LOWER(c.name) LIKE ? OR LOWER(m.model_name) LIKE ?", like, like, like)
		}
		return q
	}
	page, err := paginate[RepairView](base, p, repairViewColumns, orderBy(repairSorts, p.Sort, "r.id"))
	if err != nil {
		return nil, wrapDB("list repairs", err)
	}
	if err := s.attachParts(ctx, page.Data); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *gormStore) GetRepair(ctx context.Context, id int64) (*RepairView, error) {
	var rows []RepairView
	if err := s.repairQuery(ctx).Select(repairViewColumns).Where("r.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, wrapDB("get repair", err)
	}
	if len(rows) == 0 {
		return nil, ErrRepairNotFound
	}
	if err := s.attachParts(ctx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// CreateRepair inserts a repair, assigns its display name and records the used
// parts, all in one transaction.
func (s *gormStore) CreateRepair(ctx context.Context, in RepairInput) (*model.Repair, error) {
	if in.ClientID <= 0 || in.MachineID <= 0 {
		return nil, ErrRepairFields
	}
	repairDate := time.Now()
	if in.RepairDate != nil {
		repairDate = *in.RepairDate
	}
	repair := &model.Repair{
		ClientID:       in.ClientID,
		MachineID:      in.MachineID,
		RepairedBy:     in.RepairedBy,
		SerialNumberID: in.SerialNumberID,
		RepairDate:     repairDate,
		Description:    in.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRepairRefs(tx, &in.ClientID, &in.MachineID, &in.RepairedBy, in.SerialNumberID); err != nil {
			return err
		}
		if in.SerialNumberID != nil {
			if err := checkSerialBinding(tx, *in.SerialNumberID, in.ClientID, in.MachineID); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Create(repair).Error; err != nil {
			return wrapDB("create repair", err)
		}
		name, err := assignDisplayName(tx, &model.Repair{}, "repair_name", repair.ID, repair.CreatedAt)
		if err != nil {
			return err
		}
		repair.RepairName = &name
		return insertPartLines(tx, repair.ID, in.Parts)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("repair created", zap.Int64("repair_id", repair.ID), zap.String("repair_name", *repair.RepairName))
	return repair, nil
}

// UpdateRepair applies the non-nil fields of patch. A non-nil patch.Parts
// replaces the repair's part links; the delete and the inserts commit or roll
// back together with the field updates. When the client, machine or serial
// changes, the resulting serial must still be bound to the resulting client
// and machine.
func (s *gormStore) UpdateRepair(ctx context.Context, id int64, patch RepairPatch) (*RepairView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Repair
		if err := tx.First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRepairNotFound
			}
			return wrapDB("load repair", err)
		}
		if err := checkRepairRefs(tx, patch.ClientID, patch.MachineID, patch.RepairedBy, patch.SerialNumberID); err != nil {
			return err
		}

		serialID := current.SerialNumberID
		switch {
		case patch.ClearSerial:
			serialID = nil
		case patch.SerialNumberID != nil:
			serialID = patch.SerialNumberID
		}
		bindingChanged := patch.ClientID != nil || patch.MachineID != nil || patch.SerialNumberID != nil
		if serialID != nil && bindingChanged {
			clientID, machineID := current.ClientID, current.MachineID
			if patch.ClientID != nil {
				clientID = *patch.ClientID
			}
			if patch.MachineID != nil {
				machineID = *patch.MachineID
			}
			if err := checkSerialBinding(tx, *serialID, clientID, machineID); err != nil {
				return err
			}
		}

		updates := map[string]any{}
		if patch.ClientID != nil {
			updates["client_id"] = *patch.ClientID
		}
		if patch.MachineID != nil {
			updates["repaired_machine"] = *patch.MachineID
		}
		if patch.RepairedBy != nil {
			updates["repaired_by"] = *patch.RepairedBy
		}
		if patch.ClearSerial || patch.SerialNumberID != nil {
			updates["serial_number_id"] = serialID
		}
		if patch.RepairDate != nil {
			updates["repair_date"] = *patch.RepairDate
		}
		setString(updates, "description", patch.Description)
		if len(updates) > 0 {
			if err := tx.Model(&model.Repair{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return wrapDB("update repair", err)
			}
		}

		if patch.Parts != nil {
			if err := tx.Where("repair_id = ?", id).Delete(&model.RepairPart{}).Error; err != nil {
				return wrapDB("clear repair parts", err)
			}
			if err := insertPartLines(tx, id, *patch.Parts); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("repair updated", zap.Int64("repair_id", id), zap.Bool("parts_replaced", patch.Parts != nil))
	return s.GetRepair(ctx, id)
}

func (s *gormStore) DeleteRepair(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("repair_id = ?", id).Delete(&model.RepairPart{}).Error; err != nil {
			return wrapDB("delete repair parts", err)
		}
		res := tx.Delete(&model.Repair{}, id)
		if res.Error != nil {
			return wrapDB("delete repair", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRepairNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("repair deleted", zap.Int64("repair_id", id))
	return nil
}

// RepairsForMachineClient lists the client's serials of a machine together
// with their repairs. Serials without repairs appear once with empty repair
// fields.
func (s *gormStore) RepairsForMachineClient(ctx context.Context, machineID, clientID int64) ([]MachineRepairView, error) {
	rows := []MachineRepairView{}
	err := s.db.WithContext(ctx).
		Table("serial_numbers s").
		Select("s.id AS serial_id, s.serial AS serial_number, r.id AS repair_id, r.repair_name, r.repair_date").
		Joins("LEFT JOIN repairs r ON r.serial_number_id = s.id").
		Where("s.machine_id = ? AND s.client_id = ?", machineID, clientID).
		Order("r.repair_date IS NULL, r.repair_date DESC, s.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDB("repairs for machine", err)
	}
	return rows, nil
}

// attachParts loads the part links of the given repairs in one query and fills
// in the derived day label.
func (s *gormStore) attachParts(ctx context.Context, repairs []RepairView) error {
	if len(repairs) == 0 {
		return nil
	}
	ids := make([]int64, len(repairs))
	index := make(map[int64]int, len(repairs))
	for i := range repairs {
		ids[i] = repairs[i].ID
		index[repairs[i].ID] = i
		repairs[i].PartsUsed = []PartUsage{}
		repairs[i].RepairDay = repairs[i].RepairDate.Format(repairDayLayout)
	}

	usages, err := s.partUsages(s.db.WithContext(ctx).Where("rp.repair_id IN ?", ids))
	if err != nil {
		return err
	}
	for _, u := range usages {
		i := index[u.RepairID]
		repairs[i].PartsUsed = append(repairs[i].PartsUsed, u)
	}
	return nil
}

func (s *gormStore) partUsages(q *gorm.DB) ([]PartUsage, error) {
	usages := []PartUsage{}
	err := q.Table("repair_parts rp").
		Select("rp.id, rp.repair_id, rp.part_id, pa.name, pa.price, rp.quantity").
		Joins("JOIN parts pa ON pa.id = rp.part_id").
		Order("rp.id ASC").
		Scan(&usages).Error
	if err != nil {
		return nil, wrapDB("load repair parts", err)
	}
	return usages, nil
}

// assignDisplayName writes the "{id}/{YY}" identifier onto a freshly inserted
// row. It must run in the transaction that inserted the row.
func assignDisplayName(tx *gorm.DB, table any, column string, id int64, createdAt time.Time) (string, error) {
	name := parse.FormatDisplayID(id, createdAt)
	if err := tx.Model(table).Where("id = ?", id).Update(column, name).Error; err != nil {
		return "", wrapDB("assign display name", err)
	}
	return name, nil
}

// checkRepairRefs verifies that every non-nil reference points at an existing row.
func checkRepairRefs(tx *gorm.DB, clientID, machineID, technicianID, serialID *int64) error {
	checks := []struct {
		id     *int64
		value  any
		column string
		err    error
	}{
		{clientID, &model.Client{}, "id", ErrRepairClient},
		{machineID, &model.Machine{}, "id", ErrRepairMachine},
		{technicianID, &model.Profile{}, "user_id", ErrRepairTechnician},
		{serialID, &model.SerialNumber{}, "id", ErrRepairSerial},
	}
	for _, c := range checks {
		if c.id == nil {
			continue
		}
		ok, err := exists(tx, c.value, c.column, *c.id)
		if err != nil {
			return wrapDB("check repair reference", err)
		}
		if !ok {
			return c.err
		}
	}
	return nil
}

// checkSerialBinding requires the serial to be bound to clientID and machineID.
func checkSerialBinding(tx *gorm.DB, serialID, clientID, machineID int64) error {
	var n int64
	err := tx.Model(&model.SerialNumber{}).
		Where("id = ? AND client_id = ? AND machine_id = ?", serialID, clientID, machineID).
		Count(&n).Error
	if err != nil {
		return wrapDB("check serial binding", err)
	}
	if n == 0 {
		return ErrRepairSerialBind
	}
	return nil
}

// insertPartLines records part usage for a repair. Quantities below one are
// stored as one.
func insertPartLines(tx *gorm.DB, repairID int64, lines []PartLine) error {
	if len(lines) == 0 {
		return nil
	}
	links := make([]model.RepairPart, 0, len(lines))
	for _, l := range lines {
		ok, err := exists(tx, &model.Part{}, "id", l.PartID)
		if err != nil {
			return wrapDB("check part", err)
		}
		if !ok {
			return ErrRepairPart
		}
		qty := l.Quantity
		if qty < 1 {
			qty = 1
		}
		links = append(links, model.RepairPart{RepairID: repairID, PartID: l.PartID, Quantity: qty})
	}
	if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
		return wrapDB("insert repair parts", err)
	}
	return nil
}
