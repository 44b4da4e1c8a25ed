package store

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/model"
)

var (
	ErrRepairMissing      = apperr.Validation("Repair does not exist")
	ErrRepairPartNotFound = apperr.NotFound("Repair part not found")
)

// ListRepairParts returns the part links of one repair.
func (s *gormStore) ListRepairParts(ctx context.Context, repairID int64) ([]PartUsage, error) {
	ok, err := exists(s.db.WithContext(ctx), &model.Repair{}, "id", repairID)
	if err != nil {
		return nil, wrapDB("check repair", err)
	}
	if !ok {
		return nil, ErrRepairNotFound
	}
	return s.partUsages(s.db.WithContext(ctx).Where("rp.repair_id = ?", repairID))
}

func (s *gormStore) AddRepairPart(ctx context.Context, repairID, partID int64, quantity int) (*model.RepairPart, error) {
	if quantity < 1 {
		quantity = 1
	}
	link := &model.RepairPart{RepairID: repairID, PartID: partID, Quantity: quantity}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &model.Repair{}, "id", repairID)
		if err != nil {
			return wrapDB("check repair", err)
		}
		if !ok {
			return ErrRepairMissing
		}
		ok, err = exists(tx, &model.Part{}, "id", partID)
		if err != nil {
			return wrapDB("check part", err)
		}
		if !ok {
			return ErrRepairPart
		}
		if err := tx.Omit(clause.Associations).Create(link).Error; err != nil {
			return wrapDB("create repair part", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("repair part added", zap.Int64("repair_id", repairID), zap.Int64("part_id", partID), zap.Int("quantity", quantity))
	return link, nil
}

func (s *gormStore) DeleteRepairPart(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.RepairPart{}, id)
	if res.Error != nil {
		return wrapDB("delete repair part", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRepairPartNotFound
	}
	return nil
}
