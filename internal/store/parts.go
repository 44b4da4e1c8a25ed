package store

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/model"
)

var (
	ErrPartNotFound = apperr.NotFound("Part not found")
	ErrPartName     = apperr.Validation("Part name is required")
	ErrPartPrice    = apperr.Validation("Price must not be negative")
	ErrPartNameUsed = apperr.Conflict("Part with this name already exists")
	ErrPartInUse    = apperr.Conflict("Part is used in repairs")
)

func (s *gormStore) ListParts(ctx context.Context, p ListParams) (*Page[model.Part], error) {
	p = p.Normalized()
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&model.Part{})
		if p.Search != "" {
			like := likePattern(p.Search)
			q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
		return q
	}
	page, err := paginate[model.Part](base, p, "", orderBy(partSorts, p.Sort, "id"))
	if err != nil {
		return nil, wrapDB("list parts", err)
	}
	return page, nil
}

func (s *gormStore) GetPart(ctx context.Context, id int64) (*model.Part, error) {
	var part model.Part
	if err := s.db.WithContext(ctx).First(&part, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, wrapDB("get part", err)
	}
	return &part, nil
}

func (s *gormStore) CreatePart(ctx context.Context, part *model.Part) error {
	part.Name = strings.TrimSpace(part.Name)
	if part.Name == "" {
		return ErrPartName
	}
	if part.Price < 0 {
		return ErrPartPrice
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &model.Part{}, "name", part.Name)
		if err != nil {
			return wrapDB("check part name", err)
		}
		if taken {
			return ErrPartNameUsed
		}
		if err := tx.Create(part).Error; err != nil {
			if isDuplicate(err) {
				return ErrPartNameUsed
			}
			return wrapDB("create part", err)
		}
		s.log.Info("part created", zap.Int64("part_id", part.ID))
		return nil
	})
}

func (s *gormStore) UpdatePart(ctx context.Context, id int64, patch PartPatch) (*model.Part, error) {
	var part model.Part
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&part, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPartNotFound
			}
			return wrapDB("load part", err)
		}

		updates := map[string]any{}
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return ErrPartName
			}
			var n int64
			if err := tx.Model(&model.Part{}).Where("name = ? AND id <> ?", name, id).Count(&n).Error; err != nil {
				return wrapDB("check part name", err)
			}
			if n > 0 {
				return ErrPartNameUsed
			}
			updates["name"] = name
		}
		setString(updates, "description", patch.Description)
		if patch.Price != nil {
			if *patch.Price < 0 {
				return ErrPartPrice
			}
			updates["price"] = *patch.Price
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&part).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return ErrPartNameUsed
			}
			return wrapDB("update part", err)
		}
		return tx.First(&part, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (s *gormStore) DeletePart(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Part{}, id)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return ErrPartInUse
		}
		return wrapDB("delete part", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPartNotFound
	}
	s.log.Info("part deleted", zap.Int64("part_id", id))
	return nil
}

// RepairsForPart lists the repairs that used a part, newest first.
func (s *gormStore) RepairsForPart(ctx context.Context, partID int64) ([]PartRepairView, error) {
	if _, err := s.GetPart(ctx, partID); err != nil {
		return nil, err
	}
	rows := []PartRepairView{}
	err := s.db.WithContext(ctx).
		Table("repair_parts rp").
		Select("r.id AS repair_id, r.repair_name, r.repair_date, c.name AS client_name, rp.quantity").
		Joins("JOIN repairs r ON r.id = rp.repair_id").
		Joins("LEFT JOIN clients c ON c.id = r.client_id").
		Where("rp.part_id = ?", partID).
		Order("r.repair_date DESC, r.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDB("repairs for part", err)
	}
	return rows, nil
}
