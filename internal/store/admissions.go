package store

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/model"
	"repair-shop-backend/internal/parse"
)

var (
	ErrAdmissionNotFound = apperr.NotFound("Admission not found")
	ErrAdmissionFields   = apperr.Validation("Client and machine are required")
	ErrAdmissionClient   = apperr.Validation("Client does not exist")
	ErrAdmissionMachine  = apperr.Validation("Machine does not exist")
)

const admissionViewColumns = `a.id, a.admission_name, a.client_id, c.name AS client_name,
	a.machine_id, m.model_name AS machine_name, a.serial_number, a.catalog_number,
	a.device_status, a.problem_description, a.additional_equipment, a.notes,
	a.received_by, p.full_name AS received_by_name, a.admission_date`

func (s *gormStore) admissionQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("admissions a").
		Joins("JOIN clients c ON c.id = a.client_id").
		Joins("JOIN machines m ON m.id = a.machine_id").
		Joins("LEFT JOIN profiles p ON p.user_id = a.received_by")
}

// ListAdmissions pages through admissions. A search term shaped like a display
// id ("12/25") matches that admission exactly; anything else is a substring
// match on the display name, client name and machine model.
func (s *gormStore) ListAdmissions(ctx context.Context, p ListParams) (*Page[AdmissionView], error) {
	p = p.Normalized()
	search := strings.TrimSpace(p.Search)
	base := func() *gorm.DB {
		q := s.admissionQuery(ctx)
		if search == "" {
			return q
		}
		if id, err := parse.ParseDisplayID(search); err == nil {
			return q.Where("a.admission_name = ?", id.String())
		}
		like := likePattern(search)
		return q.Where("LOWER(a.admission_name) LIKE ? OR LOWER(c.name) LIKE ? OR LOWER(m.model_name) LIKE ?", like, like, like)
	}
	page, err := paginate[AdmissionView](base, p, admissionViewColumns, orderBy(admissionSorts, p.Sort, "a.id"))
	if err != nil {
		return nil, wrapDB("list admissions", err)
	}
	return page, nil
}

func (s *gormStore) GetAdmission(ctx context.Context, id int64) (*AdmissionView, error) {
	var rows []AdmissionView
	if err := s.admissionQuery(ctx).Select(admissionViewColumns).Where("a.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, wrapDB("get admission", err)
	}
	if len(rows) == 0 {
		return nil, ErrAdmissionNotFound
	}
	return &rows[0], nil
}

// CreateAdmission inserts an admission and patches its display name in the
// same transaction, so a failed second write leaves no unnamed row behind.
func (s *gormStore) CreateAdmission(ctx context.Context, a *model.Admission) error {
	if a.ClientID <= 0 || a.MachineID <= 0 {
		return ErrAdmissionFields
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &model.Client{}, "id", a.ClientID)
		if err != nil {
			return wrapDB("check client", err)
		}
		if !ok {
			return ErrAdmissionClient
		}
		ok, err = exists(tx, &model.Machine{}, "id", a.MachineID)
		if err != nil {
			return wrapDB("check machine", err)
		}
		if !ok {
			return ErrAdmissionMachine
		}

		if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
			return wrapDB("create admission", err)
		}
		name, err := assignDisplayName(tx, &model.Admission{}, "admission_name", a.ID, a.CreatedAt)
		if err != nil {
			return err
		}
		a.AdmissionName = &name
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("admission created", zap.Int64("admission_id", a.ID), zap.String("admission_name", *a.AdmissionName))
	return nil
}
