package store

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/model"
)

var (
	ErrSerialFields   = apperr.Validation("All fields are required")
	ErrSerialMachine  = apperr.Validation("Machine does not exist")
	ErrSerialClient   = apperr.Validation("Client does not exist")
	ErrSerialTaken    = apperr.Validation("Serial number already exists")
	ErrSerialNotFound = apperr.NotFound("Serial number not found")
)

// serialQuery is the base join used by every serial view.
func (s *gormStore) serialQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("serial_numbers s").
		Joins("JOIN machines m ON m.id = s.machine_id").
		Joins("LEFT JOIN clients c ON c.id = s.client_id")
}

// AssignSerial binds a serial string to a client and a machine. The machine,
// client and uniqueness checks and the insert share one transaction; the
// unique index on serial catches any concurrent assignment that slips past.
func (s *gormStore) AssignSerial(ctx context.Context, in SerialInput) (*model.SerialNumber, error) {
	in.Serial = strings.TrimSpace(in.Serial)
	if in.ClientID <= 0 || in.MachineID <= 0 || in.Serial == "" {
		return nil, ErrSerialFields
	}

	sn := &model.SerialNumber{
		Serial:     in.Serial,
		ClientID:   in.ClientID,
		MachineID:  in.MachineID,
		DateOfSale: in.DateOfSale,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &model.Machine{}, "id", in.MachineID)
		if err != nil {
			return wrapDB("check machine", err)
		}
		if !ok {
			return ErrSerialMachine
		}

		ok, err = exists(tx, &model.Client{}, "id", in.ClientID)
		if err != nil {
			return wrapDB("check client", err)
		}
		if !ok {
			return ErrSerialClient
		}

		taken, err := exists(tx, &model.SerialNumber{}, "serial", in.Serial)
		if err != nil {
			return wrapDB("check serial", err)
		}
		if taken {
			return ErrSerialTaken
		}

		if err := tx.Omit("Client").Create(sn).Error; err != nil {
			if isDuplicate(err) {
				return ErrSerialTaken
			}
			return wrapDB("create serial", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("serial assigned",
		zap.String("serial", sn.Serial),
		zap.Int64("client_id", sn.ClientID),
		zap.Int64("machine_id", sn.MachineID))
	return sn, nil
}

func (s *gormStore) ListSerials(ctx context.Context, f SerialFilter) (*Page[SerialView], error) {
	p := f.ListParams.Normalized()
	base := func() *gorm.DB {
		q := s.serialQuery(ctx)
		if f.MachineID != nil {
			q = q.Where("s.machine_id = ?", *f.MachineID)
		}
		if f.ClientID != nil {
			q = q.Where("s.client_id = ?", *f.ClientID)
		}
		if p.Search != "" {
			q = q.Where("LOWER(s.serial) LIKE ?", likePattern(p.Search))
		}
		return q
	}
	page, err := paginate[SerialView](base, p, serialViewColumns, orderBy(serialSorts, p.Sort, "s.id"))
	if err != nil {
		return nil, wrapDB("list serials", err)
	}
	return page, nil
}

func (s *gormStore) SerialsForClient(ctx context.Context, clientID int64) ([]SerialView, error) {
	return s.scanSerials(s.serialQuery(ctx).Where("s.client_id = ?", clientID))
}

func (s *gormStore) SerialsForClientMachine(ctx context.Context, clientID, machineID int64) ([]SerialView, error) {
	return s.scanSerials(s.serialQuery(ctx).Where("s.client_id = ? AND s.machine_id = ?", clientID, machineID))
}

func (s *gormStore) scanSerials(q *gorm.DB) ([]SerialView, error) {
	serials := []SerialView{}
	if err := q.Select(serialViewColumns).Order("s.serial ASC, s.id ASC").Scan(&serials).Error; err != nil {
		return nil, wrapDB("list serials", err)
	}
	return serials, nil
}

func (s *gormStore) DeleteSerial(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.SerialNumber{}, id)
	if res.Error != nil {
		return wrapDB("delete serial", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSerialNotFound
	}
	s.log.Info("serial deleted", zap.Int64("serial_id", id))
	return nil
}
