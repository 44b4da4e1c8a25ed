package store

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/model"
	"repair-shop-backend/internal/parse"
)

var (
	ErrClientNotFound  = apperr.NotFound("Client not found")
	ErrClientEmailUsed = apperr.Conflict("Client with this email already exists")
	ErrClientInUse     = apperr.Conflict("Client is referenced by repairs or admissions")
	ErrClientEmail     = apperr.Validation("Invalid email format")
)

func (s *gormStore) ListClients(ctx context.Context, p ListParams) (*Page[model.Client], error) {
	p = p.Normalized()
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&model.Client{})
		if p.Search != "" {
			like := likePattern(p.Search)
			q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
		}
		return q
	}
	page, err := paginate[model.Client](base, p, "", orderBy(clientSorts, p.Sort, "id"))
	if err != nil {
		return nil, wrapDB("list clients", err)
	}
	return page, nil
}

func (s *gormStore) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	var c model.Client
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, wrapDB("get client", err)
	}
	return &c, nil
}

// CreateClient inserts a client after checking that the email is free.
func (s *gormStore) CreateClient(ctx context.Context, c *model.Client) error {
	email, err := parse.Email(c.Email)
	if err != nil {
		return ErrClientEmail
	}
	c.Email = email
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &model.Client{}, "email", c.Email)
		if err != nil {
			return wrapDB("check client email", err)
		}
		if taken {
			return ErrClientEmailUsed
		}
		if err := tx.Create(c).Error; err != nil {
			if isDuplicate(err) {
				return ErrClientEmailUsed
			}
			return wrapDB("create client", err)
		}
		s.log.Info("client created", zap.Int64("client_id", c.ID))
		return nil
	})
}

// UpdateClient applies the non-nil fields of patch.
func (s *gormStore) UpdateClient(ctx context.Context, id int64, patch ClientPatch) (*model.Client, error) {
	var c model.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return wrapDB("load client", err)
		}

		updates := map[string]any{}
		setString(updates, "name", patch.Name)
		setString(updates, "phone", patch.Phone)
		setString(updates, "address", patch.Address)
		setString(updates, "city", patch.City)
		setString(updates, "country", patch.Country)
		setString(updates, "notes", patch.Notes)
		if patch.Email != nil {
			email, err := parse.Email(*patch.Email)
			if err != nil {
				return ErrClientEmail
			}
			if email != c.Email {
				var n int64
				if err := tx.Model(&model.Client{}).Where("email = ? AND id <> ?", email, id).Count(&n).Error; err != nil {
					return wrapDB("check client email", err)
				}
				if n > 0 {
					return ErrClientEmailUsed
				}
			}
			updates["email"] = email
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&c).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return ErrClientEmailUsed
			}
			return wrapDB("update client", err)
		}
		return tx.First(&c, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) DeleteClient(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Client{}, id)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return ErrClientInUse
		}
		return wrapDB("delete client", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrClientNotFound
	}
	s.log.Info("client deleted", zap.Int64("client_id", id))
	return nil
}

func setString(updates map[string]any, column string, v *string) {
	if v != nil {
		updates[column] = *v
	}
}
