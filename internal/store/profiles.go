package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/auth"
	"repair-shop-backend/internal/model"
)

var (
	ErrUserNotFound   = apperr.NotFound("User not found")
	ErrProfileFields  = apperr.Validation("Full name and phone are required")
	ErrUnknownRoleRow = errors.New("role missing from catalog")
)

const profileViewColumns = "p.user_id, p.full_name, p.email, p.phone, r.role_name, p.created_at"

func (s *gormStore) profileQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("profiles p").
		Joins("LEFT JOIN user_roles ur ON ur.user_id = p.user_id").
		Joins("LEFT JOIN roles r ON r.id = ur.role_id")
}

func (s *gormStore) EmailRegistered(ctx context.Context, email string) (bool, error) {
	return exists(s.db.WithContext(ctx), &model.Profile{}, "email", email)
}

// CreateProfile inserts a profile and, when role is set, its role assignment.
func (s *gormStore) CreateProfile(ctx context.Context, profile *model.Profile, role auth.Role) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			if isDuplicate(err) {
				return auth.ErrEmailTaken
			}
			return wrapDB("create profile", err)
		}
		if role == "" {
			return nil
		}
		return upsertUserRole(tx, profile.UserID, role)
	})
}

func (s *gormStore) ProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var p model.Profile
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapDB("profile by email", err)
	}
	return &p, nil
}

// RoleNameFor returns the assigned role name of a profile, or nil when the
// profile has no assignment.
func (s *gormStore) RoleNameFor(ctx context.Context, userID int64) (*string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Table("user_roles ur").
		Joins("JOIN roles r ON r.id = ur.role_id").
		Where("ur.user_id = ?", userID).
		Limit(1).
		Pluck("r.role_name", &names).Error
	if err != nil {
		return nil, wrapDB("role lookup", err)
	}
	if len(names) == 0 {
		return nil, nil
	}
	return &names[0], nil
}

func (s *gormStore) GetProfile(ctx context.Context, userID int64) (*ProfileView, error) {
	var rows []ProfileView
	if err := s.profileQuery(ctx).Select(profileViewColumns).Where("p.user_id = ?", userID).Scan(&rows).Error; err != nil {
		return nil, wrapDB("get profile", err)
	}
	if len(rows) == 0 {
		return nil, ErrUserNotFound
	}
	resolveRoles(rows)
	return &rows[0], nil
}

func (s *gormStore) UpdateProfile(ctx context.Context, userID int64, fullName, phone string) (*ProfileView, error) {
	fullName = strings.TrimSpace(fullName)
	phone = strings.TrimSpace(phone)
	if fullName == "" || phone == "" {
		return nil, ErrProfileFields
	}
	res := s.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"full_name": fullName, "phone": phone})
	if res.Error != nil {
		return nil, wrapDB("update profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	s.log.Info("profile updated", zap.Int64("user_id", userID))
	return s.GetProfile(ctx, userID)
}

func (s *gormStore) ListProfiles(ctx context.Context, p ListParams) (*Page[ProfileView], error) {
	p = p.Normalized()
	base := func() *gorm.DB {
		q := s.profileQuery(ctx)
		if p.Search != "" {
			like := likePattern(p.Search)
			q = q.Where("LOWER(p.full_name) LIKE ? OR LOWER(p.email) LIKE ?", like, like)
		}
		return q
	}
	page, err := paginate[ProfileView](base, p, profileViewColumns, orderBy(profileSorts, p.Sort, "p.user_id"))
	if err != nil {
		return nil, wrapDB("list profiles", err)
	}
	resolveRoles(page.Data)
	return page, nil
}

// AssignRole gives a profile exactly one role, replacing any previous one.
func (s *gormStore) AssignRole(ctx context.Context, userID int64, role auth.Role) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &model.Profile{}, "user_id", userID)
		if err != nil {
			return wrapDB("check profile", err)
		}
		if !ok {
			return ErrUserNotFound
		}
		return upsertUserRole(tx, userID, role)
	})
	if err != nil {
		return err
	}
	s.log.Info("role assigned", zap.Int64("user_id", userID), zap.String("role", string(role)))
	return nil
}

func upsertUserRole(tx *gorm.DB, userID int64, role auth.Role) error {
	var r model.Role
	if err := tx.Where("role_name = ?", string(role)).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownRoleRow, role)
		}
		return wrapDB("load role", err)
	}
	link := model.UserRole{UserID: userID, RoleID: r.ID}
	err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role_id"}),
	}).Create(&link).Error
	if err != nil {
		return wrapDB("assign role", err)
	}
	return nil
}

func resolveRoles(rows []ProfileView) {
	for i := range rows {
		rows[i].Role = string(auth.ResolveRole(rows[i].RoleName))
	}
}
