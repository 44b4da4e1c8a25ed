package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/auth"
	"repair-shop-backend/internal/model"
)

func TestGormStore_Accounts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var _ auth.Accounts = s

	boss := &model.Profile{FullName: "Boss", Email: "boss@shop.com", Phone: "1", Password: "hash"}
	require.NoError(t, s.CreateProfile(ctx, boss, auth.RoleAdmin))
	plain := &model.Profile{FullName: "Plain", Email: "plain@shop.com", Phone: "2", Password: "hash"}
	require.NoError(t, s.CreateProfile(ctx, plain, ""))

	taken, err := s.EmailRegistered(ctx, "boss@shop.com")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = s.EmailRegistered(ctx, "nobody@shop.com")
	require.NoError(t, err)
	assert.False(t, taken)

	name, err := s.RoleNameFor(ctx, boss.UserID)
	require.NoError(t, err)
	require.NotNil(t, name)
	assert.Equal(t, "admin", *name)

	name, err = s.RoleNameFor(ctx, plain.UserID)
	require.NoError(t, err)
	assert.Nil(t, name)

	found, err := s.ProfileByEmail(ctx, "plain@shop.com")
	require.NoError(t, err)
	assert.Equal(t, plain.UserID, found.UserID)
	assert.Equal(t, "hash", found.Password)

	_, err = s.ProfileByEmail(ctx, "ghost@shop.com")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGormStore_ProfilesAndRoles(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := &model.Profile{FullName: "Rita", Email: "rita@shop.com", Phone: "3", Password: "hash"}
	require.NoError(t, s.CreateProfile(ctx, p, ""))

	view, err := s.GetProfile(ctx, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, "user", view.Role, "no assignment resolves to the default role")

	require.NoError(t, s.AssignRole(ctx, p.UserID, auth.RoleReceptionist))
	require.NoError(t, s.AssignRole(ctx, p.UserID, auth.RoleTechnician))
	view, err = s.GetProfile(ctx, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, "technician", view.Role, "a new assignment replaces the old one")

	var links int64
	require.NoError(t, s.db.Model(&model.UserRole{}).Where("user_id = ?", p.UserID).Count(&links).Error)
	assert.Equal(t, int64(1), links)

	assert.ErrorIs(t, s.AssignRole(ctx, 999, auth.RoleAdmin), ErrUserNotFound)

	_, err = s.UpdateProfile(ctx, p.UserID, "", "4")
	assert.ErrorIs(t, err, ErrProfileFields)
	view, err = s.UpdateProfile(ctx, p.UserID, "Rita K.", "44")
	require.NoError(t, err)
	assert.Equal(t, "Rita K.", view.FullName)
	assert.Equal(t, "44", view.Phone)
	assert.Equal(t, "technician", view.Role)

	page, err := s.ListProfiles(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "technician", page.Data[0].Role)
}
