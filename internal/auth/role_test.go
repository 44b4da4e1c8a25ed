package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRole(t *testing.T) {
	name := func(s string) *string { return &s }

	assert.Equal(t, RoleUser, ResolveRole(nil))
	assert.Equal(t, RoleAdmin, ResolveRole(name("admin")))
	assert.Equal(t, RoleReceptionist, ResolveRole(name(" Receptionist ")))
	assert.Equal(t, DefaultRole, ResolveRole(name("wizard")))
	assert.Equal(t, DefaultRole, ResolveRole(name("")))
}

func TestRoleIn(t *testing.T) {
	assert.True(t, RoleTechnician.In(RoleAdmin, RoleTechnician))
	assert.False(t, RoleUser.In(RoleAdmin, RoleTechnician))
	assert.False(t, RoleAdmin.In())
}
