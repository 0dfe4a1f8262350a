// filepath: internal/models/roles_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleParent.Valid())
	assert.True(t, RoleKid.Valid())

	assert.False(t, Role("").Valid())
	assert.False(t, Role("superadmin").Valid())
	assert.False(t, Role("Admin").Valid())
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleAdmin.CanManageBooks())
	assert.False(t, RoleParent.CanManageBooks())
	assert.False(t, RoleKid.CanManageBooks())

	assert.True(t, RoleAdmin.CanManageKids())
	assert.True(t, RoleParent.CanManageKids())
	assert.False(t, RoleKid.CanManageKids())

	assert.True(t, RoleAdmin.CanManageUsers())
	assert.False(t, RoleParent.CanManageUsers())
	assert.False(t, RoleKid.CanManageUsers())
}
