package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPermissionsFor 角色 → 权限描述符完整表
func TestPermissionsFor(t *testing.T) {
	tests := []struct {
		name string
		role UserRole
		want Permissions
	}{
		{"admin full", UserRoleAdmin, Permissions{CanEdit: true, CanDelete: true, CanViewAll: true, CanManage: true, Level: PermissionLevelFull}},
		{"hospital view", UserRoleHospital, Permissions{CanViewAll: true, Level: PermissionLevelView}},
		{"bloodbank view", UserRoleBloodBank, Permissions{CanViewAll: true, Level: PermissionLevelView}},
		{"donor basic", UserRoleDonor, Permissions{Level: PermissionLevelBasic}},
		{"unknown role denied", UserRole("superuser"), Permissions{Level: PermissionLevelGuest}},
		{"empty role denied", UserRole(""), Permissions{Level: PermissionLevelGuest}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PermissionsFor(tt.role))
		})
	}
}

func TestUserRoleIsValid(t *testing.T) {
	assert.True(t, UserRoleDonor.IsValid())
	assert.True(t, UserRoleBloodBank.IsValid())
	assert.True(t, UserRoleAdmin.IsValid())
	assert.True(t, UserRoleHospital.IsValid())
	assert.False(t, UserRole("guest").IsValid())
}
