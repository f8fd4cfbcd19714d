package model

// Permissions 角色派生的权限描述符
type Permissions struct {
	CanEdit    bool   `json:"canEdit"`
	CanDelete  bool   `json:"canDelete"`
	CanViewAll bool   `json:"canViewAll"`
	CanManage  bool   `json:"canManage"`
	Level      string `json:"level"` // full | view | basic | guest
}

// 权限级别常量
const (
	PermissionLevelFull  = "full"
	PermissionLevelView  = "view"
	PermissionLevelBasic = "basic"
	PermissionLevelGuest = "guest"
)

// PermissionsFor 由角色派生权限描述符
//
// 未知或空角色一律落到 guest（显式默认拒绝策略，而非 switch 兜底的副作用）。
// 纯函数，无副作用。
func PermissionsFor(role UserRole) Permissions {
	switch role {
	case UserRoleAdmin:
		return Permissions{CanEdit: true, CanDelete: true, CanViewAll: true, CanManage: true, Level: PermissionLevelFull}
	case UserRoleHospital, UserRoleBloodBank:
		return Permissions{CanViewAll: true, Level: PermissionLevelView}
	case UserRoleDonor:
		return Permissions{Level: PermissionLevelBasic}
	default:
		return Permissions{Level: PermissionLevelGuest}
	}
}
