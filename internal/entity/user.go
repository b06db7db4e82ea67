package entity

import "github.com/questbelief/backend/pkg/enum"

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleAdmin      = enum.New(GlobalRole("admin"))
	RoleUser       = enum.New(GlobalRole("user"))
)

var GlobalAdminRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}

// XPPerLevel is the amount of xp between two levels. The stored level
// is always derived as xp/XPPerLevel+1 inside the same update that
// changes xp.
const XPPerLevel = 100

type User struct {
	Base

	Name      string `gorm:"unique"`
	AvatarURL string
	Role      GlobalRole `gorm:"default:user"`

	XP    uint64 `gorm:"default:0"`
	Level int    `gorm:"default:1"`
}
