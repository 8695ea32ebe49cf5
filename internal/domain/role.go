package domain

import "time"

// RoleName is a closed set. Free-text roles invite typos and silent
// authorization gaps, so creation is validated against this enum.
type RoleName string

const (
	RoleUser       RoleName = "ROLE_USER"
	RoleAdmin      RoleName = "ROLE_ADMIN"
	RoleSuperAdmin RoleName = "ROLE_SUPER_ADMIN"
)

func (n RoleName) Valid() bool {
	switch n {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func (n RoleName) String() string { return string(n) }

// AllRoleNames returns the full enum, used by seeding.
func AllRoleNames() []RoleName {
	return []RoleName{RoleUser, RoleAdmin, RoleSuperAdmin}
}

type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      RoleName  `gorm:"uniqueIndex;size:64;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
