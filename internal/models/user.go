package models

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

// Role labels used for route authorization.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID        string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string                      `json:"name" gorm:"type:text;not null"`
	Email     string                      `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string                      `json:"-" gorm:"type:text;not null"` // bcrypt hash
	IsActive  bool                        `json:"isActive" gorm:"not null;default:true"`
	Roles     datatypes.JSONSlice[string] `json:"roles"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

// TableName pins the table name to "user".
func (User) TableName() string {
	return "user"
}

// HasAnyRole reports whether the user holds at least one of roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, r := range u.Roles {
		if slices.Contains(roles, r) {
			return true
		}
	}
	return false
}
