package models

import "time"

// User roles. VIEWER is the registration default; role changes go through
// the admin-only user update.
const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
	RoleViewer = "VIEWER"
)

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Name      string     `gorm:"size:255" json:"name,omitempty"`
	Role      string     `gorm:"size:20;not null;default:'VIEWER'" json:"role"`
	Documents []Document `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
