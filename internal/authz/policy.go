// Package authz holds the role/ownership decision functions. Every lifecycle
// operation calls into this package instead of carrying its own role checks,
// and checks always run before any mutation.
package authz

import (
	"github.com/docuvault/docuvault/internal/models"
	"gorm.io/gorm"
)

// Actor is the authenticated principal a request acts as.
type Actor struct {
	ID   uint
	Role string
}

// CanCreateDocument allows uploads for admins and editors.
func CanCreateDocument(actor Actor) bool {
	return actor.Role == models.RoleAdmin || actor.Role == models.RoleEditor
}

// CanViewAllDocuments grants fleet-wide document visibility. Viewers only
// ever see their own documents.
func CanViewAllDocuments(actor Actor) bool {
	return actor.Role == models.RoleAdmin || actor.Role == models.RoleEditor
}

// CanAccessDocument decides read/update/delete on a single document.
func CanAccessDocument(actor Actor, ownerID uint) bool {
	if CanViewAllDocuments(actor) {
		return true
	}
	return actor.ID == ownerID
}

// CanManageUsers restricts the users module to admins.
func CanManageUsers(actor Actor) bool {
	return actor.Role == models.RoleAdmin
}

// DocumentScope returns a GORM scope that applies ownership scoping for
// actors without fleet visibility. Out-of-scope rows simply don't match, so
// callers report NotFound rather than Forbidden and never leak existence.
func DocumentScope(actor Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if CanViewAllDocuments(actor) {
			return db
		}
		return db.Where("user_id = ?", actor.ID)
	}
}
