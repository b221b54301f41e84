package authz

import (
	"testing"

	"github.com/docuvault/docuvault/internal/models"
)

func TestCanCreateDocument(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{models.RoleAdmin, true},
		{models.RoleEditor, true},
		{models.RoleViewer, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := CanCreateDocument(Actor{ID: 1, Role: tt.role}); got != tt.want {
			t.Errorf("CanCreateDocument(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestCanAccessDocument(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		ownerID uint
		want    bool
	}{
		{"admin reads anyone", Actor{ID: 1, Role: models.RoleAdmin}, 7, true},
		{"editor reads anyone", Actor{ID: 2, Role: models.RoleEditor}, 7, true},
		{"viewer reads own", Actor{ID: 7, Role: models.RoleViewer}, 7, true},
		{"viewer blocked from others", Actor{ID: 7, Role: models.RoleViewer}, 2, false},
		{"unknown role blocked from others", Actor{ID: 7, Role: "GUEST"}, 2, false},
		{"unknown role still reads own", Actor{ID: 7, Role: "GUEST"}, 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccessDocument(tt.actor, tt.ownerID); got != tt.want {
				t.Errorf("CanAccessDocument(%+v, %d) = %v, want %v", tt.actor, tt.ownerID, got, tt.want)
			}
		})
	}
}

func TestCanManageUsers(t *testing.T) {
	if !CanManageUsers(Actor{ID: 1, Role: models.RoleAdmin}) {
		t.Error("admin must manage users")
	}
	if CanManageUsers(Actor{ID: 2, Role: models.RoleEditor}) {
		t.Error("editor must not manage users")
	}
	if CanManageUsers(Actor{ID: 3, Role: models.RoleViewer}) {
		t.Error("viewer must not manage users")
	}
}
