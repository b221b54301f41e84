package models

import "time"

// Document / ingestion statuses. A document mirrors the outcome of its most
// recent ingestion record: COMPLETED ingestion means COMPLETED document, any
// other terminal outcome means FAILED.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// ValidStatus reports whether status is one of the known lifecycle statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

type Document struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"not null;size:255" json:"title"`
	Description string      `gorm:"type:text" json:"description,omitempty"`
	StoredName  string      `gorm:"not null;size:512" json:"stored_name"`
	FileType    string      `gorm:"size:255" json:"file_type"`
	FileSize    int64       `json:"file_size"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	Status      string      `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	Ingestions  []Ingestion `gorm:"foreignKey:DocumentID" json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
