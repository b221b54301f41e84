package models

import "time"

// Ingestion is one attempt at processing a document. A document can
// accumulate several records; the one with the latest CreatedAt is the
// current one for status checks and webhook updates.
type Ingestion struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	DocumentID  uint       `gorm:"not null;index" json:"document_id"`
	Document    *Document  `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	Status      string     `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
