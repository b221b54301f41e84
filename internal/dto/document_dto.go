package dto

import (
	"time"

	"github.com/docuvault/docuvault/internal/models"
)

type CreateDocumentRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

type UpdateDocumentRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type DocumentQuery struct {
	PageQuery
	Status string `query:"status"`
	Search string `query:"search"`
}

type DocumentOwner struct {
	ID    uint   `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type DocumentResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	StoredName  string            `json:"stored_name"`
	FileType    string            `json:"file_type"`
	FileSize    int64             `json:"file_size"`
	Status      string            `json:"status"`
	Owner       DocumentOwner     `json:"owner"`
	Ingestion   *models.Ingestion `json:"ingestion,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func NewDocumentResponse(d *models.Document, ingestion *models.Ingestion) *DocumentResponse {
	return &DocumentResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		StoredName:  d.StoredName,
		FileType:    d.FileType,
		FileSize:    d.FileSize,
		Status:      d.Status,
		Owner: DocumentOwner{
			ID:    d.UserID,
			Name:  d.User.Name,
			Email: d.User.Email,
		},
		Ingestion: ingestion,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
