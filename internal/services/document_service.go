package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/docuvault/docuvault/internal/apperr"
	"github.com/docuvault/docuvault/internal/authz"
	"github.com/docuvault/docuvault/internal/dto"
	"github.com/docuvault/docuvault/internal/models"
	"github.com/docuvault/docuvault/internal/storage"
	"gorm.io/gorm"
)

// FileUpload is an uploaded file's content and client-supplied metadata.
// The client name is only used to derive the stored name, never as the
// storage key itself.
type FileUpload struct {
	OriginalName string
	ContentType  string
	Content      io.Reader
}

// Download points a handler at the physical file for streaming.
type Download struct {
	AbsolutePath string
	FileName     string
	FileType     string
}

type DocumentService struct {
	db        *gorm.DB
	store     *storage.LocalStore
	ingestion *IngestionService
}

func NewDocumentService(db *gorm.DB, store *storage.LocalStore, ingestion *IngestionService) *DocumentService {
	return &DocumentService{db: db, store: store, ingestion: ingestion}
}

// Create stores the file, persists the document (status PENDING), and
// immediately triggers ingestion. If persistence or triggering fails after
// the file write, the file and any created row are cleaned up so no partial
// state survives.
func (s *DocumentService) Create(actor authz.Actor, req *dto.CreateDocumentRequest, upload *FileUpload) (*dto.DocumentResponse, error) {
	if !authz.CanCreateDocument(actor) {
		return nil, apperr.Forbidden("Insufficient role to upload documents")
	}
	if upload == nil {
		return nil, apperr.Validation("File is required")
	}
	if len(req.Title) < 3 {
		return nil, apperr.Validation("Title must be at least 3 characters")
	}

	storedName := storage.NewStoredName(upload.OriginalName)
	size, err := s.store.Save(storedName, upload.Content)
	if err != nil {
		slog.Error("file write failed", "user_id", actor.ID, "error", err)
		return nil, apperr.Internal("Failed to create document", err)
	}

	document := models.Document{
		Title:       req.Title,
		Description: req.Description,
		StoredName:  storedName,
		FileType:    upload.ContentType,
		FileSize:    size,
		UserID:      actor.ID,
		Status:      models.StatusPending,
	}

	if err := s.db.Create(&document).Error; err != nil {
		s.discardFile(storedName)
		slog.Error("document create failed", "user_id", actor.ID, "error", err)
		return nil, apperr.Internal("Failed to create document", err)
	}

	ingestion, err := s.ingestion.Trigger(document.ID)
	if err != nil {
		if delErr := s.db.Delete(&document).Error; delErr != nil {
			slog.Error("document cleanup failed after trigger error", "document_id", document.ID, "error", delErr)
		}
		s.discardFile(storedName)
		return nil, apperr.Internal("Failed to create document", err)
	}

	// Re-read so the response reflects the post-trigger status and owner.
	if err := s.db.Preload("User").First(&document, "id = ?", document.ID).Error; err != nil {
		return nil, apperr.Internal("Failed to create document", err)
	}

	slog.Info("document created", "document_id", document.ID, "user_id", actor.ID)
	return dto.NewDocumentResponse(&document, ingestion), nil
}

// List returns a page of documents visible to the actor, optionally filtered
// by status equality and a case-insensitive title/description search.
func (s *DocumentService) List(actor authz.Actor, query *dto.DocumentQuery) (*dto.PaginatedResponse, error) {
	query.Normalize()

	if query.Status != "" && !models.ValidStatus(query.Status) {
		return nil, apperr.Validation("Invalid document status")
	}

	base := s.db.Model(&models.Document{}).Scopes(authz.DocumentScope(actor))
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		base = base.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch documents", err)
	}

	var documents []models.Document
	err := base.Preload("User").
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&documents).Error
	if err != nil {
		return nil, apperr.Internal("Failed to fetch documents", err)
	}

	responses := make([]*dto.DocumentResponse, 0, len(documents))
	for i := range documents {
		responses = append(responses, dto.NewDocumentResponse(&documents[i], nil))
	}

	return dto.NewPaginatedResponse(responses, total, query.Page, query.Limit), nil
}

// Get returns one document in the actor's scope together with its most
// recent ingestion record.
func (s *DocumentService) Get(actor authz.Actor, id uint) (*dto.DocumentResponse, error) {
	document, err := s.findScoped(actor, id)
	if err != nil {
		return nil, err
	}

	var ingestion *models.Ingestion
	var latest models.Ingestion
	err = s.db.Where("document_id = ?", id).Order("created_at DESC").First(&latest).Error
	if err == nil {
		ingestion = &latest
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("Failed to fetch document", err)
	}

	return dto.NewDocumentResponse(document, ingestion), nil
}

// Update patches title/description. Ownership and existence are re-checked
// first; the owner relation itself is immutable.
func (s *DocumentService) Update(actor authz.Actor, id uint, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	document, err := s.findScoped(actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if len(*req.Title) < 3 {
			return nil, apperr.Validation("Title must be at least 3 characters")
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(document).Updates(updates).Error; err != nil {
			return nil, apperr.Internal("Failed to update document", err)
		}
	}

	return dto.NewDocumentResponse(document, nil), nil
}

// Remove deletes the document row and its ingestion records in one
// transaction, then removes the stored file best-effort. A file already gone
// from disk is not an error.
func (s *DocumentService) Remove(actor authz.Actor, id uint) (*dto.DocumentResponse, error) {
	document, err := s.findScoped(actor, id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.Ingestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Document{}, "id = ?", id).Error
	})
	if err != nil {
		slog.Error("document delete failed", "document_id", id, "error", err)
		return nil, apperr.Internal("Failed to delete document", err)
	}

	if err := s.store.Remove(document.StoredName); err != nil {
		slog.Warn("stored file removal failed", "document_id", id, "error", err)
	}

	slog.Info("document deleted", "document_id", id, "user_id", actor.ID)
	return dto.NewDocumentResponse(document, nil), nil
}

// GetFileForDownload resolves the document and verifies the physical file
// still exists. A row without a backing file is a detectable inconsistency
// reported with its own NotFound message.
func (s *DocumentService) GetFileForDownload(actor authz.Actor, id uint) (*Download, error) {
	document, err := s.findScoped(actor, id)
	if err != nil {
		return nil, err
	}

	if !s.store.Exists(document.StoredName) {
		slog.Error("document row has no backing file", "document_id", id, "stored_name", document.StoredName)
		return nil, apperr.NotFound("File not found")
	}

	absolutePath, err := s.store.AbsolutePath(document.StoredName)
	if err != nil {
		return nil, apperr.Internal("Failed to resolve file", err)
	}

	return &Download{
		AbsolutePath: absolutePath,
		FileName:     document.StoredName,
		FileType:     document.FileType,
	}, nil
}

// findScoped fetches a document the actor may act on. Absent and
// out-of-scope are deliberately the same NotFound.
func (s *DocumentService) findScoped(actor authz.Actor, id uint) (*models.Document, error) {
	var document models.Document
	err := s.db.Scopes(authz.DocumentScope(actor)).
		Preload("User").
		First(&document, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("Document with ID %d not found", id))
		}
		return nil, apperr.Internal("Failed to fetch document", err)
	}
	return &document, nil
}

func (s *DocumentService) discardFile(storedName string) {
	if err := s.store.Remove(storedName); err != nil {
		slog.Warn("orphan file cleanup failed", "stored_name", storedName, "error", err)
	}
}
