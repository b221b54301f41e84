package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/docuvault/docuvault/internal/apperr"
	"github.com/docuvault/docuvault/internal/config"
	"github.com/docuvault/docuvault/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IngestionService drives the per-document ingestion state machine:
// PENDING -> PROCESSING -> {COMPLETED, FAILED}, with the parent document
// mirroring the outcome of its most recent record.
type IngestionService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewIngestionService(db *gorm.DB, cfg *config.Config) *IngestionService {
	return &IngestionService{db: db, cfg: cfg}
}

// Trigger starts a new ingestion attempt for the document. In mock mode the
// stub pipeline completes synchronously: the record is created COMPLETED and
// the document follows immediately. In async mode the record starts PENDING
// and the webhook finalizes it later.
func (s *IngestionService) Trigger(documentID uint) (*models.Ingestion, error) {
	var document models.Document
	if err := s.db.First(&document, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("document not found for ingestion", "document_id", documentID)
			return nil, apperr.NotFound(fmt.Sprintf("Document with ID %d not found", documentID))
		}
		return nil, apperr.Internal("failed to look up document", err)
	}

	ingestion := models.Ingestion{
		DocumentID: documentID,
		Status:     models.StatusPending,
	}
	if s.cfg.IngestionMode == config.IngestionModeMock {
		now := time.Now()
		ingestion.Status = models.StatusCompleted
		ingestion.StartedAt = &now
		ingestion.CompletedAt = &now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ingestion).Error; err != nil {
			return err
		}
		if ingestion.Status == models.StatusCompleted {
			return tx.Model(&models.Document{}).
				Where("id = ?", documentID).
				Update("status", models.StatusCompleted).Error
		}
		return nil
	})
	if err != nil {
		slog.Error("ingestion trigger failed", "document_id", documentID, "error", err)
		return nil, apperr.Internal("Failed to trigger ingestion", err)
	}

	slog.Info("ingestion triggered", "document_id", documentID, "status", ingestion.Status)
	return &ingestion, nil
}

// CheckStatus returns the most recent ingestion record for the document,
// including the document itself. A document with no ingestion history is a
// distinct NotFound from an unknown document.
func (s *IngestionService) CheckStatus(documentID uint) (*models.Ingestion, error) {
	var ingestion models.Ingestion
	err := s.db.Preload("Document").
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		First(&ingestion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("ingestion status check with no record", "document_id", documentID)
			return nil, apperr.NotFound(fmt.Sprintf("No ingestion record found for document %d", documentID))
		}
		return nil, apperr.Internal("failed to fetch ingestion status", err)
	}
	return &ingestion, nil
}

// HandleCallback applies an external status update to the document's current
// ingestion record. The record is locked for the duration of the transaction
// so concurrent callbacks serialize, and the record and document always
// commit together. Re-applying the same terminal status is harmless.
func (s *IngestionService) HandleCallback(documentID uint, status string) error {
	if !models.ValidStatus(status) {
		return apperr.Validation("Invalid ingestion status")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ingestion models.Ingestion
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("document_id = ?", documentID).
			Order("created_at DESC").
			First(&ingestion).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Ingestion record not found")
			}
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       status,
			"completed_at": now,
		}
		if status == models.StatusProcessing {
			updates["started_at"] = now
		}

		if err := tx.Model(&ingestion).Updates(updates).Error; err != nil {
			return err
		}

		documentStatus := models.StatusFailed
		if status == models.StatusCompleted {
			documentStatus = models.StatusCompleted
		}
		return tx.Model(&models.Document{}).
			Where("id = ?", documentID).
			Update("status", documentStatus).Error
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			if ae.Kind == apperr.KindNotFound {
				slog.Error("webhook received for unknown document", "document_id", documentID, "status", status)
			}
			return err
		}
		slog.Error("webhook ingestion update failed", "document_id", documentID, "status", status, "error", err)
		return apperr.Internal("Failed to update ingestion status", err)
	}

	slog.Info("webhook processed", "document_id", documentID, "status", status)
	return nil
}
