package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/docuvault/docuvault/internal/config"
	"github.com/docuvault/docuvault/internal/models"
	"github.com/docuvault/docuvault/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newWebhookApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	cfg := &config.Config{
		WebhookSecret: "test-webhook-secret",
		IngestionMode: config.IngestionModeMock,
	}
	handler := NewIngestionHandler(services.NewIngestionService(db, cfg), cfg)

	app := fiber.New()
	app.Post("/api/v1/ingestion/webhook", handler.Webhook)
	return app, mock
}

func postWebhook(t *testing.T, app *fiber.App, secret, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingestion/webhook", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("x-webhook-secret", secret)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestWebhookRejectsMissingSecret(t *testing.T) {
	app, mock := newWebhookApp(t)

	resp := postWebhook(t, app, "", `{"documentId":1,"status":"COMPLETED"}`)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no persistence calls expected: %v", err)
	}
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	app, mock := newWebhookApp(t)

	resp := postWebhook(t, app, "wrong-secret", `{"documentId":1,"status":"COMPLETED"}`)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no persistence calls expected: %v", err)
	}
}

func TestWebhookRejectsUnknownStatus(t *testing.T) {
	app, mock := newWebhookApp(t)

	resp := postWebhook(t, app, "test-webhook-secret", `{"documentId":1,"status":"DONE"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no persistence calls expected: %v", err)
	}
}

func TestWebhookRejectsInvalidDocumentID(t *testing.T) {
	app, _ := newWebhookApp(t)

	resp := postWebhook(t, app, "test-webhook-secret", `{"documentId":0,"status":"COMPLETED"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestWebhookAppliesCallback(t *testing.T) {
	app, mock := newWebhookApp(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "ingestions"(.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "status", "created_at", "updated_at"}).
			AddRow(3, 9, models.StatusProcessing, time.Now(), time.Now()))
	mock.ExpectExec(`UPDATE "ingestions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "documents"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp := postWebhook(t, app, "test-webhook-secret", `{"documentId":9,"status":"COMPLETED"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestWebhookUnknownRecordIsNotFound(t *testing.T) {
	app, mock := newWebhookApp(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "ingestions"(.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	resp := postWebhook(t, app, "test-webhook-secret", `{"documentId":42,"status":"FAILED"}`)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
