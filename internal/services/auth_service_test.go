package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/docuvault/docuvault/internal/apperr"
	"github.com/docuvault/docuvault/internal/dto"
	"github.com/docuvault/docuvault/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock, *TokenService) {
	t.Helper()
	db, mock := newTestDB(t)
	tokens := NewTokenService(testConfig())
	return NewAuthService(db, tokens), mock, tokens
}

func fullUserRows(t *testing.T, tokens *TokenService, id uint, email, password, role string) *sqlmock.Rows {
	t.Helper()
	hash, err := tokens.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return sqlmock.NewRows([]string{"id", "email", "password", "name", "role"}).
		AddRow(id, email, hash, "Test User", role)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, mock, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Email: "new@example.com", Password: "short"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want Validation", apperr.KindOf(err))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no persistence calls expected: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock, tokens := newAuthService(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(fullUserRows(t, tokens, 3, "taken@example.com", "password123", models.RoleViewer))

	_, err := svc.Register(&dto.RegisterRequest{Email: "taken@example.com", Password: "password123"})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("kind = %v, want Conflict", apperr.KindOf(err))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestRegisterAssignsViewerAndIssuesTokens(t *testing.T) {
	svc, mock, _ := newAuthService(t)
	cfg := testConfig()

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		Name:     "New User",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Role != models.RoleViewer {
		t.Fatalf("role = %q, self-registration must assign VIEWER", resp.User.Role)
	}

	// The access token subject must be the created user's id.
	parsed, err := jwt.Parse(resp.Tokens.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.AccessTokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if sub, _ := claims["sub"].(float64); uint(sub) != 12 {
		t.Fatalf("sub = %v, want 12", claims["sub"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock, tokens := newAuthService(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(fullUserRows(t, tokens, 3, "viewer@example.com", "rightpassword", models.RoleViewer))

	_, err := svc.Login(&dto.LoginRequest{Email: "viewer@example.com", Password: "wrongpassword"})
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("kind = %v, want Unauthorized", apperr.KindOf(err))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestLoginUnknownEmailIndistinguishable(t *testing.T) {
	svc, mock, tokens := newAuthService(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(fullUserRows(t, tokens, 3, "viewer@example.com", "rightpassword", models.RoleViewer))

	_, unknownErr := svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "whatever123"})
	_, badPassErr := svc.Login(&dto.LoginRequest{Email: "viewer@example.com", Password: "wrongpassword"})

	if apperr.KindOf(unknownErr) != apperr.KindUnauthorized {
		t.Fatalf("unknown email kind = %v", apperr.KindOf(unknownErr))
	}
	if apperr.MessageOf(unknownErr) != apperr.MessageOf(badPassErr) {
		t.Fatalf("messages differ: %q vs %q", apperr.MessageOf(unknownErr), apperr.MessageOf(badPassErr))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestLoginIssuesVerifiableTokens(t *testing.T) {
	svc, mock, tokens := newAuthService(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(fullUserRows(t, tokens, 5, "editor@example.com", "password123", models.RoleEditor))

	resp, err := svc.Login(&dto.LoginRequest{Email: "editor@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	payload, err := tokens.VerifyRefreshToken(resp.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefreshToken: %v", err)
	}
	if payload.UserID != 5 || payload.Email != "editor@example.com" {
		t.Fatalf("payload = %+v", payload)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestRefreshPicksUpRoleChanges(t *testing.T) {
	svc, mock, tokens := newAuthService(t)

	pair, err := tokens.IssueTokenPair(5, "editor@example.com", []string{models.RoleViewer})
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	// The user was promoted since the refresh token was issued.
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(fullUserRows(t, tokens, 5, "editor@example.com", "password123", models.RoleEditor))

	resp, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: pair.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if resp.User.Role != models.RoleEditor {
		t.Fatalf("role = %q, want the current role from the database", resp.User.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestRefreshDeletedUser(t *testing.T) {
	svc, mock, tokens := newAuthService(t)

	pair, err := tokens.IssueTokenPair(5, "gone@example.com", []string{models.RoleViewer})
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: pair.RefreshToken})
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("kind = %v, want Unauthorized", apperr.KindOf(err))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
