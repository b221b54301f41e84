package services

import (
	"errors"
	"log/slog"

	"github.com/docuvault/docuvault/internal/apperr"
	"github.com/docuvault/docuvault/internal/dto"
	"github.com/docuvault/docuvault/internal/models"
	"gorm.io/gorm"
)

type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewAuthService(db *gorm.DB, tokens *TokenService) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// Register creates a new VIEWER user and signs them in. Role escalation only
// happens through the admin users module.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Email == "" {
		return nil, apperr.Validation("Email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("Password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("Email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to check existing user", err)
	}

	hash, err := s.tokens.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    req.Email,
		Password: hash,
		Name:     req.Name,
		Role:     models.RoleViewer,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}

	pair, err := s.tokens.IssueTokenPair(user.ID, user.Email, []string{user.Role})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return &dto.AuthResponse{
		Message: "Registration successful",
		User:    dto.NewUserResponse(&user),
		Tokens:  dto.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
	}, nil
}

// Login verifies credentials and issues a token pair. Unknown email and bad
// password are indistinguishable to the caller.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}

	if !s.tokens.CheckPassword(req.Password, user.Password) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	pair, err := s.tokens.IssueTokenPair(user.ID, user.Email, []string{user.Role})
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Message: "Login successful",
		User:    dto.NewUserResponse(&user),
		Tokens:  dto.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The user row is
// re-read so role changes made since issuance take effect.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	if req.RefreshToken == "" {
		return nil, apperr.Validation("Refresh token is required")
	}

	payload, err := s.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", payload.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("User no longer exists")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}

	pair, err := s.tokens.IssueTokenPair(user.ID, user.Email, []string{user.Role})
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Message: "Token refreshed",
		User:    dto.NewUserResponse(&user),
		Tokens:  dto.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
	}, nil
}
