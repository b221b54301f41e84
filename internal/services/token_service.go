package services

import (
	"errors"
	"time"

	"github.com/docuvault/docuvault/internal/apperr"
	"github.com/docuvault/docuvault/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenService owns password hashing and JWT issuance/verification. Access
// and refresh tokens carry the same payload but are signed with separate
// secrets and expire independently.
type TokenService struct {
	cfg *config.Config
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{cfg: cfg}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenPayload is the verified content of a token.
type TokenPayload struct {
	UserID uint
	Email  string
	Roles  []string
}

func (s *TokenService) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal("failed to hash password", err)
	}
	return string(hash), nil
}

func (s *TokenService) CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IssueTokenPair signs a fresh access/refresh token pair for the user.
func (s *TokenService) IssueTokenPair(userID uint, email string, roles []string) (*TokenPair, error) {
	accessToken, err := s.sign(userID, email, roles, s.cfg.AccessTokenSecret, s.cfg.AccessTokenExpiry)
	if err != nil {
		return nil, apperr.Internal("failed to sign access token", err)
	}

	refreshToken, err := s.sign(userID, email, roles, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiry)
	if err != nil {
		return nil, apperr.Internal("failed to sign refresh token", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyRefreshToken validates a refresh token and returns its payload.
// Expired tokens and otherwise invalid tokens fail with distinct kinds so
// clients can tell re-login from retry.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*TokenPayload, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.RefreshTokenSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.TokenExpired("Refresh token expired")
		}
		return nil, apperr.TokenInvalid("Invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.TokenInvalid("Invalid refresh token")
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub < 1 {
		return nil, apperr.TokenInvalid("Invalid refresh token")
	}

	payload := &TokenPayload{UserID: uint(sub)}
	if email, ok := claims["identification"].(string); ok {
		payload.Email = email
	}
	if roles, ok := claims["role"].([]interface{}); ok {
		for _, r := range roles {
			if role, ok := r.(string); ok {
				payload.Roles = append(payload.Roles, role)
			}
		}
	}

	return payload, nil
}

func (s *TokenService) sign(userID uint, email string, roles []string, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":            userID,
		"identification": email,
		"role":           roles,
		"iat":            now.Unix(),
		"exp":            now.Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
