package services

import (
	"errors"
	"fmt"

	"github.com/docuvault/docuvault/internal/apperr"
	"github.com/docuvault/docuvault/internal/authz"
	"github.com/docuvault/docuvault/internal/dto"
	"github.com/docuvault/docuvault/internal/models"
	"gorm.io/gorm"
)

// UserService is the admin-only user management module.
type UserService struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewUserService(db *gorm.DB, tokens *TokenService) *UserService {
	return &UserService{db: db, tokens: tokens}
}

func (s *UserService) Create(actor authz.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !authz.CanManageUsers(actor) {
		return nil, apperr.Forbidden("Admin access required")
	}
	if req.Email == "" {
		return nil, apperr.Validation("Email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("Password must be at least 8 characters")
	}
	if !models.ValidRole(req.Role) {
		return nil, apperr.Validation("Invalid role")
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
		Role:     req.Role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, apperr.Internal("Failed to create user", err)
	}

	resp := dto.NewUserResponse(&user)
	return &resp, nil
}

func (s *UserService) List(actor authz.Actor, query *dto.PageQuery) (*dto.PaginatedResponse, error) {
	if !authz.CanManageUsers(actor) {
		return nil, apperr.Forbidden("Admin access required")
	}
	query.Normalize()

	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch users", err)
	}

	var users []models.User
	err := s.db.Order("id ASC").
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&users).Error
	if err != nil {
		return nil, apperr.Internal("Failed to fetch users", err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.NewUserResponse(&users[i]))
	}

	return dto.NewPaginatedResponse(responses, total, query.Page, query.Limit), nil
}

func (s *UserService) Get(actor authz.Actor, id uint) (*dto.UserResponse, error) {
	if !authz.CanManageUsers(actor) {
		return nil, apperr.Forbidden("Admin access required")
	}

	user, err := s.find(id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Update may change name, role and password. Role is only mutable here,
// never through self-service endpoints.
func (s *UserService) Update(actor authz.Actor, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !authz.CanManageUsers(actor) {
		return nil, apperr.Forbidden("Admin access required")
	}

	user, err := s.find(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, apperr.Validation("Invalid role")
		}
		updates["role"] = *req.Role
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, apperr.Validation("Password must be at least 8 characters")
		}
		hash, err := s.tokens.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperr.Internal("Failed to update user", err)
		}
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Delete refuses to remove a user who still owns documents; reassignment or
// document deletion has to happen first.
func (s *UserService) Delete(actor authz.Actor, id uint) (*dto.UserResponse, error) {
	if !authz.CanManageUsers(actor) {
		return nil, apperr.Forbidden("Admin access required")
	}

	user, err := s.find(id)
	if err != nil {
		return nil, err
	}

	var owned int64
	if err := s.db.Model(&models.Document{}).Where("user_id = ?", id).Count(&owned).Error; err != nil {
		return nil, apperr.Internal("Failed to delete user", err)
	}
	if owned > 0 {
		return nil, apperr.Conflict("User still owns documents")
	}

	if err := s.db.Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return nil, apperr.Internal("Failed to delete user", err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *UserService) find(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("User with ID %d not found", id))
		}
		return nil, apperr.Internal("Failed to fetch user", err)
	}
	return &user, nil
}
