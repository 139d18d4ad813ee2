package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type adminRepository interface {
	List(ctx context.Context, filter models.AdminFilter) ([]models.AdminDetail, int, error)
	FindByID(ctx context.Context, userID string) (*models.AdminDetail, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error
}

type adminUserRepository interface {
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
}

// AdminService implements admin account management.
type AdminService struct {
	repo     adminRepository
	users    adminUserRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAdminService creates a new instance of AdminService.
func NewAdminService(repo adminRepository, users adminUserRepository, logger *zap.Logger) *AdminService {
	return &AdminService{repo: repo, users: users, validate: validator.New(), logger: logger}
}

// List returns admins with pagination metadata.
func (s *AdminService) List(ctx context.Context, filter models.AdminFilter) ([]models.AdminDetail, *models.Pagination, error) {
	admins, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return admins, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one admin.
func (s *AdminService) Get(ctx context.Context, userID string) (*models.AdminDetail, error) {
	admin, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.FromError(err)
	}
	return admin, nil
}

// Create registers a new admin account.
func (s *AdminService) Create(ctx context.Context, req models.CreateAdminRequest) (*models.AdminDetail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.FromError(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("admin created", zap.String("id", user.ID))
	return s.Get(ctx, user.ID)
}

// Update applies a partial update to an admin.
func (s *AdminService) Update(ctx context.Context, userID string, req models.UpdateAdminRequest) (*models.AdminDetail, error) {
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}

	detail, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.FromError(err)
	}

	if req.Email != nil {
		taken, err := s.users.ExistsByEmail(ctx, *req.Email, userID)
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
		}
		detail.Email = *req.Email
	}
	if req.FirstName != nil {
		detail.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		detail.LastName = *req.LastName
	}
	if req.Active != nil {
		detail.Active = *req.Active
	}

	// An empty hash leaves the stored one untouched.
	passwordHash := ""
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.FromError(fmt.Errorf("hash password: %w", err))
		}
		passwordHash = string(hash)
	}

	user := &models.User{
		ID:           userID,
		Email:        detail.Email,
		PasswordHash: passwordHash,
		FirstName:    detail.FirstName,
		LastName:     detail.LastName,
		Active:       detail.Active,
	}
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, userID)
}

// Delete removes an admin account. The last remaining admin cannot be
// deleted.
func (s *AdminService) Delete(ctx context.Context, userID string) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return appErrors.FromError(err)
	}
	if count <= 1 {
		return appErrors.Clone(appErrors.ErrConflict, "cannot delete the last admin account")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return appErrors.FromError(err)
	}
	s.logger.Info("admin deleted", zap.String("id", userID))
	return nil
}
