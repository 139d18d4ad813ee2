package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
}

// UserService exposes the cross-role account directory for admins.
type UserService struct {
	repo   userRepository
	logger *zap.Logger
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo userRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// List returns users of any role with pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return users, models.NewPagination(filter.Page, filter.PageSize, total), nil
}
