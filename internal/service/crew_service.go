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

type crewRepository interface {
	List(ctx context.Context, filter models.CrewFilter) ([]models.CrewDetail, int, error)
	FindByID(ctx context.Context, userID string) (*models.CrewDetail, error)
	ExistsByPhone(ctx context.Context, phone string, excludeUserID string) (bool, error)
	Create(ctx context.Context, user *models.User, crew *models.Crew) error
	Update(ctx context.Context, user *models.User, crew *models.Crew) error
	AssignmentCount(ctx context.Context, userID string) (int, error)
	Stats(ctx context.Context, userID string) (*models.CrewStats, error)
	Delete(ctx context.Context, userID string, force bool) error
}

type crewUserRepository interface {
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
}

// CrewService implements crew roster management and the crew self-service
// profile.
type CrewService struct {
	repo     crewRepository
	users    crewUserRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCrewService creates a new instance of CrewService.
func NewCrewService(repo crewRepository, users crewUserRepository, logger *zap.Logger) *CrewService {
	return &CrewService{repo: repo, users: users, validate: validator.New(), logger: logger}
}

// List returns crew members with pagination metadata.
func (s *CrewService) List(ctx context.Context, filter models.CrewFilter) ([]models.CrewDetail, *models.Pagination, error) {
	crews, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return crews, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one crew member.
func (s *CrewService) Get(ctx context.Context, userID string) (*models.CrewDetail, error) {
	crew, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "crew member not found")
		}
		return nil, appErrors.FromError(err)
	}
	return crew, nil
}

// Profile returns the crew member's own detail plus derived assignment stats.
func (s *CrewService) Profile(ctx context.Context, userID string) (*models.CrewProfile, error) {
	crew, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "crew member not found")
		}
		return nil, appErrors.FromError(err)
	}
	return &models.CrewProfile{CrewDetail: *crew, Stats: *stats}, nil
}

// Create onboards a crew member: user account plus specialization in one
// transaction.
func (s *CrewService) Create(ctx context.Context, req models.CreateCrewRequest) (*models.CrewDetail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid crew payload")
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}
	if req.Phone != nil && *req.Phone != "" {
		phoneTaken, err := s.repo.ExistsByPhone(ctx, *req.Phone, "")
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		if phoneTaken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "phone number is already registered")
		}
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
	crew := &models.Crew{
		Rank:        req.Rank,
		FlightHours: req.FlightHours,
		Phone:       req.Phone,
	}
	if err := s.repo.Create(ctx, user, crew); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("crew member created", zap.String("id", user.ID))
	return s.Get(ctx, user.ID)
}

// Update applies a partial update to a crew member.
func (s *CrewService) Update(ctx context.Context, userID string, req models.UpdateCrewRequest) (*models.CrewDetail, error) {
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid crew payload")
	}

	detail, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "crew member not found")
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
	if req.Phone != nil && *req.Phone != "" {
		phoneTaken, err := s.repo.ExistsByPhone(ctx, *req.Phone, userID)
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		if phoneTaken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "phone number is already registered")
		}
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
	if req.Rank != nil {
		detail.Rank = *req.Rank
	}
	if req.FlightHours != nil {
		detail.FlightHours = *req.FlightHours
	}
	if req.Phone != nil {
		detail.Phone = req.Phone
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
	crew := &models.Crew{
		UserID:      userID,
		Rank:        detail.Rank,
		FlightHours: detail.FlightHours,
		Phone:       detail.Phone,
	}
	if err := s.repo.Update(ctx, user, crew); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "crew member not found")
		}
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, userID)
}

// Delete removes a crew member, refusing while flight assignments reference
// it unless force is set.
func (s *CrewService) Delete(ctx context.Context, userID string, force bool) (int, error) {
	refs, err := s.repo.AssignmentCount(ctx, userID)
	if err != nil {
		return 0, appErrors.FromError(err)
	}
	if refs > 0 && !force {
		return refs, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("crew member is assigned to %d flights; retry with force=true to cascade", refs))
	}

	if err := s.repo.Delete(ctx, userID, force); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "crew member not found")
		}
		return 0, appErrors.FromError(err)
	}
	s.logger.Info("crew member deleted", zap.String("id", userID), zap.Bool("force", force))
	return refs, nil
}
