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

type passengerRepository interface {
	List(ctx context.Context, filter models.PassengerFilter) ([]models.PassengerDetail, int, error)
	FindByID(ctx context.Context, userID string) (*models.PassengerDetail, error)
	ExistsByPhone(ctx context.Context, phone string, excludeUserID string) (bool, error)
	Create(ctx context.Context, user *models.User, passenger *models.Passenger) error
	Update(ctx context.Context, user *models.User, passenger *models.Passenger) error
	BookingCount(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID string, force bool) error
}

type passengerUserRepository interface {
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
}

// PassengerService implements passenger management for the admin API.
type PassengerService struct {
	repo     passengerRepository
	users    passengerUserRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPassengerService creates a new instance of PassengerService.
func NewPassengerService(repo passengerRepository, users passengerUserRepository, logger *zap.Logger) *PassengerService {
	return &PassengerService{repo: repo, users: users, validate: validator.New(), logger: logger}
}

// List returns passengers with pagination metadata.
func (s *PassengerService) List(ctx context.Context, filter models.PassengerFilter) ([]models.PassengerDetail, *models.Pagination, error) {
	passengers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return passengers, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one passenger.
func (s *PassengerService) Get(ctx context.Context, userID string) (*models.PassengerDetail, error) {
	passenger, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "passenger not found")
		}
		return nil, appErrors.FromError(err)
	}
	return passenger, nil
}

// Create registers a passenger account via the admin API.
func (s *PassengerService) Create(ctx context.Context, req models.CreatePassengerRequest) (*models.PassengerDetail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid passenger payload")
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}
	phoneTaken, err := s.repo.ExistsByPhone(ctx, req.Phone, "")
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if phoneTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "phone number is already registered")
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
	passenger := &models.Passenger{Phone: &req.Phone}
	if err := s.repo.Create(ctx, user, passenger); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("passenger created", zap.String("id", user.ID))
	return s.Get(ctx, user.ID)
}

// Update applies a partial update to a passenger.
func (s *PassengerService) Update(ctx context.Context, userID string, req models.UpdatePassengerRequest) (*models.PassengerDetail, error) {
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid passenger payload")
	}

	detail, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "passenger not found")
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
	passenger := &models.Passenger{UserID: userID, Phone: detail.Phone}
	if err := s.repo.Update(ctx, user, passenger); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "passenger not found")
		}
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, userID)
}

// Delete removes a passenger, refusing while bookings reference it unless
// force is set.
func (s *PassengerService) Delete(ctx context.Context, userID string, force bool) (int, error) {
	refs, err := s.repo.BookingCount(ctx, userID)
	if err != nil {
		return 0, appErrors.FromError(err)
	}
	if refs > 0 && !force {
		return refs, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("passenger holds %d bookings; retry with force=true to cascade", refs))
	}

	if err := s.repo.Delete(ctx, userID, force); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "passenger not found")
		}
		return 0, appErrors.FromError(err)
	}
	s.logger.Info("passenger deleted", zap.String("id", userID), zap.Bool("force", force))
	return refs, nil
}
