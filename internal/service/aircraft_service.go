package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/internal/repository"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type aircraftRepository interface {
	List(ctx context.Context, filter models.AircraftFilter) ([]models.Aircraft, int, error)
	FindByID(ctx context.Context, id string) (*models.Aircraft, error)
	Create(ctx context.Context, aircraft *models.Aircraft) error
	Update(ctx context.Context, aircraft *models.Aircraft) error
	References(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string, force bool) error
}

// AircraftService implements fleet management.
type AircraftService struct {
	repo     aircraftRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAircraftService creates a new instance of AircraftService.
func NewAircraftService(repo aircraftRepository, logger *zap.Logger) *AircraftService {
	return &AircraftService{repo: repo, validate: validator.New(), logger: logger}
}

// List returns aircraft with pagination metadata.
func (s *AircraftService) List(ctx context.Context, filter models.AircraftFilter) ([]models.Aircraft, *models.Pagination, error) {
	fleet, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return fleet, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one aircraft.
func (s *AircraftService) Get(ctx context.Context, id string) (*models.Aircraft, error) {
	aircraft, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "aircraft not found")
		}
		return nil, appErrors.FromError(err)
	}
	return aircraft, nil
}

// Create registers a new aircraft.
func (s *AircraftService) Create(ctx context.Context, req models.CreateAircraftRequest) (*models.Aircraft, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid aircraft payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown aircraft status %q", req.Status))
	}

	aircraft := &models.Aircraft{
		Model:    req.Model,
		Capacity: req.Capacity,
		Status:   req.Status,
	}
	if err := s.repo.Create(ctx, aircraft); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("aircraft created", zap.String("id", aircraft.ID), zap.String("model", aircraft.Model))
	return aircraft, nil
}

// Update applies a partial update to an aircraft.
func (s *AircraftService) Update(ctx context.Context, id string, req models.UpdateAircraftRequest) (*models.Aircraft, error) {
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid aircraft payload")
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown aircraft status %q", *req.Status))
	}

	aircraft, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "aircraft not found")
		}
		return nil, appErrors.FromError(err)
	}

	if req.Model != nil {
		aircraft.Model = *req.Model
	}
	if req.Capacity != nil {
		aircraft.Capacity = *req.Capacity
	}
	if req.Status != nil {
		aircraft.Status = *req.Status
	}

	if err := s.repo.Update(ctx, aircraft); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "aircraft not found")
		}
		return nil, appErrors.FromError(err)
	}
	return aircraft, nil
}

// Delete removes an aircraft, refusing while flights reference it unless
// force is set.
func (s *AircraftService) Delete(ctx context.Context, id string, force bool) (int, error) {
	refs, err := s.repo.References(ctx, id)
	if err != nil {
		return 0, appErrors.FromError(err)
	}
	if refs > 0 && !force {
		return refs, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("aircraft is scheduled on %d flights; retry with force=true to cascade", refs))
	}

	if err := s.repo.Delete(ctx, id, force); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "aircraft not found")
		}
		if repository.IsForeignKeyViolation(err) {
			return 0, appErrors.Clone(appErrors.ErrConflict, "aircraft gained new flights; retry with force=true")
		}
		return 0, appErrors.FromError(err)
	}
	s.logger.Info("aircraft deleted", zap.String("id", id), zap.Bool("force", force))
	return refs, nil
}
