package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/internal/repository"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type airportRepository interface {
	List(ctx context.Context, filter models.AirportFilter) ([]models.Airport, int, error)
	FindByID(ctx context.Context, id string) (*models.Airport, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, airport *models.Airport) error
	Update(ctx context.Context, airport *models.Airport) error
	References(ctx context.Context, id string) (*models.AirportReferences, error)
	Delete(ctx context.Context, id string, force bool) error
}

// AirportService implements airport management.
type AirportService struct {
	repo     airportRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAirportService creates a new instance of AirportService.
func NewAirportService(repo airportRepository, logger *zap.Logger) *AirportService {
	return &AirportService{repo: repo, validate: validator.New(), logger: logger}
}

// List returns airports with pagination metadata.
func (s *AirportService) List(ctx context.Context, filter models.AirportFilter) ([]models.Airport, *models.Pagination, error) {
	airports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return airports, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one airport.
func (s *AirportService) Get(ctx context.Context, id string) (*models.Airport, error) {
	airport, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "airport not found")
		}
		return nil, appErrors.FromError(err)
	}
	return airport, nil
}

// Create registers a new airport. Codes are normalised to uppercase before
// the uniqueness check so "lax" and "LAX" collide.
func (s *AirportService) Create(ctx context.Context, req models.CreateAirportRequest) (*models.Airport, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid airport payload")
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	taken, err := s.repo.ExistsByCode(ctx, code, "")
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("airport code %s already exists", code))
	}

	airport := &models.Airport{
		Name:    strings.TrimSpace(req.Name),
		Code:    code,
		City:    strings.TrimSpace(req.City),
		Country: strings.TrimSpace(req.Country),
	}
	if err := s.repo.Create(ctx, airport); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("airport created", zap.String("id", airport.ID), zap.String("code", airport.Code))
	return airport, nil
}

// Update applies a partial update to an airport.
func (s *AirportService) Update(ctx context.Context, id string, req models.UpdateAirportRequest) (*models.Airport, error) {
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid airport payload")
	}

	airport, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "airport not found")
		}
		return nil, appErrors.FromError(err)
	}

	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		taken, err := s.repo.ExistsByCode(ctx, code, id)
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("airport code %s already exists", code))
		}
		airport.Code = code
	}
	if req.Name != nil {
		airport.Name = strings.TrimSpace(*req.Name)
	}
	if req.City != nil {
		airport.City = strings.TrimSpace(*req.City)
	}
	if req.Country != nil {
		airport.Country = strings.TrimSpace(*req.Country)
	}

	if err := s.repo.Update(ctx, airport); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "airport not found")
		}
		return nil, appErrors.FromError(err)
	}
	return airport, nil
}

// Delete removes an airport. Without force the delete is refused while
// flights still reference the airport; the dependent counts are reported so
// the caller can decide.
func (s *AirportService) Delete(ctx context.Context, id string, force bool) (*models.AirportReferences, error) {
	refs, err := s.repo.References(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if refs.Total() > 0 && !force {
		return refs, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("airport is referenced by %d flights; retry with force=true to cascade", refs.Total()))
	}

	if err := s.repo.Delete(ctx, id, force); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "airport not found")
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "airport gained new flights; retry with force=true")
		}
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("airport deleted", zap.String("id", id), zap.Bool("force", force))
	return refs, nil
}
