package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/internal/repository"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.AssignmentDetail, error)
	Create(ctx context.Context, assignment *models.FlightCrewAssignment) error
	Update(ctx context.Context, assignment *models.FlightCrewAssignment) error
	Delete(ctx context.Context, id string) error
}

type assignmentFlightRepository interface {
	FindByID(ctx context.Context, id string) (*models.FlightDetail, error)
}

type assignmentCrewRepository interface {
	FindByID(ctx context.Context, userID string) (*models.CrewDetail, error)
}

// AssignmentService implements flight crew rostering.
type AssignmentService struct {
	repo     assignmentRepository
	flights  assignmentFlightRepository
	crews    assignmentCrewRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAssignmentService creates a new instance of AssignmentService.
func NewAssignmentService(repo assignmentRepository, flights assignmentFlightRepository, crews assignmentCrewRepository, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		repo:     repo,
		flights:  flights,
		crews:    crews,
		validate: validator.New(),
		logger:   logger,
	}
}

// List returns assignments with pagination metadata.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, *models.Pagination, error) {
	assignments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return assignments, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one assignment.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.FromError(err)
	}
	return assignment, nil
}

// Create assigns a crew member to a flight. Duplicate pairs surface the
// unique constraint as a conflict.
func (s *AssignmentService) Create(ctx context.Context, req models.CreateAssignmentRequest) (*models.AssignmentDetail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.flights.FindByID(ctx, req.FlightID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "flight does not exist")
		}
		return nil, appErrors.FromError(err)
	}
	if _, err := s.crews.FindByID(ctx, req.CrewID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "crew member does not exist")
		}
		return nil, appErrors.FromError(err)
	}

	assignment := &models.FlightCrewAssignment{
		FlightID: req.FlightID,
		CrewID:   req.CrewID,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "crew member is already assigned to this flight")
		}
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("crew assigned",
		zap.String("assignment_id", assignment.ID),
		zap.String("flight_id", req.FlightID),
		zap.String("crew_id", req.CrewID))
	return s.Get(ctx, assignment.ID)
}

// Update moves an assignment to another flight or crew member, checking that
// the merged pair still points at existing rows.
func (s *AssignmentService) Update(ctx context.Context, id string, req models.UpdateAssignmentRequest) (*models.AssignmentDetail, error) {
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.FromError(err)
	}

	assignment := &models.FlightCrewAssignment{
		ID:       id,
		FlightID: detail.FlightID,
		CrewID:   detail.CrewID,
	}
	if req.FlightID != nil {
		assignment.FlightID = *req.FlightID
	}
	if req.CrewID != nil {
		assignment.CrewID = *req.CrewID
	}

	if _, err := s.flights.FindByID(ctx, assignment.FlightID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "flight does not exist")
		}
		return nil, appErrors.FromError(err)
	}
	if _, err := s.crews.FindByID(ctx, assignment.CrewID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "crew member does not exist")
		}
		return nil, appErrors.FromError(err)
	}

	if err := s.repo.Update(ctx, assignment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "crew member is already assigned to this flight")
		}
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, id)
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.FromError(err)
	}
	return nil
}
