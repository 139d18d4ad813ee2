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
	"github.com/aerolinkhq/aerolink-api/pkg/config"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type bookingRepository interface {
	List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.BookingDetail, error)
	Create(ctx context.Context, booking *models.Booking, phone *string) error
	CountByFlight(ctx context.Context, flightID string) (int, error)
	Delete(ctx context.Context, id string) error
}

type bookingFlightRepository interface {
	FindByID(ctx context.Context, id string) (*models.FlightDetail, error)
}

type bookingUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// BookingService implements seat reservation. Creation is a single database
// transaction covering the lazy passenger row and the booking itself.
type BookingService struct {
	repo     bookingRepository
	flights  bookingFlightRepository
	users    bookingUserRepository
	cfg      config.BookingConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(repo bookingRepository, flights bookingFlightRepository, users bookingUserRepository, cfg config.BookingConfig, logger *zap.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		flights:  flights,
		users:    users,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
	}
}

// List returns bookings with pagination metadata.
func (s *BookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, *models.Pagination, error) {
	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return bookings, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one booking. Passengers can only read their own bookings.
func (s *BookingService) Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.BookingDetail, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.FromError(err)
	}
	if claims.Role == models.RolePassenger && booking.PassengerID != claims.UserID {
		return nil, appErrors.ErrForbidden
	}
	return booking, nil
}

// Create reserves a seat. The passenger specialization row is created lazily
// inside the same transaction as the booking, so a failure on either leaves
// no partial state. A seat collision is reported as a conflict.
func (s *BookingService) Create(ctx context.Context, req models.CreateBookingRequest, claims *models.JWTClaims) (*models.BookingDetail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	passengerID := claims.UserID
	if req.PassengerID != "" && req.PassengerID != claims.UserID {
		if claims.Role != models.RoleAdmin {
			return nil, appErrors.ErrForbidden
		}
		passengerID = req.PassengerID
	}

	user, err := s.users.FindByID(ctx, passengerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "passenger account does not exist")
		}
		return nil, appErrors.FromError(err)
	}
	if user.Role != models.RolePassenger {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only passenger accounts can hold bookings")
	}

	flight, err := s.flights.FindByID(ctx, req.FlightID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "flight does not exist")
		}
		return nil, appErrors.FromError(err)
	}

	booked, err := s.repo.CountByFlight(ctx, req.FlightID)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if booked >= flight.Capacity {
		return nil, appErrors.Clone(appErrors.ErrConflict, "flight is fully booked")
	}

	seat := req.SeatNumber
	if seat == "" {
		seat = s.cfg.DefaultSeat
	}

	booking := &models.Booking{
		PassengerID: passengerID,
		FlightID:    req.FlightID,
		SeatNumber:  seat,
	}
	if err := s.repo.Create(ctx, booking, req.Phone); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("seat %s is already booked on this flight", seat))
		}
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("flight_id", booking.FlightID),
		zap.String("seat", booking.SeatNumber))
	return s.repo.FindByID(ctx, booking.ID)
}

// Delete cancels a booking. Passengers can only cancel their own bookings.
func (s *BookingService) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return appErrors.FromError(err)
	}
	if claims.Role == models.RolePassenger && booking.PassengerID != claims.UserID {
		return appErrors.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return appErrors.FromError(err)
	}
	s.logger.Info("booking cancelled", zap.String("booking_id", id))
	return nil
}
