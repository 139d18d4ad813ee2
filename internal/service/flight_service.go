package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/internal/repository"
	"github.com/aerolinkhq/aerolink-api/pkg/config"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type flightRepository interface {
	List(ctx context.Context, filter models.FlightFilter) ([]models.FlightDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.FlightDetail, error)
	Create(ctx context.Context, flight *models.Flight) error
	Update(ctx context.Context, flight *models.Flight) error
	SetImagePath(ctx context.Context, id, path string) error
	References(ctx context.Context, id string) (*models.FlightReferences, error)
	Delete(ctx context.Context, id string, force bool) error
}

type flightAirportRepository interface {
	FindByID(ctx context.Context, id string) (*models.Airport, error)
}

type flightAircraftRepository interface {
	FindByID(ctx context.Context, id string) (*models.Aircraft, error)
}

// FlightCache is the subset of the cache repository used for flight listings.
// A nil cache disables caching entirely.
type FlightCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// FlightService implements flight scheduling and search. Listings are served
// through a read-through cache when one is configured.
type FlightService struct {
	repo     flightRepository
	airports flightAirportRepository
	fleet    flightAircraftRepository
	cache    FlightCache
	cacheCfg config.CacheConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewFlightService creates a new instance of FlightService. cache may be nil.
func NewFlightService(repo flightRepository, airports flightAirportRepository, fleet flightAircraftRepository, cache FlightCache, cacheCfg config.CacheConfig, logger *zap.Logger) *FlightService {
	return &FlightService{
		repo:     repo,
		airports: airports,
		fleet:    fleet,
		cache:    cache,
		cacheCfg: cacheCfg,
		validate: validator.New(),
		logger:   logger,
	}
}

type cachedFlightPage struct {
	Flights []models.FlightDetail `json:"flights"`
	Total   int                   `json:"total"`
}

// List returns flights with pagination metadata.
func (s *FlightService) List(ctx context.Context, filter models.FlightFilter) ([]models.FlightDetail, *models.Pagination, error) {
	if s.cacheEnabled() {
		key := s.listCacheKey(filter)
		var page cachedFlightPage
		if err := s.cache.Get(ctx, key, &page); err == nil {
			return page.Flights, models.NewPagination(filter.Page, filter.PageSize, page.Total), nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("flight cache read failed", zap.Error(err))
		}
	}

	flights, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}

	if s.cacheEnabled() {
		key := s.listCacheKey(filter)
		if err := s.cache.Set(ctx, key, cachedFlightPage{Flights: flights, Total: total}, s.cacheCfg.FlightTTL); err != nil {
			s.logger.Warn("flight cache write failed", zap.Error(err))
		}
	}
	return flights, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one flight with joined context.
func (s *FlightService) Get(ctx context.Context, id string) (*models.FlightDetail, error) {
	flight, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "flight not found")
		}
		return nil, appErrors.FromError(err)
	}
	return flight, nil
}

// Create schedules a new flight after checking that both airports and the
// aircraft exist, the route is not circular, and times are ordered.
func (s *FlightService) Create(ctx context.Context, req models.CreateFlightRequest) (*models.FlightDetail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid flight payload")
	}
	if req.OriginAirportID == req.DestinationAirportID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "origin and destination must differ")
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "arrival time must be after departure time")
	}

	if err := s.checkRoute(ctx, req.OriginAirportID, req.DestinationAirportID, req.AircraftID); err != nil {
		return nil, err
	}

	flight := &models.Flight{
		OriginAirportID:      req.OriginAirportID,
		DestinationAirportID: req.DestinationAirportID,
		DepartureTime:        req.DepartureTime,
		ArrivalTime:          req.ArrivalTime,
		AircraftID:           req.AircraftID,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, appErrors.FromError(err)
	}
	s.invalidateListCache(ctx)
	s.logger.Info("flight created", zap.String("id", flight.ID))
	return s.Get(ctx, flight.ID)
}

// Update applies a partial update to a flight, re-validating the route and
// time ordering against the merged result.
func (s *FlightService) Update(ctx context.Context, id string, req models.UpdateFlightRequest) (*models.FlightDetail, error) {
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "flight not found")
		}
		return nil, appErrors.FromError(err)
	}
	flight := detail.Flight

	if req.OriginAirportID != nil {
		flight.OriginAirportID = *req.OriginAirportID
	}
	if req.DestinationAirportID != nil {
		flight.DestinationAirportID = *req.DestinationAirportID
	}
	if req.DepartureTime != nil {
		flight.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		flight.ArrivalTime = *req.ArrivalTime
	}
	if req.AircraftID != nil {
		flight.AircraftID = *req.AircraftID
	}

	if flight.OriginAirportID == flight.DestinationAirportID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "origin and destination must differ")
	}
	if !flight.ArrivalTime.After(flight.DepartureTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "arrival time must be after departure time")
	}
	if err := s.checkRoute(ctx, flight.OriginAirportID, flight.DestinationAirportID, flight.AircraftID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &flight); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "flight not found")
		}
		return nil, appErrors.FromError(err)
	}
	s.invalidateListCache(ctx)
	return s.Get(ctx, id)
}

// AttachImage stores the uploaded image path on a flight.
func (s *FlightService) AttachImage(ctx context.Context, id, path string) error {
	if err := s.repo.SetImagePath(ctx, id, path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "flight not found")
		}
		return appErrors.FromError(err)
	}
	s.invalidateListCache(ctx)
	return nil
}

// Delete removes a flight, refusing while bookings or crew assignments hang
// off it unless force is set.
func (s *FlightService) Delete(ctx context.Context, id string, force bool) (*models.FlightReferences, error) {
	refs, err := s.repo.References(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if refs.Total() > 0 && !force {
		return refs, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("flight has %d bookings and %d crew assignments; retry with force=true to cascade", refs.Bookings, refs.Assignments))
	}

	if err := s.repo.Delete(ctx, id, force); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "flight not found")
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "flight gained new bookings or assignments; retry with force=true")
		}
		return nil, appErrors.FromError(err)
	}
	s.invalidateListCache(ctx)
	s.logger.Info("flight deleted", zap.String("id", id), zap.Bool("force", force))
	return refs, nil
}

func (s *FlightService) checkRoute(ctx context.Context, originID, destinationID, aircraftID string) error {
	if _, err := s.airports.FindByID(ctx, originID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "origin airport does not exist")
		}
		return appErrors.FromError(err)
	}
	if _, err := s.airports.FindByID(ctx, destinationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "destination airport does not exist")
		}
		return appErrors.FromError(err)
	}
	if _, err := s.fleet.FindByID(ctx, aircraftID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "aircraft does not exist")
		}
		return appErrors.FromError(err)
	}
	return nil
}

func (s *FlightService) cacheEnabled() bool {
	return s.cache != nil && s.cacheCfg.Enabled
}

func (s *FlightService) listCacheKey(filter models.FlightFilter) string {
	date := ""
	if filter.DepartureDate != nil {
		date = filter.DepartureDate.Format("2006-01-02")
	}
	return fmt.Sprintf("flights:list:%s:%s:%s:%s:%d:%d:%s:%s",
		filter.Origin, filter.Destination, date, filter.AircraftID,
		filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
}

func (s *FlightService) invalidateListCache(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.DeletePattern(ctx, "flights:list:*"); err != nil {
		s.logger.Warn("flight cache invalidation failed", zap.Error(err))
	}
}
