package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/internal/service"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
	"github.com/aerolinkhq/aerolink-api/pkg/response"
)

type bookingService interface {
	List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, *models.Pagination, error)
	Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.BookingDetail, error)
	Create(ctx context.Context, req models.CreateBookingRequest, claims *models.JWTClaims) (*models.BookingDetail, error)
	Delete(ctx context.Context, id string, claims *models.JWTClaims) error
}

// BookingHandler exposes seat reservation endpoints.
type BookingHandler struct {
	bookings bookingService
	metrics  *service.MetricsService
}

// NewBookingHandler creates a new instance of BookingHandler.
func NewBookingHandler(bookings bookingService, metrics *service.MetricsService) *BookingHandler {
	return &BookingHandler{bookings: bookings, metrics: metrics}
}

// List godoc
// @Summary List bookings
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param flight_id query string false "Filter by flight"
// @Param passenger_id query string false "Filter by passenger"
// @Success 200 {object} response.Envelope{data=[]models.BookingDetail}
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	page, size := parsePagination(c)
	filter := models.BookingFilter{
		PassengerID: c.Query("passenger_id"),
		FlightID:    c.Query("flight_id"),
		Page:        page,
		PageSize:    size,
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
	}

	bookings, pagination, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, pagination)
}

// Mine godoc
// @Summary List the caller's own bookings
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.BookingDetail}
// @Router /bookings/mine [get]
func (h *BookingHandler) Mine(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, size := parsePagination(c)
	filter := models.BookingFilter{
		PassengerID: claims.UserID,
		Page:        page,
		PageSize:    size,
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
	}

	bookings, pagination, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, pagination)
}

// Get godoc
// @Summary Get one booking
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope{data=models.BookingDetail}
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	booking, err := h.bookings.Get(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// Create godoc
// @Summary Reserve a seat
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope{data=models.BookingDetail}
// @Failure 409 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), req, claims)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrConflict.Code {
			h.metrics.BookingConflicts.Inc()
		}
		response.Error(c, err)
		return
	}
	h.metrics.BookingsCreated.Inc()
	response.Created(c, booking)
}

// Delete godoc
// @Summary Cancel a booking
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Delete(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.bookings.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
