package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolinkhq/aerolink-api/internal/middleware"
	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/internal/service"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type bookingServiceMock struct {
	listResp     []models.BookingDetail
	listErr      error
	getResp      *models.BookingDetail
	getErr       error
	createResp   *models.BookingDetail
	createErr    error
	deleteErr    error
	lastFilter   models.BookingFilter
	createCalled bool
}

func (m *bookingServiceMock) List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, *models.Pagination, error) {
	m.lastFilter = filter
	return m.listResp, models.NewPagination(filter.Page, filter.PageSize, len(m.listResp)), m.listErr
}

func (m *bookingServiceMock) Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.BookingDetail, error) {
	return m.getResp, m.getErr
}

func (m *bookingServiceMock) Create(ctx context.Context, req models.CreateBookingRequest, claims *models.JWTClaims) (*models.BookingDetail, error) {
	m.createCalled = true
	return m.createResp, m.createErr
}

func (m *bookingServiceMock) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	return m.deleteErr
}

func newBookingTestHandler(mockSvc *bookingServiceMock) *BookingHandler {
	return NewBookingHandler(mockSvc, service.NewMetricsService(prometheus.NewRegistry()))
}

func TestBookingHandlerMineScopesToCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{
		listResp: []models.BookingDetail{{Booking: models.Booking{ID: "b1", PassengerID: "pax-1"}}},
	}
	handler := newBookingTestHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/bookings/mine", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "pax-1", Role: models.RolePassenger})

	handler.Mine(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pax-1", mockSvc.lastFilter.PassengerID)
}

func TestBookingHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{
		createResp: &models.BookingDetail{Booking: models.Booking{ID: "b1", SeatNumber: "12C"}},
	}
	handler := newBookingTestHandler(mockSvc)

	payload, _ := json.Marshal(models.CreateBookingRequest{FlightID: "flight-1", SeatNumber: "12C"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "pax-1", Role: models.RolePassenger})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.createCalled)
}

func TestBookingHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newBookingTestHandler(&bookingServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(`{"flight_id":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "pax-1", Role: models.RolePassenger})

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{
		createErr: appErrors.Clone(appErrors.ErrConflict, "seat 12C is already booked on this flight"),
	}
	handler := newBookingTestHandler(mockSvc)

	payload, _ := json.Marshal(models.CreateBookingRequest{FlightID: "flight-1", SeatNumber: "12C"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "pax-1", Role: models.RolePassenger})

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandlerCreateMissingClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newBookingTestHandler(&bookingServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(`{}`))
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
