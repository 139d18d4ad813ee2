package handler

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/pkg/config"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
	"github.com/aerolinkhq/aerolink-api/pkg/response"
	"github.com/aerolinkhq/aerolink-api/pkg/storage"
)

type flightService interface {
	List(ctx context.Context, filter models.FlightFilter) ([]models.FlightDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.FlightDetail, error)
	Create(ctx context.Context, req models.CreateFlightRequest) (*models.FlightDetail, error)
	Update(ctx context.Context, id string, req models.UpdateFlightRequest) (*models.FlightDetail, error)
	AttachImage(ctx context.Context, id, path string) error
	Delete(ctx context.Context, id string, force bool) (*models.FlightReferences, error)
}

// FlightHandler exposes flight scheduling and search endpoints.
type FlightHandler struct {
	flights flightService
	uploads *storage.LocalStorage
	cfg     config.UploadsConfig
}

// NewFlightHandler creates a new instance of FlightHandler.
func NewFlightHandler(flights flightService, uploads *storage.LocalStorage, cfg config.UploadsConfig) *FlightHandler {
	return &FlightHandler{flights: flights, uploads: uploads, cfg: cfg}
}

// List godoc
// @Summary List flights
// @Tags flights
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param origin query string false "Origin code or city substring"
// @Param destination query string false "Destination code or city substring"
// @Param date query string false "Departure date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=[]models.FlightDetail}
// @Router /flights [get]
func (h *FlightHandler) List(c *gin.Context) {
	page, size := parsePagination(c)
	filter := models.FlightFilter{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		AircraftID:  c.Query("aircraft_id"),
		Page:        page,
		PageSize:    size,
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD"))
			return
		}
		filter.DepartureDate = &date
	}

	flights, pagination, err := h.flights.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, flights, pagination)
}

// Get godoc
// @Summary Get one flight
// @Tags flights
// @Produce json
// @Param id path string true "Flight ID"
// @Success 200 {object} response.Envelope{data=models.FlightDetail}
// @Failure 404 {object} response.Envelope
// @Router /flights/{id} [get]
func (h *FlightHandler) Get(c *gin.Context) {
	flight, err := h.flights.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, flight, nil)
}

// Create godoc
// @Summary Schedule a flight
// @Tags flights
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateFlightRequest true "Flight payload"
// @Success 201 {object} response.Envelope{data=models.FlightDetail}
// @Router /flights [post]
func (h *FlightHandler) Create(c *gin.Context) {
	var req models.CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	flight, err := h.flights.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, flight)
}

// Update godoc
// @Summary Update a flight
// @Tags flights
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Flight ID"
// @Param payload body models.UpdateFlightRequest true "Fields to update"
// @Success 200 {object} response.Envelope{data=models.FlightDetail}
// @Router /flights/{id} [put]
func (h *FlightHandler) Update(c *gin.Context) {
	var req models.UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	flight, err := h.flights.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, flight, nil)
}

// UploadImage godoc
// @Summary Attach an image to a flight
// @Tags flights
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Flight ID"
// @Param image formData file true "Flight image"
// @Success 200 {object} response.Envelope
// @Router /flights/{id}/image [post]
func (h *FlightHandler) UploadImage(c *gin.Context) {
	id := c.Param("id")
	file, err := c.FormFile("image")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "image file is required"))
		return
	}
	if file.Size > h.cfg.MaxFileSizeBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("image exceeds the %d byte limit", h.cfg.MaxFileSizeBytes)))
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !h.extAllowed(ext) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %s is not allowed", ext)))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.FromError(err))
		return
	}
	defer src.Close() //nolint:errcheck

	filename := fmt.Sprintf("flights/%s/%s%s", id, uuid.NewString(), ext)
	relPath, err := h.uploads.SaveStream(filename, src)
	if err != nil {
		response.Error(c, appErrors.FromError(err))
		return
	}

	if err := h.flights.AttachImage(c.Request.Context(), id, relPath); err != nil {
		// The flight row wasn't updated; don't leave the orphan on disk.
		_ = h.uploads.Delete(relPath)
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"image_path": relPath}, nil)
}

// Delete godoc
// @Summary Delete a flight
// @Tags flights
// @Security BearerAuth
// @Produce json
// @Param id path string true "Flight ID"
// @Param force query bool false "Cascade bookings and assignments"
// @Success 200 {object} response.Envelope{data=models.FlightReferences}
// @Failure 409 {object} response.Envelope
// @Router /flights/{id} [delete]
func (h *FlightHandler) Delete(c *gin.Context) {
	refs, err := h.flights.Delete(c.Request.Context(), c.Param("id"), parseForce(c))
	if err != nil {
		if refs != nil {
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{Error: appErr, Data: refs})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, refs, nil)
}

func (h *FlightHandler) extAllowed(ext string) bool {
	if len(h.cfg.AllowedExts) == 0 {
		return false
	}
	for _, allowed := range h.cfg.AllowedExts {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}
