package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
	"github.com/aerolinkhq/aerolink-api/pkg/response"
)

type aircraftService interface {
	List(ctx context.Context, filter models.AircraftFilter) ([]models.Aircraft, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Aircraft, error)
	Create(ctx context.Context, req models.CreateAircraftRequest) (*models.Aircraft, error)
	Update(ctx context.Context, id string, req models.UpdateAircraftRequest) (*models.Aircraft, error)
	Delete(ctx context.Context, id string, force bool) (int, error)
}

// AircraftHandler exposes fleet management endpoints.
type AircraftHandler struct {
	fleet aircraftService
}

// NewAircraftHandler creates a new instance of AircraftHandler.
func NewAircraftHandler(fleet aircraftService) *AircraftHandler {
	return &AircraftHandler{fleet: fleet}
}

// List godoc
// @Summary List aircraft
// @Tags aircraft
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param model query string false "Model substring"
// @Param status query string false "Operational status"
// @Success 200 {object} response.Envelope{data=[]models.Aircraft}
// @Router /aircraft [get]
func (h *AircraftHandler) List(c *gin.Context) {
	page, size := parsePagination(c)
	filter := models.AircraftFilter{
		Model:     c.Query("model"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AircraftStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("min_capacity"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MinCapacity = &v
		}
	}
	if raw := c.Query("max_capacity"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MaxCapacity = &v
		}
	}

	fleet, pagination, err := h.fleet.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fleet, pagination)
}

// Get godoc
// @Summary Get one aircraft
// @Tags aircraft
// @Security BearerAuth
// @Produce json
// @Param id path string true "Aircraft ID"
// @Success 200 {object} response.Envelope{data=models.Aircraft}
// @Router /aircraft/{id} [get]
func (h *AircraftHandler) Get(c *gin.Context) {
	aircraft, err := h.fleet.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aircraft, nil)
}

// Create godoc
// @Summary Register an aircraft
// @Tags aircraft
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateAircraftRequest true "Aircraft payload"
// @Success 201 {object} response.Envelope{data=models.Aircraft}
// @Router /aircraft [post]
func (h *AircraftHandler) Create(c *gin.Context) {
	var req models.CreateAircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	aircraft, err := h.fleet.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, aircraft)
}

// Update godoc
// @Summary Update an aircraft
// @Tags aircraft
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Aircraft ID"
// @Param payload body models.UpdateAircraftRequest true "Fields to update"
// @Success 200 {object} response.Envelope{data=models.Aircraft}
// @Router /aircraft/{id} [put]
func (h *AircraftHandler) Update(c *gin.Context) {
	var req models.UpdateAircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	aircraft, err := h.fleet.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aircraft, nil)
}

// Delete godoc
// @Summary Delete an aircraft
// @Tags aircraft
// @Security BearerAuth
// @Produce json
// @Param id path string true "Aircraft ID"
// @Param force query bool false "Cascade dependent flights"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /aircraft/{id} [delete]
func (h *AircraftHandler) Delete(c *gin.Context) {
	refs, err := h.fleet.Delete(c.Request.Context(), c.Param("id"), parseForce(c))
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrConflict.Code {
			c.JSON(appErr.Status, response.Envelope{Error: appErr, Data: gin.H{"flights": refs}})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"flights": refs}, nil)
}
