package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
	"github.com/aerolinkhq/aerolink-api/pkg/response"
)

type airportService interface {
	List(ctx context.Context, filter models.AirportFilter) ([]models.Airport, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Airport, error)
	Create(ctx context.Context, req models.CreateAirportRequest) (*models.Airport, error)
	Update(ctx context.Context, id string, req models.UpdateAirportRequest) (*models.Airport, error)
	Delete(ctx context.Context, id string, force bool) (*models.AirportReferences, error)
}

// AirportHandler exposes airport management endpoints.
type AirportHandler struct {
	airports airportService
}

// NewAirportHandler creates a new instance of AirportHandler.
func NewAirportHandler(airports airportService) *AirportHandler {
	return &AirportHandler{airports: airports}
}

// List godoc
// @Summary List airports
// @Tags airports
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Match name, code or city"
// @Param country query string false "Filter by country"
// @Success 200 {object} response.Envelope{data=[]models.Airport}
// @Router /airports [get]
func (h *AirportHandler) List(c *gin.Context) {
	page, size := parsePagination(c)
	filter := models.AirportFilter{
		Search:    c.Query("search"),
		Country:   c.Query("country"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	airports, pagination, err := h.airports.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, airports, pagination)
}

// Get godoc
// @Summary Get one airport
// @Tags airports
// @Produce json
// @Param id path string true "Airport ID"
// @Success 200 {object} response.Envelope{data=models.Airport}
// @Failure 404 {object} response.Envelope
// @Router /airports/{id} [get]
func (h *AirportHandler) Get(c *gin.Context) {
	airport, err := h.airports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, airport, nil)
}

// Create godoc
// @Summary Register an airport
// @Tags airports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateAirportRequest true "Airport payload"
// @Success 201 {object} response.Envelope{data=models.Airport}
// @Failure 409 {object} response.Envelope
// @Router /airports [post]
func (h *AirportHandler) Create(c *gin.Context) {
	var req models.CreateAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	airport, err := h.airports.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, airport)
}

// Update godoc
// @Summary Update an airport
// @Tags airports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Airport ID"
// @Param payload body models.UpdateAirportRequest true "Fields to update"
// @Success 200 {object} response.Envelope{data=models.Airport}
// @Router /airports/{id} [put]
func (h *AirportHandler) Update(c *gin.Context) {
	var req models.UpdateAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	airport, err := h.airports.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, airport, nil)
}

// Delete godoc
// @Summary Delete an airport
// @Tags airports
// @Security BearerAuth
// @Produce json
// @Param id path string true "Airport ID"
// @Param force query bool false "Cascade dependent flights"
// @Success 200 {object} response.Envelope{data=models.AirportReferences}
// @Failure 409 {object} response.Envelope
// @Router /airports/{id} [delete]
func (h *AirportHandler) Delete(c *gin.Context) {
	refs, err := h.airports.Delete(c.Request.Context(), c.Param("id"), parseForce(c))
	if err != nil {
		if refs != nil {
			// Conflict carries the dependent counts so clients can confirm.
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{Error: appErr, Data: refs})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, refs, nil)
}
