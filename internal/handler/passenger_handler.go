package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
	"github.com/aerolinkhq/aerolink-api/pkg/response"
)

type passengerService interface {
	List(ctx context.Context, filter models.PassengerFilter) ([]models.PassengerDetail, *models.Pagination, error)
	Get(ctx context.Context, userID string) (*models.PassengerDetail, error)
	Create(ctx context.Context, req models.CreatePassengerRequest) (*models.PassengerDetail, error)
	Update(ctx context.Context, userID string, req models.UpdatePassengerRequest) (*models.PassengerDetail, error)
	Delete(ctx context.Context, userID string, force bool) (int, error)
}

// PassengerHandler exposes passenger management endpoints for admins.
type PassengerHandler struct {
	passengers passengerService
}

// NewPassengerHandler creates a new instance of PassengerHandler.
func NewPassengerHandler(passengers passengerService) *PassengerHandler {
	return &PassengerHandler{passengers: passengers}
}

// List godoc
// @Summary List passengers
// @Tags passengers
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Match email or name"
// @Success 200 {object} response.Envelope{data=[]models.PassengerDetail}
// @Router /passengers [get]
func (h *PassengerHandler) List(c *gin.Context) {
	page, size := parsePagination(c)
	filter := models.PassengerFilter{
		Search:    c.Query("search"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	passengers, pagination, err := h.passengers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, passengers, pagination)
}

// Get godoc
// @Summary Get one passenger
// @Tags passengers
// @Security BearerAuth
// @Produce json
// @Param id path string true "Passenger user ID"
// @Success 200 {object} response.Envelope{data=models.PassengerDetail}
// @Router /passengers/{id} [get]
func (h *PassengerHandler) Get(c *gin.Context) {
	passenger, err := h.passengers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, passenger, nil)
}

// Create godoc
// @Summary Register a passenger
// @Tags passengers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreatePassengerRequest true "Passenger payload"
// @Success 201 {object} response.Envelope{data=models.PassengerDetail}
// @Router /passengers [post]
func (h *PassengerHandler) Create(c *gin.Context) {
	var req models.CreatePassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	passenger, err := h.passengers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, passenger)
}

// Update godoc
// @Summary Update a passenger
// @Tags passengers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Passenger user ID"
// @Param payload body models.UpdatePassengerRequest true "Fields to update"
// @Success 200 {object} response.Envelope{data=models.PassengerDetail}
// @Router /passengers/{id} [put]
func (h *PassengerHandler) Update(c *gin.Context) {
	var req models.UpdatePassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	passenger, err := h.passengers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, passenger, nil)
}

// Delete godoc
// @Summary Delete a passenger
// @Tags passengers
// @Security BearerAuth
// @Produce json
// @Param id path string true "Passenger user ID"
// @Param force query bool false "Cascade bookings"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /passengers/{id} [delete]
func (h *PassengerHandler) Delete(c *gin.Context) {
	refs, err := h.passengers.Delete(c.Request.Context(), c.Param("id"), parseForce(c))
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrConflict.Code {
			c.JSON(appErr.Status, response.Envelope{Error: appErr, Data: gin.H{"bookings": refs}})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"bookings": refs}, nil)
}
