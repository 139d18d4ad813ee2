package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
	"github.com/aerolinkhq/aerolink-api/pkg/response"
)

type assignmentService interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.AssignmentDetail, error)
	Create(ctx context.Context, req models.CreateAssignmentRequest) (*models.AssignmentDetail, error)
	Update(ctx context.Context, id string, req models.UpdateAssignmentRequest) (*models.AssignmentDetail, error)
	Delete(ctx context.Context, id string) error
}

// AssignmentHandler exposes flight crew rostering endpoints.
type AssignmentHandler struct {
	assignments assignmentService
}

// NewAssignmentHandler creates a new instance of AssignmentHandler.
func NewAssignmentHandler(assignments assignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary List crew assignments
// @Tags assignments
// @Security BearerAuth
// @Produce json
// @Param flight_id query string false "Filter by flight"
// @Param crew_id query string false "Filter by crew member"
// @Success 200 {object} response.Envelope{data=[]models.AssignmentDetail}
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	page, size := parsePagination(c)
	filter := models.AssignmentFilter{
		FlightID:  c.Query("flight_id"),
		CrewID:    c.Query("crew_id"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	assignments, pagination, err := h.assignments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// Get godoc
// @Summary Get one assignment
// @Tags assignments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope{data=models.AssignmentDetail}
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.assignments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Create godoc
// @Summary Assign a crew member to a flight
// @Tags assignments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope{data=models.AssignmentDetail}
// @Failure 409 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Update godoc
// @Summary Move an assignment to another flight or crew member
// @Tags assignments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body models.UpdateAssignmentRequest true "Fields to update"
// @Success 200 {object} response.Envelope{data=models.AssignmentDetail}
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req models.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	assignment, err := h.assignments.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete godoc
// @Summary Remove an assignment
// @Tags assignments
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 204
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
