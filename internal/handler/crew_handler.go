package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
	"github.com/aerolinkhq/aerolink-api/pkg/response"
)

type crewService interface {
	List(ctx context.Context, filter models.CrewFilter) ([]models.CrewDetail, *models.Pagination, error)
	Get(ctx context.Context, userID string) (*models.CrewDetail, error)
	Profile(ctx context.Context, userID string) (*models.CrewProfile, error)
	Create(ctx context.Context, req models.CreateCrewRequest) (*models.CrewDetail, error)
	Update(ctx context.Context, userID string, req models.UpdateCrewRequest) (*models.CrewDetail, error)
	Delete(ctx context.Context, userID string, force bool) (int, error)
}

// CrewHandler exposes crew roster endpoints plus the crew self-service
// profile.
type CrewHandler struct {
	crews crewService
}

// NewCrewHandler creates a new instance of CrewHandler.
func NewCrewHandler(crews crewService) *CrewHandler {
	return &CrewHandler{crews: crews}
}

// List godoc
// @Summary List crew members
// @Tags crew
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Match email or name"
// @Param rank query string false "Filter by rank"
// @Success 200 {object} response.Envelope{data=[]models.CrewDetail}
// @Router /crew [get]
func (h *CrewHandler) List(c *gin.Context) {
	page, size := parsePagination(c)
	filter := models.CrewFilter{
		Search:    c.Query("search"),
		Rank:      c.Query("rank"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	crews, pagination, err := h.crews.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, crews, pagination)
}

// Get godoc
// @Summary Get one crew member
// @Tags crew
// @Security BearerAuth
// @Produce json
// @Param id path string true "Crew user ID"
// @Success 200 {object} response.Envelope{data=models.CrewDetail}
// @Router /crew/{id} [get]
func (h *CrewHandler) Get(c *gin.Context) {
	crew, err := h.crews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, crew, nil)
}

// Profile godoc
// @Summary Return the calling crew member's profile with stats
// @Tags crew
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope{data=models.CrewProfile}
// @Router /crew/profile [get]
func (h *CrewHandler) Profile(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	profile, err := h.crews.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Create godoc
// @Summary Onboard a crew member
// @Tags crew
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateCrewRequest true "Crew payload"
// @Success 201 {object} response.Envelope{data=models.CrewDetail}
// @Router /crew [post]
func (h *CrewHandler) Create(c *gin.Context) {
	var req models.CreateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	crew, err := h.crews.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, crew)
}

// Update godoc
// @Summary Update a crew member
// @Tags crew
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Crew user ID"
// @Param payload body models.UpdateCrewRequest true "Fields to update"
// @Success 200 {object} response.Envelope{data=models.CrewDetail}
// @Router /crew/{id} [put]
func (h *CrewHandler) Update(c *gin.Context) {
	var req models.UpdateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	crew, err := h.crews.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, crew, nil)
}

// Delete godoc
// @Summary Delete a crew member
// @Tags crew
// @Security BearerAuth
// @Produce json
// @Param id path string true "Crew user ID"
// @Param force query bool false "Cascade flight assignments"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /crew/{id} [delete]
func (h *CrewHandler) Delete(c *gin.Context) {
	refs, err := h.crews.Delete(c.Request.Context(), c.Param("id"), parseForce(c))
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrConflict.Code {
			c.JSON(appErr.Status, response.Envelope{Error: appErr, Data: gin.H{"assignments": refs}})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"assignments": refs}, nil)
}
