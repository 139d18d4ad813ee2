package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
	"github.com/aerolinkhq/aerolink-api/pkg/response"
)

type adminService interface {
	List(ctx context.Context, filter models.AdminFilter) ([]models.AdminDetail, *models.Pagination, error)
	Get(ctx context.Context, userID string) (*models.AdminDetail, error)
	Create(ctx context.Context, req models.CreateAdminRequest) (*models.AdminDetail, error)
	Update(ctx context.Context, userID string, req models.UpdateAdminRequest) (*models.AdminDetail, error)
	Delete(ctx context.Context, userID string) error
}

type userService interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error)
}

// AdminHandler exposes admin account management endpoints.
type AdminHandler struct {
	admins adminService
	users  userService
}

// NewAdminHandler creates a new instance of AdminHandler.
func NewAdminHandler(admins adminService, users userService) *AdminHandler {
	return &AdminHandler{admins: admins, users: users}
}

// List godoc
// @Summary List admins
// @Tags admins
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.AdminDetail}
// @Router /admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	page, size := parsePagination(c)
	filter := models.AdminFilter{
		Search:    c.Query("search"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	admins, pagination, err := h.admins.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admins, pagination)
}

// ListUsers godoc
// @Summary List users across all roles
// @Tags admins
// @Security BearerAuth
// @Produce json
// @Param role query string false "Filter by role"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} response.Envelope{data=[]models.User}
// @Router /users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, size := parsePagination(c)
	filter := models.UserFilter{
		Search:    c.Query("search"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		if !role.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown role"))
			return
		}
		filter.Role = &role
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	users, pagination, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Get godoc
// @Summary Get one admin
// @Tags admins
// @Security BearerAuth
// @Produce json
// @Param id path string true "Admin user ID"
// @Success 200 {object} response.Envelope{data=models.AdminDetail}
// @Router /admins/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	admin, err := h.admins.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admin, nil)
}

// Create godoc
// @Summary Register an admin
// @Tags admins
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateAdminRequest true "Admin payload"
// @Success 201 {object} response.Envelope{data=models.AdminDetail}
// @Router /admins [post]
func (h *AdminHandler) Create(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	admin, err := h.admins.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admin)
}

// Update godoc
// @Summary Update an admin
// @Tags admins
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Admin user ID"
// @Param payload body models.UpdateAdminRequest true "Fields to update"
// @Success 200 {object} response.Envelope{data=models.AdminDetail}
// @Router /admins/{id} [put]
func (h *AdminHandler) Update(c *gin.Context) {
	var req models.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	admin, err := h.admins.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admin, nil)
}

// Delete godoc
// @Summary Delete an admin
// @Tags admins
// @Security BearerAuth
// @Param id path string true "Admin user ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /admins/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.admins.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
