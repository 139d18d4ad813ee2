package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aerolinkhq/aerolink-api/internal/middleware"
	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

// claimsFromContext pulls verified JWT claims set by the auth middleware.
func claimsFromContext(c *gin.Context) (*models.JWTClaims, error) {
	raw, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, appErrors.ErrUnauthorized
	}
	claims, ok := raw.(*models.JWTClaims)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

// parsePagination reads page/limit query parameters with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

// parseForce reads the ?force=true cascade flag.
func parseForce(c *gin.Context) bool {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))
	return force
}
