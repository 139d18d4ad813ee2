package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/internal/service"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
	"github.com/aerolinkhq/aerolink-api/pkg/response"
)

type exportService interface {
	Enqueue(ctx context.Context, flightID string, req models.CreateExportRequest, requestedBy string) (*models.ExportJob, error)
	Status(ctx context.Context, jobID string) (*service.ExportStatusResponse, error)
	Download(ctx context.Context, token string) (*os.File, *models.ExportJob, error)
}

// ExportHandler exposes manifest export endpoints.
type ExportHandler struct {
	exports exportService
	metrics *service.MetricsService
}

// NewExportHandler creates a new instance of ExportHandler.
func NewExportHandler(exports exportService, metrics *service.MetricsService) *ExportHandler {
	return &ExportHandler{exports: exports, metrics: metrics}
}

// Enqueue godoc
// @Summary Queue a manifest export for a flight
// @Tags exports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Flight ID"
// @Param payload body models.CreateExportRequest true "Export format"
// @Success 202 {object} response.Envelope{data=models.ExportJob}
// @Router /flights/{id}/manifest [post]
func (h *ExportHandler) Enqueue(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	job, err := h.exports.Enqueue(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ExportsQueued.Inc()
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Poll an export job
// @Tags exports
// @Security BearerAuth
// @Produce json
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope{data=service.ExportStatusResponse}
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	status, err := h.exports.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a completed export via signed token
// @Tags exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter is required"))
		return
	}

	file, job, err := h.exports.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	filename := fmt.Sprintf("manifest-%s%s", job.FlightID, filepath.Ext(file.Name()))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	contentType := "text/csv"
	if job.Format == models.ExportPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Type", contentType)
	http.ServeContent(c.Writer, c.Request, filename, job.UpdatedAt, file)
}
