package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/pkg/config"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
	"github.com/aerolinkhq/aerolink-api/pkg/export"
	"github.com/aerolinkhq/aerolink-api/pkg/jobs"
	"github.com/aerolinkhq/aerolink-api/pkg/storage"
)

type exportRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, filePath string) error
	MarkFailed(ctx context.Context, id, reason string) error
}

type exportFlightRepository interface {
	FindByID(ctx context.Context, id string) (*models.FlightDetail, error)
	Manifest(ctx context.Context, flightID string) ([]models.ManifestEntry, error)
}

const exportJobType = "flight_manifest"

type exportPayload struct {
	JobID    string
	FlightID string
	Format   models.ExportFormat
}

// ExportStatusResponse is the polled job state plus a signed download link
// once the file is ready.
type ExportStatusResponse struct {
	models.ExportJob
	DownloadToken string     `json:"download_token,omitempty"`
	DownloadURL   string     `json:"download_url,omitempty"`
	LinkExpiresAt *time.Time `json:"link_expires_at,omitempty"`
}

// ExportService queues flight manifest exports, renders them on background
// workers and serves the results through signed download links.
type ExportService struct {
	repo     exportRepository
	flights  exportFlightRepository
	store    *storage.LocalStorage
	signer   *storage.SignedURLSigner
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	queue    *jobs.Queue
	cfg      config.ExportsConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewExportService creates a new instance of ExportService. Start must be
// called before jobs can be enqueued.
func NewExportService(repo exportRepository, flights exportFlightRepository, store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg config.ExportsConfig, logger *zap.Logger) *ExportService {
	s := &ExportService{
		repo:     repo,
		flights:  flights,
		store:    store,
		signer:   signer,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
	}
	s.queue = jobs.NewQueue("manifest-exports", s.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Enqueue records a pending export job for a flight and hands it to the
// worker pool.
func (s *ExportService) Enqueue(ctx context.Context, flightID string, req models.CreateExportRequest, requestedBy string) (*models.ExportJob, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if !req.Format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
	}

	if _, err := s.flights.FindByID(ctx, flightID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "flight not found")
		}
		return nil, appErrors.FromError(err)
	}

	job := &models.ExportJob{
		FlightID:    flightID,
		Format:      req.Format,
		RequestedBy: requestedBy,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.FromError(err)
	}

	if err := s.queue.Enqueue(jobs.Job{
		ID:      job.ID,
		Type:    exportJobType,
		Payload: exportPayload{JobID: job.ID, FlightID: flightID, Format: req.Format},
	}); err != nil {
		// Leave the row pending; a restart can pick it up manually.
		s.logger.Error("failed to enqueue export job", zap.String("job_id", job.ID), zap.Error(err))
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("export job queued", zap.String("job_id", job.ID), zap.String("flight_id", flightID), zap.String("format", string(req.Format)))
	return job, nil
}

// Status returns the job state. Completed jobs carry a signed download link.
func (s *ExportService) Status(ctx context.Context, jobID string) (*ExportStatusResponse, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.FromError(err)
	}

	resp := &ExportStatusResponse{ExportJob: *job}
	if job.Status == models.ExportCompleted && job.FilePath != nil {
		token, expiresAt, err := s.signer.Generate(job.ID, *job.FilePath)
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		resp.DownloadToken = token
		resp.DownloadURL = fmt.Sprintf("/exports/download?token=%s", token)
		resp.LinkExpiresAt = &expiresAt
	}
	return resp, nil
}

// Download validates a signed token and opens the rendered file.
func (s *ExportService) Download(ctx context.Context, token string) (*os.File, *models.ExportJob, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}

	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, nil, appErrors.FromError(err)
	}
	if job.Status != models.ExportCompleted || job.FilePath == nil || *job.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "export file not available")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "export file not available")
	}
	return file, job, nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for job %s", job.ID)
	}

	if err := s.repo.MarkProcessing(ctx, payload.JobID); err != nil {
		return err
	}

	flight, err := s.flights.FindByID(ctx, payload.FlightID)
	if err != nil {
		return s.fail(ctx, payload.JobID, fmt.Errorf("load flight: %w", err))
	}
	entries, err := s.flights.Manifest(ctx, payload.FlightID)
	if err != nil {
		return s.fail(ctx, payload.JobID, fmt.Errorf("load manifest: %w", err))
	}

	dataset := manifestDataset(entries)
	title := fmt.Sprintf("Manifest %s-%s %s", flight.OriginCode, flight.DestinationCode, flight.DepartureTime.Format("2006-01-02"))

	var rendered []byte
	switch payload.Format {
	case models.ExportCSV:
		rendered, err = s.csv.Render(dataset)
	case models.ExportPDF:
		rendered, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %q", payload.Format)
	}
	if err != nil {
		return s.fail(ctx, payload.JobID, fmt.Errorf("render manifest: %w", err))
	}

	filename := fmt.Sprintf("manifests/%s/%s.%s", payload.FlightID, payload.JobID, payload.Format)
	relPath, err := s.store.Save(filename, rendered)
	if err != nil {
		return s.fail(ctx, payload.JobID, fmt.Errorf("store manifest: %w", err))
	}

	if err := s.repo.MarkCompleted(ctx, payload.JobID, relPath); err != nil {
		return err
	}
	s.logger.Info("export job completed", zap.String("job_id", payload.JobID), zap.String("path", relPath))
	return nil
}

func (s *ExportService) fail(ctx context.Context, jobID string, cause error) error {
	if err := s.repo.MarkFailed(ctx, jobID, cause.Error()); err != nil {
		s.logger.Error("failed to mark export job failed", zap.String("job_id", jobID), zap.Error(err))
	}
	return cause
}

func manifestDataset(entries []models.ManifestEntry) export.Dataset {
	headers := []string{"Seat", "First Name", "Last Name", "Email", "Booked At"}
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, map[string]string{
			"Seat":       entry.SeatNumber,
			"First Name": entry.FirstName,
			"Last Name":  entry.LastName,
			"Email":      entry.Email,
			"Booked At":  entry.BookingDate.Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
