package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aerolinkhq/aerolink-api/internal/models"
)

// ExportRepository tracks asynchronous manifest export jobs.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository creates a new instance of ExportRepository.
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

const exportColumns = `id, flight_id, format, status, file_path, error, requested_by, created_at, updated_at`

// Create inserts a new export job in pending state.
func (r *ExportRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	job.Status = models.ExportPending
	job.CreatedAt = now
	job.UpdatedAt = now

	const query = `INSERT INTO export_jobs (id, flight_id, format, status, file_path, error, requested_by, created_at, updated_at)
        VALUES (:id, :flight_id, :format, :status, :file_path, :error, :requested_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// FindByID returns an export job by identifier.
func (r *ExportRepository) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	query := fmt.Sprintf(`SELECT %s FROM export_jobs WHERE id = $1 LIMIT 1`, exportColumns)
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find export job: %w", err)
	}
	return &job, nil
}

// MarkProcessing transitions a job to processing.
func (r *ExportRepository) MarkProcessing(ctx context.Context, id string) error {
	const query = `UPDATE export_jobs SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.ExportProcessing, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark export processing: %w", err)
	}
	return nil
}

// MarkCompleted records the rendered file path and completes the job.
func (r *ExportRepository) MarkCompleted(ctx context.Context, id, filePath string) error {
	const query = `UPDATE export_jobs SET status = $2, file_path = $3, error = NULL, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.ExportCompleted, filePath, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark export completed: %w", err)
	}
	return nil
}

// MarkFailed records the failure reason.
func (r *ExportRepository) MarkFailed(ctx context.Context, id, reason string) error {
	const query = `UPDATE export_jobs SET status = $2, error = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.ExportFailed, reason, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark export failed: %w", err)
	}
	return nil
}
