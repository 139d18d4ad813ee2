package models

import "time"

// Export job lifecycle states.
type ExportStatus string

const (
	ExportPending    ExportStatus = "pending"
	ExportProcessing ExportStatus = "processing"
	ExportCompleted  ExportStatus = "completed"
	ExportFailed     ExportStatus = "failed"
)

// Export output formats.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// Valid reports whether the format is supported.
func (f ExportFormat) Valid() bool {
	return f == ExportCSV || f == ExportPDF
}

// ExportJob tracks an asynchronous flight manifest export.
type ExportJob struct {
	ID          string       `db:"id" json:"id"`
	FlightID    string       `db:"flight_id" json:"flight_id"`
	Format      ExportFormat `db:"format" json:"format"`
	Status      ExportStatus `db:"status" json:"status"`
	FilePath    *string      `db:"file_path" json:"-"`
	Error       *string      `db:"error" json:"error,omitempty"`
	RequestedBy string       `db:"requested_by" json:"requested_by"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}
