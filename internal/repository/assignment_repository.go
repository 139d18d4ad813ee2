package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aerolinkhq/aerolink-api/internal/models"
)

// AssignmentRepository provides database access for flight crew assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentDetailSelect = `SELECT fc.id, fc.flight_id, fc.crew_id, fc.created_at,
        o.code AS origin_code, d.code AS destination_code, f.departure_time, f.arrival_time,
        u.first_name AS crew_first_name, u.last_name AS crew_last_name, c.rank AS crew_rank
        FROM flight_crew fc
        JOIN flights f ON f.id = fc.flight_id
        JOIN airports o ON o.id = f.origin_airport_id
        JOIN airports d ON d.id = f.destination_airport_id
        JOIN crew_members c ON c.user_id = fc.crew_id
        JOIN users u ON u.id = c.user_id`

// List returns assignments with joined context based on filters with total count.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.FlightID != "" {
		conditions = append(conditions, fmt.Sprintf("fc.flight_id = $%d", len(args)+1))
		args = append(args, filter.FlightID)
	}
	if filter.CrewID != "" {
		conditions = append(conditions, fmt.Sprintf("fc.crew_id = $%d", len(args)+1))
		args = append(args, filter.CrewID)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"departure_time": "f.departure_time",
		"created_at":     "fc.created_at",
	}
	column, order := sortClause(allowedSorts, filter.SortBy, filter.SortOrder, "f.departure_time", "ASC")
	limit, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`%s%s ORDER BY %s %s LIMIT %d OFFSET %d`, assignmentDetailSelect, where, column, order, limit, offset)

	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM flight_crew fc` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}
	return assignments, total, nil
}

// FindByID returns an assignment with joined context.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	query := assignmentDetailSelect + ` WHERE fc.id = $1 LIMIT 1`
	var assignment models.AssignmentDetail
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment by id: %w", err)
	}
	return &assignment, nil
}

// Create inserts a new assignment. The unique (flight_id, crew_id) constraint
// rejects duplicate pairs.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.FlightCrewAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	assignment.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO flight_crew (id, flight_id, crew_id, created_at)
        VALUES (:id, :flight_id, :crew_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update moves an assignment to another flight or crew member. The unique
// (flight_id, crew_id) constraint rejects duplicate pairs.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.FlightCrewAssignment) error {
	const query = `UPDATE flight_crew SET flight_id = :flight_id, crew_id = :crew_id WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, assignment)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM flight_crew WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
