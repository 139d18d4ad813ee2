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

// AircraftRepository provides database access for the fleet.
type AircraftRepository struct {
	db *sqlx.DB
}

// NewAircraftRepository creates a new instance of AircraftRepository.
func NewAircraftRepository(db *sqlx.DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

const aircraftColumns = `id, model, capacity, status, created_at, updated_at`

// List returns aircraft based on filters with total count.
func (r *AircraftRepository) List(ctx context.Context, filter models.AircraftFilter) ([]models.Aircraft, int, error) {
	base := "FROM aircraft"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Model != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(model) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Model)+"%")
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.MinCapacity != nil {
		conditions = append(conditions, fmt.Sprintf("capacity >= $%d", len(args)+1))
		args = append(args, *filter.MinCapacity)
	}
	if filter.MaxCapacity != nil {
		conditions = append(conditions, fmt.Sprintf("capacity <= $%d", len(args)+1))
		args = append(args, *filter.MaxCapacity)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"model":      "model",
		"capacity":   "capacity",
		"status":     "status",
		"created_at": "created_at",
	}
	column, order := sortClause(allowedSorts, filter.SortBy, filter.SortOrder, "model", "ASC")
	limit, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d`, aircraftColumns, base, column, order, limit, offset)

	var fleet []models.Aircraft
	if err := r.db.SelectContext(ctx, &fleet, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list aircraft: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count aircraft: %w", err)
	}
	return fleet, total, nil
}

// FindByID returns an aircraft by identifier.
func (r *AircraftRepository) FindByID(ctx context.Context, id string) (*models.Aircraft, error) {
	query := fmt.Sprintf(`SELECT %s FROM aircraft WHERE id = $1 LIMIT 1`, aircraftColumns)
	var aircraft models.Aircraft
	if err := r.db.GetContext(ctx, &aircraft, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find aircraft by id: %w", err)
	}
	return &aircraft, nil
}

// Create inserts a new aircraft.
func (r *AircraftRepository) Create(ctx context.Context, aircraft *models.Aircraft) error {
	if aircraft.ID == "" {
		aircraft.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	aircraft.CreatedAt = now
	aircraft.UpdatedAt = now

	const query = `INSERT INTO aircraft (id, model, capacity, status, created_at, updated_at)
        VALUES (:id, :model, :capacity, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, aircraft); err != nil {
		return fmt.Errorf("create aircraft: %w", err)
	}
	return nil
}

// Update persists changed aircraft fields.
func (r *AircraftRepository) Update(ctx context.Context, aircraft *models.Aircraft) error {
	aircraft.UpdatedAt = time.Now().UTC()
	const query = `UPDATE aircraft SET model = :model, capacity = :capacity, status = :status, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, aircraft)
	if err != nil {
		return fmt.Errorf("update aircraft: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// References counts flights scheduled on the aircraft.
func (r *AircraftRepository) References(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM flights WHERE aircraft_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count aircraft references: %w", err)
	}
	return count, nil
}

// Delete removes an aircraft. With force set, dependent flights and their
// bookings and crew assignments are removed in the same transaction.
func (r *AircraftRepository) Delete(ctx context.Context, id string, force bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete aircraft: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if force {
		const flightMatch = `SELECT id FROM flights WHERE aircraft_id = $1`
		if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE flight_id IN (`+flightMatch+`)`, id); err != nil {
			return fmt.Errorf("delete dependent bookings: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM flight_crew WHERE flight_id IN (`+flightMatch+`)`, id); err != nil {
			return fmt.Errorf("delete dependent assignments: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM export_jobs WHERE flight_id IN (`+flightMatch+`)`, id); err != nil {
			return fmt.Errorf("delete dependent export jobs: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM flights WHERE aircraft_id = $1`, id); err != nil {
			return fmt.Errorf("delete dependent flights: %w", err)
		}
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, `DELETE FROM aircraft WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete aircraft: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete aircraft: %w", err)
	}
	return nil
}
