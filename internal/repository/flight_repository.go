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

// FlightRepository provides database access for flights. Reads return joined
// route and aircraft context so list and detail endpoints never fan out.
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new instance of FlightRepository.
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

const flightDetailSelect = `SELECT f.id, f.origin_airport_id, f.destination_airport_id, f.departure_time, f.arrival_time,
        f.aircraft_id, f.image_path, f.created_at, f.updated_at,
        o.code AS origin_code, o.city AS origin_city,
        d.code AS destination_code, d.city AS destination_city,
        a.model AS aircraft_model, a.status AS aircraft_status, a.capacity
        FROM flights f
        JOIN airports o ON o.id = f.origin_airport_id
        JOIN airports d ON d.id = f.destination_airport_id
        JOIN aircraft a ON a.id = f.aircraft_id`

// List returns flights with joined context based on filters with total count.
func (r *FlightRepository) List(ctx context.Context, filter models.FlightFilter) ([]models.FlightDetail, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Origin != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(o.code) LIKE $%d OR LOWER(o.city) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Origin)+"%")
	}
	if filter.Destination != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(d.code) LIKE $%d OR LOWER(d.city) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Destination)+"%")
	}
	if filter.DepartureDate != nil {
		conditions = append(conditions, fmt.Sprintf("f.departure_time::date = $%d::date", len(args)+1))
		args = append(args, *filter.DepartureDate)
	}
	if filter.AircraftID != "" {
		conditions = append(conditions, fmt.Sprintf("f.aircraft_id = $%d", len(args)+1))
		args = append(args, filter.AircraftID)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"departure_time": "f.departure_time",
		"arrival_time":   "f.arrival_time",
		"origin":         "o.code",
		"destination":    "d.code",
		"created_at":     "f.created_at",
	}
	column, order := sortClause(allowedSorts, filter.SortBy, filter.SortOrder, "f.departure_time", "ASC")
	limit, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`%s%s ORDER BY %s %s LIMIT %d OFFSET %d`, flightDetailSelect, where, column, order, limit, offset)

	var flights []models.FlightDetail
	if err := r.db.SelectContext(ctx, &flights, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list flights: %w", err)
	}

	countQuery := `SELECT COUNT(*)
        FROM flights f
        JOIN airports o ON o.id = f.origin_airport_id
        JOIN airports d ON d.id = f.destination_airport_id
        JOIN aircraft a ON a.id = f.aircraft_id` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count flights: %w", err)
	}
	return flights, total, nil
}

// FindByID returns a flight with joined context.
func (r *FlightRepository) FindByID(ctx context.Context, id string) (*models.FlightDetail, error) {
	query := flightDetailSelect + ` WHERE f.id = $1 LIMIT 1`
	var flight models.FlightDetail
	if err := r.db.GetContext(ctx, &flight, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find flight by id: %w", err)
	}
	return &flight, nil
}

// Create inserts a new flight.
func (r *FlightRepository) Create(ctx context.Context, flight *models.Flight) error {
	if flight.ID == "" {
		flight.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	flight.CreatedAt = now
	flight.UpdatedAt = now

	const query = `INSERT INTO flights (id, origin_airport_id, destination_airport_id, departure_time, arrival_time, aircraft_id, image_path, created_at, updated_at)
        VALUES (:id, :origin_airport_id, :destination_airport_id, :departure_time, :arrival_time, :aircraft_id, :image_path, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, flight); err != nil {
		return fmt.Errorf("create flight: %w", err)
	}
	return nil
}

// Update persists changed flight fields.
func (r *FlightRepository) Update(ctx context.Context, flight *models.Flight) error {
	flight.UpdatedAt = time.Now().UTC()
	const query = `UPDATE flights SET origin_airport_id = :origin_airport_id, destination_airport_id = :destination_airport_id,
        departure_time = :departure_time, arrival_time = :arrival_time, aircraft_id = :aircraft_id, image_path = :image_path,
        updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, flight)
	if err != nil {
		return fmt.Errorf("update flight: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetImagePath stores the uploaded image location for a flight.
func (r *FlightRepository) SetImagePath(ctx context.Context, id, path string) error {
	const query = `UPDATE flights SET image_path = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, path, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set flight image: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// References counts bookings and crew assignments attached to the flight.
func (r *FlightRepository) References(ctx context.Context, id string) (*models.FlightReferences, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM bookings WHERE flight_id = $1) AS bookings,
        (SELECT COUNT(*) FROM flight_crew WHERE flight_id = $1) AS assignments`
	var refs models.FlightReferences
	if err := r.db.GetContext(ctx, &refs, query, id); err != nil {
		return nil, fmt.Errorf("count flight references: %w", err)
	}
	return &refs, nil
}

// Delete removes a flight. With force set, its bookings and crew assignments
// are removed in the same transaction. Export jobs for the flight are
// artifacts, not blocking references, so they always go with the flight.
func (r *FlightRepository) Delete(ctx context.Context, id string, force bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete flight: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if force {
		if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE flight_id = $1`, id); err != nil {
			return fmt.Errorf("delete dependent bookings: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM flight_crew WHERE flight_id = $1`, id); err != nil {
			return fmt.Errorf("delete dependent assignments: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM export_jobs WHERE flight_id = $1`, id); err != nil {
		return fmt.Errorf("delete dependent export jobs: %w", err)
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete flight: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete flight: %w", err)
	}
	return nil
}

// Manifest returns the passenger rows for a flight ordered by seat.
func (r *FlightRepository) Manifest(ctx context.Context, flightID string) ([]models.ManifestEntry, error) {
	const query = `SELECT b.seat_number, u.first_name, u.last_name, u.email, b.booking_date
        FROM bookings b
        JOIN passengers p ON p.user_id = b.passenger_id
        JOIN users u ON u.id = p.user_id
        WHERE b.flight_id = $1
        ORDER BY b.seat_number ASC`
	var entries []models.ManifestEntry
	if err := r.db.SelectContext(ctx, &entries, query, flightID); err != nil {
		return nil, fmt.Errorf("load flight manifest: %w", err)
	}
	return entries, nil
}
