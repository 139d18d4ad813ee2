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

// AirportRepository provides database access for airports, including the
// cascading force delete over dependent flights.
type AirportRepository struct {
	db *sqlx.DB
}

// NewAirportRepository creates a new instance of AirportRepository.
func NewAirportRepository(db *sqlx.DB) *AirportRepository {
	return &AirportRepository{db: db}
}

const airportColumns = `id, name, code, city, country, created_at, updated_at`

// List returns airports based on filters with total count.
func (r *AirportRepository) List(ctx context.Context, filter models.AirportFilter) ([]models.Airport, int, error) {
	base := "FROM airports"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(code) LIKE $%d OR LOWER(city) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Country != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(country) = $%d", len(args)+1))
		args = append(args, strings.ToLower(filter.Country))
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":       "name",
		"code":       "code",
		"city":       "city",
		"country":    "country",
		"created_at": "created_at",
	}
	column, order := sortClause(allowedSorts, filter.SortBy, filter.SortOrder, "code", "ASC")
	limit, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d`, airportColumns, base, column, order, limit, offset)

	var airports []models.Airport
	if err := r.db.SelectContext(ctx, &airports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list airports: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count airports: %w", err)
	}
	return airports, total, nil
}

// FindByID returns an airport by identifier.
func (r *AirportRepository) FindByID(ctx context.Context, id string) (*models.Airport, error) {
	query := fmt.Sprintf(`SELECT %s FROM airports WHERE id = $1 LIMIT 1`, airportColumns)
	var airport models.Airport
	if err := r.db.GetContext(ctx, &airport, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find airport by id: %w", err)
	}
	return &airport, nil
}

// ExistsByCode checks if an airport with the given code exists optionally excluding an ID.
func (r *AirportRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM airports WHERE code = $1"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check airport code: %w", err)
	}
	return true, nil
}

// Create inserts a new airport.
func (r *AirportRepository) Create(ctx context.Context, airport *models.Airport) error {
	if airport.ID == "" {
		airport.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	airport.CreatedAt = now
	airport.UpdatedAt = now

	const query = `INSERT INTO airports (id, name, code, city, country, created_at, updated_at)
        VALUES (:id, :name, :code, :city, :country, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, airport); err != nil {
		return fmt.Errorf("create airport: %w", err)
	}
	return nil
}

// Update persists changed airport fields.
func (r *AirportRepository) Update(ctx context.Context, airport *models.Airport) error {
	airport.UpdatedAt = time.Now().UTC()
	const query = `UPDATE airports SET name = :name, code = :code, city = :city, country = :country, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, airport)
	if err != nil {
		return fmt.Errorf("update airport: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// References counts flights using the airport as origin or destination.
func (r *AirportRepository) References(ctx context.Context, id string) (*models.AirportReferences, error) {
	const query = `SELECT
        COUNT(*) FILTER (WHERE origin_airport_id = $1) AS as_origin,
        COUNT(*) FILTER (WHERE destination_airport_id = $1) AS as_destination
        FROM flights WHERE origin_airport_id = $1 OR destination_airport_id = $1`
	var refs models.AirportReferences
	if err := r.db.GetContext(ctx, &refs, query, id); err != nil {
		return nil, fmt.Errorf("count airport references: %w", err)
	}
	return &refs, nil
}

// Delete removes an airport. With force set, dependent flights and their
// bookings and crew assignments are removed in the same transaction.
func (r *AirportRepository) Delete(ctx context.Context, id string, force bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete airport: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if force {
		const flightMatch = `SELECT id FROM flights WHERE origin_airport_id = $1 OR destination_airport_id = $1`
		if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE flight_id IN (`+flightMatch+`)`, id); err != nil {
			return fmt.Errorf("delete dependent bookings: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM flight_crew WHERE flight_id IN (`+flightMatch+`)`, id); err != nil {
			return fmt.Errorf("delete dependent assignments: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM export_jobs WHERE flight_id IN (`+flightMatch+`)`, id); err != nil {
			return fmt.Errorf("delete dependent export jobs: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM flights WHERE origin_airport_id = $1 OR destination_airport_id = $1`, id); err != nil {
			return fmt.Errorf("delete dependent flights: %w", err)
		}
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, `DELETE FROM airports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete airport: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete airport: %w", err)
	}
	return nil
}
