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

// BookingRepository provides database access for bookings. Creation runs a
// single transaction that also inserts the passenger specialization row when
// the account has never booked before.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingDetailSelect = `SELECT b.id, b.passenger_id, b.flight_id, b.seat_number, b.booking_date,
        o.code AS origin_code, o.city AS origin_city,
        d.code AS destination_code, d.city AS destination_city,
        f.departure_time, f.arrival_time
        FROM bookings b
        JOIN flights f ON f.id = b.flight_id
        JOIN airports o ON o.id = f.origin_airport_id
        JOIN airports d ON d.id = f.destination_airport_id`

// List returns bookings with joined context based on filters with total count.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.PassengerID != "" {
		conditions = append(conditions, fmt.Sprintf("b.passenger_id = $%d", len(args)+1))
		args = append(args, filter.PassengerID)
	}
	if filter.FlightID != "" {
		conditions = append(conditions, fmt.Sprintf("b.flight_id = $%d", len(args)+1))
		args = append(args, filter.FlightID)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"booking_date":   "b.booking_date",
		"departure_time": "f.departure_time",
		"seat_number":    "b.seat_number",
	}
	column, order := sortClause(allowedSorts, filter.SortBy, filter.SortOrder, "b.booking_date", "DESC")
	limit, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`%s%s ORDER BY %s %s LIMIT %d OFFSET %d`, bookingDetailSelect, where, column, order, limit, offset)

	var bookings []models.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM bookings b` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}
	return bookings, total, nil
}

// FindByID returns a booking with joined context.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.BookingDetail, error) {
	query := bookingDetailSelect + ` WHERE b.id = $1 LIMIT 1`
	var booking models.BookingDetail
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find booking by id: %w", err)
	}
	return &booking, nil
}

// Create runs the booking transaction: the passenger row is inserted when
// missing, then the booking. Either both rows commit or neither does. Seat
// collisions surface as a unique violation from the
// (flight_id, seat_number) constraint.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking, phone *string) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.BookingDate.IsZero() {
		booking.BookingDate = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create booking: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var exists int
	err = tx.GetContext(ctx, &exists, `SELECT 1 FROM passengers WHERE user_id = $1 LIMIT 1`, booking.PassengerID)
	if err == sql.ErrNoRows {
		if _, err = tx.ExecContext(ctx, `INSERT INTO passengers (user_id, phone) VALUES ($1, $2)`, booking.PassengerID, phone); err != nil {
			return fmt.Errorf("create passenger row: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("check passenger row: %w", err)
	}

	const query = `INSERT INTO bookings (id, passenger_id, flight_id, seat_number, booking_date)
        VALUES (:id, :passenger_id, :flight_id, :seat_number, :booking_date)`
	if _, err = tx.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create booking: %w", err)
	}
	return nil
}

// CountByFlight returns the number of bookings on a flight.
func (r *BookingRepository) CountByFlight(ctx context.Context, flightID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE flight_id = $1`, flightID); err != nil {
		return 0, fmt.Errorf("count flight bookings: %w", err)
	}
	return count, nil
}

// Delete removes a booking.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
