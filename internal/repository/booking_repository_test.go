package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolinkhq/aerolink-api/internal/models"
)

func TestBookingRepositoryCreateFirstBooking(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	// First booking for this account: the passenger row is created inside the
	// same transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM passengers WHERE user_id = \$1 LIMIT 1`).
		WithArgs("pax-1").
		WillReturnError(sql.ErrNoRows)
	phone := "555-0100"
	mock.ExpectExec(`INSERT INTO passengers`).
		WithArgs("pax-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(sqlmock.AnyArg(), "pax-1", "flight-1", "12C", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking := &models.Booking{PassengerID: "pax-1", FlightID: "flight-1", SeatNumber: "12C"}
	err := repo.Create(context.Background(), booking, &phone)
	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.False(t, booking.BookingDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCreateExistingPassenger(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM passengers WHERE user_id = \$1 LIMIT 1`).
		WithArgs("pax-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(sqlmock.AnyArg(), "pax-1", "flight-1", "12C", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.Booking{PassengerID: "pax-1", FlightID: "flight-1", SeatNumber: "12C"}, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCreateSeatCollisionRollsBack(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM passengers WHERE user_id = \$1 LIMIT 1`).
		WithArgs("pax-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_flight_id_seat_number_key"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Booking{PassengerID: "pax-1", FlightID: "flight-1", SeatNumber: "12C"}, nil)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "passenger_id", "flight_id", "seat_number", "booking_date",
		"origin_code", "origin_city", "destination_code", "destination_city",
		"departure_time", "arrival_time",
	}).AddRow("b1", "pax-1", "flight-1", "12C", time.Now(), "LAX", "Los Angeles", "JFK", "New York", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT b.id, b.passenger_id, b.flight_id, b.seat_number, b.booking_date`).
		WithArgs("pax-1").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings b WHERE 1=1 AND b.passenger_id = \$1`).
		WithArgs("pax-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	bookings, total, err := repo.List(context.Background(), models.BookingFilter{PassengerID: "pax-1"})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "LAX", bookings[0].OriginCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCountByFlight(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE flight_id = \$1`).
		WithArgs("flight-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountByFlight(context.Background(), "flight-1")
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
