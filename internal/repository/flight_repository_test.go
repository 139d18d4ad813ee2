package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolinkhq/aerolink-api/internal/models"
)

var flightDetailColumns = []string{
	"id", "origin_airport_id", "destination_airport_id", "departure_time", "arrival_time",
	"aircraft_id", "image_path", "created_at", "updated_at",
	"origin_code", "origin_city", "destination_code", "destination_city",
	"aircraft_model", "aircraft_status", "capacity",
}

func flightDetailRow(rows *sqlmock.Rows, id string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "a1", "a2", now, now.Add(5*time.Hour), "ac-1", nil, now, now,
		"LAX", "Los Angeles", "JFK", "New York", "A320", "active", 180)
}

func TestFlightRepositoryListFiltersByOrigin(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewFlightRepository(db)

	rows := flightDetailRow(sqlmock.NewRows(flightDetailColumns), "f1")
	mock.ExpectQuery(`SELECT f.id, .+ FROM flights f .+ WHERE 1=1 AND \(LOWER\(o.code\) LIKE \$1 OR LOWER\(o.city\) LIKE \$1\) ORDER BY f.departure_time ASC`).
		WithArgs("%lax%").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("%lax%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	flights, total, err := repo.List(context.Background(), models.FlightFilter{Origin: "LAX"})
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "LAX", flights[0].OriginCode)
	assert.Equal(t, 180, flights[0].Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewFlightRepository(db)

	mock.ExpectQuery(`SELECT f.id, .+ WHERE f.id = \$1 LIMIT 1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepositorySetImagePath(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewFlightRepository(db)

	mock.ExpectExec(`UPDATE flights SET image_path = \$2`).
		WithArgs("f1", "uploads/flights/f1.png", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetImagePath(context.Background(), "f1", "uploads/flights/f1.png"))

	mock.ExpectExec(`UPDATE flights SET image_path = \$2`).
		WithArgs("missing", "uploads/flights/x.png", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.SetImagePath(context.Background(), "missing", "uploads/flights/x.png")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepositoryDeleteForceCascades(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewFlightRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM bookings WHERE flight_id = \$1`).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM flight_crew WHERE flight_id = \$1`).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM export_jobs WHERE flight_id = \$1`).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM flights WHERE id = \$1`).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "f1", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepositoryDeleteClearsExportJobs(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewFlightRepository(db)

	// Export jobs go with the flight even without force.
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM export_jobs WHERE flight_id = \$1`).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM flights WHERE id = \$1`).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "f1", false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepositoryManifestOrdersBySeat(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewFlightRepository(db)

	booked := time.Now()
	rows := sqlmock.NewRows([]string{"seat_number", "first_name", "last_name", "email", "booking_date"}).
		AddRow("1A", "Ada", "Lovelace", "ada@example.com", booked).
		AddRow("1B", "Alan", "Turing", "alan@example.com", booked)
	mock.ExpectQuery(`SELECT b.seat_number, .+ ORDER BY b.seat_number ASC`).
		WithArgs("f1").
		WillReturnRows(rows)

	entries, err := repo.Manifest(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1A", entries[0].SeatNumber)
	assert.Equal(t, "alan@example.com", entries[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
