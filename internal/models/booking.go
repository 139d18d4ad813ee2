package models

import "time"

// Booking joins one passenger to one flight with a seat number. Seats are
// unique per flight.
type Booking struct {
	ID          string    `db:"id" json:"id"`
	PassengerID string    `db:"passenger_id" json:"passenger_id"`
	FlightID    string    `db:"flight_id" json:"flight_id"`
	SeatNumber  string    `db:"seat_number" json:"seat_number"`
	BookingDate time.Time `db:"booking_date" json:"booking_date"`
}

// BookingDetail joins bookings with flight and route context.
type BookingDetail struct {
	Booking
	OriginCode      string    `db:"origin_code" json:"origin_code"`
	OriginCity      string    `db:"origin_city" json:"origin_city"`
	DestinationCode string    `db:"destination_code" json:"destination_code"`
	DestinationCity string    `db:"destination_city" json:"destination_city"`
	DepartureTime   time.Time `db:"departure_time" json:"departure_time"`
	ArrivalTime     time.Time `db:"arrival_time" json:"arrival_time"`
}

// ManifestEntry is one passenger row on a flight manifest export.
type ManifestEntry struct {
	SeatNumber  string    `db:"seat_number" json:"seat_number"`
	FirstName   string    `db:"first_name" json:"fname"`
	LastName    string    `db:"last_name" json:"lname"`
	Email       string    `db:"email" json:"email"`
	BookingDate time.Time `db:"booking_date" json:"booking_date"`
}

// BookingFilter encapsulates allowed search parameters for listing bookings.
type BookingFilter struct {
	PassengerID string
	FlightID    string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
