package models

import "time"

// Flight represents a scheduled flight between two airports.
type Flight struct {
	ID                   string    `db:"id" json:"id"`
	OriginAirportID      string    `db:"origin_airport_id" json:"origin_airport_id"`
	DestinationAirportID string    `db:"destination_airport_id" json:"destination_airport_id"`
	DepartureTime        time.Time `db:"departure_time" json:"departure_time"`
	ArrivalTime          time.Time `db:"arrival_time" json:"arrival_time"`
	AircraftID           string    `db:"aircraft_id" json:"aircraft_id"`
	ImagePath            *string   `db:"image_path" json:"image_path,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// FlightDetail joins flight rows with airport and aircraft context for
// listing and detail endpoints.
type FlightDetail struct {
	Flight
	OriginCode      string         `db:"origin_code" json:"origin_code"`
	OriginCity      string         `db:"origin_city" json:"origin_city"`
	DestinationCode string         `db:"destination_code" json:"destination_code"`
	DestinationCity string         `db:"destination_city" json:"destination_city"`
	AircraftModel   string         `db:"aircraft_model" json:"aircraft_model"`
	AircraftStatus  AircraftStatus `db:"aircraft_status" json:"aircraft_status"`
	Capacity        int            `db:"capacity" json:"capacity"`
}

// FlightFilter encapsulates allowed search parameters for listing flights.
// Origin and Destination match airport code or city substrings.
type FlightFilter struct {
	Origin        string
	Destination   string
	DepartureDate *time.Time
	AircraftID    string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// FlightReferences counts dependent rows blocking a flight delete.
type FlightReferences struct {
	Bookings    int `db:"bookings" json:"bookings"`
	Assignments int `db:"assignments" json:"assignments"`
}

// Total returns the combined dependent count.
func (r FlightReferences) Total() int {
	return r.Bookings + r.Assignments
}
