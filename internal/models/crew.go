package models

import "time"

// Crew holds the crew specialization for a user.
type Crew struct {
	UserID      string  `db:"user_id" json:"user_id"`
	Rank        string  `db:"rank" json:"rank"`
	FlightHours float64 `db:"flight_hours" json:"flight_hours"`
	Phone       *string `db:"phone" json:"phone,omitempty"`
}

// CrewDetail joins crew rows with the owning user account.
type CrewDetail struct {
	UserID      string    `db:"user_id" json:"user_id"`
	Email       string    `db:"email" json:"email"`
	FirstName   string    `db:"first_name" json:"fname"`
	LastName    string    `db:"last_name" json:"lname"`
	Active      bool      `db:"active" json:"active"`
	Rank        string    `db:"rank" json:"rank"`
	FlightHours float64   `db:"flight_hours" json:"flight_hours"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CrewFilter encapsulates allowed search parameters for listing crew members.
type CrewFilter struct {
	Search    string
	Rank      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CrewStats summarises a crew member's assignment history. Values are
// derived entirely from stored rows.
type CrewStats struct {
	AssignedFlights  int     `db:"assigned_flights" json:"assigned_flights"`
	CompletedFlights int     `db:"completed_flights" json:"completed_flights"`
	FlightHours      float64 `db:"flight_hours" json:"flight_hours"`
}

// CrewProfile is the crew self-service payload.
type CrewProfile struct {
	CrewDetail
	Stats CrewStats `json:"stats"`
}
