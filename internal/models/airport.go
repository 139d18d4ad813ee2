package models

import "time"

// Airport represents an airport reachable by scheduled flights. Codes are
// stored uppercase and are globally unique.
type Airport struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	City      string    `db:"city" json:"city"`
	Country   string    `db:"country" json:"country"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AirportFilter encapsulates allowed search parameters for listing airports.
type AirportFilter struct {
	Search    string
	Country   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// AirportReferences counts flights pointing at an airport, split by role.
type AirportReferences struct {
	AsOrigin      int `db:"as_origin" json:"as_origin"`
	AsDestination int `db:"as_destination" json:"as_destination"`
}

// Total returns the combined reference count.
func (r AirportReferences) Total() int {
	return r.AsOrigin + r.AsDestination
}
