package models

import "time"

// AircraftStatus is an operational status marker. The API only enforces
// membership; no transition rules apply.
type AircraftStatus string

const (
	AircraftActive      AircraftStatus = "Active"
	AircraftMaintenance AircraftStatus = "Maintenance"
	AircraftInactive    AircraftStatus = "Inactive"
	AircraftScheduled   AircraftStatus = "Scheduled"
)

// Valid reports whether the status is a known member of the enum.
func (s AircraftStatus) Valid() bool {
	switch s {
	case AircraftActive, AircraftMaintenance, AircraftInactive, AircraftScheduled:
		return true
	}
	return false
}

// Aircraft represents a plane in the fleet.
type Aircraft struct {
	ID        string         `db:"id" json:"id"`
	Model     string         `db:"model" json:"model"`
	Capacity  int            `db:"capacity" json:"capacity"`
	Status    AircraftStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// AircraftFilter encapsulates allowed search parameters for listing aircraft.
type AircraftFilter struct {
	Model       string
	Status      *AircraftStatus
	MinCapacity *int
	MaxCapacity *int
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
