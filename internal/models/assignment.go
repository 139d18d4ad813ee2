package models

import "time"

// FlightCrewAssignment links one crew member to one flight. The pair is
// unique.
type FlightCrewAssignment struct {
	ID        string    `db:"id" json:"id"`
	FlightID  string    `db:"flight_id" json:"flight_id"`
	CrewID    string    `db:"crew_id" json:"crew_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AssignmentDetail joins assignments with flight and crew context.
type AssignmentDetail struct {
	FlightCrewAssignment
	OriginCode      string    `db:"origin_code" json:"origin_code"`
	DestinationCode string    `db:"destination_code" json:"destination_code"`
	DepartureTime   time.Time `db:"departure_time" json:"departure_time"`
	ArrivalTime     time.Time `db:"arrival_time" json:"arrival_time"`
	CrewFirstName   string    `db:"crew_first_name" json:"crew_fname"`
	CrewLastName    string    `db:"crew_last_name" json:"crew_lname"`
	CrewRank        string    `db:"crew_rank" json:"crew_rank"`
}

// AssignmentFilter encapsulates allowed search parameters for listing assignments.
type AssignmentFilter struct {
	FlightID  string
	CrewID    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
