package models

import "time"

// CreateAirportRequest payload for registering an airport.
type CreateAirportRequest struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required,min=3,max=4,alpha"`
	City    string `json:"city" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// UpdateAirportRequest carries partial airport updates. Nil fields are left
// untouched; a payload with no fields set is rejected.
type UpdateAirportRequest struct {
	Name    *string `json:"name,omitempty"`
	Code    *string `json:"code,omitempty" validate:"omitempty,min=3,max=4,alpha"`
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
}

// Empty reports whether no field is set.
func (r UpdateAirportRequest) Empty() bool {
	return r.Name == nil && r.Code == nil && r.City == nil && r.Country == nil
}

// CreateAircraftRequest payload for registering an aircraft.
type CreateAircraftRequest struct {
	Model    string         `json:"model" validate:"required"`
	Capacity int            `json:"capacity" validate:"required,gt=0"`
	Status   AircraftStatus `json:"status" validate:"required"`
}

// UpdateAircraftRequest carries partial aircraft updates.
type UpdateAircraftRequest struct {
	Model    *string         `json:"model,omitempty"`
	Capacity *int            `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Status   *AircraftStatus `json:"status,omitempty"`
}

// Empty reports whether no field is set.
func (r UpdateAircraftRequest) Empty() bool {
	return r.Model == nil && r.Capacity == nil && r.Status == nil
}

// CreateFlightRequest payload for scheduling a flight.
type CreateFlightRequest struct {
	OriginAirportID      string    `json:"origin_airport_id" validate:"required"`
	DestinationAirportID string    `json:"destination_airport_id" validate:"required"`
	DepartureTime        time.Time `json:"departure_time" validate:"required"`
	ArrivalTime          time.Time `json:"arrival_time" validate:"required"`
	AircraftID           string    `json:"aircraft_id" validate:"required"`
}

// UpdateFlightRequest carries partial flight updates.
type UpdateFlightRequest struct {
	OriginAirportID      *string    `json:"origin_airport_id,omitempty"`
	DestinationAirportID *string    `json:"destination_airport_id,omitempty"`
	DepartureTime        *time.Time `json:"departure_time,omitempty"`
	ArrivalTime          *time.Time `json:"arrival_time,omitempty"`
	AircraftID           *string    `json:"aircraft_id,omitempty"`
}

// Empty reports whether no field is set.
func (r UpdateFlightRequest) Empty() bool {
	return r.OriginAirportID == nil && r.DestinationAirportID == nil &&
		r.DepartureTime == nil && r.ArrivalTime == nil && r.AircraftID == nil
}

// CreateCrewRequest payload for onboarding a crew member.
type CreateCrewRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	FirstName   string  `json:"fname" validate:"required"`
	LastName    string  `json:"lname" validate:"required"`
	Rank        string  `json:"rank" validate:"required"`
	FlightHours float64 `json:"flight_hours" validate:"gte=0"`
	Phone       *string `json:"phone_number,omitempty"`
}

// UpdateCrewRequest carries partial crew updates. A non-empty password is
// re-hashed; a nil or empty one leaves the stored hash untouched.
type UpdateCrewRequest struct {
	Email       *string  `json:"email,omitempty" validate:"omitempty,email"`
	Password    *string  `json:"password,omitempty" validate:"omitempty,min=6"`
	FirstName   *string  `json:"fname,omitempty"`
	LastName    *string  `json:"lname,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	Rank        *string  `json:"rank,omitempty"`
	FlightHours *float64 `json:"flight_hours,omitempty" validate:"omitempty,gte=0"`
	Phone       *string  `json:"phone_number,omitempty"`
}

// Empty reports whether no field is set.
func (r UpdateCrewRequest) Empty() bool {
	return r.Email == nil && r.Password == nil && r.FirstName == nil && r.LastName == nil &&
		r.Active == nil && r.Rank == nil && r.FlightHours == nil && r.Phone == nil
}

// CreatePassengerRequest payload for registering a passenger via the admin API.
type CreatePassengerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"fname" validate:"required"`
	LastName  string `json:"lname" validate:"required"`
	Phone     string `json:"phone_number" validate:"required"`
}

// UpdatePassengerRequest carries partial passenger updates. A non-empty
// password is re-hashed; a nil or empty one leaves the stored hash untouched.
type UpdatePassengerRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FirstName *string `json:"fname,omitempty"`
	LastName  *string `json:"lname,omitempty"`
	Active    *bool   `json:"active,omitempty"`
	Phone     *string `json:"phone_number,omitempty"`
}

// Empty reports whether no field is set.
func (r UpdatePassengerRequest) Empty() bool {
	return r.Email == nil && r.Password == nil && r.FirstName == nil && r.LastName == nil &&
		r.Active == nil && r.Phone == nil
}

// CreateAdminRequest payload for registering an admin account.
type CreateAdminRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"fname" validate:"required"`
	LastName  string `json:"lname" validate:"required"`
}

// UpdateAdminRequest carries partial admin updates. A non-empty password is
// re-hashed; a nil or empty one leaves the stored hash untouched.
type UpdateAdminRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FirstName *string `json:"fname,omitempty"`
	LastName  *string `json:"lname,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// Empty reports whether no field is set.
func (r UpdateAdminRequest) Empty() bool {
	return r.Email == nil && r.Password == nil && r.FirstName == nil && r.LastName == nil && r.Active == nil
}

// CreateAssignmentRequest payload for assigning crew to a flight.
type CreateAssignmentRequest struct {
	FlightID string `json:"flight_id" validate:"required"`
	CrewID   string `json:"crew_id" validate:"required"`
}

// UpdateAssignmentRequest carries partial assignment updates.
type UpdateAssignmentRequest struct {
	FlightID *string `json:"flight_id,omitempty"`
	CrewID   *string `json:"crew_id,omitempty"`
}

// Empty reports whether no field is set.
func (r UpdateAssignmentRequest) Empty() bool {
	return r.FlightID == nil && r.CrewID == nil
}

// CreateBookingRequest payload for reserving a seat. PassengerID is only
// honoured for admin callers; everyone else books for themselves. An empty
// seat number falls back to the configured default.
type CreateBookingRequest struct {
	FlightID    string  `json:"flight_id" validate:"required"`
	SeatNumber  string  `json:"seat_number,omitempty"`
	PassengerID string  `json:"passenger_id,omitempty"`
	Phone       *string `json:"phone_number,omitempty"`
}

// CreateExportRequest payload for queueing a manifest export.
type CreateExportRequest struct {
	Format ExportFormat `json:"format" validate:"required"`
}
