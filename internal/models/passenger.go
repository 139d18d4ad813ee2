package models

import "time"

// Passenger holds the passenger specialization for a user. The row may be
// created lazily by the first booking.
type Passenger struct {
	UserID string  `db:"user_id" json:"user_id"`
	Phone  *string `db:"phone" json:"phone,omitempty"`
}

// PassengerDetail joins passenger rows with the owning user account.
type PassengerDetail struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Email     string    `db:"email" json:"email"`
	FirstName string    `db:"first_name" json:"fname"`
	LastName  string    `db:"last_name" json:"lname"`
	Active    bool      `db:"active" json:"active"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PassengerFilter encapsulates allowed search parameters for listing passengers.
type PassengerFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
