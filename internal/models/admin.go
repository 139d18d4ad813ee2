package models

import "time"

// Admin holds the admin specialization for a user.
type Admin struct {
	UserID string `db:"user_id" json:"user_id"`
}

// AdminDetail joins admin rows with the owning user account.
type AdminDetail struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Email     string    `db:"email" json:"email"`
	FirstName string    `db:"first_name" json:"fname"`
	LastName  string    `db:"last_name" json:"lname"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AdminFilter encapsulates allowed search parameters for listing admins.
type AdminFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
