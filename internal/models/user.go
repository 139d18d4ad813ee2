package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleCrew      UserRole = "crew"
	RolePassenger UserRole = "passenger"
)

// Valid reports whether the role is a known member of the enum.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleCrew, RolePassenger:
		return true
	}
	return false
}

// User represents an application user stored in the users table. Every user
// has exactly one specialization row (admins, crew_members or passengers)
// matching its role.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"fname"`
	LastName     string     `db:"last_name" json:"lname"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPagination normalises page inputs and derives the page count.
func NewPagination(page, size, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	pages := total / size
	if total%size > 0 {
		pages++
	}
	return &Pagination{Page: page, PageSize: size, TotalCount: total, TotalPages: pages}
}
