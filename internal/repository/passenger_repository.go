package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aerolinkhq/aerolink-api/internal/models"
)

// PassengerRepository provides database access for passengers.
type PassengerRepository struct {
	db *sqlx.DB
}

// NewPassengerRepository creates a new instance of PassengerRepository.
func NewPassengerRepository(db *sqlx.DB) *PassengerRepository {
	return &PassengerRepository{db: db}
}

const passengerDetailSelect = `SELECT u.id AS user_id, u.email, u.first_name, u.last_name, u.active,
        p.phone, u.created_at, u.updated_at
        FROM passengers p
        JOIN users u ON u.id = p.user_id`

// List returns passengers based on filters with total count.
func (r *PassengerRepository) List(ctx context.Context, filter models.PassengerFilter) ([]models.PassengerDetail, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.email) LIKE $%d OR LOWER(u.first_name) LIKE $%d OR LOWER(u.last_name) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"last_name":  "u.last_name",
		"email":      "u.email",
		"created_at": "u.created_at",
	}
	column, order := sortClause(allowedSorts, filter.SortBy, filter.SortOrder, "u.last_name", "ASC")
	limit, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`%s%s ORDER BY %s %s LIMIT %d OFFSET %d`, passengerDetailSelect, where, column, order, limit, offset)

	var passengers []models.PassengerDetail
	if err := r.db.SelectContext(ctx, &passengers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list passengers: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM passengers p JOIN users u ON u.id = p.user_id` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count passengers: %w", err)
	}
	return passengers, total, nil
}

// FindByID returns a passenger by user identifier.
func (r *PassengerRepository) FindByID(ctx context.Context, userID string) (*models.PassengerDetail, error) {
	query := passengerDetailSelect + ` WHERE p.user_id = $1 LIMIT 1`
	var passenger models.PassengerDetail
	if err := r.db.GetContext(ctx, &passenger, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find passenger by id: %w", err)
	}
	return &passenger, nil
}

// ExistsByPhone checks if a passenger with the phone exists optionally excluding a user ID.
func (r *PassengerRepository) ExistsByPhone(ctx context.Context, phone string, excludeUserID string) (bool, error) {
	query := "SELECT 1 FROM passengers WHERE phone = $1"
	args := []interface{}{phone}
	if excludeUserID != "" {
		query += " AND user_id <> $2"
		args = append(args, excludeUserID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check passenger phone: %w", err)
	}
	return true, nil
}

// Create inserts the user account and passenger specialization in one
// transaction. Used by both the admin endpoint and public signup.
func (r *PassengerRepository) Create(ctx context.Context, user *models.User, passenger *models.Passenger) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	passenger.UserID = user.ID
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Role = models.RolePassenger

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create passenger: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const userQuery = `INSERT INTO users (id, email, password_hash, first_name, last_name, role, active, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :first_name, :last_name, :role, :active, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create passenger user: %w", err)
	}

	const passengerQuery = `INSERT INTO passengers (user_id, phone) VALUES (:user_id, :phone)`
	if _, err = tx.NamedExecContext(ctx, passengerQuery, passenger); err != nil {
		return fmt.Errorf("create passenger: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create passenger: %w", err)
	}
	return nil
}

// Update persists changed account and specialization fields in one transaction.
func (r *PassengerRepository) Update(ctx context.Context, user *models.User, passenger *models.Passenger) error {
	user.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update passenger: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const userQuery = `UPDATE users SET email = :email, first_name = :first_name, last_name = :last_name,
        password_hash = COALESCE(NULLIF(:password_hash, ''), password_hash),
        active = :active, updated_at = :updated_at WHERE id = :id`
	var result sql.Result
	result, err = tx.NamedExecContext(ctx, userQuery, user)
	if err != nil {
		return fmt.Errorf("update passenger user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	const passengerQuery = `UPDATE passengers SET phone = :phone WHERE user_id = :user_id`
	if _, err = tx.NamedExecContext(ctx, passengerQuery, passenger); err != nil {
		return fmt.Errorf("update passenger: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update passenger: %w", err)
	}
	return nil
}

// BookingCount counts bookings held by the passenger.
func (r *PassengerRepository) BookingCount(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE passenger_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("count passenger bookings: %w", err)
	}
	return count, nil
}

// Delete removes a passenger and its user account. With force set, its
// bookings are removed in the same transaction.
func (r *PassengerRepository) Delete(ctx context.Context, userID string, force bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete passenger: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if force {
		if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE passenger_id = $1`, userID); err != nil {
			return fmt.Errorf("delete passenger bookings: %w", err)
		}
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, `DELETE FROM passengers WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete passenger: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete passenger tokens: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM export_jobs WHERE requested_by = $1`, userID); err != nil {
		return fmt.Errorf("delete passenger export jobs: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete passenger user: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete passenger: %w", err)
	}
	return nil
}
