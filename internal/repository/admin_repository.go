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

// AdminRepository provides database access for admin accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new instance of AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminDetailSelect = `SELECT u.id AS user_id, u.email, u.first_name, u.last_name, u.active,
        u.created_at, u.updated_at
        FROM admins a
        JOIN users u ON u.id = a.user_id`

// List returns admins based on filters with total count.
func (r *AdminRepository) List(ctx context.Context, filter models.AdminFilter) ([]models.AdminDetail, int, error) {
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

	query := fmt.Sprintf(`%s%s ORDER BY %s %s LIMIT %d OFFSET %d`, adminDetailSelect, where, column, order, limit, offset)

	var admins []models.AdminDetail
	if err := r.db.SelectContext(ctx, &admins, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list admins: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM admins a JOIN users u ON u.id = a.user_id` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count admins: %w", err)
	}
	return admins, total, nil
}

// FindByID returns an admin by user identifier.
func (r *AdminRepository) FindByID(ctx context.Context, userID string) (*models.AdminDetail, error) {
	query := adminDetailSelect + ` WHERE a.user_id = $1 LIMIT 1`
	var admin models.AdminDetail
	if err := r.db.GetContext(ctx, &admin, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return &admin, nil
}

// Count returns the number of admin accounts.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admins`); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

// Create inserts the user account and admin specialization in one transaction.
func (r *AdminRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Role = models.RoleAdmin

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create admin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const userQuery = `INSERT INTO users (id, email, password_hash, first_name, last_name, role, active, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :first_name, :last_name, :role, :active, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO admins (user_id) VALUES ($1)`, user.ID); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create admin: %w", err)
	}
	return nil
}

// Update persists changed account fields.
func (r *AdminRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET email = :email, first_name = :first_name, last_name = :last_name,
        password_hash = COALESCE(NULLIF(:password_hash, ''), password_hash),
        active = :active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("update admin user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an admin and its user account in one transaction.
func (r *AdminRepository) Delete(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete admin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var result sql.Result
	result, err = tx.ExecContext(ctx, `DELETE FROM admins WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete admin tokens: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM export_jobs WHERE requested_by = $1`, userID); err != nil {
		return fmt.Errorf("delete admin export jobs: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete admin user: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete admin: %w", err)
	}
	return nil
}
