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

// CrewRepository provides database access for crew members. A crew member is
// a users row plus a crew_members specialization row, written together.
type CrewRepository struct {
	db *sqlx.DB
}

// NewCrewRepository creates a new instance of CrewRepository.
func NewCrewRepository(db *sqlx.DB) *CrewRepository {
	return &CrewRepository{db: db}
}

const crewDetailSelect = `SELECT u.id AS user_id, u.email, u.first_name, u.last_name, u.active,
        c.rank, c.flight_hours, c.phone, u.created_at, u.updated_at
        FROM crew_members c
        JOIN users u ON u.id = c.user_id`

// List returns crew members based on filters with total count.
func (r *CrewRepository) List(ctx context.Context, filter models.CrewFilter) ([]models.CrewDetail, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.email) LIKE $%d OR LOWER(u.first_name) LIKE $%d OR LOWER(u.last_name) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Rank != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(c.rank) = $%d", len(args)+1))
		args = append(args, strings.ToLower(filter.Rank))
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"last_name":    "u.last_name",
		"rank":         "c.rank",
		"flight_hours": "c.flight_hours",
		"created_at":   "u.created_at",
	}
	column, order := sortClause(allowedSorts, filter.SortBy, filter.SortOrder, "u.last_name", "ASC")
	limit, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`%s%s ORDER BY %s %s LIMIT %d OFFSET %d`, crewDetailSelect, where, column, order, limit, offset)

	var crews []models.CrewDetail
	if err := r.db.SelectContext(ctx, &crews, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list crew: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM crew_members c JOIN users u ON u.id = c.user_id` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count crew: %w", err)
	}
	return crews, total, nil
}

// FindByID returns a crew member by user identifier.
func (r *CrewRepository) FindByID(ctx context.Context, userID string) (*models.CrewDetail, error) {
	query := crewDetailSelect + ` WHERE c.user_id = $1 LIMIT 1`
	var crew models.CrewDetail
	if err := r.db.GetContext(ctx, &crew, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find crew by id: %w", err)
	}
	return &crew, nil
}

// ExistsByPhone checks if a crew member with the phone exists optionally excluding a user ID.
func (r *CrewRepository) ExistsByPhone(ctx context.Context, phone string, excludeUserID string) (bool, error) {
	query := "SELECT 1 FROM crew_members WHERE phone = $1"
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
		return false, fmt.Errorf("check crew phone: %w", err)
	}
	return true, nil
}

// Create inserts the user account and crew specialization in one transaction.
func (r *CrewRepository) Create(ctx context.Context, user *models.User, crew *models.Crew) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	crew.UserID = user.ID
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Role = models.RoleCrew

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create crew: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const userQuery = `INSERT INTO users (id, email, password_hash, first_name, last_name, role, active, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :first_name, :last_name, :role, :active, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create crew user: %w", err)
	}

	const crewQuery = `INSERT INTO crew_members (user_id, rank, flight_hours, phone)
        VALUES (:user_id, :rank, :flight_hours, :phone)`
	if _, err = tx.NamedExecContext(ctx, crewQuery, crew); err != nil {
		return fmt.Errorf("create crew member: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create crew: %w", err)
	}
	return nil
}

// Update persists changed account and specialization fields in one transaction.
func (r *CrewRepository) Update(ctx context.Context, user *models.User, crew *models.Crew) error {
	user.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update crew: %w", err)
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
		return fmt.Errorf("update crew user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	const crewQuery = `UPDATE crew_members SET rank = :rank, flight_hours = :flight_hours, phone = :phone
        WHERE user_id = :user_id`
	if _, err = tx.NamedExecContext(ctx, crewQuery, crew); err != nil {
		return fmt.Errorf("update crew member: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update crew: %w", err)
	}
	return nil
}

// AssignmentCount counts flights the crew member is assigned to.
func (r *CrewRepository) AssignmentCount(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM flight_crew WHERE crew_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("count crew assignments: %w", err)
	}
	return count, nil
}

// Stats derives assignment statistics for a crew member. A flight counts as
// completed once its arrival time has passed.
func (r *CrewRepository) Stats(ctx context.Context, userID string) (*models.CrewStats, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM flight_crew fc WHERE fc.crew_id = $1) AS assigned_flights,
        (SELECT COUNT(*) FROM flight_crew fc JOIN flights f ON f.id = fc.flight_id
            WHERE fc.crew_id = $1 AND f.arrival_time < NOW()) AS completed_flights,
        (SELECT c.flight_hours FROM crew_members c WHERE c.user_id = $1) AS flight_hours`
	var stats models.CrewStats
	if err := r.db.GetContext(ctx, &stats, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("load crew stats: %w", err)
	}
	return &stats, nil
}

// Delete removes a crew member and its user account. With force set, its
// flight assignments are removed in the same transaction.
func (r *CrewRepository) Delete(ctx context.Context, userID string, force bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete crew: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if force {
		if _, err = tx.ExecContext(ctx, `DELETE FROM flight_crew WHERE crew_id = $1`, userID); err != nil {
			return fmt.Errorf("delete crew assignments: %w", err)
		}
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, `DELETE FROM crew_members WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete crew member: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete crew tokens: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM export_jobs WHERE requested_by = $1`, userID); err != nil {
		return fmt.Errorf("delete crew export jobs: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete crew user: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete crew: %w", err)
	}
	return nil
}
