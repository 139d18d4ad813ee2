package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerolinkhq/aerolink-api/internal/models"
)

var userColumnNames = []string{
	"id", "email", "password_hash", "first_name", "last_name", "role", "active",
	"last_login", "created_at", "updated_at",
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userColumnNames).
		AddRow("u1", "ada@example.com", "$2a$10$hash", "Ada", "Lovelace", "passenger", true, nil, now, now)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1 LIMIT 1`).
		WithArgs("ada@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.RolePassenger, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1 LIMIT 1`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryExistsByEmailExcludesID(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM users WHERE email = \$1 AND id <> \$2 LIMIT 1`).
		WithArgs("ada@example.com", "u1").
		WillReturnError(sql.ErrNoRows)

	taken, err := repo.ExistsByEmail(context.Background(), "ada@example.com", "u1")
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListFiltersByRoleAndSearch(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userColumnNames).
		AddRow("u1", "ada@example.com", "$2a$10$hash", "Ada", "Lovelace", "crew", true, nil, now, now)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE 1=1 AND role = \$1 AND \(LOWER\(email\) LIKE \$2 .+\) ORDER BY created_at DESC`).
		WithArgs("crew", "%ada%").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs("crew", "%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	role := models.RoleCrew
	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role, Search: "Ada"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryRefreshTokenLifecycle(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(sqlmock.AnyArg(), "u1", "opaque-token", sqlmock.AnyArg(), false, nil, "127.0.0.1", "tests", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	token := &models.RefreshToken{
		UserID:    "u1",
		Token:     "opaque-token",
		ExpiresAt: time.Now().Add(24 * time.Hour),
		IPAddress: "127.0.0.1",
		UserAgent: "tests",
	}
	require.NoError(t, repo.CreateRefreshToken(context.Background(), token))
	assert.NotEmpty(t, token.ID)

	stored := sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "revoked", "revoked_at", "ip_address", "user_agent", "created_at"}).
		AddRow(token.ID, "u1", "opaque-token", token.ExpiresAt, false, nil, "127.0.0.1", "tests", token.CreatedAt)
	mock.ExpectQuery(`SELECT .+ FROM refresh_tokens WHERE token = \$1 LIMIT 1`).
		WithArgs("opaque-token").
		WillReturnRows(stored)

	found, err := repo.FindRefreshToken(context.Background(), "opaque-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UserID)
	assert.False(t, found.Revoked)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE, revoked_at = \$2 WHERE id = \$1`).
		WithArgs(token.ID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.RevokeRefreshToken(context.Background(), token.ID, time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryRevokeUserRefreshTokens(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE, revoked_at = \$2 WHERE user_id = \$1 AND revoked = FALSE`).
		WithArgs("u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.RevokeUserRefreshTokens(context.Background(), "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	userID := "u1"
	mock.ExpectExec(`INSERT INTO audit_logs`).
		WithArgs(sqlmock.AnyArg(), &userID, "login", "auth", nil, nil, "127.0.0.1", "tests", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	log := &models.AuditLog{UserID: &userID, Action: "login", Resource: "auth", IPAddress: "127.0.0.1", UserAgent: "tests"}
	require.NoError(t, repo.CreateAuditLog(context.Background(), log))
	assert.NotEmpty(t, log.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
