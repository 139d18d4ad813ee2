package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type mockAdminRepo struct {
	admins      map[string]*models.AdminDetail
	count       int
	updatedUser *models.User
	deleted     []string
}

func (m *mockAdminRepo) List(ctx context.Context, filter models.AdminFilter) ([]models.AdminDetail, int, error) {
	out := make([]models.AdminDetail, 0, len(m.admins))
	for _, a := range m.admins {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *mockAdminRepo) FindByID(ctx context.Context, userID string) (*models.AdminDetail, error) {
	a, ok := m.admins[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockAdminRepo) Count(ctx context.Context) (int, error) {
	return m.count, nil
}

func (m *mockAdminRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "admin-2"
	if m.admins == nil {
		m.admins = make(map[string]*models.AdminDetail)
	}
	m.admins[user.ID] = &models.AdminDetail{
		UserID: user.ID, Email: user.Email, FirstName: user.FirstName, LastName: user.LastName, Active: user.Active,
	}
	m.count++
	return nil
}

func (m *mockAdminRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.admins[user.ID]; !ok {
		return sql.ErrNoRows
	}
	m.updatedUser = user
	m.admins[user.ID] = &models.AdminDetail{
		UserID: user.ID, Email: user.Email, FirstName: user.FirstName, LastName: user.LastName, Active: user.Active,
	}
	return nil
}

func (m *mockAdminRepo) Delete(ctx context.Context, userID string) error {
	if _, ok := m.admins[userID]; !ok {
		return sql.ErrNoRows
	}
	delete(m.admins, userID)
	m.count--
	m.deleted = append(m.deleted, userID)
	return nil
}

type mockAdminUserRepo struct {
	emailTaken bool
}

func (m *mockAdminUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	return m.emailTaken, nil
}

func TestAdminServiceCreate(t *testing.T) {
	repo := &mockAdminRepo{count: 1}
	svc := NewAdminService(repo, &mockAdminUserRepo{}, zap.NewNop())

	admin, err := svc.Create(context.Background(), models.CreateAdminRequest{
		Email: "ops@example.com", Password: "secret1", FirstName: "Ops", LastName: "Lead",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin-2", admin.UserID)
	assert.True(t, admin.Active)
}

func TestAdminServiceCreateEmailConflict(t *testing.T) {
	svc := NewAdminService(&mockAdminRepo{}, &mockAdminUserRepo{emailTaken: true}, zap.NewNop())

	_, err := svc.Create(context.Background(), models.CreateAdminRequest{
		Email: "dup@example.com", Password: "secret1", FirstName: "A", LastName: "B",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAdminServiceDeleteLastAdminProtected(t *testing.T) {
	repo := &mockAdminRepo{
		admins: map[string]*models.AdminDetail{"admin-1": {UserID: "admin-1"}},
		count:  1,
	}
	svc := NewAdminService(repo, &mockAdminUserRepo{}, zap.NewNop())

	err := svc.Delete(context.Background(), "admin-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "cannot delete the last admin account", appErr.Message)
	assert.Empty(t, repo.deleted)
}

func TestAdminServiceDelete(t *testing.T) {
	repo := &mockAdminRepo{
		admins: map[string]*models.AdminDetail{
			"admin-1": {UserID: "admin-1"},
			"admin-2": {UserID: "admin-2"},
		},
		count: 2,
	}
	svc := NewAdminService(repo, &mockAdminUserRepo{}, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "admin-2"))
	assert.Equal(t, []string{"admin-2"}, repo.deleted)

	err := svc.Delete(context.Background(), "admin-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAdminServiceUpdateEmptyPayload(t *testing.T) {
	svc := NewAdminService(&mockAdminRepo{}, &mockAdminUserRepo{}, zap.NewNop())

	_, err := svc.Update(context.Background(), "admin-1", models.UpdateAdminRequest{})
	require.Error(t, err)
	assert.Equal(t, "no fields to update", appErrors.FromError(err).Message)
}

func TestAdminServiceUpdatePassword(t *testing.T) {
	repo := &mockAdminRepo{admins: map[string]*models.AdminDetail{
		"admin-1": {UserID: "admin-1", Email: "ops@example.com"},
	}}
	svc := NewAdminService(repo, &mockAdminUserRepo{}, zap.NewNop())

	password := "newsecret"
	_, err := svc.Update(context.Background(), "admin-1", models.UpdateAdminRequest{Password: &password})
	require.NoError(t, err)
	require.NotNil(t, repo.updatedUser)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updatedUser.PasswordHash), []byte("newsecret")))

	// Other updates leave the stored hash alone.
	name := "Operations"
	_, err = svc.Update(context.Background(), "admin-1", models.UpdateAdminRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Empty(t, repo.updatedUser.PasswordHash)
}
