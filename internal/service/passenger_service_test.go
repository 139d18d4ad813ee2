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

type mockPassengerRepo struct {
	passengers  map[string]*models.PassengerDetail
	phoneTaken  bool
	bookings    int
	updatedUser *models.User
	deleted     bool
	forced      bool
}

func (m *mockPassengerRepo) List(ctx context.Context, filter models.PassengerFilter) ([]models.PassengerDetail, int, error) {
	out := make([]models.PassengerDetail, 0, len(m.passengers))
	for _, p := range m.passengers {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockPassengerRepo) FindByID(ctx context.Context, userID string) (*models.PassengerDetail, error) {
	p, ok := m.passengers[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockPassengerRepo) ExistsByPhone(ctx context.Context, phone string, excludeUserID string) (bool, error) {
	return m.phoneTaken, nil
}

func (m *mockPassengerRepo) Create(ctx context.Context, user *models.User, passenger *models.Passenger) error {
	user.ID = "pax-1"
	if m.passengers == nil {
		m.passengers = make(map[string]*models.PassengerDetail)
	}
	m.passengers[user.ID] = &models.PassengerDetail{
		UserID: user.ID, Email: user.Email, FirstName: user.FirstName, LastName: user.LastName,
		Active: user.Active, Phone: passenger.Phone,
	}
	return nil
}

func (m *mockPassengerRepo) Update(ctx context.Context, user *models.User, passenger *models.Passenger) error {
	if _, ok := m.passengers[user.ID]; !ok {
		return sql.ErrNoRows
	}
	m.updatedUser = user
	m.passengers[user.ID] = &models.PassengerDetail{
		UserID: user.ID, Email: user.Email, FirstName: user.FirstName, LastName: user.LastName,
		Active: user.Active, Phone: passenger.Phone,
	}
	return nil
}

func (m *mockPassengerRepo) BookingCount(ctx context.Context, userID string) (int, error) {
	return m.bookings, nil
}

func (m *mockPassengerRepo) Delete(ctx context.Context, userID string, force bool) error {
	if _, ok := m.passengers[userID]; !ok {
		return sql.ErrNoRows
	}
	delete(m.passengers, userID)
	m.deleted = true
	m.forced = force
	return nil
}

type mockPassengerUserRepo struct {
	emailTaken bool
}

func (m *mockPassengerUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	return m.emailTaken, nil
}

func TestPassengerServiceCreatePhoneConflict(t *testing.T) {
	svc := NewPassengerService(&mockPassengerRepo{phoneTaken: true}, &mockPassengerUserRepo{}, zap.NewNop())

	_, err := svc.Create(context.Background(), models.CreatePassengerRequest{
		Email: "pax@example.com", Password: "secret1", FirstName: "Amy", LastName: "Johnson", Phone: "555-0100",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestPassengerServiceUpdatePassword(t *testing.T) {
	repo := &mockPassengerRepo{passengers: map[string]*models.PassengerDetail{
		"pax-1": {UserID: "pax-1", Email: "pax@example.com"},
	}}
	svc := NewPassengerService(repo, &mockPassengerUserRepo{}, zap.NewNop())

	password := "newsecret"
	_, err := svc.Update(context.Background(), "pax-1", models.UpdatePassengerRequest{Password: &password})
	require.NoError(t, err)
	require.NotNil(t, repo.updatedUser)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updatedUser.PasswordHash), []byte("newsecret")))
}

func TestPassengerServiceUpdateKeepsPasswordWhenUnset(t *testing.T) {
	repo := &mockPassengerRepo{passengers: map[string]*models.PassengerDetail{
		"pax-1": {UserID: "pax-1", Email: "pax@example.com"},
	}}
	svc := NewPassengerService(repo, &mockPassengerUserRepo{}, zap.NewNop())

	name := "Amelia"
	_, err := svc.Update(context.Background(), "pax-1", models.UpdatePassengerRequest{FirstName: &name})
	require.NoError(t, err)
	require.NotNil(t, repo.updatedUser)
	assert.Empty(t, repo.updatedUser.PasswordHash)
}

func TestPassengerServiceDeleteRefusedWhileBooked(t *testing.T) {
	repo := &mockPassengerRepo{
		passengers: map[string]*models.PassengerDetail{"pax-1": {UserID: "pax-1"}},
		bookings:   2,
	}
	svc := NewPassengerService(repo, &mockPassengerUserRepo{}, zap.NewNop())

	refs, err := svc.Delete(context.Background(), "pax-1", false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 2, refs)
	assert.False(t, repo.deleted)

	_, err = svc.Delete(context.Background(), "pax-1", true)
	require.NoError(t, err)
	assert.True(t, repo.forced)
}
