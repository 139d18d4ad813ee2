package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/pkg/config"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail      *models.User
	findByEmailErr   error
	emailTaken       bool
	refreshTokens    map[string]*models.RefreshToken
	auditLogs        []*models.AuditLog
	lastLoginUpdated bool
	revokedAll       bool
	passwordHash     string
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.userByEmail == nil || m.userByEmail.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	return m.emailTaken, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	m.passwordHash = passwordHash
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.refreshTokens == nil {
		m.refreshTokens = make(map[string]*models.RefreshToken)
	}
	if token.ID == "" {
		token.ID = token.Token
	}
	m.refreshTokens[token.Token] = token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := m.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rt, nil
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, token := range m.refreshTokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revokedAll = true
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

type mockAuthCrewRepo struct {
	crew *models.CrewDetail
}

func (m *mockAuthCrewRepo) FindByID(ctx context.Context, userID string) (*models.CrewDetail, error) {
	if m.crew == nil {
		return nil, sql.ErrNoRows
	}
	return m.crew, nil
}

type mockAuthPassengerRepo struct {
	passenger  *models.PassengerDetail
	phoneTaken bool
	created    bool
}

func (m *mockAuthPassengerRepo) FindByID(ctx context.Context, userID string) (*models.PassengerDetail, error) {
	if m.passenger == nil {
		return nil, sql.ErrNoRows
	}
	return m.passenger, nil
}

func (m *mockAuthPassengerRepo) ExistsByPhone(ctx context.Context, phone string, excludeUserID string) (bool, error) {
	return m.phoneTaken, nil
}

func (m *mockAuthPassengerRepo) Create(ctx context.Context, user *models.User, passenger *models.Passenger) error {
	user.ID = "new-user"
	m.created = true
	return nil
}

func newTestAuthService(repo *mockAuthRepo, crews *mockAuthCrewRepo, passengers *mockAuthPassengerRepo) *AuthService {
	return NewAuthService(repo, crews, passengers, config.JWTConfig{
		Secret:            "secret",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
	}, zap.NewNop())
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "123", Email: "user@example.com", PasswordHash: string(password), Active: true, Role: models.RoleAdmin}}
	svc := newTestAuthService(repo, &mockAuthCrewRepo{}, &mockAuthPassengerRepo{})

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "123", res.User.ID)
	assert.True(t, repo.lastLoginUpdated)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)
}

func TestAuthServiceLoginGenericError(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	svc := newTestAuthService(&mockAuthRepo{
		userByEmail: &models.User{ID: "123", Email: "user@example.com", PasswordHash: string(password), Active: true},
	}, &mockAuthCrewRepo{}, &mockAuthPassengerRepo{})

	// Wrong password and unknown email must be indistinguishable.
	_, errWrongPassword := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "nope"})
	require.Error(t, errWrongPassword)

	svcUnknown := newTestAuthService(&mockAuthRepo{}, &mockAuthCrewRepo{}, &mockAuthPassengerRepo{})
	_, errUnknownEmail := svcUnknown.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "nope"})
	require.Error(t, errUnknownEmail)

	assert.Equal(t, appErrors.FromError(errWrongPassword).Message, appErrors.FromError(errUnknownEmail).Message)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(errWrongPassword).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	svc := newTestAuthService(&mockAuthRepo{
		userByEmail: &models.User{ID: "123", Email: "user@example.com", PasswordHash: string(password), Active: false},
	}, &mockAuthCrewRepo{}, &mockAuthPassengerRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginCrewInfo(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	phone := "555-0100"
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "crew-1", Email: "crew@example.com", PasswordHash: string(password), Active: true, Role: models.RoleCrew}}
	crews := &mockAuthCrewRepo{crew: &models.CrewDetail{UserID: "crew-1", Rank: "Captain", FlightHours: 1200.5, Phone: &phone}}
	svc := newTestAuthService(repo, crews, &mockAuthPassengerRepo{})

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "crew@example.com", Password: "password"})
	require.NoError(t, err)
	require.NotNil(t, res.User.Rank)
	assert.Equal(t, "Captain", *res.User.Rank)
	require.NotNil(t, res.User.FlightHours)
	assert.InDelta(t, 1200.5, *res.User.FlightHours, 0.001)
}

func TestAuthServiceSignupConflicts(t *testing.T) {
	passengers := &mockAuthPassengerRepo{}
	svc := newTestAuthService(&mockAuthRepo{emailTaken: true}, &mockAuthCrewRepo{}, passengers)

	req := models.SignupRequest{Email: "dup@example.com", Password: "secret1", FirstName: "A", LastName: "B", Phone: "555-0101"}
	_, err := svc.Signup(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.False(t, passengers.created)

	passengers = &mockAuthPassengerRepo{phoneTaken: true}
	svc = newTestAuthService(&mockAuthRepo{}, &mockAuthCrewRepo{}, passengers)
	_, err = svc.Signup(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.False(t, passengers.created)
}

func TestAuthServiceSignupSuccess(t *testing.T) {
	passengers := &mockAuthPassengerRepo{}
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo, &mockAuthCrewRepo{}, passengers)

	info, err := svc.Signup(context.Background(), models.SignupRequest{
		Email: "new@example.com", Password: "secret1", FirstName: "New", LastName: "User", Phone: "555-0102",
	})
	require.NoError(t, err)
	assert.True(t, passengers.created)
	assert.Equal(t, models.RolePassenger, info.Role)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionSignup, repo.auditLogs[0].Action)
}

func TestAuthServiceRefreshRotation(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "123", Email: "user@example.com", PasswordHash: string(password), Active: true}}
	svc := newTestAuthService(repo, &mockAuthCrewRepo{}, &mockAuthPassengerRepo{})

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The consumed token is revoked and cannot be replayed.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceChangePassword(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "123", Email: "user@example.com", PasswordHash: string(password), Active: true}}
	svc := newTestAuthService(repo, &mockAuthCrewRepo{}, &mockAuthPassengerRepo{})

	err := svc.ChangePassword(context.Background(), "123", models.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newpass1"})
	require.Error(t, err)

	err = svc.ChangePassword(context.Background(), "123", models.ChangePasswordRequest{OldPassword: "oldpass", NewPassword: "newpass1"})
	require.NoError(t, err)
	assert.NotEmpty(t, repo.passwordHash)
	assert.True(t, repo.revokedAll)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.passwordHash), []byte("newpass1")))
}

func TestAuthServiceValidateToken(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "123", Email: "user@example.com", PasswordHash: string(password), Active: true, Role: models.RoleAdmin}}
	svc := newTestAuthService(repo, &mockAuthCrewRepo{}, &mockAuthPassengerRepo{})

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "123", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
