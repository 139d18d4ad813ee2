package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aerolinkhq/aerolink-api/internal/models"
	appErrors "github.com/aerolinkhq/aerolink-api/pkg/errors"
)

type mockAirportRepo struct {
	airports   map[string]*models.Airport
	codeTaken  bool
	references models.AirportReferences
	deleteErr  error
	deleted    bool
	forced     bool
}

func (m *mockAirportRepo) List(ctx context.Context, filter models.AirportFilter) ([]models.Airport, int, error) {
	out := make([]models.Airport, 0, len(m.airports))
	for _, a := range m.airports {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *mockAirportRepo) FindByID(ctx context.Context, id string) (*models.Airport, error) {
	a, ok := m.airports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockAirportRepo) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	return m.codeTaken, nil
}

func (m *mockAirportRepo) Create(ctx context.Context, airport *models.Airport) error {
	airport.ID = "airport-1"
	if m.airports == nil {
		m.airports = make(map[string]*models.Airport)
	}
	m.airports[airport.ID] = airport
	return nil
}

func (m *mockAirportRepo) Update(ctx context.Context, airport *models.Airport) error {
	if _, ok := m.airports[airport.ID]; !ok {
		return sql.ErrNoRows
	}
	m.airports[airport.ID] = airport
	return nil
}

func (m *mockAirportRepo) References(ctx context.Context, id string) (*models.AirportReferences, error) {
	refs := m.references
	return &refs, nil
}

func (m *mockAirportRepo) Delete(ctx context.Context, id string, force bool) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.airports[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.airports, id)
	m.deleted = true
	m.forced = force
	return nil
}

func TestAirportServiceCreateNormalisesCode(t *testing.T) {
	repo := &mockAirportRepo{}
	svc := NewAirportService(repo, zap.NewNop())

	airport, err := svc.Create(context.Background(), models.CreateAirportRequest{
		Name: " Los Angeles International ", Code: "lax", City: "Los Angeles", Country: "USA",
	})
	require.NoError(t, err)
	assert.Equal(t, "LAX", airport.Code)
	assert.Equal(t, "Los Angeles International", airport.Name)
}

func TestAirportServiceCreateCodeConflict(t *testing.T) {
	svc := NewAirportService(&mockAirportRepo{codeTaken: true}, zap.NewNop())

	_, err := svc.Create(context.Background(), models.CreateAirportRequest{
		Name: "Duplicate", Code: "LAX", City: "Los Angeles", Country: "USA",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "LAX")
}

func TestAirportServiceCreateInvalidCode(t *testing.T) {
	svc := NewAirportService(&mockAirportRepo{}, zap.NewNop())

	_, err := svc.Create(context.Background(), models.CreateAirportRequest{
		Name: "Bad Code", Code: "L4", City: "Nowhere", Country: "USA",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAirportServiceUpdateEmptyPayload(t *testing.T) {
	svc := NewAirportService(&mockAirportRepo{}, zap.NewNop())

	_, err := svc.Update(context.Background(), "airport-1", models.UpdateAirportRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "no fields to update", appErr.Message)
}

func TestAirportServiceUpdatePartial(t *testing.T) {
	repo := &mockAirportRepo{airports: map[string]*models.Airport{
		"airport-1": {ID: "airport-1", Name: "Old Name", Code: "LAX", City: "Los Angeles", Country: "USA"},
	}}
	svc := NewAirportService(repo, zap.NewNop())

	name := "New Name"
	airport, err := svc.Update(context.Background(), "airport-1", models.UpdateAirportRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", airport.Name)
	assert.Equal(t, "LAX", airport.Code)
}

func TestAirportServiceDeleteRefusedWithoutForce(t *testing.T) {
	repo := &mockAirportRepo{
		airports:   map[string]*models.Airport{"airport-1": {ID: "airport-1", Code: "LAX"}},
		references: models.AirportReferences{AsOrigin: 2, AsDestination: 1},
	}
	svc := NewAirportService(repo, zap.NewNop())

	refs, err := svc.Delete(context.Background(), "airport-1", false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.NotNil(t, refs)
	assert.Equal(t, 3, refs.Total())
	assert.False(t, repo.deleted)

	_, err = svc.Delete(context.Background(), "airport-1", true)
	require.NoError(t, err)
	assert.True(t, repo.deleted)
	assert.True(t, repo.forced)
}

func TestAirportServiceDeleteRaceSurfacesConflict(t *testing.T) {
	// A flight created between the reference check and the delete fails the
	// foreign key; the caller sees a conflict, not a 500.
	repo := &mockAirportRepo{
		airports:  map[string]*models.Airport{"airport-1": {ID: "airport-1", Code: "LAX"}},
		deleteErr: &pq.Error{Code: "23503", Constraint: "flights_origin_airport_id_fkey"},
	}
	svc := NewAirportService(repo, zap.NewNop())

	_, err := svc.Delete(context.Background(), "airport-1", false)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "force=true")
}

func TestAirportServiceDeleteUnreferenced(t *testing.T) {
	repo := &mockAirportRepo{airports: map[string]*models.Airport{"airport-1": {ID: "airport-1", Code: "LAX"}}}
	svc := NewAirportService(repo, zap.NewNop())

	_, err := svc.Delete(context.Background(), "airport-1", false)
	require.NoError(t, err)
	assert.True(t, repo.deleted)
	assert.False(t, repo.forced)
}
