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

type mockAssignmentRepo struct {
	assignments map[string]*models.AssignmentDetail
	createErr   error
	updateErr   error
	updated     *models.FlightCrewAssignment
	deleted     []string
}

func (m *mockAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error) {
	out := make([]models.AssignmentDetail, 0, len(m.assignments))
	for _, a := range m.assignments {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *mockAssignmentRepo) FindByID(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockAssignmentRepo) Create(ctx context.Context, assignment *models.FlightCrewAssignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	assignment.ID = "assign-1"
	if m.assignments == nil {
		m.assignments = make(map[string]*models.AssignmentDetail)
	}
	m.assignments[assignment.ID] = &models.AssignmentDetail{FlightCrewAssignment: *assignment}
	return nil
}

func (m *mockAssignmentRepo) Update(ctx context.Context, assignment *models.FlightCrewAssignment) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.assignments[assignment.ID]
	if !ok {
		return sql.ErrNoRows
	}
	m.updated = assignment
	existing.FlightID = assignment.FlightID
	existing.CrewID = assignment.CrewID
	return nil
}

func (m *mockAssignmentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.assignments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.assignments, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockAssignmentFlightRepo struct {
	flight *models.FlightDetail
}

func (m *mockAssignmentFlightRepo) FindByID(ctx context.Context, id string) (*models.FlightDetail, error) {
	if m.flight == nil || m.flight.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.flight, nil
}

type mockAssignmentCrewRepo struct {
	crew *models.CrewDetail
}

func (m *mockAssignmentCrewRepo) FindByID(ctx context.Context, userID string) (*models.CrewDetail, error) {
	if m.crew == nil || m.crew.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return m.crew, nil
}

func newTestAssignmentService(repo *mockAssignmentRepo) *AssignmentService {
	flights := &mockAssignmentFlightRepo{flight: &models.FlightDetail{Flight: models.Flight{ID: "flight-1"}}}
	crews := &mockAssignmentCrewRepo{crew: &models.CrewDetail{UserID: "crew-1", Rank: "Captain"}}
	return NewAssignmentService(repo, flights, crews, zap.NewNop())
}

func TestAssignmentServiceCreate(t *testing.T) {
	repo := &mockAssignmentRepo{}
	svc := newTestAssignmentService(repo)

	assignment, err := svc.Create(context.Background(), models.CreateAssignmentRequest{FlightID: "flight-1", CrewID: "crew-1"})
	require.NoError(t, err)
	assert.Equal(t, "assign-1", assignment.ID)
	assert.Equal(t, "crew-1", assignment.CrewID)
}

func TestAssignmentServiceCreateMissingReferences(t *testing.T) {
	svc := newTestAssignmentService(&mockAssignmentRepo{})

	_, err := svc.Create(context.Background(), models.CreateAssignmentRequest{FlightID: "ghost", CrewID: "crew-1"})
	require.Error(t, err)
	assert.Equal(t, "flight does not exist", appErrors.FromError(err).Message)

	_, err = svc.Create(context.Background(), models.CreateAssignmentRequest{FlightID: "flight-1", CrewID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, "crew member does not exist", appErrors.FromError(err).Message)
}

func TestAssignmentServiceCreateDuplicatePair(t *testing.T) {
	repo := &mockAssignmentRepo{createErr: &pq.Error{Code: "23505", Constraint: "flight_crew_flight_id_crew_id_key"}}
	svc := newTestAssignmentService(repo)

	_, err := svc.Create(context.Background(), models.CreateAssignmentRequest{FlightID: "flight-1", CrewID: "crew-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "crew member is already assigned to this flight", appErr.Message)
}

func TestAssignmentServiceUpdate(t *testing.T) {
	repo := &mockAssignmentRepo{assignments: map[string]*models.AssignmentDetail{
		"assign-1": {FlightCrewAssignment: models.FlightCrewAssignment{ID: "assign-1", FlightID: "flight-1", CrewID: "crew-2"}},
	}}
	svc := newTestAssignmentService(repo)

	crewID := "crew-1"
	assignment, err := svc.Update(context.Background(), "assign-1", models.UpdateAssignmentRequest{CrewID: &crewID})
	require.NoError(t, err)
	assert.Equal(t, "crew-1", assignment.CrewID)
	assert.Equal(t, "flight-1", assignment.FlightID)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "flight-1", repo.updated.FlightID)
}

func TestAssignmentServiceUpdateEmptyPayload(t *testing.T) {
	svc := newTestAssignmentService(&mockAssignmentRepo{})

	_, err := svc.Update(context.Background(), "assign-1", models.UpdateAssignmentRequest{})
	require.Error(t, err)
	assert.Equal(t, "no fields to update", appErrors.FromError(err).Message)
}

func TestAssignmentServiceUpdateMissingReferences(t *testing.T) {
	repo := &mockAssignmentRepo{assignments: map[string]*models.AssignmentDetail{
		"assign-1": {FlightCrewAssignment: models.FlightCrewAssignment{ID: "assign-1", FlightID: "flight-1", CrewID: "crew-1"}},
	}}
	svc := newTestAssignmentService(repo)

	ghost := "ghost"
	_, err := svc.Update(context.Background(), "assign-1", models.UpdateAssignmentRequest{FlightID: &ghost})
	require.Error(t, err)
	assert.Equal(t, "flight does not exist", appErrors.FromError(err).Message)

	_, err = svc.Update(context.Background(), "assign-1", models.UpdateAssignmentRequest{CrewID: &ghost})
	require.Error(t, err)
	assert.Equal(t, "crew member does not exist", appErrors.FromError(err).Message)
}

func TestAssignmentServiceUpdateDuplicatePair(t *testing.T) {
	repo := &mockAssignmentRepo{
		assignments: map[string]*models.AssignmentDetail{
			"assign-1": {FlightCrewAssignment: models.FlightCrewAssignment{ID: "assign-1", FlightID: "flight-1", CrewID: "crew-2"}},
		},
		updateErr: &pq.Error{Code: "23505", Constraint: "flight_crew_flight_id_crew_id_key"},
	}
	svc := newTestAssignmentService(repo)

	crewID := "crew-1"
	_, err := svc.Update(context.Background(), "assign-1", models.UpdateAssignmentRequest{CrewID: &crewID})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "crew member is already assigned to this flight", appErr.Message)
}

func TestAssignmentServiceDelete(t *testing.T) {
	repo := &mockAssignmentRepo{assignments: map[string]*models.AssignmentDetail{
		"assign-1": {FlightCrewAssignment: models.FlightCrewAssignment{ID: "assign-1"}},
	}}
	svc := newTestAssignmentService(repo)

	require.NoError(t, svc.Delete(context.Background(), "assign-1"))

	err := svc.Delete(context.Background(), "assign-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
