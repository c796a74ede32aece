package ndis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/auth"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL, 0,
		auth.NoopAuthorizer{},
		auth.APIKeyAuthorizer{Key: "admin-development-key"},
		zap.NewNop())
}

func TestGetParticipant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/participants/42", r.URL.Path)
		json.NewEncoder(w).Encode(models.Participant{
			ID:              42,
			FirstName:       "Jordan",
			LastName:        "Nguyen",
			DisabilityType:  "autism",
			SupportCategory: "core",
			Status:          models.ParticipantStatusOnboarded,
		})
	}))
	defer srv.Close()

	participant, err := newTestClient(srv).GetParticipant(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, participant.ID)
	assert.Equal(t, "Jordan Nguyen", participant.FullName())
	assert.True(t, participant.IsWorkflowReady())
}

func TestGetParticipant_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Participant not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).GetParticipant(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetParticipant_RetriesTransientFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(models.Participant{ID: 42, Status: models.ParticipantStatusActive})
	}))
	defer srv.Close()

	participant, err := newTestClient(srv).GetParticipant(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, participant.ID)
	assert.Equal(t, 3, calls)
}

func TestGetParticipant_GivesUpAfterThreeAttempts(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"detail":"upstream database unavailable"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).GetParticipant(context.Background(), 42)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "upstream database unavailable")
	assert.Equal(t, 3, calls)
}

func TestGetOnboardingStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/care/participants/42/prospective-workflow", r.URL.Path)
		json.NewEncoder(w).Encode(models.OnboardingStatus{
			CarePlanCompleted:       true,
			RiskAssessmentCompleted: true,
			ReadyForScheduling:      true,
		})
	}))
	defer srv.Close()

	flags, err := newTestClient(srv).GetOnboardingStatus(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, flags.ParticipantID)
	assert.True(t, flags.ReadyForScheduling)
	assert.Equal(t, 2, flags.CompletedCount())
}

func TestGetOnboardingStatus_404YieldsZeroFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	flags, err := newTestClient(srv).GetOnboardingStatus(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, flags.ParticipantID)
	assert.False(t, flags.CarePlanCompleted)
	assert.False(t, flags.ReadyForScheduling)
	assert.Equal(t, 0, flags.CompletedCount())
}

func TestListParticipants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/participants", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Participant{
			{ID: 1, Status: models.ParticipantStatusProspective},
			{ID: 2, Status: models.ParticipantStatusActive},
		})
	}))
	defer srv.Close()

	participants, err := newTestClient(srv).ListParticipants(context.Background())
	require.NoError(t, err)
	assert.Len(t, participants, 2)
}

func TestSaveAssignments_PostsBatchWithNeeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/participants/42/support-worker-assignments", r.URL.Path)

		var payload struct {
			Assignments      []models.Assignment      `json:"assignments"`
			ParticipantNeeds *models.ParticipantNeeds `json:"participant_needs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Len(t, payload.Assignments, 1)
		assert.Equal(t, 12, payload.Assignments[0].SupportWorkerID)
		require.NotNil(t, payload.ParticipantNeeds)
		assert.Equal(t, []string{"Autism Support"}, payload.ParticipantNeeds.RequiredSkills)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	batch := []models.Assignment{{
		SupportWorkerID:   12,
		SupportWorkerName: "Casey Smith",
		Role:              models.AssignmentRolePrimary,
		HoursPerWeek:      10,
	}}
	needs := &models.ParticipantNeeds{
		RequiredSkills: []string{"Autism Support"},
		Location:       "Home Visit",
		PreferredTimes: models.DefaultTimeWindow,
	}

	err := newTestClient(srv).SaveAssignments(context.Background(), 42, batch, needs)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSaveAssignments_FailureIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"detail":"assignment store rejected batch"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(srv).SaveAssignments(context.Background(), 42,
		[]models.Assignment{{SupportWorkerID: 12, SupportWorkerName: "Casey Smith", Role: models.AssignmentRolePrimary}}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "assignment store rejected batch")
	assert.Equal(t, 1, calls, "writes must be issued exactly once")
}

func TestSaveSchedule_404Tolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/participants/42/schedule", r.URL.Path)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	err := newTestClient(srv).SaveSchedule(context.Background(), 42,
		[]models.ScheduleEntry{{ParticipantID: 42, Date: "2026-09-07"}}, nil)
	assert.NoError(t, err, "missing schedule endpoint counts as success")
}

func TestSaveSchedule_FailureIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestClient(srv).SaveSchedule(context.Background(), 42, nil, nil)
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "writes must be issued exactly once")
}

func TestUpdateStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/participants/42/status", r.URL.Path)
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		assert.Equal(t, "admin-development-key", r.Header.Get("X-Admin-Key"))
		json.NewEncoder(w).Encode(models.Participant{ID: 42, Status: models.ParticipantStatusActive})
	}))
	defer srv.Close()

	participant, err := newTestClient(srv).UpdateStatus(context.Background(), 42, models.ParticipantStatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantStatusActive, participant.Status)
}

func TestUpdateStatus_SurfacesServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"status transition not allowed"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).UpdateStatus(context.Background(), 42, models.ParticipantStatusActive)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status transition not allowed")
}

func TestCreateParticipant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/participants", r.URL.Path)

		var p models.Participant
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		p.ID = 101
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)
	}))
	defer srv.Close()

	created, err := newTestClient(srv).CreateParticipant(context.Background(), &models.Participant{
		FirstName: "Sam", LastName: "Taylor", Status: models.ParticipantStatusProspective,
	})
	require.NoError(t, err)
	assert.Equal(t, 101, created.ID)
	assert.Equal(t, "Sam Taylor", created.FullName())
}
