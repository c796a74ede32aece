package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

// 2026-03-02 is a Monday.
var scheduleFrom = time.Date(2026, time.March, 2, 10, 30, 0, 0, time.UTC)

func TestBuildSchedule_SplitsWeeklyHoursIntoCappedSessions(t *testing.T) {
	participant := readyParticipant()
	assignments := []models.Assignment{{
		SupportWorkerID:   12,
		SupportWorkerName: "Casey Smith",
		Role:              models.AssignmentRolePrimary,
		HoursPerWeek:      10,
		Services:          []string{"Autism Support"},
		StartDate:         "2026-03-02",
	}}
	prefs := models.PreferencesFor(participant)

	entries := BuildSchedule(participant, assignments, prefs, scheduleFrom)

	// 10h/week splits into 4 sessions of 2.5h, over the first fortnight.
	require.Len(t, entries, 8)

	first := entries[0]
	assert.Equal(t, "2026-03-02", first.Date)
	assert.Equal(t, "09:00", first.StartTime)
	assert.Equal(t, "11:30", first.EndTime)
	assert.Equal(t, "Autism Support", first.ServiceType)
	assert.Equal(t, models.ScheduleEntryStatusDraft, first.Status)
	assert.Equal(t, 42, first.ParticipantID)

	// Default days Monday/Wednesday/Friday; the fourth session wraps back to
	// Monday stacked after the first.
	assert.Equal(t, "2026-03-04", entries[1].Date)
	assert.Equal(t, "2026-03-06", entries[2].Date)
	assert.Equal(t, "2026-03-02", entries[3].Date)
	assert.Equal(t, "11:30", entries[3].StartTime)
	assert.Equal(t, "14:00", entries[3].EndTime)

	// Second week shifts everything forward seven days.
	assert.Equal(t, "2026-03-09", entries[4].Date)
}

func TestBuildSchedule_RecurrenceEndsAtPlanEnd(t *testing.T) {
	participant := readyParticipant()
	participant.PlanEndDate = "2026-06-30"
	assignments := validBatch()

	entries := BuildSchedule(participant, assignments, models.PreferencesFor(participant), scheduleFrom)

	require.NotEmpty(t, entries)
	require.NotNil(t, entries[0].Recurrence)
	assert.Equal(t, "weekly", entries[0].Recurrence.Frequency)
	assert.Equal(t, "2026-06-30", entries[0].Recurrence.EndDate)
}

func TestBuildSchedule_FallbackPlanEndTwelveWeeksOut(t *testing.T) {
	participant := readyParticipant()
	participant.PlanEndDate = ""

	entries := BuildSchedule(participant, validBatch(), models.PreferencesFor(participant), scheduleFrom)

	require.NotEmpty(t, entries)
	require.NotNil(t, entries[0].Recurrence)
	assert.Equal(t, "2026-05-25", entries[0].Recurrence.EndDate)
}

func TestBuildSchedule_ServiceTypeFallsBackToRequiredSkill(t *testing.T) {
	participant := readyParticipant() // autism
	assignments := validBatch()
	assignments[0].Services = nil

	entries := BuildSchedule(participant, assignments, models.PreferencesFor(participant), scheduleFrom)

	require.NotEmpty(t, entries)
	assert.Equal(t, "Autism Support", entries[0].ServiceType)
}

func TestBuildSchedule_UsesParticipantPreferences(t *testing.T) {
	participant := readyParticipant()
	participant.PreferredDays = []string{"Tuesday"}
	participant.PreferredTimes = []string{"10:00-14:00"}
	participant.AccessibilityNeeds = "wheelchair access"
	participant.CulturalConsiderations = "female worker preferred"

	assignments := validBatch() // 6h/week, starts Monday 2026-03-02

	entries := BuildSchedule(participant, assignments, models.PreferencesFor(participant), scheduleFrom)

	// 6h/week = 2 sessions of 3h, both stacked onto the single preferred day.
	require.Len(t, entries, 4)
	assert.Equal(t, "2026-03-03", entries[0].Date)
	assert.Equal(t, "10:00", entries[0].StartTime)
	assert.Equal(t, "13:00", entries[0].EndTime)
	assert.Equal(t, "13:00", entries[1].StartTime)
	assert.Equal(t, "16:00", entries[1].EndTime)
	assert.Equal(t, "wheelchair access; female worker preferred", entries[0].Notes)
	assert.Equal(t, "Footscray, VIC, 3011", entries[0].Location)
}

func TestBuildSchedule_SkipsZeroHourAssignments(t *testing.T) {
	participant := readyParticipant()
	assignments := []models.Assignment{{
		SupportWorkerID:   12,
		SupportWorkerName: "Casey Smith",
		Role:              models.AssignmentRoleBackup,
		HoursPerWeek:      0,
	}}

	entries := BuildSchedule(participant, assignments, models.PreferencesFor(participant), scheduleFrom)
	assert.Empty(t, entries)
}

func TestBuildSchedule_FallsBackToFromDate(t *testing.T) {
	participant := readyParticipant()
	assignments := validBatch()
	assignments[0].StartDate = ""

	entries := BuildSchedule(participant, assignments, models.PreferencesFor(participant), scheduleFrom)

	require.NotEmpty(t, entries)
	// scheduleFrom is already a Monday, the first preference day.
	assert.Equal(t, "2026-03-02", entries[0].Date)
}

func TestBuildSchedule_DeterministicApartFromIDs(t *testing.T) {
	participant := readyParticipant()
	prefs := models.PreferencesFor(participant)

	a := BuildSchedule(participant, validBatch(), prefs, scheduleFrom)
	b := BuildSchedule(participant, validBatch(), prefs, scheduleFrom)

	require.Equal(t, len(a), len(b))
	for i := range a {
		a[i].ID = ""
		b[i].ID = ""
		assert.Equal(t, a[i], b[i])
	}
}
