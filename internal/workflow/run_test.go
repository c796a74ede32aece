package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepTransitions(t *testing.T) {
	tests := []struct {
		from    Step
		to      Step
		allowed bool
	}{
		{StepReview, StepAssignment, true},
		{StepReview, StepSchedule, false},
		{StepReview, StepComplete, false},
		{StepAssignment, StepSchedule, true},
		{StepAssignment, StepReview, true},
		{StepAssignment, StepComplete, false},
		{StepSchedule, StepComplete, true},
		{StepSchedule, StepAssignment, true},
		{StepSchedule, StepReview, false},
		{StepComplete, StepReview, false},
		{StepComplete, StepAssignment, false},
		{StepComplete, StepSchedule, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestStepValidity(t *testing.T) {
	for _, s := range ValidSteps {
		assert.True(t, IsValidStep(s))
	}
	assert.False(t, IsValidStep("draft"))

	assert.True(t, StepComplete.IsTerminal())
	assert.False(t, StepReview.IsTerminal())
	assert.False(t, StepSchedule.IsTerminal())
}

func TestRunAdvanceTo(t *testing.T) {
	run := &Run{ID: "r1", Step: StepReview}

	require.NoError(t, run.AdvanceTo(StepAssignment))
	assert.Equal(t, StepAssignment, run.Step)

	err := run.AdvanceTo(StepComplete)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StepAssignment, run.Step)
}

func TestMemoryRunStore(t *testing.T) {
	store := NewMemoryRunStore()

	_, ok := store.Get("r1")
	assert.False(t, ok)

	store.Put(&Run{ID: "r1", OrgID: "org-1", Step: StepReview})
	store.Put(&Run{ID: "r2", OrgID: "org-2", Step: StepReview})

	run, ok := store.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "org-1", run.OrgID)

	assert.Len(t, store.ListByOrg("org-1"), 1)
	assert.Len(t, store.ListByOrg(""), 2)

	store.Delete("r1")
	_, ok = store.Get("r1")
	assert.False(t, ok)
	assert.Empty(t, store.ListByOrg("org-1"))
}

func TestMemoryRunStore_HandsOutSnapshots(t *testing.T) {
	store := NewMemoryRunStore()

	original := &Run{ID: "r1", OrgID: "org-1", Step: StepReview}
	store.Put(original)

	// Mutating the value given to Put must not reach the store.
	original.Step = StepComplete

	first, ok := store.Get("r1")
	require.True(t, ok)
	assert.Equal(t, StepReview, first.Step)

	// Mutating a value handed out by Get must not reach the store either.
	first.Step = StepAssignment

	second, ok := store.Get("r1")
	require.True(t, ok)
	assert.Equal(t, StepReview, second.Step)

	listed := store.ListByOrg("org-1")
	require.Len(t, listed, 1)
	listed[0].Step = StepSchedule

	third, ok := store.Get("r1")
	require.True(t, ok)
	assert.Equal(t, StepReview, third.Step)
}
