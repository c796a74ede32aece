// Package workflow implements the participant onboarding workflow: an
// in-memory run per participant that steps from review through assignment
// and schedule to complete, driving writes against the remote platform API.
// The platform stays the single source of truth; abandoning a run discards
// nothing that was already persisted there.
package workflow

import (
	"fmt"
	"time"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

// Step represents the current step of an onboarding run.
type Step string

const (
	StepReview     Step = "review"
	StepAssignment Step = "assignment"
	StepSchedule   Step = "schedule"
	StepComplete   Step = "complete"
)

// ValidSteps contains all valid step values.
var ValidSteps = []Step{
	StepReview,
	StepAssignment,
	StepSchedule,
	StepComplete,
}

// IsValidStep checks if the given step is valid.
func IsValidStep(s Step) bool {
	for _, v := range ValidSteps {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the step is terminal (complete).
func (s Step) IsTerminal() bool {
	return s == StepComplete
}

// CanTransitionTo returns true if transitioning from this step to the target
// is valid. Forward moves follow the step order; assignment and schedule can
// each step back once to revisit a decision. Nothing leaves complete.
func (s Step) CanTransitionTo(target Step) bool {
	switch s {
	case StepReview:
		return target == StepAssignment
	case StepAssignment:
		return target == StepSchedule || target == StepReview
	case StepSchedule:
		return target == StepComplete || target == StepAssignment
	case StepComplete:
		return false
	default:
		return false
	}
}

// Run is one in-flight onboarding workflow for a participant. Runs live only
// in memory; an interrupted run is restarted from the platform's records, so
// nothing here is a second copy of participant data worth persisting.
type Run struct {
	ID            string                   `json:"id"`
	OrgID         string                   `json:"org_id,omitempty"`
	StartedBy     string                   `json:"started_by,omitempty"`
	ParticipantID int                      `json:"participant_id"`
	Step          Step                     `json:"step"`
	Participant   *models.Participant      `json:"participant"`
	Intake        *models.OnboardingStatus `json:"onboarding_status,omitempty"`
	Assignments   []models.Assignment      `json:"assignments,omitempty"`
	Schedule      []models.ScheduleEntry   `json:"schedule,omitempty"`

	// StatusUpdatePending marks a run whose schedule was persisted but whose
	// participant status patch failed. Only the status retry or abandoning
	// the run moves it on from there.
	StatusUpdatePending bool   `json:"status_update_pending,omitempty"`
	LastError           string `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdvanceTo moves the run to the target step after validating the
// transition.
func (r *Run) AdvanceTo(target Step) error {
	if !r.Step.CanTransitionTo(target) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, r.Step, target)
	}
	r.Step = target
	return nil
}

// clone returns a copy safe to hand to another goroutine. Slice and pointer
// fields are shared between copies: every mutation replaces them wholesale,
// never edits them in place.
func (r *Run) clone() *Run {
	c := *r
	return &c
}
