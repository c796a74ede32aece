package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

var (
	// ErrRunNotFound indicates no run exists with the given id.
	ErrRunNotFound = errors.New("onboarding run not found")
	// ErrInvalidTransition indicates the requested step change is not
	// allowed from the run's current step.
	ErrInvalidTransition = errors.New("invalid step transition")
	// ErrEmptyAssignments indicates a submitted batch contained no entries.
	ErrEmptyAssignments = errors.New("assignment batch is empty")
)

// NotReadyError reports that a participant's record is not complete enough
// to enter the workflow. It carries the fields the console needs to explain
// the gap; the participant is edited on the platform, not here.
type NotReadyError struct {
	ParticipantID   int
	Status          models.ParticipantStatus
	DisabilityType  string
	SupportCategory string
	Gaps            []string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("participant %d is not ready for scheduling: %s",
		e.ParticipantID, strings.Join(e.Gaps, "; "))
}

// CompletionPhase names one call of the ordered two-call completion
// sequence.
type CompletionPhase string

const (
	// PhaseSchedule is the schedule save, issued first.
	PhaseSchedule CompletionPhase = "schedule_save"
	// PhaseStatus is the participant status update, issued second.
	PhaseStatus CompletionPhase = "status_update"
)

// CompletionError reports which phase of the completion sequence failed and
// whether the schedule had already been persisted when it did. The sequence
// is not atomic and there is no compensation: a PhaseStatus failure leaves a
// persisted schedule behind a run that is not complete.
type CompletionError struct {
	Phase             CompletionPhase
	SchedulePersisted bool
	Err               error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion failed during %s: %v", e.Phase, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }
