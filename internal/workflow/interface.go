package workflow

import (
	"context"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

// PlatformAPI is the slice of the NDIS platform client the workflow service
// depends on. The ndis package provides the HTTP implementation; tests
// substitute fakes.
type PlatformAPI interface {
	// GetParticipant fetches a participant record.
	GetParticipant(ctx context.Context, id int) (*models.Participant, error)
	// GetOnboardingStatus fetches the intake flags, zero-valued when the
	// sub-resource does not exist.
	GetOnboardingStatus(ctx context.Context, id int) (*models.OnboardingStatus, error)
	// ListParticipants fetches every participant visible to the caller.
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	// SaveAssignments persists one assignment batch. Issued exactly once.
	SaveAssignments(ctx context.Context, id int, batch []models.Assignment, needs *models.ParticipantNeeds) error
	// SaveSchedule persists proposed schedule entries, tolerating a missing
	// endpoint. Issued exactly once.
	SaveSchedule(ctx context.Context, id int, entries []models.ScheduleEntry, assignments []models.Assignment) error
	// UpdateStatus patches the participant's status on the platform.
	UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) (*models.Participant, error)
}
