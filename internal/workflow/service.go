package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/rules"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

// Service drives onboarding runs: it gates entry on the readiness predicate,
// validates step transitions, and issues the platform writes each step
// performs. One Service instance serves every operator session; runs are
// looked up in the RunStore by id.
type Service struct {
	api    PlatformAPI
	runs   RunStore
	logger *zap.Logger
	now    func() time.Time

	// locks serializes mutations per run id. The store hands out
	// snapshots, so without this two requests racing the same run could
	// both pass a step guard and each issue the step's platform write.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	completions    metric.Int64Counter
	statusFailures metric.Int64Counter
}

// NewService creates a workflow service over the given platform client and
// run store.
func NewService(api PlatformAPI, runs RunStore, logger *zap.Logger) *Service {
	meter := otel.Meter("github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/workflow")
	completions, _ := meter.Int64Counter("onboarding.runs.completed",
		metric.WithDescription("Onboarding runs that reached the complete step"))
	statusFailures, _ := meter.Int64Counter("onboarding.status_update.failures",
		metric.WithDescription("Participant status updates that failed after a persisted schedule"))

	return &Service{
		api:            api,
		runs:           runs,
		logger:         logger.Named("workflow"),
		now:            time.Now,
		locks:          make(map[string]*sync.Mutex),
		completions:    completions,
		statusFailures: statusFailures,
	}
}

// runLock returns the mutex serializing mutations of one run. Mutating
// operations hold it across the guard check, the platform call, and the
// step transition, so concurrent requests at the same run id perform the
// step exactly once; the loser fails its guard.
func (s *Service) runLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *Service) dropLock(id string) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	delete(s.locks, id)
}

// Start fetches the participant, evaluates the readiness predicate, and
// creates a run at the review step. A participant that is not ready yields a
// *NotReadyError and no run: the record has to change on the platform before
// the workflow can begin. The intake flags are fetched best-effort and only
// inform the review display.
func (s *Service) Start(ctx context.Context, participantID int, orgID, startedBy string) (*Run, error) {
	participant, err := s.api.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	fillState(participant)

	if !participant.IsWorkflowReady() {
		return nil, &NotReadyError{
			ParticipantID:   participantID,
			Status:          participant.Status,
			DisabilityType:  participant.DisabilityType,
			SupportCategory: participant.SupportCategory,
			Gaps:            participant.ReadinessGaps(),
		}
	}

	intake, err := s.api.GetOnboardingStatus(ctx, participantID)
	if err != nil {
		s.logger.Warn("could not fetch intake flags, continuing without them",
			zap.Int("participant_id", participantID), zap.Error(err))
		intake = &models.OnboardingStatus{ParticipantID: participantID}
	}

	now := s.now()
	run := &Run{
		ID:            uuid.New().String(),
		OrgID:         orgID,
		StartedBy:     startedBy,
		ParticipantID: participantID,
		Step:          StepReview,
		Participant:   participant,
		Intake:        intake,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.runs.Put(run)

	s.logger.Info("onboarding run started",
		zap.String("run_id", run.ID),
		zap.Int("participant_id", participantID),
		zap.String("started_by", startedBy))
	return run, nil
}

// Get retrieves a snapshot of a run by id. The snapshot is the caller's to
// mutate; changes become visible only when a mutating operation stores them
// back under the run's lock.
func (s *Service) Get(runID string) (*Run, error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, nil
}

// Proceed is the operator's explicit move from review to assignment. It is
// the only forward transition that carries no side effect.
func (s *Service) Proceed(runID string) (*Run, error) {
	lock := s.runLock(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := s.Get(runID)
	if err != nil {
		return nil, err
	}
	if err := run.AdvanceTo(StepAssignment); err != nil {
		return nil, err
	}
	s.touch(run)
	return run, nil
}

// Back steps a run backward: assignment to review, or schedule to
// assignment. In-step state that was never persisted is discarded; a batch
// already saved to the platform is not rolled back.
func (s *Service) Back(runID string) (*Run, error) {
	lock := s.runLock(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := s.Get(runID)
	if err != nil {
		return nil, err
	}
	switch run.Step {
	case StepAssignment:
		if err := run.AdvanceTo(StepReview); err != nil {
			return nil, err
		}
	case StepSchedule:
		run.Schedule = nil
		run.StatusUpdatePending = false
		if err := run.AdvanceTo(StepAssignment); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: cannot step back from %s", ErrInvalidTransition, run.Step)
	}
	run.LastError = ""
	s.touch(run)
	return run, nil
}

// Abandon discards a run. Writes the run already made against the platform
// stay as they are.
func (s *Service) Abandon(runID string) error {
	lock := s.runLock(runID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.Get(runID); err != nil {
		return err
	}
	s.runs.Delete(runID)
	s.dropLock(runID)
	return nil
}

// SubmitAssignments validates the batch, computes the participant's needs,
// persists both in one call, and advances the run to schedule. Validation
// happens before any network call; a rejected batch never reaches the
// platform. A failed save leaves the run at assignment with the error
// recorded. The save carries no idempotency key, so resubmitting after a
// believed failure can leave two batches on the platform.
func (s *Service) SubmitAssignments(ctx context.Context, runID string, batch []models.Assignment) (*Run, error) {
	lock := s.runLock(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := s.Get(runID)
	if err != nil {
		return nil, err
	}
	if run.Step != StepAssignment {
		return nil, fmt.Errorf("%w: run is at %s, not %s", ErrInvalidTransition, run.Step, StepAssignment)
	}
	if len(batch) == 0 {
		return nil, ErrEmptyAssignments
	}
	for i := range batch {
		if err := batch[i].Validate(); err != nil {
			return nil, fmt.Errorf("assignment %d invalid: %w", i+1, err)
		}
	}

	needs := NeedsFor(run.Participant)
	for i := range batch {
		if len(batch[i].SupportWorkerSkills) > 0 {
			batch[i].CompatibilityScore = rules.CompatibilityScore(batch[i].SupportWorkerSkills, needs.RequiredSkills)
		}
	}

	if err := s.api.SaveAssignments(ctx, run.ParticipantID, batch, needs); err != nil {
		run.LastError = err.Error()
		s.touch(run)
		s.logger.Error("assignment save failed",
			zap.String("run_id", run.ID),
			zap.Int("participant_id", run.ParticipantID),
			zap.Error(err))
		return nil, err
	}

	run.Assignments = batch
	run.LastError = ""
	if err := run.AdvanceTo(StepSchedule); err != nil {
		return nil, err
	}
	s.touch(run)

	s.logger.Info("assignment batch saved",
		zap.String("run_id", run.ID),
		zap.Int("participant_id", run.ParticipantID),
		zap.Int("assignments", len(batch)))
	return run, nil
}

// GenerateSchedule builds the proposed appointments from the persisted
// assignment batch and runs the two-call completion sequence: save the
// schedule, then patch the participant to active. The calls are issued in
// that order and the sequence is not atomic. A schedule-save failure leaves
// the run at schedule untouched; a status failure after a persisted schedule
// leaves the run at schedule with StatusUpdatePending set, from where
// RetryStatusUpdate can finish the run without re-sending the schedule.
func (s *Service) GenerateSchedule(ctx context.Context, runID string) (*Run, error) {
	lock := s.runLock(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := s.Get(runID)
	if err != nil {
		return nil, err
	}
	if run.Step != StepSchedule {
		return nil, fmt.Errorf("%w: run is at %s, not %s", ErrInvalidTransition, run.Step, StepSchedule)
	}
	if len(run.Assignments) == 0 {
		return nil, fmt.Errorf("%w: run has no persisted assignment batch", ErrEmptyAssignments)
	}

	prefs := models.PreferencesFor(run.Participant)
	entries := BuildSchedule(run.Participant, run.Assignments, prefs, s.now())

	if err := s.api.SaveSchedule(ctx, run.ParticipantID, entries, run.Assignments); err != nil {
		cerr := &CompletionError{Phase: PhaseSchedule, Err: err}
		run.LastError = cerr.Error()
		s.touch(run)
		s.logger.Error("schedule save failed",
			zap.String("run_id", run.ID),
			zap.Int("participant_id", run.ParticipantID),
			zap.Error(err))
		return nil, cerr
	}
	run.Schedule = entries

	return s.finishRun(ctx, run)
}

// RetryStatusUpdate re-issues only the status patch for a run whose schedule
// was already persisted. This avoids re-sending the schedule payload, which
// would duplicate entries on the platform.
func (s *Service) RetryStatusUpdate(ctx context.Context, runID string) (*Run, error) {
	lock := s.runLock(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := s.Get(runID)
	if err != nil {
		return nil, err
	}
	if run.Step != StepSchedule || !run.StatusUpdatePending {
		return nil, fmt.Errorf("%w: run has no pending status update", ErrInvalidTransition)
	}
	return s.finishRun(ctx, run)
}

// finishRun performs the second completion phase: patch the participant to
// active and move the run to complete.
func (s *Service) finishRun(ctx context.Context, run *Run) (*Run, error) {
	updated, err := s.api.UpdateStatus(ctx, run.ParticipantID, models.ParticipantStatusActive)
	if err != nil {
		cerr := &CompletionError{Phase: PhaseStatus, SchedulePersisted: true, Err: err}
		run.StatusUpdatePending = true
		run.LastError = cerr.Error()
		s.touch(run)
		s.statusFailures.Add(ctx, 1)
		s.logger.Error("status update failed after persisted schedule",
			zap.String("run_id", run.ID),
			zap.Int("participant_id", run.ParticipantID),
			zap.Error(err))
		return nil, cerr
	}

	run.Participant = updated
	run.StatusUpdatePending = false
	run.LastError = ""
	if err := run.AdvanceTo(StepComplete); err != nil {
		return nil, err
	}
	s.touch(run)
	s.completions.Add(ctx, 1)

	s.logger.Info("onboarding run complete",
		zap.String("run_id", run.ID),
		zap.Int("participant_id", run.ParticipantID),
		zap.Int("schedule_entries", len(run.Schedule)))
	return run, nil
}

// Lookup fetches a participant record from the platform without starting a
// run. Readiness surfaces use it to show the current record state.
func (s *Service) Lookup(ctx context.Context, participantID int) (*models.Participant, error) {
	participant, err := s.api.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	fillState(participant)
	return participant, nil
}

// ParticipantNeeds fetches a participant and computes the support
// requirements the assignment step works from.
func (s *Service) ParticipantNeeds(ctx context.Context, participantID int) (*models.ParticipantNeeds, error) {
	participant, err := s.Lookup(ctx, participantID)
	if err != nil {
		return nil, err
	}
	return NeedsFor(participant), nil
}

// fillState completes the address when the platform record carries a
// postcode without its state, so service locations read fully.
func fillState(p *models.Participant) {
	if strings.TrimSpace(p.State) == "" && p.Postcode != "" {
		p.State = rules.StateForPostcode(p.Postcode)
	}
}

// NeedsFor derives the participant's support needs: the required skill set
// from the disability-type table, the service location, the preferred time
// window (default 09:00-17:00), and the risk level.
func NeedsFor(p *models.Participant) *models.ParticipantNeeds {
	needs := &models.ParticipantNeeds{
		RequiredSkills: rules.RequiredSkills(p.DisabilityType),
		Location:       p.LocationString(),
		PreferredTimes: models.DefaultTimeWindow,
		RiskLevel:      p.RiskLevel,
	}
	if len(p.PreferredTimes) > 0 {
		if w, ok := models.ParseTimeWindow(p.PreferredTimes[0]); ok {
			needs.PreferredTimes = w
		}
	}
	return needs
}

// DashboardSummary aggregates the onboarding state for the manager
// dashboard.
type DashboardSummary struct {
	ParticipantsByStatus map[models.ParticipantStatus]int `json:"participants_by_status"`
	ReadyForScheduling   int                              `json:"ready_for_scheduling"`
	ActiveRuns           int                              `json:"active_runs"`
	PendingStatusUpdates int                              `json:"pending_status_updates"`
}

// Dashboard builds the onboarding aggregation view: participant counts by
// status, how many are ready to enter the workflow, and how many runs are
// in flight for the organisation.
func (s *Service) Dashboard(ctx context.Context, orgID string) (*DashboardSummary, error) {
	participants, err := s.api.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		ParticipantsByStatus: make(map[models.ParticipantStatus]int),
	}
	for i := range participants {
		p := &participants[i]
		status := models.ParticipantStatus(strings.ToLower(string(p.Status)))
		summary.ParticipantsByStatus[status]++
		if p.IsWorkflowReady() {
			summary.ReadyForScheduling++
		}
	}
	for _, run := range s.runs.ListByOrg(orgID) {
		if !run.Step.IsTerminal() {
			summary.ActiveRuns++
		}
		if run.StatusUpdatePending {
			summary.PendingStatusUpdates++
		}
	}
	return summary, nil
}

func (s *Service) touch(run *Run) {
	run.UpdatedAt = s.now()
	s.runs.Put(run)
}
