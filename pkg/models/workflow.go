package models

import (
	"time"
)

// OnboardingStatus mirrors the prospective-workflow sub-resource exposed by
// the platform for a participant: which intake artefacts exist and whether
// the record has been cleared for scheduling. The sub-resource is optional;
// deployments without it report zero-value flags.
type OnboardingStatus struct {
	ParticipantID           int       `json:"participant_id"`
	CarePlanCompleted       bool      `json:"care_plan_completed"`
	RiskAssessmentCompleted bool      `json:"risk_assessment_completed"`
	DocumentsUploaded       bool      `json:"documents_uploaded"`
	QuotationGenerated      bool      `json:"quotation_generated"`
	ManagerReviewStatus     string    `json:"manager_review_status,omitempty"`
	ReadyForScheduling      bool      `json:"ready_for_scheduling"`
	UpdatedAt               time.Time `json:"updated_at,omitempty"`
}

// CompletedCount returns how many of the intake artefacts are in place,
// for the review step's progress display.
func (s *OnboardingStatus) CompletedCount() int {
	n := 0
	for _, done := range []bool{
		s.CarePlanCompleted,
		s.RiskAssessmentCompleted,
		s.DocumentsUploaded,
		s.QuotationGenerated,
	} {
		if done {
			n++
		}
	}
	return n
}
