// Package models defines the domain models for the onboarding service
package models

import (
	"strings"
	"time"
)

// ParticipantStatus represents the lifecycle status of a participant record
type ParticipantStatus string

const (
	ParticipantStatusProspective ParticipantStatus = "prospective"
	ParticipantStatusOnboarded   ParticipantStatus = "onboarded"
	ParticipantStatusActive      ParticipantStatus = "active"
	ParticipantStatusInactive    ParticipantStatus = "inactive"
)

// ValidParticipantStatuses contains all valid status values.
var ValidParticipantStatuses = []ParticipantStatus{
	ParticipantStatusProspective,
	ParticipantStatusOnboarded,
	ParticipantStatusActive,
	ParticipantStatusInactive,
}

// IsValidParticipantStatus checks if the given status is valid.
func IsValidParticipantStatus(s ParticipantStatus) bool {
	for _, v := range ValidParticipantStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// RiskLevel represents the assessed risk level of a participant
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Participant represents an NDIS participant record as served by the
// platform API. Plan dates travel as ISO date strings (2006-01-02), matching
// the wire format the console exchanges with the platform.
type Participant struct {
	ID                     int               `json:"id"`
	FirstName              string            `json:"first_name"`
	LastName               string            `json:"last_name"`
	Email                  *string           `json:"email_address,omitempty"`
	Phone                  *string           `json:"phone_number,omitempty"`
	DisabilityType         string            `json:"disability_type"`
	SupportCategory        string            `json:"support_category"`
	RiskLevel              RiskLevel         `json:"risk_level,omitempty"`
	PlanStartDate          string            `json:"plan_start_date,omitempty"`
	PlanEndDate            string            `json:"plan_end_date,omitempty"`
	Status                 ParticipantStatus `json:"status"`
	StreetAddress          string            `json:"street_address,omitempty"`
	City                   string            `json:"city,omitempty"`
	State                  string            `json:"state,omitempty"`
	Postcode               string            `json:"postcode,omitempty"`
	AccessibilityNeeds     string            `json:"accessibility_needs,omitempty"`
	CulturalConsiderations string            `json:"cultural_considerations,omitempty"`
	PreferredDays          []string          `json:"preferred_days,omitempty"`
	PreferredTimes         []string          `json:"preferred_times,omitempty"`
	CreatedAt              time.Time         `json:"created_at,omitempty"`
	UpdatedAt              time.Time         `json:"updated_at,omitempty"`
}

// FullName returns the participant's display name.
func (p *Participant) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// IsWorkflowReady reports whether the record is complete enough to enter the
// scheduling workflow: status must be onboarded or active and both the
// disability type and support category must be recorded.
func (p *Participant) IsWorkflowReady() bool {
	switch ParticipantStatus(strings.ToLower(string(p.Status))) {
	case ParticipantStatusOnboarded, ParticipantStatusActive:
	default:
		return false
	}
	return strings.TrimSpace(p.DisabilityType) != "" && strings.TrimSpace(p.SupportCategory) != ""
}

// ReadinessGaps lists the fields blocking workflow entry, for the
// "not ready" explanation surface. Empty when IsWorkflowReady is true.
func (p *Participant) ReadinessGaps() []string {
	var gaps []string
	switch ParticipantStatus(strings.ToLower(string(p.Status))) {
	case ParticipantStatusOnboarded, ParticipantStatusActive:
	default:
		gaps = append(gaps, "status must be onboarded or active (currently "+string(p.Status)+")")
	}
	if strings.TrimSpace(p.DisabilityType) == "" {
		gaps = append(gaps, "disability type is not recorded")
	}
	if strings.TrimSpace(p.SupportCategory) == "" {
		gaps = append(gaps, "support category is not recorded")
	}
	return gaps
}

// LocationString joins the address fields into a single service location.
// Falls back to "Home Visit" when no address is recorded.
func (p *Participant) LocationString() string {
	parts := make([]string, 0, 4)
	for _, f := range []string{p.StreetAddress, p.City, p.State, p.Postcode} {
		if s := strings.TrimSpace(f); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "Home Visit"
	}
	return strings.Join(parts, ", ")
}

// SpecialRequirements collects the non-empty free-text care notes that
// schedule entries must carry forward.
func (p *Participant) SpecialRequirements() []string {
	var reqs []string
	for _, f := range []string{p.AccessibilityNeeds, p.CulturalConsiderations} {
		if s := strings.TrimSpace(f); s != "" {
			reqs = append(reqs, s)
		}
	}
	return reqs
}
