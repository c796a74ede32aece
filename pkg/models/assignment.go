package models

import (
	"errors"
	"fmt"
	"strings"
)

// AssignmentRole represents the role a support worker plays for a participant
type AssignmentRole string

const (
	AssignmentRolePrimary   AssignmentRole = "primary"
	AssignmentRoleSecondary AssignmentRole = "secondary"
	AssignmentRoleBackup    AssignmentRole = "backup"
)

// ValidAssignmentRoles contains all valid role values.
var ValidAssignmentRoles = []AssignmentRole{
	AssignmentRolePrimary,
	AssignmentRoleSecondary,
	AssignmentRoleBackup,
}

// IsValidAssignmentRole checks if the given role is valid.
func IsValidAssignmentRole(r AssignmentRole) bool {
	for _, v := range ValidAssignmentRoles {
		if v == r {
			return true
		}
	}
	return false
}

// Assignment is a proposed pairing of one support worker to one participant
// with role, hours, and cost terms. Assignments are created in-memory during
// the assignment step and persisted to the platform as one batch; individual
// entries are not mutable after persistence.
type Assignment struct {
	SupportWorkerID      int            `json:"support_worker_id"`
	SupportWorkerName    string         `json:"support_worker_name"`
	Role                 AssignmentRole `json:"role"`
	HoursPerWeek         float64        `json:"hours_per_week"`
	Services             []string       `json:"services"`
	StartDate            string         `json:"start_date,omitempty"`
	EstimatedCostPerHour float64        `json:"estimated_cost_per_hour,omitempty"`
	CompatibilityScore   float64        `json:"compatibility_score,omitempty"`

	// SupportWorkerSkills is input-only: when the console includes the
	// worker's skill set the service computes the compatibility score
	// server-side. It is not part of the persisted batch payload.
	SupportWorkerSkills []string `json:"support_worker_skills,omitempty"`
}

// Validate checks a single assignment entry before submission.
func (a *Assignment) Validate() error {
	if a.SupportWorkerID <= 0 {
		return errors.New("support worker id is required")
	}
	if strings.TrimSpace(a.SupportWorkerName) == "" {
		return errors.New("support worker name is required")
	}
	if !IsValidAssignmentRole(a.Role) {
		return fmt.Errorf("invalid assignment role %q", a.Role)
	}
	if a.HoursPerWeek < 0 {
		return fmt.Errorf("hours per week must not be negative (got %v)", a.HoursPerWeek)
	}
	return nil
}

// ParticipantNeeds captures the computed support requirements submitted
// alongside an assignment batch so the platform can audit the matching
// inputs.
type ParticipantNeeds struct {
	RequiredSkills []string   `json:"required_skills"`
	Location       string     `json:"location"`
	PreferredTimes TimeWindow `json:"preferred_times"`
	RiskLevel      RiskLevel  `json:"risk_level,omitempty"`
}

// TimeWindow is a daily availability window in 15:04 wall-clock form.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DefaultTimeWindow is the assumed availability when a participant has not
// recorded preferred support times.
var DefaultTimeWindow = TimeWindow{Start: "09:00", End: "17:00"}
