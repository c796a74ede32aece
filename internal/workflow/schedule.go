package workflow

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/rules"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// maxSessionHours caps a single support session. Weekly hours above the
	// cap are split into equal sessions across the preference days.
	maxSessionHours = 3.0

	// fallbackPlanWeeks bounds the recurrence when the participant has no
	// recorded plan end date.
	fallbackPlanWeeks = 12
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// BuildSchedule proposes draft appointments covering the first fortnight of
// service for each assignment. Weekly hours are split into equal sessions of
// at most maxSessionHours, placed on the participant's preference days
// starting from the assignment start date (or `from` when the assignment has
// none). Every entry recurs weekly until the participant's plan end date.
// The result is deterministic for a given input; entry IDs are the only
// generated values.
func BuildSchedule(participant *models.Participant, assignments []models.Assignment, prefs models.Preferences, from time.Time) []models.ScheduleEntry {
	days := preferenceWeekdays(prefs.PreferredDays)
	windowStart := parseClock(prefs.PreferredTimes.Start, 9*time.Hour)
	notes := strings.Join(prefs.SpecialRequirements, "; ")

	var entries []models.ScheduleEntry
	for _, a := range assignments {
		if a.HoursPerWeek <= 0 {
			continue
		}

		sessionsPerWeek := int(a.HoursPerWeek / maxSessionHours)
		if a.HoursPerWeek > float64(sessionsPerWeek)*maxSessionHours {
			sessionsPerWeek++
		}
		sessionLength := time.Duration(a.HoursPerWeek / float64(sessionsPerWeek) * float64(time.Hour))

		start := startDate(a.StartDate, from)
		recurrence := &models.RecurrencePattern{
			Frequency: "weekly",
			EndDate:   planEnd(participant, start),
		}
		serviceType := serviceTypeFor(a, participant)

		for week := 0; week < 2; week++ {
			weekStart := start.AddDate(0, 0, 7*week)
			for i := 0; i < sessionsPerWeek; i++ {
				day := days[i%len(days)]
				date := nextWeekday(weekStart, day)

				// Sessions beyond the preference days stack back to back on
				// the same day.
				round := i / len(days)
				sessionStart := windowStart + time.Duration(round)*sessionLength

				entries = append(entries, models.ScheduleEntry{
					ID:                uuid.New().String(),
					ParticipantID:     participant.ID,
					SupportWorkerID:   a.SupportWorkerID,
					SupportWorkerName: a.SupportWorkerName,
					Date:              date.Format(dateLayout),
					StartTime:         formatClock(sessionStart),
					EndTime:           formatClock(sessionStart + sessionLength),
					ServiceType:       serviceType,
					Location:          prefs.Location,
					Status:            models.ScheduleEntryStatusDraft,
					Recurrence:        recurrence,
					Notes:             notes,
				})
			}
		}
	}
	return entries
}

// serviceTypeFor picks the entry's service type: the assignment's first
// service, else the first skill the participant's disability type requires,
// else the generic fallback.
func serviceTypeFor(a models.Assignment, participant *models.Participant) string {
	if len(a.Services) > 0 && strings.TrimSpace(a.Services[0]) != "" {
		return a.Services[0]
	}
	if skills := rules.RequiredSkills(participant.DisabilityType); len(skills) > 0 {
		return skills[0]
	}
	return "General Support"
}

// startDate parses the assignment start date, falling back to `from`.
func startDate(s string, from time.Time) time.Time {
	if s != "" {
		if d, err := time.Parse(dateLayout, s); err == nil {
			return d
		}
	}
	return time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
}

// planEnd returns the recurrence end date: the participant's plan end when
// recorded, otherwise fallbackPlanWeeks from the start.
func planEnd(participant *models.Participant, start time.Time) string {
	if participant.PlanEndDate != "" {
		if _, err := time.Parse(dateLayout, participant.PlanEndDate); err == nil {
			return participant.PlanEndDate
		}
	}
	return start.AddDate(0, 0, fallbackPlanWeeks*7).Format(dateLayout)
}

// preferenceWeekdays resolves day names to weekdays, falling back to the
// default pattern when nothing usable was recorded.
func preferenceWeekdays(names []string) []time.Weekday {
	var days []time.Weekday
	for _, name := range names {
		if d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]; ok {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		for _, name := range models.DefaultPreferredDays {
			days = append(days, weekdayNames[strings.ToLower(name)])
		}
	}
	return days
}

// nextWeekday returns the first date on or after `from` falling on `day`.
func nextWeekday(from time.Time, day time.Weekday) time.Time {
	offset := (int(day) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, offset)
}

// parseClock parses a 15:04 wall-clock string into an offset from midnight.
func parseClock(s string, fallback time.Duration) time.Duration {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return fallback
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
}

// formatClock renders an offset from midnight as a 15:04 string.
func formatClock(d time.Duration) string {
	h := int(d.Hours()) % 24
	m := int(d.Minutes()) % 60
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC).Format(timeLayout)
}
