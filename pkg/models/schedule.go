package models

// ScheduleEntryStatus represents the confirmation state of a proposed
// appointment
type ScheduleEntryStatus string

const (
	ScheduleEntryStatusDraft     ScheduleEntryStatus = "draft"
	ScheduleEntryStatusConfirmed ScheduleEntryStatus = "confirmed"
)

// RecurrencePattern describes how a proposed appointment repeats.
type RecurrencePattern struct {
	Frequency string `json:"frequency"`
	EndDate   string `json:"end_date,omitempty"`
}

// ScheduleEntry is one proposed appointment generated from an assignment and
// the participant's scheduling preferences. Dates are ISO strings
// (2006-01-02) and times are 24h wall-clock strings (15:04).
type ScheduleEntry struct {
	ID                string              `json:"id"`
	ParticipantID     int                 `json:"participant_id"`
	SupportWorkerID   int                 `json:"support_worker_id"`
	SupportWorkerName string              `json:"support_worker_name"`
	Date              string              `json:"date"`
	StartTime         string              `json:"start_time"`
	EndTime           string              `json:"end_time"`
	ServiceType       string              `json:"service_type"`
	Location          string              `json:"location"`
	Status            ScheduleEntryStatus `json:"status"`
	Recurrence        *RecurrencePattern  `json:"recurrence,omitempty"`
	Notes             string              `json:"notes,omitempty"`
}

// Preferences are the scheduling preferences derived from a participant
// record. Zero-value fields fall back to the documented defaults when the
// schedule is generated.
type Preferences struct {
	PreferredDays       []string   `json:"preferred_days"`
	PreferredTimes      TimeWindow `json:"preferred_times"`
	Location            string     `json:"location"`
	SpecialRequirements []string   `json:"special_requirements,omitempty"`
}

// DefaultPreferredDays is the day pattern assumed when a participant has not
// recorded preferred support days.
var DefaultPreferredDays = []string{"Monday", "Wednesday", "Friday"}

// PreferencesFor derives scheduling preferences from a participant record,
// applying the default day pattern and time window where nothing is
// recorded.
func PreferencesFor(p *Participant) Preferences {
	prefs := Preferences{
		PreferredDays:       p.PreferredDays,
		PreferredTimes:      DefaultTimeWindow,
		Location:            p.LocationString(),
		SpecialRequirements: p.SpecialRequirements(),
	}
	if len(prefs.PreferredDays) == 0 {
		prefs.PreferredDays = DefaultPreferredDays
	}
	if len(p.PreferredTimes) > 0 {
		if w, ok := ParseTimeWindow(p.PreferredTimes[0]); ok {
			prefs.PreferredTimes = w
		}
	}
	return prefs
}

// ParseTimeWindow parses a "09:00-17:00" style window string.
func ParseTimeWindow(s string) (TimeWindow, bool) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '-' {
			start, end := s[:i], s[i+1:]
			if len(start) == 5 && len(end) == 5 {
				return TimeWindow{Start: start, End: end}, true
			}
			return TimeWindow{}, false
		}
	}
	return TimeWindow{}, false
}
