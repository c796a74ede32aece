// Package rules holds the small enumerated business rules the console
// applies before calling the platform: the disability-type to required-skills
// table, worker/participant compatibility scoring, and the Australian
// postcode-to-state mapping. Everything here is pure and has no knowledge of
// HTTP or rendering.
package rules

import "strings"

// requiredSkillsByDisability maps a normalised disability type to the skill
// set a support worker needs for that participant.
var requiredSkillsByDisability = map[string][]string{
	"autism":                {"Autism Support", "Behavioural Support", "Communication Support"},
	"intellectual":          {"Intellectual Disability Support", "Daily Living Skills", "Personal Care"},
	"physical":              {"Manual Handling", "Personal Care", "Mobility Assistance"},
	"sensory":               {"Sensory Support", "Communication Support", "Community Access"},
	"psychosocial":          {"Mental Health Support", "Behavioural Support", "Community Access"},
	"neurological":          {"Complex Care", "Medication Support", "Personal Care"},
	"acquired brain injury": {"Complex Care", "Behavioural Support", "Rehabilitation Support"},
	"multiple disabilities": {"Complex Care", "Personal Care", "Manual Handling"},
	"developmental delay":   {"Early Intervention", "Daily Living Skills", "Communication Support"},
	"hearing impairment":    {"Auslan", "Communication Support", "Community Access"},
	"vision impairment":     {"Orientation and Mobility", "Community Access", "Daily Living Skills"},
}

// DefaultRequiredSkills is assumed for disability types the table does not
// recognise.
var DefaultRequiredSkills = []string{"Personal Care", "Community Access"}

// RequiredSkills returns the skill set needed to support the given
// disability type. Lookup is case- and whitespace-insensitive; unrecognised
// types fall back to DefaultRequiredSkills.
func RequiredSkills(disabilityType string) []string {
	key := strings.ToLower(strings.TrimSpace(disabilityType))
	if skills, ok := requiredSkillsByDisability[key]; ok {
		out := make([]string, len(skills))
		copy(out, skills)
		return out
	}
	out := make([]string, len(DefaultRequiredSkills))
	copy(out, DefaultRequiredSkills)
	return out
}

// CompatibilityScore rates how well a worker's skills cover the required
// set, as the covered fraction in [0,1]. An empty requirement list scores
// 1.0. Skill comparison is case-insensitive.
func CompatibilityScore(workerSkills, required []string) float64 {
	if len(required) == 0 {
		return 1.0
	}
	have := make(map[string]bool, len(workerSkills))
	for _, s := range workerSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	matched := 0
	for _, r := range required {
		if have[strings.ToLower(strings.TrimSpace(r))] {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}
