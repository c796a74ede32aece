package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredSkills_KnownTypes(t *testing.T) {
	assert.Equal(t,
		[]string{"Autism Support", "Behavioural Support", "Communication Support"},
		RequiredSkills("autism"))
	assert.Equal(t,
		[]string{"Manual Handling", "Personal Care", "Mobility Assistance"},
		RequiredSkills("physical"))
}

func TestRequiredSkills_NormalisesInput(t *testing.T) {
	assert.Equal(t, RequiredSkills("autism"), RequiredSkills("  Autism "))
	assert.Equal(t, RequiredSkills("acquired brain injury"), RequiredSkills("Acquired Brain Injury"))
}

func TestRequiredSkills_UnknownFallsBack(t *testing.T) {
	assert.Equal(t, DefaultRequiredSkills, RequiredSkills("unlisted condition"))
	assert.Equal(t, DefaultRequiredSkills, RequiredSkills(""))
}

func TestRequiredSkills_ReturnsCopy(t *testing.T) {
	first := RequiredSkills("autism")
	first[0] = "mutated"
	assert.Equal(t, "Autism Support", RequiredSkills("autism")[0])
}

func TestCompatibilityScore(t *testing.T) {
	required := []string{"Personal Care", "Community Access"}

	assert.Equal(t, 1.0, CompatibilityScore([]string{"Personal Care", "Community Access", "Auslan"}, required))
	assert.Equal(t, 0.5, CompatibilityScore([]string{"personal care"}, required))
	assert.Equal(t, 0.0, CompatibilityScore([]string{"Gardening"}, required))
	assert.Equal(t, 0.0, CompatibilityScore(nil, required))
	assert.Equal(t, 1.0, CompatibilityScore(nil, nil))
}

func TestStateForPostcode(t *testing.T) {
	tests := []struct {
		postcode string
		want     string
	}{
		{"2150", "NSW"},
		{"2600", "ACT"},
		{"2617", "ACT"},
		{"2620", "NSW"},
		{"2900", "ACT"},
		{"3051", "VIC"},
		{"8001", "VIC"},
		{"4000", "QLD"},
		{"9726", "QLD"},
		{"5045", "SA"},
		{"6021", "WA"},
		{"7250", "TAS"},
		{"0800", "NT"},
		{"0280", "ACT"},
		{"", ""},
		{"abcd", ""},
		{"12345", ""},
		{"0100", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StateForPostcode(tt.postcode), "postcode %q", tt.postcode)
	}
}
