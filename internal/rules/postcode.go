package rules

import "strconv"

// postcodeRange maps a contiguous Australian postcode range to a state or
// territory abbreviation.
type postcodeRange struct {
	lo, hi int
	state  string
}

// Ranges follow Australia Post's allocations. ACT and NSW interleave, so the
// narrower ACT ranges must be checked before the broad NSW ones.
var postcodeRanges = []postcodeRange{
	{200, 299, "ACT"},
	{2600, 2618, "ACT"},
	{2900, 2920, "ACT"},
	{1000, 2599, "NSW"},
	{2619, 2899, "NSW"},
	{2921, 2999, "NSW"},
	{3000, 3999, "VIC"},
	{8000, 8999, "VIC"},
	{4000, 4999, "QLD"},
	{9000, 9999, "QLD"},
	{5000, 5999, "SA"},
	{6000, 6999, "WA"},
	{7000, 7999, "TAS"},
	{800, 999, "NT"},
}

// StateForPostcode maps an Australian postcode to its state or territory
// abbreviation. Returns "" for malformed or unallocated postcodes.
func StateForPostcode(postcode string) string {
	if len(postcode) < 3 || len(postcode) > 4 {
		return ""
	}
	n, err := strconv.Atoi(postcode)
	if err != nil {
		return ""
	}
	for _, r := range postcodeRanges {
		if n >= r.lo && n <= r.hi {
			return r.state
		}
	}
	return ""
}
