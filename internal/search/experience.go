// internal/search/experience.go
package search

import (
	"strconv"
	"strings"
)

// openEndedMaxYears caps "10+"-style ranges.
const openEndedMaxYears = 999

// ExperienceRange is a closed interval of years of experience.
type ExperienceRange struct {
	MinYears int `json:"minYears"`
	MaxYears int `json:"maxYears"`
}

// ParseExperienceRange parses the experience labels the frontend sends:
// "0-2 Years" → [0,2], "10+ Years" → [10,999]. Anything unparseable is the
// unbounded range, never an error; a bad filter label must not fail a search.
func ParseExperienceRange(s string) ExperienceRange {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, " Years", ""))
	if cleaned == "" {
		return ExperienceRange{MinYears: 0, MaxYears: openEndedMaxYears}
	}

	if strings.Contains(cleaned, "+") {
		min, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(cleaned, "+", "")))
		if err != nil {
			return ExperienceRange{MinYears: 0, MaxYears: openEndedMaxYears}
		}
		return ExperienceRange{MinYears: min, MaxYears: openEndedMaxYears}
	}

	if before, after, found := strings.Cut(cleaned, "-"); found {
		min, errMin := strconv.Atoi(strings.TrimSpace(before))
		max, errMax := strconv.Atoi(strings.TrimSpace(after))
		if errMin != nil || errMax != nil {
			return ExperienceRange{MinYears: 0, MaxYears: openEndedMaxYears}
		}
		return ExperienceRange{MinYears: min, MaxYears: max}
	}

	return ExperienceRange{MinYears: 0, MaxYears: openEndedMaxYears}
}

// Overlaps reports whether two ranges share at least one year.
func (r ExperienceRange) Overlaps(other ExperienceRange) bool {
	return r.MinYears <= other.MaxYears && other.MinYears <= r.MaxYears
}

// IsUnbounded reports whether the range filters nothing.
func (r ExperienceRange) IsUnbounded() bool {
	return r.MinYears == 0 && r.MaxYears == openEndedMaxYears
}
