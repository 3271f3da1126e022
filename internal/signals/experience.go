package signals

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/applicant-screener/internal/types"
)

// maxPlausibleYears rejects figures such as "50 years in business".
const maxPlausibleYears = 50

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)\s*(?:of)?\s*experience`),
	regexp.MustCompile(`experience\s*(?:of)?\s*(\d+)\+?\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)\s*(?:in|working)`),
}

// ExperienceYears returns the largest plausible year count stated in text,
// or 0 when none is found.
func ExperienceYears(text string) int {
	lower := strings.ToLower(text)

	best := 0
	for _, pattern := range experiencePatterns {
		for _, match := range pattern.FindAllStringSubmatch(lower, -1) {
			years, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if years > best && years < maxPlausibleYears {
				best = years
			}
		}
	}
	return best
}

// ExperienceFromEmployment sums the months covered by ranges and returns whole
// years. Ranges without a start are ignored, an open end counts up to now, and
// a range ending before it starts contributes nothing.
func ExperienceFromEmployment(ranges []types.EmploymentRange, now time.Time) int {
	months := 0
	for _, r := range ranges {
		if r.Start == nil {
			continue
		}
		end := now
		if r.End != nil {
			end = *r.End
		}
		span := (end.Year()-r.Start.Year())*12 + int(end.Month()) - int(r.Start.Month())
		if span > 0 {
			months += span
		}
	}
	return months / 12
}
