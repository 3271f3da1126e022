// Package signals derives structured candidate signals from raw resume text
// using a fixed skill taxonomy and regular-expression heuristics. Every
// function is pure and safe for concurrent use.
package signals

import (
	"github.com/jonathan/applicant-screener/internal/types"
)

// Signals are the fields detected in one document.
type Signals struct {
	Skills          []string      `json:"skills"`
	ExperienceYears int           `json:"experience_years"`
	Education       []string      `json:"education"`
	Contact         types.Contact `json:"contact"`
}

// Extract runs every detector over text. Empty text yields empty signals.
func Extract(text string) Signals {
	return Signals{
		Skills:          Skills(text),
		ExperienceYears: ExperienceYears(text),
		Education:       Education(text),
		Contact:         ContactInfo(text),
	}
}

// Profile converts the signals into a candidate profile carrying rawText.
func (s Signals) Profile(rawText string) types.CandidateProfile {
	return types.CandidateProfile{
		Skills:          s.Skills,
		ExperienceYears: s.ExperienceYears,
		Education:       s.Education,
		Contact:         s.Contact,
		RawText:         rawText,
	}
}
