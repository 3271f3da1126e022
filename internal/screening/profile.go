package screening

import (
	"strings"
	"time"

	"github.com/jonathan/applicant-screener/internal/signals"
	"github.com/jonathan/applicant-screener/internal/types"
)

// ProfileFromParsed builds a profile from a stored parse result. An
// unsuccessful parse leaves the ATS score unset so the neutral default applies.
func ProfileFromParsed(parsed types.ParseResult) types.CandidateProfile {
	profile := types.CandidateProfile{
		Skills:          types.UniqueLower(parsed.Skills),
		ExperienceYears: max(0, parsed.ExperienceYears),
		Education:       parsed.Education,
		Contact:         parsed.Contact,
		RawText:         parsed.RawText,
	}
	if parsed.Success {
		score := parsed.ATSScore
		profile.ATSScore = &score
	}
	return profile
}

// ProfileFromRecord builds a profile from stored candidate data. A parsed
// resume takes precedence over the skills and employment tables; headline and
// bio presence always come from the record. now closes open employment ranges.
func ProfileFromRecord(record types.CandidateRecord, now time.Time) types.CandidateProfile {
	var profile types.CandidateProfile
	if record.Parsed != nil && record.Parsed.Success {
		profile = ProfileFromParsed(*record.Parsed)
	} else {
		profile = types.CandidateProfile{
			Skills:          types.UniqueLower(record.Skills),
			ExperienceYears: signals.ExperienceFromEmployment(record.Employment, now),
			Education:       record.Degrees,
		}
		if record.ResumeATSScore != nil {
			score := *record.ResumeATSScore
			profile.ATSScore = &score
		}
	}

	if profile.Education == nil {
		profile.Education = []string{}
	}
	profile.HasHeadline = strings.TrimSpace(record.Headline) != ""
	profile.HasBio = strings.TrimSpace(record.Bio) != ""
	return profile
}
