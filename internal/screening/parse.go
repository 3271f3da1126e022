package screening

import (
	"github.com/jonathan/applicant-screener/internal/ats"
	"github.com/jonathan/applicant-screener/internal/extraction"
	"github.com/jonathan/applicant-screener/internal/signals"
	"github.com/jonathan/applicant-screener/internal/types"
)

// MessageNoText is reported when a document yields no usable text.
const MessageNoText = "could not extract text from document"

// Parse derives signals and the ATS rating from an extraction result.
func Parse(extracted extraction.Result) types.ParseResult {
	hash := ""
	if extracted.Metadata != nil {
		hash = extracted.Metadata.Hash
	}
	if extracted.Empty() {
		result := emptyParse(hash)
		result.Format = string(extracted.Format)
		return result
	}

	profile := signals.Extract(extracted.Text).Profile(extracted.Text)
	rating := ats.Score(profile)

	return types.ParseResult{
		Success:         true,
		Skills:          profile.Skills,
		ExperienceYears: profile.ExperienceYears,
		Education:       profile.Education,
		Contact:         profile.Contact,
		ATSScore:        rating.Score,
		ATSFeedback:     rating.Feedback,
		RawText:         extracted.Text,
		Format:          string(extracted.Format),
		Hash:            hash,
	}
}

func emptyParse(hash string) types.ParseResult {
	return types.ParseResult{
		Success:     false,
		Message:     MessageNoText,
		Skills:      []string{},
		Education:   []string{},
		ATSFeedback: []string{},
		Hash:        hash,
	}
}
