//nolint:revive // types is a standard Go package name pattern
package types

// ParseResult is what parsing an uploaded document yields. When no text could be
// extracted Success is false and every signal field is empty.
type ParseResult struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message,omitempty"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	Education       []string `json:"education"`
	Contact         Contact  `json:"contact"`
	ATSScore        int      `json:"ats_score"`
	ATSFeedback     []string `json:"ats_feedback"`
	RawText         string   `json:"raw_text"`
	Format          string   `json:"format,omitempty"`
	Hash            string   `json:"hash,omitempty"`
}
