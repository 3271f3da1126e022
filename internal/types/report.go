//nolint:revive // types is a standard Go package name pattern
package types

// Decision is the terminal outcome of evaluating one application.
type Decision string

// Decision outcomes
const (
	DecisionApproved    Decision = "approved"
	DecisionRejected    Decision = "rejected"
	DecisionUnderReview Decision = "under_review"
)

// Letter kinds produced for the letter-generation collaborator
const (
	LetterOffer     = "offer"
	LetterRejection = "rejection"
)

// LetterKind returns which letter the decision calls for, or "" when none.
func (d Decision) LetterKind() string {
	switch d {
	case DecisionApproved:
		return LetterOffer
	case DecisionRejected:
		return LetterRejection
	default:
		return ""
	}
}

// Valid reports whether d is one of the three known outcomes.
func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected || d == DecisionUnderReview
}

// ScoringWeights are the five factor weights of the composite score. They must sum to 1.0.
type ScoringWeights struct {
	SkillsMatch     float64 `json:"skills_match" mapstructure:"skills_match" validate:"min=0,max=1"`
	ExperienceMatch float64 `json:"experience_match" mapstructure:"experience_match" validate:"min=0,max=1"`
	EducationMatch  float64 `json:"education_match" mapstructure:"education_match" validate:"min=0,max=1"`
	KeywordsMatch   float64 `json:"keywords_match" mapstructure:"keywords_match" validate:"min=0,max=1"`
	FormatScore     float64 `json:"format_score" mapstructure:"format_score" validate:"min=0,max=1"`
}

// DefaultWeights returns the stock weight distribution.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		SkillsMatch:     0.35,
		ExperienceMatch: 0.25,
		EducationMatch:  0.15,
		KeywordsMatch:   0.15,
		FormatScore:     0.10,
	}
}

// Sum returns the total of all weights.
func (w ScoringWeights) Sum() float64 {
	return w.SkillsMatch + w.ExperienceMatch + w.EducationMatch + w.KeywordsMatch + w.FormatScore
}

// MatchResult is the outcome of intersecting candidate skills with job skills.
type MatchResult struct {
	Matched    []string `json:"matched_skills"`
	Missing    []string `json:"missing_skills"`
	Percentage int      `json:"match_percentage"`
}

// Feedback groups the human-readable notes attached to a decision.
type Feedback struct {
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Recommendations []string `json:"recommendations"`
}

// DecisionReport is the only artifact of an evaluation meant for persistence.
// It carries no timestamps or IDs so identical inputs produce identical reports.
type DecisionReport struct {
	OverallScore    int      `json:"overall_score"`
	MatchPercentage int      `json:"match_percentage"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
	ExperienceScore int      `json:"experience_score"`
	ATSScore        int      `json:"ats_score"`
	ProfileScore    int      `json:"profile_score"`
	Decision        Decision `json:"decision"`
	LetterKind      string   `json:"letter_kind,omitempty"`
	Feedback        Feedback `json:"feedback"`
}
