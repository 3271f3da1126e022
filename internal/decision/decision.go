// Package decision combines skill match, experience, profile completeness and
// ATS rating into a composite score and a tri-state hiring decision.
package decision

import (
	"math"

	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/feedback"
	"github.com/jonathan/applicant-screener/internal/matching"
	"github.com/jonathan/applicant-screener/internal/types"
)

// DefaultATSScore stands in for candidates evaluated without a parsed resume.
const DefaultATSScore = 50

// Profile completeness scores.
const (
	profileComplete = 100
	profilePartial  = 85
	profileDefault  = 70
)

// Components are the per-factor scores, each in [0,100], feeding the composite.
type Components struct {
	Skill      int
	Experience int
	Profile    int
	ATS        int
}

// Engine evaluates applications against a validated scoring configuration.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	weights types.ScoringWeights
	approve int
	reject  int
}

// NewEngine validates scoring and returns an Engine bound to it.
func NewEngine(scoring config.Scoring) (*Engine, error) {
	if err := scoring.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		weights: scoring.Weights,
		approve: scoring.ApproveThreshold,
		reject:  scoring.RejectThreshold,
	}, nil
}

// Decide evaluates profile against job. Identical inputs produce identical reports.
func (e *Engine) Decide(profile types.CandidateProfile, job types.JobRequirement) types.DecisionReport {
	ats := DefaultATSScore
	if profile.ATSScore != nil {
		ats = *profile.ATSScore
	}

	match := matching.Match(profile.Skills, job.Skills)
	components := Components{
		Skill:      match.Percentage,
		Experience: ExperienceScore(profile.ExperienceYears, job.MinYears),
		Profile:    ProfileScore(profile.HasHeadline, profile.HasBio),
		ATS:        ats,
	}

	overall := Composite(e.weights, components)
	outcome := Classify(overall, e.approve, e.reject)

	return types.DecisionReport{
		OverallScore:    overall,
		MatchPercentage: match.Percentage,
		MatchedSkills:   match.Matched,
		MissingSkills:   match.Missing,
		ExperienceScore: components.Experience,
		ATSScore:        ats,
		ProfileScore:    components.Profile,
		Decision:        outcome,
		LetterKind:      outcome.LetterKind(),
		Feedback: feedback.Synthesize(feedback.Input{
			MatchedSkills:   match.Matched,
			MissingSkills:   match.Missing,
			ExperienceYears: profile.ExperienceYears,
			MinYears:        job.MinYears,
			ATSScore:        ats,
			Decision:        outcome,
		}),
	}
}

// ExperienceScore rates candidate years against the required minimum. Being
// one year short still scores 75; beyond that the score drops 10 points per
// missing year from 50.
func ExperienceScore(candidateYears, requiredYears int) int {
	switch {
	case candidateYears >= requiredYears:
		return 100
	case candidateYears >= requiredYears-1:
		return 75
	default:
		return max(0, 50-(requiredYears-candidateYears)*10)
	}
}

// ProfileScore rates profile completeness. An empty profile still scores 70.
func ProfileScore(hasHeadline, hasBio bool) int {
	switch {
	case hasHeadline && hasBio:
		return profileComplete
	case hasHeadline || hasBio:
		return profilePartial
	default:
		return profileDefault
	}
}

// Composite blends the components. The skill score is weighted twice, as
// skills_match and keywords_match, and the ATS score feeds both the format
// term and, averaged with the profile score, the education term.
func Composite(w types.ScoringWeights, c Components) int {
	skill := float64(c.Skill)
	ats := float64(c.ATS)

	total := skill*w.SkillsMatch +
		float64(c.Experience)*w.ExperienceMatch +
		(float64(c.Profile)*0.5+ats*0.5)*w.EducationMatch +
		ats*w.FormatScore +
		skill*w.KeywordsMatch

	return min(100, max(0, int(math.Round(total))))
}

// Classify maps a composite score to a decision. The approve bound is
// inclusive, as is the reject bound; scores strictly between are left for review.
func Classify(overall, approveThreshold, rejectThreshold int) types.Decision {
	switch {
	case overall >= approveThreshold:
		return types.DecisionApproved
	case overall <= rejectThreshold:
		return types.DecisionRejected
	default:
		return types.DecisionUnderReview
	}
}
