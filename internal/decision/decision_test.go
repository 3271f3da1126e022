package decision

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/types"
)

func intPtr(v int) *int { return &v }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(config.Default().Scoring)
	require.NoError(t, err)
	return engine
}

func TestNewEngine_RejectsInvalidScoring(t *testing.T) {
	scoring := config.Default().Scoring
	scoring.RejectThreshold = scoring.ApproveThreshold

	engine, err := NewEngine(scoring)
	assert.Error(t, err)
	assert.Nil(t, engine)
}

func TestExperienceScore(t *testing.T) {
	tests := []struct {
		candidate, required, want int
	}{
		{5, 5, 100},
		{8, 5, 100},
		{0, 0, 100},
		{4, 5, 75},
		{2, 5, 20},
		{1, 5, 10},
		{0, 10, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExperienceScore(tt.candidate, tt.required), "candidate=%d required=%d", tt.candidate, tt.required)
	}
}

func TestProfileScore(t *testing.T) {
	assert.Equal(t, 100, ProfileScore(true, true))
	assert.Equal(t, 85, ProfileScore(true, false))
	assert.Equal(t, 85, ProfileScore(false, true))
	assert.Equal(t, 70, ProfileScore(false, false))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		overall int
		want    types.Decision
	}{
		{75, types.DecisionApproved},
		{70, types.DecisionApproved},
		{69, types.DecisionUnderReview},
		{55, types.DecisionUnderReview},
		{41, types.DecisionUnderReview},
		{40, types.DecisionRejected},
		{0, types.DecisionRejected},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.overall, 70, 40), "overall=%d", tt.overall)
	}
}

func TestComposite_StaysInRange(t *testing.T) {
	weightSets := []types.ScoringWeights{
		types.DefaultWeights(),
		{SkillsMatch: 1},
		{ExperienceMatch: 1},
		{EducationMatch: 1},
		{KeywordsMatch: 1},
		{FormatScore: 1},
		{SkillsMatch: 0.2, ExperienceMatch: 0.2, EducationMatch: 0.2, KeywordsMatch: 0.2, FormatScore: 0.2},
	}
	values := []int{0, 1, 33, 50, 99, 100}

	for _, w := range weightSets {
		for _, s := range values {
			for _, e := range values {
				for _, a := range values {
					got := Composite(w, Components{Skill: s, Experience: e, Profile: 70, ATS: a})
					assert.GreaterOrEqual(t, got, 0)
					assert.LessOrEqual(t, got, 100)
				}
			}
		}
	}
}

func TestComposite_Monotonic(t *testing.T) {
	w := types.DefaultWeights()
	rank := map[types.Decision]int{
		types.DecisionRejected:    0,
		types.DecisionUnderReview: 1,
		types.DecisionApproved:    2,
	}
	base := Components{Skill: 40, Experience: 50, Profile: 70, ATS: 45}

	bumps := map[string]func(Components, int) Components{
		"skill":      func(c Components, v int) Components { c.Skill = v; return c },
		"experience": func(c Components, v int) Components { c.Experience = v; return c },
		"profile":    func(c Components, v int) Components { c.Profile = v; return c },
		"ats":        func(c Components, v int) Components { c.ATS = v; return c },
	}

	for name, bump := range bumps {
		t.Run(name, func(t *testing.T) {
			prevScore := -1
			prevRank := -1
			for v := 0; v <= 100; v += 5 {
				score := Composite(w, bump(base, v))
				r := rank[Classify(score, 70, 40)]
				assert.GreaterOrEqual(t, score, prevScore, "value %d", v)
				assert.GreaterOrEqual(t, r, prevRank, "value %d", v)
				prevScore, prevRank = score, r
			}
		})
	}
}

func TestDecide_PartialMatchGoesToReview(t *testing.T) {
	engine := newTestEngine(t)
	profile := types.CandidateProfile{Skills: []string{"python", "flask", "sql"}, ExperienceYears: 2}
	job := types.JobRequirement{Skills: []string{"python", "flask", "docker", "aws"}, MinYears: 5}

	report := engine.Decide(profile, job)

	// 50*.35 + 20*.25 + (70*.5 + 50*.5)*.15 + 50*.1 + 50*.15 = 44
	assert.Equal(t, 44, report.OverallScore)
	assert.Equal(t, 50, report.MatchPercentage)
	assert.Equal(t, []string{"python", "flask"}, report.MatchedSkills)
	assert.Equal(t, []string{"docker", "aws"}, report.MissingSkills)
	assert.Equal(t, 20, report.ExperienceScore)
	assert.Equal(t, DefaultATSScore, report.ATSScore)
	assert.Equal(t, 70, report.ProfileScore)
	assert.Equal(t, types.DecisionUnderReview, report.Decision)
	assert.Empty(t, report.LetterKind)
	assert.Equal(t, []string{
		"Missing key skills: docker, aws",
		"Resume formatting needs improvement for better ATS compatibility",
		"Experience gap: 3 more year(s) needed",
	}, report.Feedback.Improvements)
}

func TestDecide_StrongCandidateApproved(t *testing.T) {
	engine := newTestEngine(t)
	profile := types.CandidateProfile{
		Skills:          []string{"go", "postgresql", "docker", "kubernetes", "aws"},
		ExperienceYears: 7,
		HasHeadline:     true,
		HasBio:          true,
		ATSScore:        intPtr(90),
	}
	job := types.JobRequirement{Skills: []string{"Go", "PostgreSQL", "Docker", "Kubernetes"}, MinYears: 5}

	report := engine.Decide(profile, job)

	// 35 + 25 + (50 + 45)*.15 + 9 + 15 = 98.25
	assert.Equal(t, 98, report.OverallScore)
	assert.Equal(t, types.DecisionApproved, report.Decision)
	assert.Equal(t, types.LetterOffer, report.LetterKind)
	assert.Equal(t, 90, report.ATSScore)
	assert.Empty(t, report.MissingSkills)
	assert.Len(t, report.Feedback.Strengths, 3)
}

func TestDecide_WeakCandidateRejected(t *testing.T) {
	engine := newTestEngine(t)
	profile := types.CandidateProfile{Skills: []string{"excel"}, ATSScore: intPtr(20)}
	job := types.JobRequirement{Skills: []string{"java"}, MinYears: 5}

	report := engine.Decide(profile, job)

	// 0 + 0 + (35 + 10)*.15 + 2 + 0 = 8.75
	assert.Equal(t, 9, report.OverallScore)
	assert.Equal(t, types.DecisionRejected, report.Decision)
	assert.Equal(t, types.LetterRejection, report.LetterKind)
	assert.Contains(t, report.Feedback.Recommendations, "Update your resume with more relevant keywords")
}

func TestDecide_EmptyInputsAreScored(t *testing.T) {
	report := newTestEngine(t).Decide(types.CandidateProfile{}, types.JobRequirement{})

	// 50*.35 + 100*.25 + 60*.15 + 5 + 7.5 = 64
	assert.Equal(t, 64, report.OverallScore)
	assert.Equal(t, 50, report.MatchPercentage)
	assert.Equal(t, types.DecisionUnderReview, report.Decision)
}

func TestDecide_Idempotent(t *testing.T) {
	engine := newTestEngine(t)
	profile := types.CandidateProfile{Skills: []string{"react", "css"}, ExperienceYears: 3, HasBio: true}
	job := types.JobRequirement{Skills: []string{"react", "typescript", "css", "graphql"}, MinYears: 2}

	first, err := json.Marshal(engine.Decide(profile, job))
	require.NoError(t, err)
	second, err := json.Marshal(engine.Decide(profile, job))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
