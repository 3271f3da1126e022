package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/applicant-screener/internal/types"
)

func TestExperienceMatch(t *testing.T) {
	assert.Equal(t, 100, ExperienceMatch(5, 3))
	assert.Equal(t, 100, ExperienceMatch(3, 3))
	assert.Equal(t, 80, ExperienceMatch(2, 3))
	assert.Equal(t, 40, ExperienceMatch(0, 3))
	assert.Equal(t, 0, ExperienceMatch(0, 10))
}

func TestRecommend(t *testing.T) {
	profile := types.CandidateProfile{Skills: []string{"python", "django", "docker"}, ExperienceYears: 3}
	jobs := []types.JobRequirement{
		{ID: "partial", Skills: []string{"python", "aws"}, MinYears: 3},          // 50*0.7 + 100*0.3 = 65
		{ID: "full", Skills: []string{"Python", "Django"}, MinYears: 2},          // 100
		{ID: "none", Skills: []string{"java", "spring"}, MinYears: 8},            // 0 + 0, dropped
		{ID: "neutral", Skills: nil, MinYears: 4},                                // 35 + 24 = 59
		{ID: "borderline", Skills: []string{"rust", "go", "c++"}, MinYears: 3},   // 0 + 30 = 30
		{ID: "tied", Skills: []string{"docker", "kubernetes"}, MinYears: 1},      // 65, after "partial"
	}

	recs := Recommend(profile, jobs, 0)

	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.JobID
	}
	assert.Equal(t, []string{"full", "partial", "tied", "neutral", "borderline"}, ids)

	full := recs[0]
	assert.Equal(t, 100, full.Score)
	assert.Equal(t, []string{"python", "django"}, full.MatchedSkills)
	assert.Equal(t, 2, full.TotalSkills)

	assert.Equal(t, 59, recs[3].Score)
	assert.Equal(t, 80, recs[3].ExperienceMatch)
}

func TestRecommend_DropsLowScores(t *testing.T) {
	profile := types.CandidateProfile{ExperienceYears: 0}
	// 0*0.7 + 40*0.3 = 12
	recs := Recommend(profile, []types.JobRequirement{{Skills: []string{"go"}, MinYears: 3}}, 5)
	assert.Empty(t, recs)
}

func TestRecommend_Limit(t *testing.T) {
	jobs := make([]types.JobRequirement, 15)
	for i := range jobs {
		jobs[i] = types.JobRequirement{ID: fmt.Sprintf("job-%d", i), Skills: []string{"go"}}
	}
	profile := types.CandidateProfile{Skills: []string{"go"}}

	require.Len(t, Recommend(profile, jobs, 0), DefaultRecommendationLimit)
	limited := Recommend(profile, jobs, 3)
	require.Len(t, limited, 3)
	assert.Equal(t, "job-0", limited[0].JobID)
	assert.Equal(t, "job-2", limited[2].JobID)
}
