package matching

import (
	"sort"

	"github.com/jonathan/applicant-screener/internal/types"
)

// DefaultRecommendationLimit bounds Recommend when limit is not positive.
const DefaultRecommendationLimit = 10

// Recommendation weighting. Jobs scoring at or below minRecommendScore are dropped.
const (
	skillShare        = 0.7
	experienceShare   = 0.3
	yearPenalty       = 20
	minRecommendScore = 20
)

// ExperienceMatch rates how well candidateYears covers minYears, losing 20
// points per missing year.
func ExperienceMatch(candidateYears, minYears int) int {
	if minYears <= candidateYears {
		return 100
	}
	return max(0, 100-(minYears-candidateYears)*yearPenalty)
}

// Recommend scores every job for profile and returns the best matches,
// highest first. Ties keep the order of jobs. Callers pass active jobs only.
func Recommend(profile types.CandidateProfile, jobs []types.JobRequirement, limit int) []types.Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	recs := make([]types.Recommendation, 0, len(jobs))
	for _, job := range jobs {
		match := Match(profile.Skills, job.Skills)
		expMatch := ExperienceMatch(profile.ExperienceYears, job.MinYears)
		total := int(float64(match.Percentage)*skillShare + float64(expMatch)*experienceShare)
		if total <= minRecommendScore {
			continue
		}
		recs = append(recs, types.Recommendation{
			JobID:           job.ID,
			Title:           job.Title,
			Company:         job.Company,
			Score:           total,
			MatchPercentage: match.Percentage,
			ExperienceMatch: expMatch,
			MatchedSkills:   match.Matched,
			TotalSkills:     len(match.Matched) + len(match.Missing),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}
