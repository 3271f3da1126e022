//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// JobRequirement is the part of a job posting the matcher and decision engine consume.
// Skills may contain duplicates; matching normalizes them to a set.
type JobRequirement struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title,omitempty"`
	Company  string   `json:"company,omitempty"`
	Skills   []string `json:"skills_required"`
	MinYears int      `json:"experience_min" validate:"min=0"`
	MaxYears *int     `json:"experience_max,omitempty" validate:"omitempty,min=0"`
}

// NewJobRequirement builds a JobRequirement, rejecting negative or inverted experience bounds.
func NewJobRequirement(skills []string, minYears int, maxYears *int) (JobRequirement, error) {
	if minYears < 0 {
		return JobRequirement{}, fmt.Errorf("minimum years must be non-negative, got %d", minYears)
	}
	if maxYears != nil && *maxYears < minYears {
		return JobRequirement{}, fmt.Errorf("maximum years (%d) is below minimum years (%d)", *maxYears, minYears)
	}
	return JobRequirement{Skills: skills, MinYears: minYears, MaxYears: maxYears}, nil
}

// Validate validates the JobRequirement using the validator.
func (j *JobRequirement) Validate() error {
	validate := validator.New()
	if err := validate.Struct(j); err != nil {
		return err
	}
	if j.MaxYears != nil && *j.MaxYears < j.MinYears {
		return fmt.Errorf("experience_max (%d) is below experience_min (%d)", *j.MaxYears, j.MinYears)
	}
	return nil
}

// JobRecord mirrors a stored job row. SkillsRequired is kept raw: it is
// usually a JSON array but older rows hold a comma-separated list.
type JobRecord struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location,omitempty"`
	SkillsRequired string `json:"skills_required"`
	ExperienceMin  *int   `json:"experience_min,omitempty"`
	ExperienceMax  *int   `json:"experience_max,omitempty"`
	IsActive       bool   `json:"is_active"`
}

// Recommendation is one ranked job suggestion for a candidate.
type Recommendation struct {
	JobID           string   `json:"job_id,omitempty"`
	Title           string   `json:"title,omitempty"`
	Company         string   `json:"company,omitempty"`
	Score           int      `json:"match_score"`
	MatchPercentage int      `json:"match_percentage"`
	ExperienceMatch int      `json:"experience_match"`
	MatchedSkills   []string `json:"matched_skills"`
	TotalSkills     int      `json:"total_skills"`
}
