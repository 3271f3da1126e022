// Package feedback turns scoring intermediates into the strengths,
// improvements and recommendations shown to an applicant.
package feedback

import (
	"fmt"
	"strings"

	"github.com/jonathan/applicant-screener/internal/types"
)

// Limits on how much of the missing-skill list is surfaced.
const (
	maxMissingListed     = 5
	maxSkillSuggestions  = 3
	strongMatchThreshold = 3
	atsFriendlyScore     = 70
)

// courses maps a lowercase skill to a suggested course. Read-only.
var courses = map[string]string{
	"react":            "React - The Complete Guide on Udemy",
	"python":           "Python for Everybody by University of Michigan",
	"aws":              "AWS Certified Solutions Architect on A Cloud Guru",
	"docker":           "Docker Mastery on Udemy",
	"machine learning": "Machine Learning by Andrew Ng on Coursera",
}

// rejectionTips are appended to the recommendations of every rejected application.
var rejectionTips = []string{
	"Update your resume with more relevant keywords",
	"Add more project descriptions highlighting your skills",
}

// Course returns the suggested course for skill, matched case-insensitively.
func Course(skill string) (string, bool) {
	c, ok := courses[strings.ToLower(skill)]
	return c, ok
}

// Input carries the values the decision was computed from.
type Input struct {
	MatchedSkills   []string
	MissingSkills   []string
	ExperienceYears int
	MinYears        int
	ATSScore        int
	Decision        types.Decision
}

// Synthesize builds the feedback lists. Matched and missing skills are used
// in the order given; only the front of each list is consulted.
func Synthesize(in Input) types.Feedback {
	fb := types.Feedback{
		Strengths:       []string{},
		Improvements:    []string{},
		Recommendations: []string{},
	}

	if len(in.MatchedSkills) > strongMatchThreshold {
		fb.Strengths = append(fb.Strengths, fmt.Sprintf("Strong skill match with %d relevant skills", len(in.MatchedSkills)))
	}
	if in.ExperienceYears >= in.MinYears {
		fb.Strengths = append(fb.Strengths, "Experience level meets job requirements")
	}
	if in.ATSScore >= atsFriendlyScore {
		fb.Strengths = append(fb.Strengths, "Well-formatted, ATS-friendly resume")
	}

	if len(in.MissingSkills) > 0 {
		listed := in.MissingSkills[:min(len(in.MissingSkills), maxMissingListed)]
		fb.Improvements = append(fb.Improvements, "Missing key skills: "+strings.Join(listed, ", "))
	}
	if in.ATSScore < atsFriendlyScore {
		fb.Improvements = append(fb.Improvements, "Resume formatting needs improvement for better ATS compatibility")
	}
	if gap := in.MinYears - in.ExperienceYears; gap > 0 {
		fb.Improvements = append(fb.Improvements, fmt.Sprintf("Experience gap: %d more year(s) needed", gap))
	}

	for _, skill := range in.MissingSkills[:min(len(in.MissingSkills), maxSkillSuggestions)] {
		if course, ok := Course(skill); ok {
			fb.Recommendations = append(fb.Recommendations, fmt.Sprintf("Learn %s: %s", skill, course))
		} else {
			fb.Recommendations = append(fb.Recommendations, fmt.Sprintf("Consider learning %s to improve your profile", skill))
		}
	}
	if in.Decision == types.DecisionRejected {
		fb.Recommendations = append(fb.Recommendations, rejectionTips...)
	}

	return fb
}
