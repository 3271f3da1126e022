// Package ats rates resume structure and content independently of any job.
package ats

import (
	"unicode/utf8"

	"github.com/jonathan/applicant-screener/internal/types"
)

// MaxScore caps the sum of all factors.
const MaxScore = 100

// band awards points when a measured value reaches min. Bands are ordered from
// the highest threshold down and the first reached band wins.
type band struct {
	min      int
	points   int
	feedback string
}

var (
	skillBands = []band{
		{min: 10, points: 35},
		{min: 5, points: 25, feedback: "Add more relevant skills to improve your score"},
		{min: 3, points: 15, feedback: "Your resume needs more technical skills"},
		{min: 0, points: 5, feedback: "Missing technical skills section"},
	}
	experienceBands = []band{
		{min: 5, points: 25},
		{min: 3, points: 20},
		{min: 1, points: 15},
		{min: 0, points: 5, feedback: "Add your work experience with dates"},
	}
	educationBands = []band{
		{min: 2, points: 15},
		{min: 1, points: 10},
		{min: 0, points: 0, feedback: "Include your educational qualifications"},
	}
	contactBands = []band{
		{min: 2, points: 10},
		{min: 1, points: 5, feedback: "Include both email and phone number"},
		{min: 0, points: 0, feedback: "Missing contact information"},
	}
	lengthBands = []band{
		{min: 2000, points: 15},
		{min: 1000, points: 10},
		{min: 500, points: 5, feedback: "Resume content is too brief - add more details"},
		{min: 0, points: 0, feedback: "Resume is too short - elaborate on your experience"},
	}
)

// Breakdown holds the points awarded per factor.
type Breakdown struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Education  int `json:"education"`
	Contact    int `json:"contact"`
	Length     int `json:"length"`
}

// Total sums the factor points.
func (b Breakdown) Total() int {
	return b.Skills + b.Experience + b.Education + b.Contact + b.Length
}

// Result is the ATS rating of one profile.
type Result struct {
	Score     int       `json:"score"`
	Feedback  []string  `json:"feedback"`
	Breakdown Breakdown `json:"breakdown"`
}

// Score rates profile. Feedback lists one message per factor that fell short
// of its top band, in factor order.
func Score(profile types.CandidateProfile) Result {
	feedback := []string{}
	award := func(bands []band, value int) int {
		b := pick(bands, value)
		if b.feedback != "" {
			feedback = append(feedback, b.feedback)
		}
		return b.points
	}

	breakdown := Breakdown{
		Skills:     award(skillBands, len(profile.Skills)),
		Experience: award(experienceBands, profile.ExperienceYears),
		Education:  award(educationBands, len(profile.Education)),
		Contact:    award(contactBands, profile.Contact.Count()),
		Length:     award(lengthBands, utf8.RuneCountInString(profile.RawText)),
	}

	return Result{
		Score:     min(breakdown.Total(), MaxScore),
		Feedback:  feedback,
		Breakdown: breakdown,
	}
}

// pick returns the first band whose threshold value reaches, or the lowest band.
func pick(bands []band, value int) band {
	for _, b := range bands {
		if value >= b.min {
			return b
		}
	}
	return bands[len(bands)-1]
}
