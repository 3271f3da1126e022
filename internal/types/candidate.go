// Package types provides type definitions for the records exchanged by the screening core.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Contact holds the contact fields detected in a resume. Both are optional and
// kept as found, without format validation.
type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Count returns how many contact fields are present (0, 1 or 2).
func (c Contact) Count() int {
	n := 0
	if c.Email != "" {
		n++
	}
	if c.Phone != "" {
		n++
	}
	return n
}

// CandidateProfile is the structured view of one applicant used for a single scoring call.
type CandidateProfile struct {
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years" validate:"min=0"`
	Education       []string `json:"education"`
	Contact         Contact  `json:"contact"`
	RawText         string   `json:"raw_text,omitempty"`
	HasHeadline     bool     `json:"has_headline"`
	HasBio          bool     `json:"has_bio"`
	// ATSScore is set when the profile comes from a previously parsed resume.
	ATSScore *int `json:"ats_score,omitempty" validate:"omitempty,min=0,max=100"`
}

// NewCandidateProfile builds a profile with a lowercased, de-duplicated skill set.
func NewCandidateProfile(skills []string, experienceYears int, education []string, contact Contact) (CandidateProfile, error) {
	if experienceYears < 0 {
		return CandidateProfile{}, fmt.Errorf("experience years must be non-negative, got %d", experienceYears)
	}
	return CandidateProfile{
		Skills:          UniqueLower(skills),
		ExperienceYears: experienceYears,
		Education:       education,
		Contact:         contact,
	}, nil
}

// Validate validates the CandidateProfile using the validator.
func (p *CandidateProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// EmploymentRange is one entry of a candidate's employment history.
// A nil End means the position is current.
type EmploymentRange struct {
	Title string     `json:"title,omitempty"`
	Start *time.Time `json:"start_date,omitempty"`
	End   *time.Time `json:"end_date,omitempty"`
}

// CandidateRecord is the stored profile data of an applicant who may not have uploaded a resume.
type CandidateRecord struct {
	ID             string            `json:"id,omitempty"`
	Skills         []string          `json:"skills"`
	Employment     []EmploymentRange `json:"employment"`
	Degrees        []string          `json:"degrees"`
	Headline       string            `json:"headline,omitempty"`
	Bio            string            `json:"bio,omitempty"`
	ResumeATSScore *int              `json:"resume_ats_score,omitempty"`
	Parsed         *ParseResult      `json:"parsed_resume,omitempty"`
}

// UniqueLower lowercases and trims each entry, drops empties, and removes
// duplicates while keeping first-occurrence order.
func UniqueLower(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, key)
	}
	return result
}
