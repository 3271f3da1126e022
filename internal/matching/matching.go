// Package matching compares candidate skills with job requirements and ranks
// jobs for a candidate.
package matching

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/applicant-screener/internal/types"
)

// NeutralPercentage is reported when a job lists no skills, so an unspecified
// requirement never penalizes the candidate.
const NeutralPercentage = 50

// NormalizeSkill lowercases and trims a skill name.
func NormalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

// normalizeSet normalizes skills, dropping empties and repeats while keeping
// first-occurrence order.
func normalizeSet(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		n := NormalizeSkill(s)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Match intersects candidate skills with job skills. Matched and missing
// follow the job's own ordering; candidate skills the job does not ask for
// are neither reported nor penalized.
func Match(candidate, job []string) types.MatchResult {
	required := normalizeSet(job)

	held := make(map[string]bool, len(candidate))
	for _, s := range candidate {
		held[NormalizeSkill(s)] = true
	}

	result := types.MatchResult{
		Matched: []string{},
		Missing: []string{},
	}
	for _, skill := range required {
		if held[skill] {
			result.Matched = append(result.Matched, skill)
		} else {
			result.Missing = append(result.Missing, skill)
		}
	}

	if len(required) == 0 {
		result.Percentage = NeutralPercentage
		return result
	}
	result.Percentage = 100 * len(result.Matched) / len(required)
	return result
}

// ParseSkillList reads a stored skills column. JSON arrays are decoded;
// anything else is treated as a comma-separated list. Blank entries are dropped.
func ParseSkillList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		entries = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// RequirementFromRecord converts a stored job row. A missing or negative
// minimum is read as zero years.
func RequirementFromRecord(record types.JobRecord) types.JobRequirement {
	req := types.JobRequirement{
		ID:       record.ID,
		Title:    record.Title,
		Company:  record.Company,
		Skills:   ParseSkillList(record.SkillsRequired),
		MaxYears: record.ExperienceMax,
	}
	if record.ExperienceMin != nil && *record.ExperienceMin > 0 {
		req.MinYears = *record.ExperienceMin
	}
	return req
}
