package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/applicant-screener/internal/types"
)

func intPtr(v int) *int { return &v }

func TestMatch_PartialOverlap(t *testing.T) {
	result := Match([]string{"python", "flask", "sql"}, []string{"python", "flask", "docker", "aws"})

	assert.Equal(t, []string{"python", "flask"}, result.Matched)
	assert.Equal(t, []string{"docker", "aws"}, result.Missing)
	assert.Equal(t, 50, result.Percentage)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		candidate  []string
		job        []string
		matched    []string
		missing    []string
		percentage int
	}{
		{
			name:       "no job skills is neutral",
			candidate:  []string{"go"},
			job:        nil,
			matched:    []string{},
			missing:    []string{},
			percentage: NeutralPercentage,
		},
		{
			name:       "blank job skills are ignored",
			candidate:  nil,
			job:        []string{"  ", ""},
			matched:    []string{},
			missing:    []string{},
			percentage: NeutralPercentage,
		},
		{
			name:       "case and whitespace insensitive",
			candidate:  []string{"Python ", "DOCKER"},
			job:        []string{" python", "Docker"},
			matched:    []string{"python", "docker"},
			missing:    []string{},
			percentage: 100,
		},
		{
			name:       "duplicates in job counted once",
			candidate:  []string{"go"},
			job:        []string{"go", "Go", "rust"},
			matched:    []string{"go"},
			missing:    []string{"rust"},
			percentage: 50,
		},
		{
			name:       "percentage floors",
			candidate:  []string{"a"},
			job:        []string{"a", "b", "c"},
			matched:    []string{"a"},
			missing:    []string{"b", "c"},
			percentage: 33,
		},
		{
			name:       "no candidate skills",
			candidate:  nil,
			job:        []string{"aws", "gcp"},
			matched:    []string{},
			missing:    []string{"aws", "gcp"},
			percentage: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match(tt.candidate, tt.job)
			assert.Equal(t, tt.matched, result.Matched)
			assert.Equal(t, tt.missing, result.Missing)
			assert.Equal(t, tt.percentage, result.Percentage)
		})
	}
}

func TestMatch_SetProperties(t *testing.T) {
	pool := []string{"go", "rust", "python", "aws", "docker", "sql"}
	for mask := 0; mask < 1<<len(pool); mask++ {
		var candidate, job []string
		for i, skill := range pool {
			if mask&(1<<i) != 0 {
				candidate = append(candidate, skill)
			}
			if (mask>>1)&(1<<i) != 0 || i == mask%len(pool) {
				job = append(job, skill)
			}
		}

		result := Match(candidate, job)
		assert.GreaterOrEqual(t, result.Percentage, 0)
		assert.LessOrEqual(t, result.Percentage, 100)
		assert.Len(t, append(result.Matched, result.Missing...), len(normalizeSet(job)))
		for _, s := range result.Matched {
			assert.Contains(t, candidate, s)
			assert.Contains(t, job, s)
		}
		for _, s := range result.Missing {
			assert.NotContains(t, candidate, s)
			assert.Contains(t, job, s)
		}
	}
}

func TestMatch_EmptyJobAlwaysNeutral(t *testing.T) {
	for _, candidate := range [][]string{nil, {}, {"go"}, {"go", "rust", "aws"}} {
		assert.Equal(t, NeutralPercentage, Match(candidate, []string{}).Percentage)
	}
}

func TestParseSkillList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"json array", `["Python", "Flask", "Docker"]`, []string{"Python", "Flask", "Docker"}},
		{"json array with blanks", `["Go", " ", ""]`, []string{"Go"}},
		{"comma list", "python, flask ,docker", []string{"python", "flask", "docker"}},
		{"comma list with empties", "go,, ,rust,", []string{"go", "rust"}},
		{"malformed json falls back", `["python", "go"`, []string{`["python"`, `"go"`}},
		{"json scalar falls back", "42", []string{"42"}},
		{"single skill", "kubernetes", []string{"kubernetes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSkillList(tt.raw))
		})
	}
}

func TestRequirementFromRecord(t *testing.T) {
	req := RequirementFromRecord(types.JobRecord{
		ID:             "42",
		Title:          "Backend Engineer",
		Company:        "Acme",
		SkillsRequired: "go, postgresql",
		ExperienceMin:  intPtr(3),
		ExperienceMax:  intPtr(6),
	})

	assert.Equal(t, "42", req.ID)
	assert.Equal(t, []string{"go", "postgresql"}, req.Skills)
	assert.Equal(t, 3, req.MinYears)
	assert.Equal(t, 6, *req.MaxYears)

	assert.Zero(t, RequirementFromRecord(types.JobRecord{}).MinYears)
	assert.Zero(t, RequirementFromRecord(types.JobRecord{ExperienceMin: intPtr(-1)}).MinYears)
}
