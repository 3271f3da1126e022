package signals

import (
	"regexp"
	"slices"
)

// Category groups related taxonomy terms.
type Category string

const (
	CategoryProgramming Category = "programming"
	CategoryFrontend    Category = "frontend"
	CategoryBackend     Category = "backend"
	CategoryDatabase    Category = "database"
	CategoryCloud       Category = "cloud"
	CategoryData        Category = "data"
	CategoryMobile      Category = "mobile"
	CategoryTools       Category = "tools"
)

// categoryOrder fixes iteration order so extraction output is deterministic.
var categoryOrder = []Category{
	CategoryProgramming,
	CategoryFrontend,
	CategoryBackend,
	CategoryDatabase,
	CategoryCloud,
	CategoryData,
	CategoryMobile,
	CategoryTools,
}

// taxonomy is never mutated after package initialization. Accessors hand out copies.
var taxonomy = map[Category][]string{
	CategoryProgramming: {"python", "javascript", "java", "c++", "c#", "go", "rust", "ruby", "php", "swift", "kotlin", "typescript", "scala", "r"},
	CategoryFrontend:    {"html", "css", "react", "vue", "angular", "svelte", "jquery", "bootstrap", "tailwind", "sass", "less", "webpack"},
	CategoryBackend:     {"node.js", "express", "django", "flask", "fastapi", "spring", "laravel", "rails", "asp.net", "graphql", "rest api"},
	CategoryDatabase:    {"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "sqlite", "oracle", "sql server", "cassandra", "dynamodb"},
	CategoryCloud:       {"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins", "ci/cd", "devops", "linux", "nginx"},
	CategoryData:        {"machine learning", "data science", "pandas", "numpy", "tensorflow", "pytorch", "spark", "hadoop", "tableau", "power bi"},
	CategoryMobile:      {"android", "ios", "react native", "flutter", "xamarin", "swift", "kotlin"},
	CategoryTools:       {"git", "github", "gitlab", "jira", "agile", "scrum", "figma", "postman", "vs code"},
}

type skillMatcher struct {
	skill   string
	pattern *regexp.Regexp
}

// skillMatchers is the flattened, de-duplicated taxonomy with one compiled
// word-boundary pattern per term.
var skillMatchers = compileSkillMatchers()

func compileSkillMatchers() []skillMatcher {
	seen := make(map[string]bool)
	matchers := make([]skillMatcher, 0, 96)
	for _, category := range categoryOrder {
		for _, skill := range taxonomy[category] {
			if seen[skill] {
				continue
			}
			seen[skill] = true
			matchers = append(matchers, skillMatcher{
				skill:   skill,
				pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(skill) + `\b`),
			})
		}
	}
	return matchers
}

// Categories returns the taxonomy categories in their fixed order.
func Categories() []Category {
	return slices.Clone(categoryOrder)
}

// Taxonomy returns a copy of the category to terms table.
func Taxonomy() map[Category][]string {
	out := make(map[Category][]string, len(taxonomy))
	for category, skills := range taxonomy {
		out[category] = slices.Clone(skills)
	}
	return out
}

// KnownSkills returns every taxonomy term once, in category order.
func KnownSkills() []string {
	out := make([]string, len(skillMatchers))
	for i, m := range skillMatchers {
		out[i] = m.skill
	}
	return out
}

// IsKnownSkill reports whether skill (case-sensitive, lowercase expected) is a taxonomy term.
func IsKnownSkill(skill string) bool {
	for _, m := range skillMatchers {
		if m.skill == skill {
			return true
		}
	}
	return false
}
