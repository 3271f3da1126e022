package signals

import "strings"

// Skills returns the taxonomy terms found in text as whole words, matched
// case-insensitively. A term is reported once however often it occurs, in
// taxonomy order.
func Skills(text string) []string {
	found := []string{}
	if strings.TrimSpace(text) == "" {
		return found
	}

	lower := strings.ToLower(text)
	for _, m := range skillMatchers {
		if m.pattern.MatchString(lower) {
			found = append(found, m.skill)
		}
	}
	return found
}
