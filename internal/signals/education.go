package signals

import "strings"

// educationKeywords are matched as plain substrings, so "masters" counts as "master".
var educationKeywords = []string{
	"bachelor", "master", "phd", "b.tech", "m.tech", "bsc", "msc", "mba",
	"b.e", "m.e", "diploma", "degree", "university", "college",
}

// Education returns the education keywords present in text.
func Education(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, keyword := range educationKeywords {
		if strings.Contains(lower, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}
