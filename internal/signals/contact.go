package signals

import (
	"regexp"

	"github.com/jonathan/applicant-screener/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`[\+]?[(]?[0-9]{1,3}[)]?[-\s\.]?[0-9]{3,4}[-\s\.]?[0-9]{4,6}`)
)

// ContactInfo returns the first email and the first phone number in text.
func ContactInfo(text string) types.Contact {
	return types.Contact{
		Email: emailPattern.FindString(text),
		Phone: phonePattern.FindString(text),
	}
}
