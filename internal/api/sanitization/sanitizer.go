package sanitization

import (
	"regexp"
	"strings"

	"github.com/mesaverdecleaning/site/internal/api/dto/v1/contact"
)

var whitespace = regexp.MustCompile(`\s+`)

// SanitizeString collapses runs of whitespace, including line breaks, into a
// single space and trims the result
func SanitizeString(input string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(input, " "))
}

// SanitizeEmail lowercases and trims an email address
func SanitizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// SanitizeContactRequest normalizes a contact form in place before it is
// validated. HTML escaping is left to the mail templates; the message keeps
// its line breaks.
func SanitizeContactRequest(r *contact.ContactRequest) {
	r.Name = SanitizeString(r.Name)
	r.Email = SanitizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Service = SanitizeString(r.Service)
	r.Message = strings.TrimSpace(r.Message)
	r.PreferredContact = strings.ToLower(strings.TrimSpace(r.PreferredContact))
	r.RecaptchaToken = strings.TrimSpace(r.RecaptchaToken)
}
