package models

// Contact methods a visitor can ask to be reached by
const (
	ContactByEmail = "email"
	ContactByPhone = "phone"
)

// ContactSubmission is a validated contact form submission. It lives for a
// single request and is never stored.
type ContactSubmission struct {
	Name             string
	Email            string
	Phone            string
	Service          string
	Message          string
	PreferredContact string
	RecaptchaToken   string
}
