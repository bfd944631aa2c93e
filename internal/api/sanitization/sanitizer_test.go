package sanitization

import (
	"testing"

	"github.com/mesaverdecleaning/site/internal/api/dto/v1/contact"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeContactRequest(t *testing.T) {
	r := &contact.ContactRequest{
		Name:             "  Jane \t Doe\n",
		Email:            " Jane@Example.COM ",
		Phone:            " 970-555-0100 ",
		Service:          "Deep\r\nCleaning",
		Message:          "\n  Line one\nLine two  \n",
		PreferredContact: " Email ",
		RecaptchaToken:   " tok ",
	}

	SanitizeContactRequest(r)

	assert.Equal(t, &contact.ContactRequest{
		Name:             "Jane Doe",
		Email:            "jane@example.com",
		Phone:            "970-555-0100",
		Service:          "Deep Cleaning",
		Message:          "Line one\nLine two",
		PreferredContact: "email",
		RecaptchaToken:   "tok",
	}, r)
}

func TestWhitespaceOnlyBecomesEmpty(t *testing.T) {
	assert.Equal(t, "", SanitizeString(" \t\n "))
}
