package contact

import "github.com/mesaverdecleaning/site/internal/models"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"phone"`
	Service          string `json:"service" binding:"required,offered_service"`
	Message          string `json:"message" binding:"required"`
	PreferredContact string `json:"preferredContact" binding:"required,contact_method"`
	RecaptchaToken   string `json:"recaptchaToken"`
}

// ToSubmission converts the request into the domain model
func (r *ContactRequest) ToSubmission() *models.ContactSubmission {
	return &models.ContactSubmission{
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		Service:          r.Service,
		Message:          r.Message,
		PreferredContact: r.PreferredContact,
		RecaptchaToken:   r.RecaptchaToken,
	}
}
