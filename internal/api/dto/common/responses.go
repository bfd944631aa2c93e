package common

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse acknowledges a completed request
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// FieldError represents a validation error detail
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Client-visible error messages
const (
	MsgInvalidFormData     = "Invalid form data"
	MsgTooManyRequests     = "Too many requests. Please try again later."
	MsgVerificationFailed  = "reCAPTCHA verification failed"
	MsgMailNotConfigured   = "Email service is not configured"
	MsgSendFailed          = "Failed to send email"
	MsgInternalServer      = "Internal server error"
	MsgRequestBodyTooLarge = "Request body too large"
	MsgMessageSentOK       = "Message sent successfully"
)

// NewSuccessResponse creates a new successful API response
func NewSuccessResponse(message string) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Message: message,
	}
}

// NewErrorResponse creates a new error API response
func NewErrorResponse(message string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Error:   message,
		Details: details,
	}
}
