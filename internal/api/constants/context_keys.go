package constants

// Context keys for values shared between middleware and handlers
const (
	// Validated contact form request
	ContextKeyContact = "contact"

	// Request metadata
	ContextKeyRequestID = "RequestID"
	ContextKeyRawBody   = "rawBody"
)
