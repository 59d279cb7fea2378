package middleware

// ErrorResponse is the JSON body of every error the storefront writes.
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlationId,omitempty"`
}
