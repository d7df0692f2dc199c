package utils

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ValidationErrors maps field names to messages for malformed input.
type ValidationErrors struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func NewValidationErrors(errors map[string]string) ValidationErrors {
	return ValidationErrors{
		Message: "Validation failed",
		Errors:  errors,
	}
}
