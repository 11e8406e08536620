package domain

// Envelope is the uniform body of every API response
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ValidationMessages provides human-readable validation error messages
// These map validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"gt":       "Must be greater than minimum value",
	"lte":      "Must be less than or equal to maximum value",
	"uuid":     "Must be a valid UUID",
	"oneof":    "Must be one of the allowed values",
	"numeric":  "Must be a numeric value",
	"datetime": "Must be a date in YYYY-MM-DD format",
	"dive":     "Contains an invalid element",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Error codes carried in the envelope's error field
const (
	ErrorCodeValidation   = "validation_error"
	ErrorCodeNotFound     = "not_found"
	ErrorCodeBadRequest   = "bad_request"
	ErrorCodeConflict     = "conflict"
	ErrorCodeUnauthorized = "unauthorized"
	ErrorCodeForbidden    = "forbidden"
	ErrorCodeRateLimited  = "rate_limited"
	ErrorCodeInternal     = "internal_error"
)
