package response

// ErrorResponse is the error envelope every API handler returns.
// Validation failures carry a field-level map in Errors; everything
// else carries a single human-readable Message.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Error kinds used across the API surface.
const (
	KindValidation   = "validation_error"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindUnauthorized = "unauthorized"
	KindUpstream     = "upstream_error"
	KindUnavailable  = "service_unavailable"
	KindInternal     = "internal_error"
)
