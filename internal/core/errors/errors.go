package errors

const (
	HttpInternalError      = "internal_error"
	HttpInvalidJsonError   = "invalid_json"
	HttpInvalidInputError  = "invalid_input"
	HttpMissingColumnError = "missing_column"
	HttpRrvFailedError     = "rrv_failed"
	HttpNotFoundError      = "not_found"
)

// ErrorResponse is the error response body for analysis API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
