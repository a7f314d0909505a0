package errors

const (
	HttpInternalError          = "internal_error"
	HttpInvalidRequestError    = "invalid_request"
	HttpInvalidQueryError      = "invalid_query"
	HttpNotFoundError          = "not_found"
	HttpPayloadTooLargeError   = "payload_too_large"
	HttpSignatureMismatchError = "signature_mismatch"
	HttpUnknownPlatformError   = "unknown_platform"
)

// ErrorResponse is the error response body for all HTTP endpoints.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
