// Package errs defines the error shapes returned to API clients.
//
// Every error that reaches the HTTP layer is funneled into an HTTPError so
// clients always receive the same JSON structure:
//
//	{
//	  "code": "BAD_REQUEST",
//	  "message": "Invalid query parameters",
//	  "status": 400,
//	  "override": true,
//	  "errors": [{ "field": "id", "error": "must fit in uint16" }]
//	}
package errs

import "strings"

// FieldError is a problem with a single request parameter.
type FieldError struct {
	// Field is the parameter name (e.g. "id").
	Field string `json:"field"`

	// Error is the human-readable reason.
	Error string `json:"error"`
}

// HTTPError is the error type handlers return to the global error handler.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: whether clients may show Message to the user as-is.
//   - Errors: per-parameter problems.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It does not compare Code or Status; errors.Is(err, &HTTPError{}) only asks
// "is this already a client-facing error?".
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
