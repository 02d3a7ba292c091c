package errors

import "errors"

// ErrorWithStatusCode is the error shape crossing the gateway boundary: a
// human-readable message plus the backend status code that produced it.
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func New(message string, statusCode int) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: statusCode}
}

// StatusCode unwraps the status code from err, or 0 when err carries none.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
