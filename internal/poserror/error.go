package poserror

import "net/http"

type (
	// A POSError represents the error format rendered by the WashPOS backend.
	POSError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code. Errors carrying no explicit
// code render as internal errors.
func StatusCode(err error) int {
	if poserr, ok := err.(*POSError); ok && poserr.HTTPCode != 0 {
		return poserr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new POSError with the given message.
func New(message string) *POSError {
	return &POSError{FieldError: err{Message: message}}
}

// NewWithTagCode returns a new POSError with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *POSError {
	return &POSError{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// Error implements error interface.
func (e *POSError) Error() string {
	return e.FieldError.Message
}
