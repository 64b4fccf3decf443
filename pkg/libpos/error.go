package libpos

import (
	"encoding/json"
	"io"
)

// An APIError represents an HTTP error returned by the WashPOS backend.
type APIError struct {
	StatusCode int
	Err        struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseAPIError(r io.Reader, code int) error {
	var apierr APIError
	dec := json.NewDecoder(r)
	if err := dec.Decode(&apierr); err != nil {
		return err
	}
	apierr.StatusCode = code
	return &apierr
}

func (e *APIError) Error() string {
	return e.Err.Message
}
