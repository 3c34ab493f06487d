package gateway

import "errors"

// UserMessage converts a gateway failure into the phrase shown to the user.
// Server-provided messages are preserved when present; transport failures,
// which carry no server response, fall back to a generic retry prompt.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "Record not found."
	case errors.Is(err, ErrConflict):
		return "Roll number already taken."
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "The record store could not complete the request. Please try again."
	}
	return "Could not reach the record store. Please try again."
}
