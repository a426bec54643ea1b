package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable means no HTTP response was received from the backend.
	ErrUnreachable = errors.New("backend unreachable")

	// ErrInvalidResponse means the backend answered 2xx with a body that is
	// not a hospital feature collection.
	ErrInvalidResponse = errors.New("invalid response format")

	// ErrNotInitialized is returned by requests issued before Init.
	ErrNotInitialized = errors.New("client not initialized")

	// ErrIPLookupFailed means the IP location request itself failed.
	ErrIPLookupFailed = errors.New("ip location request failed")

	// ErrIPLocationMissing means the IP lookup answered without a location.
	ErrIPLocationMissing = errors.New("ip location missing from response")
)

// StatusError is a non-2xx backend response. Detail is the raw response body.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
}

// UserMessage converts a client error to the text shown to the patient.
func UserMessage(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnreachable):
		return "Unable to connect to the server. Please check if the backend server is running."
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Server error: %d - %s", statusErr.StatusCode, statusErr.Detail)
	case errors.Is(err, ErrInvalidResponse):
		return "Invalid response format from server"
	case errors.Is(err, ErrIPLocationMissing):
		return "Failed to retrieve location via IP."
	case errors.Is(err, ErrIPLookupFailed):
		return "Error fetching location via IP."
	case errors.Is(err, ErrNotInitialized):
		return "The application is still starting. Please try again."
	default:
		return "Failed to fetch hospitals. Please try again later."
	}
}
