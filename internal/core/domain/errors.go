package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks user-correctable request problems. The message is
// safe to surface verbatim to the client.
var ErrInvalidInput = errors.New("domain: invalid input")

// ErrUpstreamUnavailable marks network/timeout/non-success failures from an
// upstream service. Only a generic message is shown to the client.
var ErrUpstreamUnavailable = errors.New("domain: upstream unavailable")

// ErrEmptyResult means the AI call succeeded but yielded no usable
// candidates. The orchestrator turns this into an empty song list, not an
// error response.
var ErrEmptyResult = errors.New("domain: no usable candidates")

// InvalidInputError carries the human-readable reason for a rejected request.
type InvalidInputError struct {
	Reason string
}

func (e InvalidInputError) Error() string {
	if e.Reason == "" {
		return ErrInvalidInput.Error()
	}
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
