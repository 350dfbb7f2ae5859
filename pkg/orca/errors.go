package orca

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is returned before any request is made when a
	// caller-supplied argument is empty or fails validation.
	ErrInvalidArgument = errors.New("orca: invalid argument")
	// ErrTransport marks network level failures.
	ErrTransport = errors.New("orca: transport failure")
	// ErrStatus marks non-2xx responses.
	ErrStatus = errors.New("orca: unexpected response status")
	// ErrDecode marks bodies that do not match the expected schema.
	ErrDecode = errors.New("orca: decode response")
)

// TransportError wraps a failure to complete the HTTP exchange.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("orca: request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("orca: %s returned status %d body: %s", e.URL, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// DecodeError wraps a JSON decoding failure.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("orca: decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

// requireArg trims v and fails with ErrInvalidArgument when it is empty.
func requireArg(name, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, name)
	}
	return v, nil
}
