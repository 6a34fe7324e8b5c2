package errors

import "fmt"

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when a submitted field is missing or malformed
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrUpstream is returned when an external API call fails
type ErrUpstream struct {
	Service string
	Err     error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}
