package models

import (
	"errors"
	"fmt"
	"strings"
)

// Validation sentinels. ValidationError.Cause carries one of these so callers
// can match with errors.Is.
var (
	ErrNameRequired      = errors.New("name is required")
	ErrProfileRequired   = errors.New("profile is required")
	ErrIDRequired        = errors.New("id is required")
	ErrDuplicateName     = errors.New("a topic with this name already exists for the selected profile")
	ErrCreationInFlight  = errors.New("a topic with this name is already being created for the selected profile")
	ErrRemoteRequest     = errors.New("remote request failed")
	ErrMalformedResponse = errors.New("malformed response")
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (v ValidationError) Error() string {
	if v.Field == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

func (v ValidationError) Unwrap() error {
	return v.Cause
}

// ValidationErrors aggregates multiple validation failures.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Add records a validation error for a field.
func (v *ValidationErrors) Add(field string, err error) {
	if err == nil {
		return
	}

	var nested *ValidationErrors
	if errors.As(err, &nested) {
		for _, sub := range nested.Errors {
			v.Errors = append(v.Errors, ValidationError{
				Field:   joinField(field, sub.Field),
				Message: sub.Message,
				Cause:   sub.Cause,
			})
		}
		return
	}

	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: err.Error(),
		Cause:   err,
	})
}

// AddMessage records a validation error with a custom message.
func (v *ValidationErrors) AddMessage(field, message string) {
	if message == "" {
		return
	}
	v.Errors = append(v.Errors, ValidationError{Field: field, Message: message})
}

// Err returns nil if there are no errors, otherwise returns the validation error.
func (v *ValidationErrors) Err() error {
	if v == nil || len(v.Errors) == 0 {
		return nil
	}
	return v
}

// Error implements error.
func (v *ValidationErrors) Error() string {
	if v == nil || len(v.Errors) == 0 {
		return "validation failed"
	}
	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}

	var builder strings.Builder
	for i, err := range v.Errors {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(err.Error())
	}

	return builder.String()
}

// Is allows errors.Is to match nested validation errors.
func (v *ValidationErrors) Is(target error) bool {
	if v == nil {
		return false
	}
	for _, err := range v.Errors {
		if err.Cause != nil && errors.Is(err.Cause, target) {
			return true
		}
	}
	return false
}

func joinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	default:
		return prefix + "." + field
	}
}

// DuplicateNameError is returned when a topic name is already taken under a
// profile in the locally loaded topic list.
type DuplicateNameError struct {
	Name      string `json:"name"`
	ProfileID string `json:"profile_id"`
	// ExistingID is the id of the conflicting topic, empty when Pending.
	ExistingID string `json:"existing_id,omitempty"`
	// Pending marks a conflict with a submission still in flight.
	Pending bool `json:"pending,omitempty"`
}

func (e *DuplicateNameError) Error() string {
	if e.Pending {
		return ErrCreationInFlight.Error()
	}
	return ErrDuplicateName.Error()
}

func (e *DuplicateNameError) Unwrap() error {
	if e.Pending {
		return ErrCreationInFlight
	}
	return ErrDuplicateName
}

// RemoteRequestError wraps a failed call to the system of record. Message is
// the best human-readable explanation available.
type RemoteRequestError struct {
	Op      string `json:"op"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *RemoteRequestError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RemoteRequestError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRemoteRequest}
	}
	return []error{ErrRemoteRequest, e.Cause}
}
