package models

import (
	"errors"
	"fmt"
)

// View state errors
var (
	ErrViewNotFound = errors.New("view state not found")
	ErrViewExpired  = errors.New("view state expired")
)

// Analysis flow errors
var (
	ErrSubmissionInFlight = errors.New("an analysis is already in progress")
	ErrMigrationsMissing  = errors.New("view state table missing, run migrations")
)

// ValidationError means the user input was rejected before any request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	if ve.Field == "" {
		return fmt.Sprintf("invalid input: %s", ve.Message)
	}
	return fmt.Sprintf("invalid %s: %s", ve.Field, ve.Message)
}

// RequestErrorKind tells apart the ways a call to the analysis service can fail.
type RequestErrorKind string

const (
	KindUnreachable RequestErrorKind = "unreachable"
	KindTimeout     RequestErrorKind = "timeout"
	KindCanceled    RequestErrorKind = "canceled"
	KindStatus      RequestErrorKind = "status"
	KindMalformed   RequestErrorKind = "malformed"
	KindRejected    RequestErrorKind = "rejected"
)

// RequestError wraps any failure talking to the analysis service.
type RequestError struct {
	Kind       RequestErrorKind
	StatusCode int
	Err        error
}

func (re *RequestError) Error() string {
	if re.Kind == KindStatus {
		return fmt.Sprintf("analysis request failed (status %d): %v", re.StatusCode, re.Err)
	}
	return fmt.Sprintf("analysis request failed (%s): %v", re.Kind, re.Err)
}

func (re *RequestError) Unwrap() error {
	return re.Err
}

// UserMessage is the notification shown to the person who submitted the form.
func (re *RequestError) UserMessage() string {
	const generic = "Analysis failed. Please try again."
	switch re.Kind {
	case KindUnreachable:
		return generic + " The analysis service could not be reached."
	case KindTimeout:
		return generic + " The analysis service took too long to answer."
	case KindStatus, KindRejected:
		return generic + " The analysis service reported an error."
	case KindMalformed:
		return generic + " The analysis service sent a response we could not read."
	default:
		return generic
	}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRequest reports whether err is (or wraps) a RequestError.
func IsRequest(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
