package errors

import (
	"errors"
)

// StorageError is returned when the durable store is unreachable or rejects an operation
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	return join(e.Message, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// UpstreamFetchError is returned when a source API or feed is unavailable or malformed
type UpstreamFetchError struct {
	Message string
	Err     error
}

func (e *UpstreamFetchError) Error() string {
	return join(e.Message, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// RelayError is returned when a relay connect, profile or emit operation fails
type RelayError struct {
	Message string
	Err     error
}

func (e *RelayError) Error() string {
	return join(e.Message, e.Err)
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// DuplicateError is returned when a uniqueness constraint rejects an insert
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string {
	return e.Message
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PublishStep names a step of the publish sequence
type PublishStep string

const (
	StepConnect    PublishStep = "connect"
	StepProfile    PublishStep = "profile"
	StepEmit       PublishStep = "emit"
	StepDisconnect PublishStep = "disconnect"
)

// PublishError is surfaced by the publish pipeline; only StepEmit is ever returned to callers
type PublishError struct {
	Step PublishStep
	Err  error
}

func (e *PublishError) Error() string {
	return join("publish failed at "+string(e.Step), e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Constructors
func NewStorageError(msg string, err error) error {
	return &StorageError{Message: msg, Err: err}
}

func NewUpstreamFetchError(msg string, err error) error {
	return &UpstreamFetchError{Message: msg, Err: err}
}

func NewRelayError(msg string, err error) error {
	return &RelayError{Message: msg, Err: err}
}

func NewDuplicateError(msg string) error {
	return &DuplicateError{Message: msg}
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func NewEmitError(err error) error {
	return &PublishError{Step: StepEmit, Err: err}
}

// Type checks
func IsStorageError(err error) bool {
	var e *StorageError
	return errors.As(err, &e)
}

func IsUpstreamFetchError(err error) bool {
	var e *UpstreamFetchError
	return errors.As(err, &e)
}

func IsRelayError(err error) bool {
	var e *RelayError
	return errors.As(err, &e)
}

func IsDuplicateError(err error) bool {
	var e *DuplicateError
	return errors.As(err, &e)
}

func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsEmitError(err error) bool {
	var e *PublishError
	return errors.As(err, &e) && e.Step == StepEmit
}

// ErrorType maps an error onto a stable label for metrics
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case IsDuplicateError(err):
		return "duplicate"
	case IsValidationError(err):
		return "validation"
	case IsStorageError(err):
		return "storage"
	case IsUpstreamFetchError(err):
		return "upstream"
	case IsEmitError(err), IsRelayError(err):
		return "relay"
	default:
		return "unknown"
	}
}

func join(msg string, err error) string {
	if err == nil {
		return msg
	}
	return msg + ": " + err.Error()
}
