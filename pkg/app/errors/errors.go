// Package errors contains helper functions and types to work with errors
package errors

import (
	"errors"
	"net/http"
)

// Category defines error category
type Category int

const (
	// CategoryNoError is the zero value, used when a call succeeded.
	CategoryNoError Category = iota
	// CategoryInvalidInput The caller supplied a malformed address, a
	// non-positive or non-numeric amount, or an otherwise unusable parameter.
	// Never retried.
	CategoryInvalidInput
	// CategorySubmissionFailed The external privacy-pool provider rejected a
	// shield or unshield submission (insufficient balance, proof failure, ...).
	CategorySubmissionFailed
	// CategoryOperationFailed A submitted operation reached the failed
	// terminal state while its confirmation was being polled.
	CategoryOperationFailed
	// CategoryConfirmationTimeout The confirmation deadline elapsed while the
	// operation was still in a non-terminal state.
	CategoryConfirmationTimeout
	// CategoryDependencyFailure An external provider or query endpoint is
	// throwing errors unrelated to the request contents.
	CategoryDependencyFailure
	// CategoryGeneralError The service failed in an unexpected way
	CategoryGeneralError
)

func (c Category) String() string {
	switch c {
	case CategoryInvalidInput:
		return "CategoryInvalidInput"
	case CategorySubmissionFailed:
		return "CategorySubmissionFailed"
	case CategoryOperationFailed:
		return "CategoryOperationFailed"
	case CategoryConfirmationTimeout:
		return "CategoryConfirmationTimeout"
	case CategoryDependencyFailure:
		return "CategoryDependencyFailure"
	default:
		return "CategoryGeneralError"
	}
}

// Phase identifies which step of the trading workflow produced an error.
type Phase string

const (
	PhaseDerive   Phase = "derive"
	PhasePrepare  Phase = "prepare"
	PhaseUnshield Phase = "unshield"
	PhaseExit     Phase = "exit"
	PhaseConfirm  Phase = "confirm"
	PhaseStatus   Phase = "status"
)

// ServiceError represents service specific type that
// is used all over the services. It carries the failure category,
// the workflow phase that produced it, and the root cause.
type ServiceError struct {
	Category Category
	Phase    Phase
	Message  string
	Err      error
}

// Error renders the phase-identifying message followed by the root cause,
// so callers can log or display the error without inspecting types.
func (err ServiceError) Error() string {
	if err.Err != nil {
		if err.Message != "" {
			return err.Message + ": " + err.Err.Error()
		}
		return err.Err.Error()
	}
	return err.Message
}

// Unwrap returns the underlying error
func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is checks that provided error is a ServiceError with desired Category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Category == cat {
		return true
	}
	return false
}

// PhaseOf extracts the workflow phase from a ServiceError, or "" for
// any other error.
func PhaseOf(err error) Phase {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Phase
	}
	return ""
}

// InvalidInput returns an error with category InvalidInput.
func InvalidInput(err error, message string) error {
	if err == nil {
		err = errors.New("invalid input: " + message)
	}
	return &ServiceError{
		Category: CategoryInvalidInput,
		Message:  message,
		Err:      err,
	}
}

// SubmissionFailed returns an error with category SubmissionFailed,
// preserving the provider's message as the cause.
func SubmissionFailed(err error, message string) error {
	if err == nil {
		err = errors.New("submission failed: " + message)
	}
	return &ServiceError{
		Category: CategorySubmissionFailed,
		Message:  message,
		Err:      err,
	}
}

// OperationFailed returns an error with category OperationFailed.
func OperationFailed(err error, message string) error {
	if err == nil {
		err = errors.New("operation failed: " + message)
	}
	return &ServiceError{
		Category: CategoryOperationFailed,
		Message:  message,
		Err:      err,
	}
}

// ConfirmationTimeout returns an error with category ConfirmationTimeout.
// It is distinct from OperationFailed so callers can choose to keep polling
// manually instead of treating the wait as a hard failure.
func ConfirmationTimeout(err error, message string) error {
	if err == nil {
		err = errors.New("confirmation timeout: " + message)
	}
	return &ServiceError{
		Category: CategoryConfirmationTimeout,
		Message:  message,
		Err:      err,
	}
}

// DependencyFailure returns an error with category DependencyFailure.
func DependencyFailure(err error, message string) error {
	if err == nil {
		err = errors.New("dependency failure: " + message)
	}
	return &ServiceError{
		Category: CategoryDependencyFailure,
		Message:  message,
		Err:      err,
	}
}

// GeneralError returns a general service error.
func GeneralError(err error) error {
	if err == nil {
		err = errors.New("internal server error")
	}
	return &ServiceError{
		Category: CategoryGeneralError,
		Message:  "Internal Server Error",
		Err:      err,
	}
}

// Wrap attaches a phase tag and a phase-identifying message to err while
// preserving its category and root cause. Non-ServiceError causes are
// classified as general errors. The original error remains reachable
// through errors.Is/errors.As.
func Wrap(phase Phase, message string, err error) error {
	category := CategoryGeneralError
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		category = svcErr.Category
	}
	return &ServiceError{
		Category: category,
		Phase:    phase,
		Message:  message,
		Err:      err,
	}
}

// StatusCode returns the HTTP status code for the error category
func (err ServiceError) StatusCode() int {
	switch err.Category {
	case CategoryInvalidInput:
		return http.StatusBadRequest
	case CategorySubmissionFailed:
		return http.StatusUnprocessableEntity
	case CategoryOperationFailed:
		return http.StatusBadGateway
	case CategoryConfirmationTimeout:
		return http.StatusGatewayTimeout
	case CategoryDependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
