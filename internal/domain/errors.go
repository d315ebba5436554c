package domain

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed input before any I/O happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError means the mutation target does not exist or is already
// soft-deleted.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// TimeoutError means a store or network call exceeded its bound. The
// underlying operation is abandoned, not cancelled; its outcome is unknown.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out", e.Op)
}

// DocumentTypeMismatchError means the supplied document's extension does not
// match the declared document type. Raised before any upload occurs.
type DocumentTypeMismatchError struct {
	DocumentType string
	Filename     string
}

func (e *DocumentTypeMismatchError) Error() string {
	return fmt.Sprintf("document %q is not a valid %s file", e.Filename, e.DocumentType)
}

// CheckoutInitiationError means the external processor could not create a
// checkout session. The payment is guaranteed unchanged.
type CheckoutInitiationError struct {
	Err error
}

func (e *CheckoutInitiationError) Error() string {
	return fmt.Sprintf("checkout initiation failed: %v", e.Err)
}

func (e *CheckoutInitiationError) Unwrap() error { return e.Err }

// VerificationError means the processor reported (or we could not confirm)
// that a checkout session did not complete. Success is never assumed.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string {
	if e.Message == "" {
		return "payment verification failed"
	}
	return "payment verification failed: " + e.Message
}

// NotificationDeliveryError marks degraded success: the triggering mutation
// committed, only the notification write failed.
type NotificationDeliveryError struct {
	Err error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("notification delivery failed: %v", e.Err)
}

func (e *NotificationDeliveryError) Unwrap() error { return e.Err }

// ErrMutationInFlight rejects a second concurrent mutation on the same
// payment id. At most one in-flight mutation per record.
var ErrMutationInFlight = errors.New("another mutation for this record is in flight")
