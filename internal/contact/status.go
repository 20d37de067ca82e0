package contact

import "errors"

// Status is the state of the current submission attempt.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Settled reports whether s shows a notification banner.
func (s Status) Settled() bool {
	return s == StatusSucceeded || s == StatusFailed
}

var (
	// ErrInvalidInput means a required field was empty. No mail was sent.
	ErrInvalidInput = errors.New("contact: required fields missing")

	// ErrDeliveryFailed wraps any failure reported by the Sender.
	ErrDeliveryFailed = errors.New("contact: delivery failed")

	// ErrBusy is returned while a submission is in flight.
	ErrBusy = errors.New("contact: submission already in progress")

	// ErrClosed is returned once the controller's page session is gone.
	ErrClosed = errors.New("contact: controller closed")
)
