package stubserver

import (
	"errors"

	"rideNext/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyInStatus   = errors.New("booking already in requested status")
)

// transitions is the booking request state machine. Approved and cancelled are terminal.
var transitions = map[string]map[string]struct{}{
	models.BookingStatusPending: {
		models.BookingStatusApproved:  {},
		models.BookingStatusCancelled: {},
	},
	models.BookingStatusApproved:  {},
	models.BookingStatusCancelled: {},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

func checkTransition(from, to string) error {
	if from == to {
		return ErrAlreadyInStatus
	}
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}

// alreadyMessage is the reply text for a repeated status change.
func alreadyMessage(status string) string {
	switch status {
	case models.BookingStatusApproved:
		return "Already approved"
	case models.BookingStatusCancelled:
		return "Already cancelled"
	default:
		return "Already " + status
	}
}
