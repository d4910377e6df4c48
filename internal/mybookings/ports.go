package mybookings

import (
	"context"

	"rideNext/internal/models"
)

// Source is the backend side of the screen; *services.BookingService implements it.
type Source interface {
	PassengerBookings(ctx context.Context, userID string) ([]models.Booking, error)
	DriverRides(ctx context.Context, userID string) ([]models.Booking, error)
	Requests(ctx context.Context, userID string) ([]models.Booking, error)
	ApproveRequest(ctx context.Context, bookingID string) (*models.StatusResponse, error)
	DeclineRequest(ctx context.Context, bookingID string) (*models.StatusResponse, error)
}

// SessionReader yields the logged-in user id or models.ErrNoSession.
type SessionReader interface {
	UserID(ctx context.Context) (string, error)
}

// Notifier shows blocking alerts to the user.
type Notifier interface {
	Error(title, message string)
	Success(title, message string)
}

type Decision int

const (
	DecisionCancel Decision = iota
	DecisionConfirm
)

// Confirmer asks the user to confirm an action.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (Decision, error)
}

type discardNotifier struct{}

func (discardNotifier) Error(string, string)   {}
func (discardNotifier) Success(string, string) {}
