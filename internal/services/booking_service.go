package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"rideNext/internal/api"
	"rideNext/internal/models"
)

// BookingService covers the three "my bookings" tabs and request approval.
type BookingService struct {
	backend Backend
	strict  bool
	logger  *slog.Logger
}

func NewBookingService(backend Backend, opts Options) *BookingService {
	return &BookingService{backend: backend, strict: opts.Strict, logger: opts.logger()}
}

// PassengerBookings lists bookings where userID is the passenger.
func (s *BookingService) PassengerBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.list(ctx, "pasengertab", userID, "bookings")
}

// DriverRides lists rides where userID is the driver.
func (s *BookingService) DriverRides(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.list(ctx, "drivertab", userID, "rides")
}

// Requests lists incoming booking requests awaiting userID's approval.
func (s *BookingService) Requests(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.list(ctx, "bookingrequest", userID, "requests")
}

// ApproveRequest approves a booking request. A nil response means the backend replied
// with nothing usable.
func (s *BookingService) ApproveRequest(ctx context.Context, bookingID string) (*models.StatusResponse, error) {
	return s.setStatus(ctx, bookingID, models.BookingStatusApproved)
}

// DeclineRequest cancels a booking request through the same endpoint.
func (s *BookingService) DeclineRequest(ctx context.Context, bookingID string) (*models.StatusResponse, error) {
	return s.setStatus(ctx, bookingID, models.BookingStatusCancelled)
}

func (s *BookingService) setStatus(ctx context.Context, bookingID, status string) (*models.StatusResponse, error) {
	var raw json.RawMessage
	path := api.Path("approvecanclerequest", bookingID)
	if err := s.backend.Patch(ctx, path, models.RequestStatusUpdate{BookingStatus: status}, &raw); err != nil {
		return nil, fmt.Errorf("%s request %s: %w", status, bookingID, err)
	}
	resp, err := decodeStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("%s request %s: %w", status, bookingID, err)
	}
	return resp, nil
}

func (s *BookingService) list(ctx context.Context, endpoint, userID, key string) ([]models.Booking, error) {
	var raw json.RawMessage
	if err := s.backend.Get(ctx, api.Path(endpoint, userID), &raw); err != nil {
		s.logger.Error("list request failed", "endpoint", endpoint, "err", err)
		return []models.Booking{}, nil
	}
	items, err := decodeList[models.Booking](raw, key)
	if err != nil {
		if s.strict {
			return nil, fmt.Errorf("%s: %w", endpoint, err)
		}
		s.logger.Warn("list reply not understood", "endpoint", endpoint, "err", err)
		return []models.Booking{}, nil
	}
	return items, nil
}
