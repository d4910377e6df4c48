package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"rideNext/internal/api"
	"rideNext/internal/models"
)

type RideService struct {
	backend Backend
	strict  bool
	logger  *slog.Logger
}

func NewRideService(backend Backend, opts Options) *RideService {
	return &RideService{backend: backend, strict: opts.Strict, logger: opts.logger()}
}

// CreateRide publishes a ride offer.
func (s *RideService) CreateRide(ctx context.Context, req models.CreateRideRequest) (models.Ride, error) {
	var raw json.RawMessage
	if err := s.backend.Post(ctx, "/createride", req, &raw); err != nil {
		return models.Ride{}, fmt.Errorf("create ride: %w", err)
	}
	ride, err := decodeObject[models.Ride](raw, "data")
	if err != nil {
		if s.strict {
			return models.Ride{}, fmt.Errorf("create ride: %w", err)
		}
		s.logger.Warn("create ride reply not understood", "err", err)
		return models.Ride{}, nil
	}
	return ride, nil
}

// ListRides returns the full catalog. Failures degrade to an empty catalog.
func (s *RideService) ListRides(ctx context.Context) ([]models.Ride, error) {
	var raw json.RawMessage
	if err := s.backend.Get(ctx, "/getride", &raw); err != nil {
		s.logger.Error("fetch rides failed", "err", err)
		return []models.Ride{}, nil
	}
	rides, err := decodeList[models.Ride](raw, "data")
	if err != nil {
		if s.strict {
			return nil, fmt.Errorf("list rides: %w", err)
		}
		s.logger.Warn("ride catalog reply not understood", "err", err)
		return []models.Ride{}, nil
	}
	return rides, nil
}

// GetRide fetches a single ride.
func (s *RideService) GetRide(ctx context.Context, id string) (models.Ride, error) {
	var raw json.RawMessage
	if err := s.backend.Get(ctx, api.Path("getdatabyid", id), &raw); err != nil {
		if api.StatusCode(err) == http.StatusNotFound {
			return models.Ride{}, fmt.Errorf("get ride %s: %w: %w", id, models.ErrRideNotFound, err)
		}
		return models.Ride{}, fmt.Errorf("get ride %s: %w", id, err)
	}
	ride, err := decodeObject[models.Ride](raw, "data")
	if err != nil {
		return models.Ride{}, fmt.Errorf("get ride %s: %w: %w", id, models.ErrRideNotFound, err)
	}
	if ride.ID == "" {
		ride.ID = id
	}
	return ride, nil
}

// CreateBooking books seats on a ride.
func (s *RideService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.Booking, error) {
	var raw json.RawMessage
	if err := s.backend.Post(ctx, "/createbooking", req, &raw); err != nil {
		return models.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	booking, err := decodeObject[models.Booking](raw, "data")
	if err != nil {
		if s.strict {
			return models.Booking{}, fmt.Errorf("create booking: %w", err)
		}
		s.logger.Warn("create booking reply not understood", "err", err)
		return models.Booking{}, nil
	}
	return booking, nil
}
