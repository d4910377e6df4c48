package stubserver

import (
	"errors"
	"testing"

	"rideNext/internal/models"
)

func TestCanTransition(t *testing.T) {
	if !CanTransition(models.BookingStatusPending, models.BookingStatusApproved) {
		t.Fatal("expected pending -> approved to be allowed")
	}
	if !CanTransition(models.BookingStatusPending, models.BookingStatusCancelled) {
		t.Fatal("expected pending -> cancelled to be allowed")
	}
	if CanTransition(models.BookingStatusApproved, models.BookingStatusCancelled) {
		t.Fatal("approved is terminal")
	}
	if CanTransition(models.BookingStatusCancelled, models.BookingStatusApproved) {
		t.Fatal("cancelled is terminal")
	}
	if CanTransition("booked", models.BookingStatusApproved) {
		t.Fatal("unknown status must not transition")
	}
}

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
		want     error
	}{
		{"approve pending", models.BookingStatusPending, models.BookingStatusApproved, nil},
		{"approve twice", models.BookingStatusApproved, models.BookingStatusApproved, ErrAlreadyInStatus},
		{"cancel approved", models.BookingStatusApproved, models.BookingStatusCancelled, ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := checkTransition(tc.from, tc.to); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, err)
			}
		})
	}
}

func TestStoreSetStatusTakesSeats(t *testing.T) {
	store := NewStore()
	driver, err := store.CreateUser(models.RegisterRequest{FullName: "Dev Driver", Email: "d@example.com", Password: "pw", PhoneNumber: "1"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	passenger, _ := store.CreateUser(models.RegisterRequest{FullName: "Pat Passenger", Email: "p@example.com", Password: "pw", PhoneNumber: "2"})

	ride, err := store.CreateRide(driver.ID, models.CreateRideRequest{
		FromCity: "Pune", ToCity: "Mumbai", DepartureDate: "2025-03-14", DepartureTime: "07:30",
		AvailableSeats: 3, PricePerSeat: 200,
	})
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}
	booking, err := store.CreateBooking(passenger.ID, models.CreateBookingRequest{Ride: ride.ID, SeatsBooked: 2})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.Status != models.BookingStatusPending || booking.TotalAmount != 400 {
		t.Fatalf("unexpected booking %+v", booking)
	}

	if _, err := store.SetStatus(passenger.ID, booking.ID, models.BookingStatusApproved); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := store.SetStatus(driver.ID, booking.ID, models.BookingStatusApproved); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	got, _ := store.GetRide(ride.ID)
	if got.AvailableSeats != 1 {
		t.Fatalf("expected 1 seat left, got %d", got.AvailableSeats)
	}
	if _, err := store.SetStatus(driver.ID, booking.ID, models.BookingStatusApproved); !errors.Is(err, ErrAlreadyInStatus) {
		t.Fatalf("expected ErrAlreadyInStatus, got %v", err)
	}
	if got, _ := store.GetRide(ride.ID); got.AvailableSeats != 1 {
		t.Fatalf("repeat approve must not take seats, got %d", got.AvailableSeats)
	}

	if _, err := store.CreateBooking(driver.ID, models.CreateBookingRequest{Ride: ride.ID, SeatsBooked: 1}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("driver booking own ride: expected ErrForbidden, got %v", err)
	}
	if _, err := store.CreateBooking(passenger.ID, models.CreateBookingRequest{Ride: ride.ID, SeatsBooked: 2}); !errors.Is(err, ErrNotEnoughSeats) {
		t.Fatalf("expected ErrNotEnoughSeats, got %v", err)
	}
}
