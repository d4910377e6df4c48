package forms

import (
	"math"
	"strconv"
	"strings"

	"rideNext/internal/models"
)

// BookingForm is the passenger's booking input for one ride.
type BookingForm struct {
	SeatsBooked     string
	PickupLocation  string
	DropLocation    string
	PassengerPhone  string
	SpecialRequests string
}

// NewBookingForm returns a form booking one seat.
func NewBookingForm() BookingForm {
	return BookingForm{SeatsBooked: "1"}
}

// Build turns the form into a booking of ride for userID. ride is nil until the ride
// details were fetched.
func (f BookingForm) Build(ride *models.Ride, userID string) (models.CreateBookingRequest, error) {
	if strings.TrimSpace(userID) == "" {
		return models.CreateBookingRequest{}, models.ErrNoSession
	}
	if ride == nil || ride.ID == "" {
		return models.CreateBookingRequest{}, models.ErrRideNotLoaded
	}
	seats, err := strconv.Atoi(strings.TrimSpace(f.SeatsBooked))
	if err != nil || seats <= 0 {
		return models.CreateBookingRequest{}, models.ValidationError{Field: "seatsBooked", Msg: "must be a positive whole number"}
	}
	if seats > ride.AvailableSeats {
		return models.CreateBookingRequest{}, models.ValidationError{
			Field: "seatsBooked",
			Msg:   "only " + strconv.Itoa(ride.AvailableSeats) + " seats left",
		}
	}

	return models.CreateBookingRequest{
		Ride:            ride.ID,
		UserID:          userID,
		FromCity:        ride.FromCity,
		ToCity:          ride.ToCity,
		DepartureDate:   ride.DepartureDate,
		DepartureTime:   ride.DepartureTime,
		PricePerSeat:    ride.PricePerSeat,
		SeatsBooked:     seats,
		TotalAmount:     Total(seats, ride.PricePerSeat),
		PickupLocation:  strings.TrimSpace(f.PickupLocation),
		DropLocation:    strings.TrimSpace(f.DropLocation),
		PassengerPhone:  strings.TrimSpace(f.PassengerPhone),
		SpecialRequests: strings.TrimSpace(f.SpecialRequests),
	}, nil
}

// Total is the booking amount, rounded to cents.
func Total(seats int, pricePerSeat float64) float64 {
	if seats < 0 {
		seats = 0
	}
	return math.Round(float64(seats)*pricePerSeat*100) / 100
}
