package forms

import (
	"strconv"
	"strings"
	"time"

	"rideNext/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// PostRideForm is the ride offer as typed by the driver.
type PostRideForm struct {
	FromCity       string
	ToCity         string
	PickupLocation string
	DropLocation   string
	DepartureDate  string
	DepartureTime  string
	AvailableSeats string
	PricePerSeat   string
	CarModel       string
	SmokingAllowed bool
	MusicAllowed   bool
	PetsAllowed    bool
	InstantBooking bool
	Notes          string
}

// NewPostRideForm returns an empty form with music and instant booking allowed.
func NewPostRideForm() PostRideForm {
	return PostRideForm{MusicAllowed: true, InstantBooking: true}
}

// Validate checks the required fields and their formats.
func (f PostRideForm) Validate() error {
	_, err := f.parse()
	return err
}

// ToRequest validates the form and builds the request published under userID.
func (f PostRideForm) ToRequest(userID string) (models.CreateRideRequest, error) {
	if strings.TrimSpace(userID) == "" {
		return models.CreateRideRequest{}, models.ErrNoSession
	}
	req, err := f.parse()
	if err != nil {
		return models.CreateRideRequest{}, err
	}
	req.UserID = userID
	return req, nil
}

func (f PostRideForm) parse() (models.CreateRideRequest, error) {
	from := strings.TrimSpace(f.FromCity)
	to := strings.TrimSpace(f.ToCity)
	date := strings.TrimSpace(f.DepartureDate)
	clock := strings.TrimSpace(f.DepartureTime)
	seatsRaw := strings.TrimSpace(f.AvailableSeats)
	priceRaw := strings.TrimSpace(f.PricePerSeat)
	if from == "" || to == "" || date == "" || clock == "" || seatsRaw == "" || priceRaw == "" {
		return models.CreateRideRequest{}, models.ValidationError{Msg: "Please fill all required fields"}
	}

	if _, err := time.Parse(dateLayout, date); err != nil {
		return models.CreateRideRequest{}, models.ValidationError{Field: "departureDate", Msg: "use YYYY-MM-DD"}
	}
	if _, err := time.Parse(timeLayout, clock); err != nil {
		return models.CreateRideRequest{}, models.ValidationError{Field: "departureTime", Msg: "use HH:mm"}
	}
	seats, err := strconv.Atoi(seatsRaw)
	if err != nil || seats <= 0 {
		return models.CreateRideRequest{}, models.ValidationError{Field: "availableSeats", Msg: "must be a positive whole number"}
	}
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil || price <= 0 {
		return models.CreateRideRequest{}, models.ValidationError{Field: "pricePerSeat", Msg: "must be a positive number"}
	}

	return models.CreateRideRequest{
		FromCity:       from,
		ToCity:         to,
		PickupLocation: strings.TrimSpace(f.PickupLocation),
		DropLocation:   strings.TrimSpace(f.DropLocation),
		DepartureDate:  date,
		DepartureTime:  clock,
		AvailableSeats: seats,
		PricePerSeat:   price,
		CarModel:       strings.TrimSpace(f.CarModel),
		SmokingAllowed: f.SmokingAllowed,
		MusicAllowed:   f.MusicAllowed,
		PetsAllowed:    f.PetsAllowed,
		InstantBooking: f.InstantBooking,
		Notes:          strings.TrimSpace(f.Notes),
	}, nil
}
