package models

import (
	"bytes"
	"encoding/json"
)

// UserRef is the `userid`/`driver` field of rides and bookings. The backend sends it
// either as a bare id or as a populated user document.
type UserRef struct {
	ID          string `json:"_id,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CarModel    string `json:"carModel,omitempty"`
}

func (u *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*u = UserRef{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*u = UserRef{ID: id}
		return nil
	}
	type plain UserRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = UserRef(p)
	return nil
}

// Ride is a published ride offer.
type Ride struct {
	ID             string   `json:"_id"`
	FromCity       string   `json:"fromCity"`
	ToCity         string   `json:"toCity"`
	PickupLocation string   `json:"pickupLocation,omitempty"`
	DropLocation   string   `json:"dropLocation,omitempty"`
	DepartureDate  string   `json:"departureDate"`
	DepartureTime  string   `json:"departureTime,omitempty"`
	AvailableSeats int      `json:"availableSeats"`
	PricePerSeat   float64  `json:"pricePerSeat"`
	CarModel       string   `json:"carModel,omitempty"`
	SmokingAllowed bool     `json:"smokingAllowed"`
	MusicAllowed   bool     `json:"musicAllowed"`
	PetsAllowed    bool     `json:"petsAllowed"`
	InstantBooking bool     `json:"instantBooking"`
	Notes          string   `json:"notes,omitempty"`
	UserID         UserRef  `json:"userid"`
	Driver         *UserRef `json:"driver,omitempty"`
}

// CreateRideRequest is the body of POST /createride.
type CreateRideRequest struct {
	UserID         string  `json:"userid"`
	FromCity       string  `json:"fromCity"`
	ToCity         string  `json:"toCity"`
	PickupLocation string  `json:"pickupLocation,omitempty"`
	DropLocation   string  `json:"dropLocation,omitempty"`
	DepartureDate  string  `json:"departureDate"`
	DepartureTime  string  `json:"departureTime"`
	AvailableSeats int     `json:"availableSeats"`
	PricePerSeat   float64 `json:"pricePerSeat"`
	CarModel       string  `json:"carModel,omitempty"`
	SmokingAllowed bool    `json:"smokingAllowed"`
	MusicAllowed   bool    `json:"musicAllowed"`
	PetsAllowed    bool    `json:"petsAllowed"`
	InstantBooking bool    `json:"instantBooking"`
	Notes          string  `json:"notes,omitempty"`
}
