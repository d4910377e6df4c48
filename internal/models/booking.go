package models

const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusCancelled = "cancelled"
)

// Booking is one item of the passenger, driver and request tabs. All three tabs share
// this shape; the driver tab fills AvailableSeats instead of SeatsBooked.
type Booking struct {
	ID              string  `json:"_id"`
	Ride            string  `json:"ride,omitempty"`
	FromCity        string  `json:"fromCity"`
	ToCity          string  `json:"toCity"`
	DepartureDate   string  `json:"departureDate"`
	DepartureTime   string  `json:"departureTime,omitempty"`
	SeatsBooked     *int    `json:"seatsBooked,omitempty"`
	AvailableSeats  *int    `json:"availableSeats,omitempty"`
	PricePerSeat    float64 `json:"pricePerSeat,omitempty"`
	TotalAmount     float64 `json:"totalAmount"`
	UserID          UserRef `json:"userid"`
	PickupLocation  string  `json:"pickupLocation,omitempty"`
	DropLocation    string  `json:"dropLocation,omitempty"`
	PassengerPhone  string  `json:"passengerPhone,omitempty"`
	SpecialRequests string  `json:"specialRequests,omitempty"`
	Status          string  `json:"bookingstatus,omitempty"`
}

// Seats is the seat count shown for the item: booked seats, else available seats.
func (b Booking) Seats() int {
	if b.SeatsBooked != nil {
		return *b.SeatsBooked
	}
	if b.AvailableSeats != nil {
		return *b.AvailableSeats
	}
	return 0
}

// CreateBookingRequest is the body of POST /createbooking.
type CreateBookingRequest struct {
	Ride            string  `json:"ride"`
	UserID          string  `json:"userid"`
	FromCity        string  `json:"fromCity"`
	ToCity          string  `json:"toCity"`
	DepartureDate   string  `json:"departureDate"`
	DepartureTime   string  `json:"departureTime"`
	PricePerSeat    float64 `json:"pricePerSeat"`
	SeatsBooked     int     `json:"seatsBooked"`
	TotalAmount     float64 `json:"totalAmount"`
	PickupLocation  string  `json:"pickupLocation,omitempty"`
	DropLocation    string  `json:"dropLocation,omitempty"`
	PassengerPhone  string  `json:"passengerPhone,omitempty"`
	SpecialRequests string  `json:"specialRequests,omitempty"`
}

// RequestStatusUpdate is the body of PATCH /approvecanclerequest/:bookingId.
type RequestStatusUpdate struct {
	BookingStatus string `json:"bookingstatus"`
}

// StatusResponse is the approve/cancel reply. Success is nil when the backend omits it.
type StatusResponse struct {
	Success *bool    `json:"success,omitempty"`
	Message string   `json:"message,omitempty"`
	Data    *Booking `json:"data,omitempty"`
}

// Failed reports an explicit {success:false} payload.
func (r StatusResponse) Failed() bool { return r.Success != nil && !*r.Success }
