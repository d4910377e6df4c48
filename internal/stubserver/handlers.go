package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"rideNext/internal/models"
)

type statusReply struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    *models.Booking `json:"data,omitempty"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" ||
		req.Password == "" || strings.TrimSpace(req.PhoneNumber) == "" {
		writeError(w, http.StatusBadRequest, "Please fill all fields")
		return
	}

	user, err := s.store.CreateUser(req)
	if errors.Is(err, ErrEmailTaken) {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.infoLog.Printf("registered user %s", user.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User registered", "data": user})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token, err := s.tokens.NewJWT(user.ID, s.tokenTTL)
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:    token,
		Email:    user.Email,
		FullName: user.FullName,
		ID:       user.ID,
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.URL.Query().Get(":id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": user})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}
	if req.ID != currentUser(r) {
		writeError(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	user, err := s.store.UpdateUser(req.ID, req.User)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Profile updated", "data": user})
}

func (s *Server) createRide(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	driverID := currentUser(r)
	if req.UserID != "" && req.UserID != driverID {
		writeError(w, http.StatusForbidden, "Rides can only be posted for yourself")
		return
	}

	req.FromCity = strings.TrimSpace(req.FromCity)
	req.ToCity = strings.TrimSpace(req.ToCity)
	req.DepartureDate = strings.TrimSpace(req.DepartureDate)
	if req.FromCity == "" || req.ToCity == "" || req.DepartureDate == "" || req.DepartureTime == "" {
		writeError(w, http.StatusBadRequest, "Please fill all required fields")
		return
	}
	if _, err := time.Parse("2006-01-02", req.DepartureDate); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid departureDate, expected YYYY-MM-DD")
		return
	}
	if req.AvailableSeats <= 0 || req.PricePerSeat <= 0 {
		writeError(w, http.StatusBadRequest, "Seats and price must be greater than zero")
		return
	}

	ride, err := s.store.CreateRide(driverID, req)
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Ride posted", "data": ride})
}

func (s *Server) listRides(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": s.store.ListRides()})
}

func (s *Server) getRide(w http.ResponseWriter, r *http.Request) {
	ride, err := s.store.GetRide(r.URL.Query().Get(":id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Ride not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": ride})
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	passengerID := currentUser(r)
	if req.UserID != "" && req.UserID != passengerID {
		writeError(w, http.StatusForbidden, "Bookings can only be made for yourself")
		return
	}

	booking, err := s.store.CreateBooking(passengerID, req)
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Ride not found")
		return
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "You cannot book your own ride")
		return
	case errors.Is(err, ErrNotEnoughSeats):
		writeError(w, http.StatusBadRequest, "Not enough seats available")
		return
	case err != nil:
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Booking requested", "data": booking})
}

// ownTab rejects reads of another user's tab.
func ownTab(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get(":userid")
	if userID != currentUser(r) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return "", false
	}
	return userID, true
}

func (s *Server) passengerTab(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownTab(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": s.store.PassengerBookings(userID)})
}

func (s *Server) driverTab(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownTab(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rides": s.store.DriverRides(userID)})
}

func (s *Server) bookingRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownTab(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": s.store.Requests(userID)})
}

func (s *Server) setBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req models.RequestStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	status := strings.ToLower(strings.TrimSpace(req.BookingStatus))
	if status != models.BookingStatusApproved && status != models.BookingStatusCancelled {
		writeError(w, http.StatusBadRequest, "Invalid bookingstatus")
		return
	}

	bookingID := r.URL.Query().Get(":bookingId")
	booking, err := s.store.SetStatus(currentUser(r), bookingID, status)
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Booking not found")
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "Only the driver can update this request")
	case errors.Is(err, ErrAlreadyInStatus):
		writeJSON(w, http.StatusOK, statusReply{Message: alreadyMessage(status), Data: &booking})
	case errors.Is(err, ErrInvalidTransition):
		writeJSON(w, http.StatusOK, statusReply{Message: "Request already " + booking.Status, Data: &booking})
	case errors.Is(err, ErrNotEnoughSeats):
		writeJSON(w, http.StatusOK, statusReply{Message: "Not enough seats left on this ride", Data: &booking})
	case err != nil:
		s.serverError(w, err)
	default:
		s.infoLog.Printf("booking %s %s", bookingID, status)
		writeJSON(w, http.StatusOK, statusReply{Success: true, Message: "Booking " + status, Data: &booking})
	}
}
