package stubserver

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slices"

	"rideNext/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadPassword    = errors.New("invalid email or password")
	ErrForbidden      = errors.New("forbidden")
	ErrNotEnoughSeats = errors.New("not enough seats")
)

type userRecord struct {
	user         models.User
	passwordHash []byte
}

type rideRecord struct {
	ride models.Ride
	seq  int
}

type bookingRecord struct {
	booking models.Booking
	seq     int
}

// Store keeps users, rides and bookings in memory.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*userRecord
	byEmail  map[string]string
	rides    map[string]*rideRecord
	bookings map[string]*bookingRecord
	seq      int
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*userRecord),
		byEmail:  make(map[string]string),
		rides:    make(map[string]*rideRecord),
		bookings: make(map[string]*bookingRecord),
	}
}

func (s *Store) nextSeq() int {
	s.seq++
	return s.seq
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) CreateUser(req models.RegisterRequest) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email := normalizeEmail(req.Email)
	if _, ok := s.byEmail[email]; ok {
		return models.User{}, ErrEmailTaken
	}
	user := models.User{
		ID:          uuid.NewString(),
		FullName:    strings.TrimSpace(req.FullName),
		Email:       email,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
	}
	s.users[user.ID] = &userRecord{user: user, passwordHash: hash}
	s.byEmail[email] = user.ID
	return user, nil
}

func (s *Store) Authenticate(email, password string) (models.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[normalizeEmail(email)]
	var rec userRecord
	if ok {
		rec = *s.users[id]
	}
	s.mu.RUnlock()
	if !ok {
		return models.User{}, ErrBadPassword
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return models.User{}, ErrBadPassword
	}
	return rec.user, nil
}

func (s *Store) GetUser(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return rec.user, nil
}

// UpdateUser overwrites the profile fields of id. Email and password are not changed here.
func (s *Store) UpdateUser(id string, profile models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	u := rec.user
	if v := strings.TrimSpace(profile.FullName); v != "" {
		u.FullName = v
	}
	u.PhoneNumber = strings.TrimSpace(profile.PhoneNumber)
	u.DateOfBirth = profile.DateOfBirth
	u.City = profile.City
	u.AccountType = profile.AccountType
	u.Bio = profile.Bio
	u.CarModel = profile.CarModel
	u.LicensePlate = profile.LicensePlate
	u.DrivingLicenseNumber = profile.DrivingLicenseNumber
	rec.user = u
	return u, nil
}

func (s *Store) userRef(id string) models.UserRef {
	rec, ok := s.users[id]
	if !ok {
		return models.UserRef{ID: id}
	}
	return models.UserRef{
		ID:          id,
		FullName:    rec.user.FullName,
		PhoneNumber: rec.user.PhoneNumber,
		CarModel:    rec.user.CarModel,
	}
}

func (s *Store) CreateRide(driverID string, req models.CreateRideRequest) (models.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[driverID]; !ok {
		return models.Ride{}, ErrNotFound
	}
	ride := models.Ride{
		ID:             uuid.NewString(),
		FromCity:       req.FromCity,
		ToCity:         req.ToCity,
		PickupLocation: req.PickupLocation,
		DropLocation:   req.DropLocation,
		DepartureDate:  req.DepartureDate,
		DepartureTime:  req.DepartureTime,
		AvailableSeats: req.AvailableSeats,
		PricePerSeat:   req.PricePerSeat,
		CarModel:       req.CarModel,
		SmokingAllowed: req.SmokingAllowed,
		MusicAllowed:   req.MusicAllowed,
		PetsAllowed:    req.PetsAllowed,
		InstantBooking: req.InstantBooking,
		Notes:          req.Notes,
		UserID:         models.UserRef{ID: driverID},
	}
	s.rides[ride.ID] = &rideRecord{ride: ride, seq: s.nextSeq()}
	return s.populateRide(ride), nil
}

func (s *Store) populateRide(ride models.Ride) models.Ride {
	driver := s.userRef(ride.UserID.ID)
	ride.UserID = driver
	ride.Driver = &driver
	return ride
}

// ListRides returns every ride, newest first.
func (s *Store) ListRides() []models.Ride {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]*rideRecord, 0, len(s.rides))
	for _, r := range s.rides {
		recs = append(recs, r)
	}
	slices.SortFunc(recs, func(a, b *rideRecord) int { return b.seq - a.seq })
	out := make([]models.Ride, 0, len(recs))
	for _, r := range recs {
		out = append(out, s.populateRide(r.ride))
	}
	return out
}

func (s *Store) GetRide(id string) (models.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.rides[id]
	if !ok {
		return models.Ride{}, ErrNotFound
	}
	return s.populateRide(rec.ride), nil
}

// CreateBooking records a pending request. Seats are only taken when the driver approves.
func (s *Store) CreateBooking(passengerID string, req models.CreateBookingRequest) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ride, ok := s.rides[req.Ride]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	if ride.ride.UserID.ID == passengerID {
		return models.Booking{}, ErrForbidden
	}
	if req.SeatsBooked <= 0 || req.SeatsBooked > ride.ride.AvailableSeats {
		return models.Booking{}, ErrNotEnoughSeats
	}
	seats := req.SeatsBooked
	b := models.Booking{
		ID:              uuid.NewString(),
		Ride:            ride.ride.ID,
		FromCity:        ride.ride.FromCity,
		ToCity:          ride.ride.ToCity,
		DepartureDate:   ride.ride.DepartureDate,
		DepartureTime:   ride.ride.DepartureTime,
		SeatsBooked:     &seats,
		PricePerSeat:    ride.ride.PricePerSeat,
		TotalAmount:     float64(seats) * ride.ride.PricePerSeat,
		UserID:          models.UserRef{ID: passengerID},
		PickupLocation:  req.PickupLocation,
		DropLocation:    req.DropLocation,
		PassengerPhone:  req.PassengerPhone,
		SpecialRequests: req.SpecialRequests,
		Status:          models.BookingStatusPending,
	}
	s.bookings[b.ID] = &bookingRecord{booking: b, seq: s.nextSeq()}
	return s.populateBooking(b), nil
}

func (s *Store) populateBooking(b models.Booking) models.Booking {
	b.UserID = s.userRef(b.UserID.ID)
	return b
}

func (s *Store) filterBookings(keep func(*bookingRecord) bool) []models.Booking {
	recs := make([]*bookingRecord, 0)
	for _, b := range s.bookings {
		if keep(b) {
			recs = append(recs, b)
		}
	}
	slices.SortFunc(recs, func(a, b *bookingRecord) int { return b.seq - a.seq })
	out := make([]models.Booking, 0, len(recs))
	for _, r := range recs {
		out = append(out, s.populateBooking(r.booking))
	}
	return out
}

// PassengerBookings lists the bookings userID made.
func (s *Store) PassengerBookings(userID string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterBookings(func(b *bookingRecord) bool { return b.booking.UserID.ID == userID })
}

// Requests lists the bookings made on rides offered by driverID.
func (s *Store) Requests(driverID string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterBookings(func(b *bookingRecord) bool {
		ride, ok := s.rides[b.booking.Ride]
		return ok && ride.ride.UserID.ID == driverID
	})
}

// DriverRides lists the rides offered by driverID in the shape of the booking tabs.
func (s *Store) DriverRides(driverID string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]*rideRecord, 0)
	for _, r := range s.rides {
		if r.ride.UserID.ID == driverID {
			recs = append(recs, r)
		}
	}
	slices.SortFunc(recs, func(a, b *rideRecord) int { return b.seq - a.seq })
	out := make([]models.Booking, 0, len(recs))
	for _, r := range recs {
		seats := r.ride.AvailableSeats
		out = append(out, models.Booking{
			ID:             r.ride.ID,
			FromCity:       r.ride.FromCity,
			ToCity:         r.ride.ToCity,
			DepartureDate:  r.ride.DepartureDate,
			DepartureTime:  r.ride.DepartureTime,
			AvailableSeats: &seats,
			PricePerSeat:   r.ride.PricePerSeat,
			UserID:         s.userRef(driverID),
		})
	}
	return out
}

// SetStatus moves bookingID to status on behalf of actorID, who must drive the ride.
// Approving takes the booked seats from the ride.
func (s *Store) SetStatus(actorID, bookingID, status string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.bookings[bookingID]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	ride, ok := s.rides[rec.booking.Ride]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	if ride.ride.UserID.ID != actorID {
		return models.Booking{}, ErrForbidden
	}
	if err := checkTransition(rec.booking.Status, status); err != nil {
		return s.populateBooking(rec.booking), err
	}
	if status == models.BookingStatusApproved {
		seats := rec.booking.Seats()
		if seats > ride.ride.AvailableSeats {
			return s.populateBooking(rec.booking), ErrNotEnoughSeats
		}
		ride.ride.AvailableSeats -= seats
	}
	rec.booking.Status = status
	return s.populateBooking(rec.booking), nil
}
