package stubserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"rideNext/internal/api"
	"rideNext/internal/forms"
	"rideNext/internal/models"
	"rideNext/internal/mybookings"
	"rideNext/internal/search"
	"rideNext/internal/services"
	"rideNext/internal/session"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type device struct {
	sessions *session.Manager
	auth     *services.AuthService
	rides    *services.RideService
	bookings *services.BookingService
}

func newDevice(t *testing.T, baseURL string) *device {
	t.Helper()
	sessions := session.NewManager(session.NewMemoryStore())
	client, err := api.NewClient(api.Config{BaseURL: baseURL, Tokens: sessions, Logger: quietLogger})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	opts := services.Options{Strict: true, Logger: quietLogger}
	return &device{
		sessions: sessions,
		auth:     services.NewAuthService(client, sessions, opts),
		rides:    services.NewRideService(client, opts),
		bookings: services.NewBookingService(client, opts),
	}
}

func (d *device) signUp(t *testing.T, name, email string) models.Session {
	t.Helper()
	ctx := context.Background()
	if _, err := d.auth.Register(ctx, models.RegisterRequest{FullName: name, Email: email, Password: "secret", PhoneNumber: "98765"}); err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	s, err := d.auth.Login(ctx, email, "secret")
	if err != nil {
		t.Fatalf("Login %s: %v", email, err)
	}
	return s
}

type notices struct {
	mu   sync.Mutex
	list []string
}

func (n *notices) Error(_, message string)   { n.add("Error: " + message) }
func (n *notices) Success(_, message string) { n.add("Success: " + message) }

func (n *notices) add(s string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.list = append(n.list, s)
}

func (n *notices) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.list) == 0 {
		return ""
	}
	return n.list[len(n.list)-1]
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := New(Config{SigningKey: "test-key"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestRideBookingApprovalRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	driver := newDevice(t, ts.URL)
	driverSession := driver.signUp(t, "Dev Driver", "driver@example.com")

	form := forms.NewPostRideForm()
	form.FromCity = "Pune"
	form.ToCity = "Mumbai"
	form.DepartureDate = "2025-03-14"
	form.DepartureTime = "07:30"
	form.AvailableSeats = "3"
	form.PricePerSeat = "150"
	rideReq, err := form.ToRequest(driverSession.UserID)
	if err != nil {
		t.Fatalf("ToRequest: %v", err)
	}
	ride, err := driver.rides.CreateRide(ctx, rideReq)
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}
	if ride.ID == "" || !ride.MusicAllowed {
		t.Fatalf("unexpected ride %+v", ride)
	}

	passenger := newDevice(t, ts.URL)
	passengerSession := passenger.signUp(t, "Pat Passenger", "passenger@example.com")

	catalog := search.NewCatalog(passenger.rides, quietLogger)
	if err := catalog.Load(ctx); err != nil {
		t.Fatalf("catalog Load: %v", err)
	}
	found, err := catalog.Search(search.Criteria{FromCity: "pune", MinPrice: "100"})
	if err != nil || len(found) != 1 || found[0].ID != ride.ID {
		t.Fatalf("search: %v, %+v", err, found)
	}

	loaded, err := passenger.rides.GetRide(ctx, ride.ID)
	if err != nil {
		t.Fatalf("GetRide: %v", err)
	}
	if loaded.Driver == nil || loaded.Driver.FullName != "Dev Driver" {
		t.Fatalf("expected populated driver, got %+v", loaded.Driver)
	}
	bookingForm := forms.NewBookingForm()
	bookingForm.SeatsBooked = "2"
	bookingReq, err := bookingForm.Build(&loaded, passengerSession.UserID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	booking, err := passenger.rides.CreateBooking(ctx, bookingReq)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.TotalAmount != 300 {
		t.Fatalf("expected total 300, got %v", booking.TotalAmount)
	}

	passengerScreen := mybookings.NewScreen(mybookings.Config{
		Source:   passenger.bookings,
		Sessions: passenger.sessions,
		Logger:   quietLogger,
	})
	if err := passengerScreen.Load(ctx); err != nil {
		t.Fatalf("passenger Load: %v", err)
	}
	mine := passengerScreen.Tab(mybookings.TabBookings)
	if len(mine) != 1 || mine[0].ID != booking.ID || mine[0].Seats() != 2 {
		t.Fatalf("unexpected passenger bookings %+v", mine)
	}

	n := &notices{}
	driverScreen := mybookings.NewScreen(mybookings.Config{
		Source:   driver.bookings,
		Sessions: driver.sessions,
		Notifier: n,
		Logger:   quietLogger,
	})
	if err := driverScreen.Load(ctx); err != nil {
		t.Fatalf("driver Load: %v", err)
	}
	requests := driverScreen.Tab(mybookings.TabRequests)
	if len(requests) != 1 || requests[0].UserID.FullName != "Pat Passenger" {
		t.Fatalf("unexpected requests %+v", requests)
	}
	rides := driverScreen.Tab(mybookings.TabRides)
	if len(rides) != 1 || rides[0].Seats() != 3 {
		t.Fatalf("unexpected driver rides %+v", rides)
	}

	res, err := driverScreen.ExecuteApprove(ctx, booking.ID)
	if err != nil || res.Outcome != mybookings.OutcomeDone {
		t.Fatalf("approve: %+v, %v", res, err)
	}
	if got := driverScreen.Tab(mybookings.TabRides); len(got) != 1 || got[0].Seats() != 1 {
		t.Fatalf("expected refetched rides with 1 seat left, got %+v", got)
	}
	if got := driverScreen.Tab(mybookings.TabRequests); got[0].Status != models.BookingStatusApproved {
		t.Fatalf("expected approved request, got %+v", got)
	}

	res, err = driverScreen.ExecuteApprove(ctx, booking.ID)
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if res.Outcome != mybookings.OutcomeRejected || res.Message != "Already approved" {
		t.Fatalf("unexpected second approve result %+v", res)
	}
	if n.last() != "Error: Already approved" {
		t.Fatalf("unexpected notice %q", n.last())
	}
	if driverScreen.Processing(booking.ID) {
		t.Fatal("processing flag must be cleared")
	}

	_, err = passenger.bookings.ApproveRequest(ctx, booking.ID)
	if api.StatusCode(err) != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-driver, got %v", err)
	}
}

func TestStubRejectsBadRequests(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	d := newDevice(t, ts.URL)

	if _, err := d.auth.Login(ctx, "nobody@example.com", "wrong"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	s := d.signUp(t, "Someone", "someone@example.com")
	if _, err := d.auth.Register(ctx, models.RegisterRequest{FullName: "Again", Email: "SOMEONE@example.com", Password: "x", PhoneNumber: "1"}); api.StatusCode(err) != http.StatusConflict {
		t.Fatalf("expected 409 for a duplicate email, got %v", err)
	}

	profile, err := d.auth.GetProfile(ctx, s.UserID)
	if err != nil || profile.Email != "someone@example.com" {
		t.Fatalf("GetProfile: %+v, %v", profile, err)
	}
	profile.City = "Pune"
	updated, err := d.auth.UpdateProfile(ctx, s.UserID, profile)
	if err != nil || updated.City != "Pune" {
		t.Fatalf("UpdateProfile: %+v, %v", updated, err)
	}

	if _, err := d.rides.GetRide(ctx, "missing"); !errors.Is(err, models.ErrRideNotFound) {
		t.Fatalf("expected ErrRideNotFound, got %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/pasengertab/"+s.UserID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("anonymous request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}

	if err := d.auth.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := d.sessions.Current(ctx); !errors.Is(err, models.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}
