package mybookings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"rideNext/internal/models"
)

const (
	msgNoUser        = "User ID not found. Please log in again."
	msgLoadFailed    = "Failed to load bookings. Please try again."
	msgUnexpected    = "An unexpected error occurred."
	msgApproveFailed = "Failed to approve request."
	msgApproved      = "Request approved."
	msgDeclineFailed = "Failed to decline request."
	msgDeclined      = "Request declined."
	titleError       = "Error"
	titleSuccess     = "Success"
	titleConfirm     = "Confirm"
	promptApprove    = "Approve this request?"
	promptDecline    = "Decline this request?"
)

var (
	// ErrInFlight is returned when an action for the same booking has not settled yet.
	ErrInFlight = errors.New("mybookings: action already in progress for this request")

	// ErrEmptyResponse is returned when the backend acknowledged nothing.
	ErrEmptyResponse = errors.New("mybookings: empty response")
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

type Tab string

const (
	TabBookings Tab = "bookings"
	TabRides    Tab = "rides"
	TabRequests Tab = "requests"
)

// View is a snapshot of the screen. Collections are never nil once Loaded.
type View struct {
	State    State
	Bookings []models.Booking
	Rides    []models.Booking
	Requests []models.Booking
}

func emptyLoaded() View {
	return View{
		State:    StateLoaded,
		Bookings: []models.Booking{},
		Rides:    []models.Booking{},
		Requests: []models.Booking{},
	}
}

type Outcome int

const (
	OutcomeCancelled Outcome = iota
	OutcomeDone
	OutcomeRejected
	OutcomeFailed
	OutcomeInFlight
)

// Result describes how an approve/decline action settled and the message shown.
type Result struct {
	Outcome Outcome
	Message string
}

type Config struct {
	Source    Source
	Sessions  SessionReader
	Notifier  Notifier
	Confirmer Confirmer
	Logger    *slog.Logger
}

// Screen holds the three booking tabs of the logged-in user and runs request approval.
type Screen struct {
	source    Source
	sessions  SessionReader
	notifier  Notifier
	confirmer Confirmer
	logger    *slog.Logger

	mu      sync.Mutex
	view    View
	loadSeq uint64

	processing *ProcessingMap
}

func NewScreen(cfg Config) *Screen {
	s := &Screen{
		source:     cfg.Source,
		sessions:   cfg.Sessions,
		notifier:   cfg.Notifier,
		confirmer:  cfg.Confirmer,
		logger:     cfg.Logger,
		processing: NewProcessingMap(),
	}
	if s.notifier == nil {
		s.notifier = discardNotifier{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// View returns the current snapshot.
func (s *Screen) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Tab returns one collection of the current snapshot.
func (s *Screen) Tab(tab Tab) []models.Booking {
	v := s.View()
	switch tab {
	case TabRides:
		return v.Rides
	case TabRequests:
		return v.Requests
	default:
		return v.Bookings
	}
}

// Processing reports whether an action for bookingID is in flight.
func (s *Screen) Processing(bookingID string) bool {
	return s.processing.Processing(bookingID)
}

// ProcessingSnapshot copies the processing map.
func (s *Screen) ProcessingSnapshot() map[string]bool {
	return s.processing.Snapshot()
}

// Load replaces all three tabs with fresh server data. Without a stored user id it makes
// no backend call. If any of the three fetches fails, all three tabs are cleared.
func (s *Screen) Load(ctx context.Context) error {
	seq := s.begin()

	userID, err := s.sessions.UserID(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNoSession) {
			s.notifier.Error(titleError, msgNoUser)
		} else {
			s.logger.Error("read session failed", "err", err)
			s.notifier.Error(titleError, msgLoadFailed)
		}
		s.settle(seq, emptyLoaded())
		return err
	}

	var bookings, rides, requests []models.Booking
	var g errgroup.Group
	g.Go(func() (err error) {
		bookings, err = s.source.PassengerBookings(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		rides, err = s.source.DriverRides(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		requests, err = s.source.Requests(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("fetch bookings failed", "user_id", userID, "err", err)
		s.notifier.Error(titleError, msgLoadFailed)
		s.settle(seq, emptyLoaded())
		return fmt.Errorf("load bookings: %w", err)
	}

	v := emptyLoaded()
	if bookings != nil {
		v.Bookings = bookings
	}
	if rides != nil {
		v.Rides = rides
	}
	if requests != nil {
		v.Requests = requests
	}
	s.settle(seq, v)
	return nil
}

func (s *Screen) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadSeq++
	s.view.State = StateLoading
	return s.loadSeq
}

// settle publishes v unless a newer load started meanwhile.
func (s *Screen) settle(seq uint64, v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq {
		return
	}
	s.view = v
}

// RequestConfirmation asks whether to approve bookingID. Without a Confirmer the action
// is confirmed.
func (s *Screen) RequestConfirmation(ctx context.Context, bookingID string) (Decision, error) {
	return s.confirm(ctx, promptApprove)
}

// Approve asks for confirmation, then approves bookingID.
func (s *Screen) Approve(ctx context.Context, bookingID string) (Result, error) {
	decision, err := s.RequestConfirmation(ctx, bookingID)
	if err != nil {
		return Result{Outcome: OutcomeCancelled}, err
	}
	if decision != DecisionConfirm {
		return Result{Outcome: OutcomeCancelled}, nil
	}
	return s.ExecuteApprove(ctx, bookingID)
}

// ExecuteApprove approves bookingID and, on success, reloads all three tabs.
func (s *Screen) ExecuteApprove(ctx context.Context, bookingID string) (Result, error) {
	return s.execute(ctx, bookingID, approveAction(s.source))
}

// Decline asks for confirmation, then declines bookingID.
func (s *Screen) Decline(ctx context.Context, bookingID string) (Result, error) {
	decision, err := s.confirm(ctx, promptDecline)
	if err != nil {
		return Result{Outcome: OutcomeCancelled}, err
	}
	if decision != DecisionConfirm {
		return Result{Outcome: OutcomeCancelled}, nil
	}
	return s.ExecuteDecline(ctx, bookingID)
}

// ExecuteDecline declines bookingID and, on success, reloads all three tabs.
func (s *Screen) ExecuteDecline(ctx context.Context, bookingID string) (Result, error) {
	return s.execute(ctx, bookingID, declineAction(s.source))
}

func (s *Screen) confirm(ctx context.Context, prompt string) (Decision, error) {
	if s.confirmer == nil {
		return DecisionConfirm, nil
	}
	return s.confirmer.Confirm(ctx, titleConfirm, prompt)
}

type action struct {
	name      string
	call      func(ctx context.Context, id string) (*models.StatusResponse, error)
	failedMsg string
	doneMsg   string
}

func approveAction(src Source) action {
	return action{name: "approve", call: src.ApproveRequest, failedMsg: msgApproveFailed, doneMsg: msgApproved}
}

func declineAction(src Source) action {
	return action{name: "decline", call: src.DeclineRequest, failedMsg: msgDeclineFailed, doneMsg: msgDeclined}
}

func (s *Screen) execute(ctx context.Context, bookingID string, a action) (Result, error) {
	if !s.processing.TryStart(bookingID) {
		return Result{Outcome: OutcomeInFlight}, ErrInFlight
	}
	defer s.processing.Finish(bookingID)

	resp, err := a.call(ctx, bookingID)
	switch {
	case err != nil:
		s.logger.Error("request action failed", "action", a.name, "booking_id", bookingID, "err", err)
		s.notifier.Error(titleError, msgUnexpected)
		return Result{Outcome: OutcomeFailed, Message: msgUnexpected}, err
	case resp == nil:
		s.notifier.Error(titleError, a.failedMsg)
		return Result{Outcome: OutcomeFailed, Message: a.failedMsg}, ErrEmptyResponse
	case resp.Failed():
		msg := resp.Message
		if msg == "" {
			msg = a.failedMsg
		}
		s.notifier.Error(titleError, msg)
		return Result{Outcome: OutcomeRejected, Message: msg}, nil
	}

	if err := s.Load(ctx); err != nil {
		s.logger.Warn("reload after action failed", "action", a.name, "err", err)
	}
	msg := resp.Message
	if msg == "" {
		msg = a.doneMsg
	}
	s.notifier.Success(titleSuccess, msg)
	return Result{Outcome: OutcomeDone, Message: msg}, nil
}
