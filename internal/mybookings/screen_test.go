package mybookings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"rideNext/internal/models"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSessions struct {
	userID string
	err    error
}

func (f fakeSessions) UserID(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.userID == "" {
		return "", models.ErrNoSession
	}
	return f.userID, nil
}

type fakeSource struct {
	mu sync.Mutex

	bookings, rides, requests []models.Booking
	failRides                 error

	approve func(ctx context.Context, id string) (*models.StatusResponse, error)
	decline func(ctx context.Context, id string) (*models.StatusResponse, error)

	listCalls atomic.Int32
	userIDs   []string
}

func (f *fakeSource) record(userID string) {
	f.listCalls.Add(1)
	f.mu.Lock()
	f.userIDs = append(f.userIDs, userID)
	f.mu.Unlock()
}

func (f *fakeSource) PassengerBookings(_ context.Context, userID string) ([]models.Booking, error) {
	f.record(userID)
	return f.bookings, nil
}

func (f *fakeSource) DriverRides(_ context.Context, userID string) ([]models.Booking, error) {
	f.record(userID)
	if f.failRides != nil {
		return nil, f.failRides
	}
	return f.rides, nil
}

func (f *fakeSource) Requests(_ context.Context, userID string) ([]models.Booking, error) {
	f.record(userID)
	return f.requests, nil
}

func (f *fakeSource) ApproveRequest(ctx context.Context, id string) (*models.StatusResponse, error) {
	return f.approve(ctx, id)
}

func (f *fakeSource) DeclineRequest(ctx context.Context, id string) (*models.StatusResponse, error) {
	return f.decline(ctx, id)
}

type alert struct{ kind, title, message string }

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []alert
}

func (n *recordingNotifier) Error(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert{"error", title, message})
}

func (n *recordingNotifier) Success(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert{"success", title, message})
}

func (n *recordingNotifier) last() alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.alerts) == 0 {
		return alert{}
	}
	return n.alerts[len(n.alerts)-1]
}

type fixedConfirmer struct {
	decision Decision
	prompts  []string
}

func (c *fixedConfirmer) Confirm(_ context.Context, _, message string) (Decision, error) {
	c.prompts = append(c.prompts, message)
	return c.decision, nil
}

func booking(id string) models.Booking {
	return models.Booking{ID: id, FromCity: "Pune", ToCity: "Mumbai"}
}

func boolPtr(b bool) *bool { return &b }

func newTestScreen(src *fakeSource, sessions SessionReader, n *recordingNotifier, c Confirmer) *Screen {
	return NewScreen(Config{Source: src, Sessions: sessions, Notifier: n, Confirmer: c, Logger: quietLogger})
}

func TestLoadWithoutSessionMakesNoCalls(t *testing.T) {
	src := &fakeSource{bookings: []models.Booking{booking("b1")}}
	n := &recordingNotifier{}
	screen := newTestScreen(src, fakeSessions{}, n, nil)

	err := screen.Load(context.Background())
	if !errors.Is(err, models.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if calls := src.listCalls.Load(); calls != 0 {
		t.Fatalf("expected zero backend calls, got %d", calls)
	}
	v := screen.View()
	if v.State != StateLoaded {
		t.Fatalf("expected loaded state, got %s", v.State)
	}
	if len(v.Bookings) != 0 || len(v.Rides) != 0 || len(v.Requests) != 0 {
		t.Fatalf("expected empty tabs, got %+v", v)
	}
	if got := n.last(); got.kind != "error" || got.message != msgNoUser {
		t.Fatalf("unexpected alert %+v", got)
	}
}

func TestLoadFetchesAllThreeTabs(t *testing.T) {
	src := &fakeSource{
		bookings: []models.Booking{booking("b1")},
		rides:    []models.Booking{booking("r1"), booking("r2")},
		requests: nil,
	}
	screen := newTestScreen(src, fakeSessions{userID: "u1"}, &recordingNotifier{}, nil)

	if screen.View().State != StateIdle {
		t.Fatalf("expected idle before load")
	}
	if err := screen.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if calls := src.listCalls.Load(); calls != 3 {
		t.Fatalf("expected 3 fetches, got %d", calls)
	}
	for _, id := range src.userIDs {
		if id != "u1" {
			t.Fatalf("fetch keyed by wrong user %q", id)
		}
	}
	if got := len(screen.Tab(TabBookings)); got != 1 {
		t.Fatalf("expected 1 booking, got %d", got)
	}
	if got := len(screen.Tab(TabRides)); got != 2 {
		t.Fatalf("expected 2 rides, got %d", got)
	}
	if requests := screen.Tab(TabRequests); requests == nil || len(requests) != 0 {
		t.Fatalf("expected empty non-nil requests, got %#v", requests)
	}
}

func TestLoadPartialFailureClearsEverything(t *testing.T) {
	src := &fakeSource{
		bookings:  []models.Booking{booking("b1")},
		rides:     []models.Booking{booking("r1")},
		requests:  []models.Booking{booking("q1")},
		failRides: errors.New("drivertab exploded"),
	}
	n := &recordingNotifier{}
	screen := newTestScreen(src, fakeSessions{userID: "u1"}, n, nil)

	if err := screen.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if calls := src.listCalls.Load(); calls != 3 {
		t.Fatalf("all three fetches must settle, got %d calls", calls)
	}
	v := screen.View()
	if v.State != StateLoaded {
		t.Fatalf("expected loaded, got %s", v.State)
	}
	if len(v.Bookings)+len(v.Rides)+len(v.Requests) != 0 {
		t.Fatalf("partial data must be discarded, got %+v", v)
	}
	if got := n.last(); got.message != msgLoadFailed {
		t.Fatalf("unexpected alert %+v", got)
	}
}

func TestLoadSessionReadFailure(t *testing.T) {
	src := &fakeSource{}
	n := &recordingNotifier{}
	screen := newTestScreen(src, fakeSessions{err: errors.New("disk gone")}, n, nil)

	if err := screen.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if src.listCalls.Load() != 0 {
		t.Fatal("no backend call without a user id")
	}
	if got := n.last(); got.message != msgLoadFailed {
		t.Fatalf("unexpected alert %+v", got)
	}
}

func TestExecuteApproveProcessingFlag(t *testing.T) {
	tests := []struct {
		name        string
		resp        *models.StatusResponse
		err         error
		wantOutcome Outcome
		wantErr     bool
		wantReload  bool
		wantAlert   alert
	}{
		{
			name:        "explicit failure",
			resp:        &models.StatusResponse{Success: boolPtr(false), Message: "Already approved"},
			wantOutcome: OutcomeRejected,
			wantAlert:   alert{"error", titleError, "Already approved"},
		},
		{
			name:        "explicit failure without message",
			resp:        &models.StatusResponse{Success: boolPtr(false)},
			wantOutcome: OutcomeRejected,
			wantAlert:   alert{"error", titleError, msgApproveFailed},
		},
		{
			name:        "success",
			resp:        &models.StatusResponse{Success: boolPtr(true), Message: "Booking approved"},
			wantOutcome: OutcomeDone,
			wantReload:  true,
			wantAlert:   alert{"success", titleSuccess, "Booking approved"},
		},
		{
			name:        "success without message",
			resp:        &models.StatusResponse{},
			wantOutcome: OutcomeDone,
			wantReload:  true,
			wantAlert:   alert{"success", titleSuccess, msgApproved},
		},
		{
			name:        "empty response",
			wantOutcome: OutcomeFailed,
			wantErr:     true,
			wantAlert:   alert{"error", titleError, msgApproveFailed},
		},
		{
			name:        "exception",
			err:         errors.New("connection reset"),
			wantOutcome: OutcomeFailed,
			wantErr:     true,
			wantAlert:   alert{"error", titleError, msgUnexpected},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{requests: []models.Booking{booking("r1")}}
			n := &recordingNotifier{}
			screen := newTestScreen(src, fakeSessions{userID: "u1"}, n, nil)

			var sawProcessing, otherMarked bool
			src.approve = func(_ context.Context, id string) (*models.StatusResponse, error) {
				sawProcessing = screen.Processing(id)
				otherMarked = screen.Processing("r2")
				return tt.resp, tt.err
			}

			if screen.Processing("r1") {
				t.Fatal("idle before invocation")
			}
			res, err := screen.ExecuteApprove(context.Background(), "r1")
			if tt.wantErr != (err != nil) {
				t.Fatalf("unexpected error state: %v", err)
			}
			if res.Outcome != tt.wantOutcome {
				t.Fatalf("expected outcome %d, got %d", tt.wantOutcome, res.Outcome)
			}
			if !sawProcessing {
				t.Fatal("expected processing=true while the call is in flight")
			}
			if otherMarked {
				t.Fatal("other ids must not be marked")
			}
			if screen.Processing("r1") {
				t.Fatal("expected processing=false after settlement")
			}
			if snap := screen.ProcessingSnapshot(); snap["r1"] {
				t.Fatalf("snapshot still marks r1: %v", snap)
			}
			reloaded := src.listCalls.Load() == 3
			if reloaded != tt.wantReload {
				t.Fatalf("reload=%v, want %v", reloaded, tt.wantReload)
			}
			if got := n.last(); got != tt.wantAlert {
				t.Fatalf("unexpected alert %+v, want %+v", got, tt.wantAlert)
			}
		})
	}
}

func TestExecuteApproveClearsFlagOnPanic(t *testing.T) {
	src := &fakeSource{approve: func(context.Context, string) (*models.StatusResponse, error) {
		panic("boom")
	}}
	screen := newTestScreen(src, fakeSessions{userID: "u1"}, &recordingNotifier{}, nil)

	func() {
		defer func() { recover() }()
		screen.ExecuteApprove(context.Background(), "r1")
	}()
	if screen.Processing("r1") {
		t.Fatal("flag must be cleared even when the call panics")
	}
}

func TestExecuteApproveRejectsDoubleSubmit(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var calls atomic.Int32
	src := &fakeSource{approve: func(context.Context, string) (*models.StatusResponse, error) {
		calls.Add(1)
		close(entered)
		<-release
		return &models.StatusResponse{Success: boolPtr(true)}, nil
	}}
	screen := newTestScreen(src, fakeSessions{userID: "u1"}, &recordingNotifier{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := screen.ExecuteApprove(context.Background(), "r1")
		done <- err
	}()
	<-entered

	res, err := screen.ExecuteApprove(context.Background(), "r1")
	if !errors.Is(err, ErrInFlight) || res.Outcome != OutcomeInFlight {
		t.Fatalf("expected ErrInFlight, got %v (%d)", err, res.Outcome)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single backend call, got %d", calls.Load())
	}
	if screen.Processing("r1") {
		t.Fatal("flag must be cleared after settlement")
	}
}

func TestApproveConfirmation(t *testing.T) {
	var calls int
	src := &fakeSource{approve: func(context.Context, string) (*models.StatusResponse, error) {
		calls++
		return &models.StatusResponse{Success: boolPtr(true)}, nil
	}}

	cancel := &fixedConfirmer{decision: DecisionCancel}
	screen := newTestScreen(src, fakeSessions{userID: "u1"}, &recordingNotifier{}, cancel)
	res, err := screen.Approve(context.Background(), "r1")
	if err != nil || res.Outcome != OutcomeCancelled {
		t.Fatalf("expected cancelled, got %+v, %v", res, err)
	}
	if calls != 0 {
		t.Fatal("cancelled confirmation must not call the backend")
	}
	if len(cancel.prompts) != 1 || cancel.prompts[0] != promptApprove {
		t.Fatalf("unexpected prompts %v", cancel.prompts)
	}

	confirm := &fixedConfirmer{decision: DecisionConfirm}
	screen = newTestScreen(src, fakeSessions{userID: "u1"}, &recordingNotifier{}, confirm)
	res, err = screen.Approve(context.Background(), "r1")
	if err != nil || res.Outcome != OutcomeDone {
		t.Fatalf("expected done, got %+v, %v", res, err)
	}
	if calls != 1 {
		t.Fatalf("expected one approve call, got %d", calls)
	}
}

func TestDeclineUsesDeclineEndpoint(t *testing.T) {
	var declined string
	src := &fakeSource{
		approve: func(context.Context, string) (*models.StatusResponse, error) {
			t.Fatal("approve must not be called")
			return nil, nil
		},
		decline: func(_ context.Context, id string) (*models.StatusResponse, error) {
			declined = id
			return &models.StatusResponse{Success: boolPtr(true)}, nil
		},
	}
	n := &recordingNotifier{}
	screen := newTestScreen(src, fakeSessions{userID: "u1"}, n, &fixedConfirmer{decision: DecisionConfirm})

	res, err := screen.Decline(context.Background(), "r9")
	if err != nil || res.Outcome != OutcomeDone {
		t.Fatalf("Decline: %+v, %v", res, err)
	}
	if declined != "r9" {
		t.Fatalf("unexpected declined id %q", declined)
	}
	if got := n.last(); got.message != msgDeclined {
		t.Fatalf("unexpected alert %+v", got)
	}
}
