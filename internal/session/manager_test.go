package session

import (
	"context"
	"errors"
	"testing"

	"rideNext/internal/models"
)

type failingStore struct{ MemoryStore }

func (f *failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func TestManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	want := models.Session{UserID: "u1", AuthToken: "tok", FullName: "Asha", Email: "a@b.com"}
	if err := m.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := m.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected session %+v", got)
	}
	token, err := m.Token(ctx)
	if err != nil || token != "tok" {
		t.Fatalf("unexpected token %q err=%v", token, err)
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := m.Current(ctx); !errors.Is(err, models.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := m.UserID(ctx); !errors.Is(err, models.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestManagerTokenWithoutUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Set(ctx, KeyToken, "orphan")

	if _, err := NewManager(store).Current(ctx); !errors.Is(err, models.ErrNoSession) {
		t.Fatalf("a token alone must not count as a session, got %v", err)
	}
}

func TestManagerStoreFailure(t *testing.T) {
	m := NewManager(&failingStore{})
	_, err := m.UserID(context.Background())
	if err == nil || errors.Is(err, models.ErrNoSession) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
