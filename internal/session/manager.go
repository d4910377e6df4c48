package session

import (
	"context"
	"fmt"

	"rideNext/internal/models"
)

// Manager is the typed view of the session used by facades and screens.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Current returns the stored session, or models.ErrNoSession when no user id is stored.
func (m *Manager) Current(ctx context.Context) (models.Session, error) {
	var s models.Session
	fields := []struct {
		key string
		dst *string
	}{
		{KeyUserID, &s.UserID},
		{KeyToken, &s.AuthToken},
		{KeyFullName, &s.FullName},
		{KeyEmail, &s.Email},
	}
	for _, f := range fields {
		v, _, err := m.store.Get(ctx, f.key)
		if err != nil {
			return models.Session{}, fmt.Errorf("session: get %s: %w", f.key, err)
		}
		*f.dst = v
	}
	if !s.Authenticated() {
		return models.Session{}, models.ErrNoSession
	}
	return s, nil
}

// UserID returns the stored user id or models.ErrNoSession.
func (m *Manager) UserID(ctx context.Context) (string, error) {
	id, ok, err := m.store.Get(ctx, KeyUserID)
	if err != nil {
		return "", fmt.Errorf("session: get %s: %w", KeyUserID, err)
	}
	if !ok || id == "" {
		return "", models.ErrNoSession
	}
	return id, nil
}

// Token returns the stored auth token; an empty string means none.
func (m *Manager) Token(ctx context.Context) (string, error) {
	token, _, err := m.store.Get(ctx, KeyToken)
	return token, err
}

// Save persists every session field.
func (m *Manager) Save(ctx context.Context, s models.Session) error {
	values := []struct{ key, value string }{
		{KeyToken, s.AuthToken},
		{KeyEmail, s.Email},
		{KeyFullName, s.FullName},
		{KeyUserID, s.UserID},
	}
	for _, v := range values {
		if err := m.store.Set(ctx, v.key, v.value); err != nil {
			return fmt.Errorf("session: set %s: %w", v.key, err)
		}
	}
	return nil
}

// Clear removes the whole session.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.Clear(ctx)
}
