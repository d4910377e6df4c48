package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"rideNext/internal/api"
	"rideNext/internal/models"
)

// SessionWriter persists the session produced by a login.
type SessionWriter interface {
	Save(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
}

type AuthService struct {
	backend  Backend
	sessions SessionWriter
	strict   bool
	logger   *slog.Logger
}

func NewAuthService(backend Backend, sessions SessionWriter, opts Options) *AuthService {
	return &AuthService{backend: backend, sessions: sessions, strict: opts.Strict, logger: opts.logger()}
}

// Login exchanges credentials for a token and stores the resulting session.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.Session{}, models.ValidationError{Msg: "email and password are required"}
	}

	var resp models.LoginResponse
	err := s.backend.Post(ctx, "/login", models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		switch api.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return models.Session{}, fmt.Errorf("%w: %w", models.ErrInvalidCredentials, err)
		}
		return models.Session{}, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" || resp.ID == "" {
		return models.Session{}, fmt.Errorf("login: %w: token or id missing", ErrUnexpectedShape)
	}

	session := models.Session{
		UserID:    resp.ID,
		AuthToken: resp.Token,
		FullName:  resp.FullName,
		Email:     resp.Email,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("login: save session: %w", err)
	}
	s.logger.Info("logged in", "user_id", session.UserID)
	return session, nil
}

// Register creates an account. It does not log in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.FullName == "" || req.Email == "" || req.Password == "" || req.PhoneNumber == "" {
		return models.User{}, models.ValidationError{Msg: "Please fill all fields"}
	}

	var raw json.RawMessage
	if err := s.backend.Post(ctx, "/register", req, &raw); err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}
	user, err := decodeObject[models.User](raw, "data")
	if err != nil {
		if s.strict {
			return models.User{}, fmt.Errorf("register: %w", err)
		}
		s.logger.Warn("register reply not understood", "err", err)
		return models.User{FullName: req.FullName, Email: req.Email, PhoneNumber: req.PhoneNumber}, nil
	}
	return user, nil
}

// GetProfile fetches the profile of userID.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (models.User, error) {
	var raw json.RawMessage
	if err := s.backend.Get(ctx, api.Path("getuser", userID), &raw); err != nil {
		return models.User{}, fmt.Errorf("get profile: %w", err)
	}
	user, err := decodeObject[models.User](raw, "data")
	if err != nil {
		return models.User{}, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

// UpdateProfile saves profile for userID and returns the backend's copy.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, profile models.User) (models.User, error) {
	profile.Password = ""
	var raw json.RawMessage
	if err := s.backend.Put(ctx, "/updateregister", models.UpdateProfileRequest{ID: userID, User: profile}, &raw); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	user, err := decodeObject[models.User](raw, "data")
	if err != nil {
		if s.strict {
			return models.User{}, fmt.Errorf("update profile: %w", err)
		}
		s.logger.Warn("update profile reply not understood", "err", err)
		return profile, nil
	}
	return user, nil
}

// Logout wipes the stored session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
