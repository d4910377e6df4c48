package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"rideNext/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

type Manager struct {
	signingKey string
	now        func() time.Time
}

func NewManager(signingKey string) (*Manager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}

	return &Manager{signingKey: signingKey, now: time.Now}, nil
}

// NewJWT issues an HS256 token for userID. A zero ttl issues a token without expiry.
func (m *Manager) NewJWT(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	now := m.now()
	claims := models.Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			Id:       uuid.NewString(),
			Subject:  userID,
			IssuedAt: now.Unix(),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.signingKey))
}

// Parse validates accessToken and returns the user id it was issued for.
func (m *Manager) Parse(accessToken string) (string, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.signingKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.UserID != "" {
		return claims.UserID, nil
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return "", fmt.Errorf("%w: no user id claim", ErrInvalidToken)
}
