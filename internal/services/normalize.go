package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"rideNext/internal/models"
)

// ErrUnexpectedShape marks a 2xx reply whose JSON does not match the documented shape.
var ErrUnexpectedShape = errors.New("services: unexpected response shape")

// Options are shared by every facade.
type Options struct {
	// Strict returns shape errors instead of falling back. Meant for development.
	Strict bool
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// decodeList accepts {"<key>": [...]}, a bare array, or an empty/null body (no items).
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return []T{}, nil
	}
	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return items, nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		inner, ok := envelope[key]
		if !ok {
			return nil, fmt.Errorf("%w: object without %q", ErrUnexpectedShape, key)
		}
		inner = bytes.TrimSpace(inner)
		if isNull(inner) {
			return []T{}, nil
		}
		if inner[0] != '[' {
			return nil, fmt.Errorf("%w: %q is not a list", ErrUnexpectedShape, key)
		}
		var items []T
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: expected list or object", ErrUnexpectedShape)
	}
}

// decodeObject accepts {"<key>": {...}} or the bare object.
func decodeObject[T any](raw json.RawMessage, key string) (T, error) {
	var zero T
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) || trimmed[0] != '{' {
		return zero, fmt.Errorf("%w: expected object", ErrUnexpectedShape)
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if inner, ok := envelope[key]; ok {
		inner = bytes.TrimSpace(inner)
		if isNull(inner) || inner[0] != '{' {
			return zero, fmt.Errorf("%w: %q is not an object", ErrUnexpectedShape, key)
		}
		trimmed = inner
	}
	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return out, nil
}

// decodeStatus returns nil for an empty or falsy reply; a non-object truthy reply counts
// as a bare acknowledgement.
func decodeStatus(raw json.RawMessage) (*models.StatusResponse, error) {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) || isFalsy(trimmed) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return &models.StatusResponse{}, nil
	}
	var out models.StatusResponse
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return &out, nil
}

func isNull(b []byte) bool {
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

func isFalsy(b []byte) bool {
	switch string(b) {
	case "false", "0", `""`:
		return true
	}
	return false
}
