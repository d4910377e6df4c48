package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoSession          = errors.New("models: user id not found, please log in again")
	ErrInvalidCredentials = errors.New("models: invalid email or password")
	ErrRideNotFound       = errors.New("models: ride not found")
	ErrRideNotLoaded      = errors.New("models: ride not loaded")
)

// ValidationError reports a rejected form or filter field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}
