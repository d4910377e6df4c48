package models

import "github.com/golang-jwt/jwt"

// User is the profile document returned by /getuser and /updateregister.
type User struct {
	ID                   string `json:"_id,omitempty"`
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	PhoneNumber          string `json:"phoneNumber"`
	Password             string `json:"password,omitempty"`
	DateOfBirth          string `json:"dateOfBirth,omitempty"`
	City                 string `json:"city,omitempty"`
	AccountType          string `json:"accountType,omitempty"`
	Bio                  string `json:"bio,omitempty"`
	CarModel             string `json:"carModel,omitempty"`
	LicensePlate         string `json:"licensePlate,omitempty"`
	DrivingLicenseNumber string `json:"drivingLicenseNumber,omitempty"`
}

// UpdateProfileRequest is the body of PUT /updateregister; the backend finds the user by ID.
type UpdateProfileRequest struct {
	ID string `json:"id"`
	User
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	ID       string `json:"id"`
}

type RegisterRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

// Session is the device-local login state.
type Session struct {
	UserID    string `json:"userid" yaml:"userid"`
	AuthToken string `json:"token" yaml:"token"`
	FullName  string `json:"Fullname" yaml:"Fullname"`
	Email     string `json:"email" yaml:"email"`
}

// Authenticated reports whether the session carries a user id.
func (s Session) Authenticated() bool { return s.UserID != "" }
