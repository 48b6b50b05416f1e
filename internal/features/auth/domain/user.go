package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Provider identifies how a user signed in.
type Provider string

const (
	ProviderPassword  Provider = "password"
	ProviderFederated Provider = "google"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("email is not valid")
	ErrWeakPassword       = errors.New("password is too short")
)

// User is the signed-in identity of a session.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Provider Provider `json:"provider"`
}

// Account is a registered email/password credential.
type Account struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Disabled     bool   `json:"disabled,omitempty"`
}

// User returns the identity the account signs in as.
func (a Account) User() User {
	return User{ID: a.UID, Email: a.Email, Provider: ProviderPassword}
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks the shape of a registration request.
func ValidateCredentials(email, password string) error {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
