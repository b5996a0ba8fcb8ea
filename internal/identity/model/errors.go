package model

import "errors"

var (
	// ErrEmailTaken indicates that a profile with the email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound indicates that the requested profile does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken indicates a malformed, forged or expired access token.
	ErrInvalidToken = errors.New("invalid token")
)
