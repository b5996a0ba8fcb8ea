package model

import "time"

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email       string  `json:"email"        validate:"required,mailbox"`
	Password    string  `json:"password"     validate:"required,min=8,max=72"`
	FirstName   *string `json:"first_name"   validate:"omitempty,max=255"`
	LastName    *string `json:"last_name"    validate:"omitempty,max=255"`
	CompanyName *string `json:"company_name" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=64"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned after a successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Profile   `json:"user"`
}

// CurrentUser is the minimal identity of the authenticated caller.
type CurrentUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
