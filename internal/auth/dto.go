package auth

import "github.com/rasyarzq/kasirpos-backend/internal/users"

// LoginRequest carries the operator credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the bearer token and the operator profile.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
