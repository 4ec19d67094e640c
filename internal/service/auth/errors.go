package auth

import "errors"

// Token validation errors.
var (
	// ErrInvalidToken indicates the token is malformed, badly signed or
	// carries no usable user ID.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a request carried no token.
	ErrMissingToken = errors.New("authentication token is missing")
)
