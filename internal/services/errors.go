package services

import "errors"

var (
	// ErrInvalidCredentials is returned on any login failure. Whether the
	// login or the password was wrong is deliberately not revealed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInsufficientFunds is returned when an app costs more than the
	// user's balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
