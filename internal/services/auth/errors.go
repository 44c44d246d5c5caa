package auth

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrAlreadyRegistered       = errors.New("username or email is already registered")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrInvalidToken            = errors.New("invalid or expired token")
)
