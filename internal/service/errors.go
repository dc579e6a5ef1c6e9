package service

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNotFound        = errors.New("expense not found")
	ErrForbidden       = errors.New("expense belongs to another user")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidCategory = errors.New("category must not be blank")
	ErrInvalidPeriod   = errors.New("invalid year or month")
)
