package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrDuplicateUser      = errors.New("username already exists")
	ErrWeakCredential     = errors.New("password too short")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("validation error")
)
