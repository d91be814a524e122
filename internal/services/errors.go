package services

import "errors"

// Sentinel errors the controllers translate to HTTP statuses.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrCategoryInUse      = errors.New("category has products")
	ErrUnusableSlug       = errors.New("slug must contain letters or digits")
	ErrNoIssuer           = errors.New("auth provider cannot issue tokens")
)
