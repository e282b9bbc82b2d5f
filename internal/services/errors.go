package services

import "errors"

var (
	ErrDuplicateIdentity = errors.New("user already exists")
	ErrNotFound          = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrInvalidToken      = errors.New("invalid token")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	// ErrLocationNotFound means a search term resolved to no coordinates.
	// Callers answer it with a structured result instead of failing.
	ErrLocationNotFound = errors.New("location not found")
	ErrExternalService  = errors.New("external service error")
)
