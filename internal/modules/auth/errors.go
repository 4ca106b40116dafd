package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAdminRegistration  = errors.New("admin accounts cannot be self-registered")
	ErrInvalidRole        = errors.New("role must be customer or worker")
)
