package admin

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrWorkerNotFound = errors.New("worker not found")
	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidStatus  = errors.New("invalid booking status")
	ErrSelfChange     = errors.New("admins cannot change or delete their own account")
)
