package worker

import "errors"

var (
	ErrWorkerNotFound = errors.New("worker not found")
	ErrUnknownService = errors.New("service is not in the catalog")
)
