package service

import "errors"

// Sentinel errors shared by all services; handlers translate them to HTTP
// statuses. Anything else surfaces as an internal error.
var (
	ErrNotFound   = errors.New("not_found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad_request")
)
