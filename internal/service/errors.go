package service

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternalError  = errors.New("internal error")
)
