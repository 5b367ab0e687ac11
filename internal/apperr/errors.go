package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("ankiconnect unavailable")
	ErrAPI          = errors.New("ankiconnect error")
	ErrMissingField = errors.New("missing field")
)
