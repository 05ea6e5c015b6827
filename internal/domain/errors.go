package domain

import "errors"

var (
	ErrSessionNotFound   = errors.New("pairing session not found")
	ErrRecordNotFound    = errors.New("instance record not found")
	ErrInvalidState      = errors.New("operation not valid in current phase")
	ErrBridgeUnavailable = errors.New("bridge unavailable")
)
