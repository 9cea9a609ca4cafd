package commonerrors

import "errors"

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")

	ErrAlreadyJoined  = errors.New("connection already joined a board")
	ErrSendBufferFull = errors.New("member send buffer full")
	ErrSessionClosed  = errors.New("session closed")
)
