package server

import "errors"

var (
	ErrMissingAddress = errors.New("server address is required")
	ErrInvalidAddress = errors.New("server address must be host:port")

	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrListen               = errors.New("failed to bind server address")
	ErrShutdown             = errors.New("HTTP shutdown error")
)
