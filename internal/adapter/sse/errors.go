package sse

import "errors"

var (
	ErrClientClosed     = errors.New("sse: client closed")
	ErrClientSlow       = errors.New("sse: client send buffer full")
	ErrHubFull          = errors.New("sse: connection limit reached")
	ErrHubStopped       = errors.New("sse: hub stopped")
	ErrInvalidEventName = errors.New("sse: invalid event name")
)
