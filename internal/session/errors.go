package session

import "errors"

var (
	ErrNotFound        = errors.New("session not found")
	ErrInFlight        = errors.New("a generation is already in progress for this session")
	ErrIncompleteInput = errors.New("product description, brand voice and author name are required")
	ErrStale           = errors.New("generation result discarded: session was reset while it was running")
)
