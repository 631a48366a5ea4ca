package snapshot

import "errors"

var (
	ErrNotFound     = errors.New("snapshot not found")
	ErrInvalidInput = errors.New("invalid input")
)
