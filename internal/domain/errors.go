package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidLine marks a line candidate rejected by upstream validation.
	ErrInvalidLine = errors.New("invalid line item")
	// ErrInvalidCartKey marks an empty or malformed cart key.
	ErrInvalidCartKey = errors.New("invalid cart key")
)
