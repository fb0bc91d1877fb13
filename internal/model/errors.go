package model

import "errors"

var (
	// ErrNotFound is returned when no user matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when registering an email that is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidField is returned for attributes a user does not have.
	// It signals a programming error rather than bad user input.
	ErrInvalidField = errors.New("invalid field")
)
