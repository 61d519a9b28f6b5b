package vm

import "errors"

// Precondition errors
var (
	ErrNotCreated    = errors.New("vm: bundle does not exist")
	ErrAlreadyExists = errors.New("vm: bundle already exists")
)

// Bundle layout errors
var (
	ErrUnsupportedBundle = errors.New("vm: bundle layout not supported")
)
