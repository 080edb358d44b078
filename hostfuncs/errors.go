package hostfuncs

import "errors"

// Registry errors.
var (
	// ErrUnknownFunction is returned by Invoke for an unregistered function.
	ErrUnknownFunction = errors.New("hostfuncs: unknown host function")
	// ErrDuplicateFunction is returned by NewRegistry when a function is
	// registered twice.
	ErrDuplicateFunction = errors.New("hostfuncs: duplicate host function")
	// ErrInvalidFunction is returned by NewRegistry for a function without
	// a module, name or handler.
	ErrInvalidFunction = errors.New("hostfuncs: invalid host function")
	// ErrStackTooShort is returned by Invoke when the value stack cannot
	// hold the function's parameters.
	ErrStackTooShort = errors.New("hostfuncs: value stack too short")
)
