package mpmg

import "errors"

// Error categories for the environment. Callers match them with errors.Is.
var (
	// ErrConfig marks invalid construction parameters, including sampler
	// retry exhaustion during Reset.
	ErrConfig = errors.New("mpmg: invalid configuration")

	// ErrUsage marks calls that violate the environment lifecycle, such as
	// Step before the first Reset.
	ErrUsage = errors.New("mpmg: environment misuse")

	// ErrInput marks malformed per-step input, such as an action profile of
	// the wrong length.
	ErrInput = errors.New("mpmg: invalid input")
)
