package common

import "errors"

var (
	// ErrConfiguration is returned by constructors given invalid parameters.
	// Nothing recovers from it internally; rebuild the component instead.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUsage marks a programming defect detected at call time, such as a
	// range vector whose length differs from the one a stateful filter was
	// sized for.
	ErrUsage = errors.New("usage error")
)
