package search

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the parent of every error caused by a bad search setup.
// Callers can test for it with errors.Is to separate configuration faults
// from database failures.
var ErrConfiguration = errors.New("search configuration")

// Configuration errors. Each wraps ErrConfiguration.
var (
	ErrUnknownFulltextMode = fmt.Errorf("%w: unknown fulltext mode", ErrConfiguration)
	ErrUnsupportedMode     = fmt.Errorf("%w: unsupported search mode", ErrConfiguration)
	ErrInvalidColumn       = fmt.Errorf("%w: invalid column", ErrConfiguration)
)
