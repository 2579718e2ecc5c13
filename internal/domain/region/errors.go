package region

import "errors"

// Errors returned while building or loading a region table.
var (
	ErrInvalidTable = errors.New("invalid region table")
	ErrLoadTable    = errors.New("failed to load region table")
)
