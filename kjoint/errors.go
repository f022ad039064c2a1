package kjoint

import "errors"

// Sentinel errors for common failure cases. Structural failures of the model
// (unknown dependencies, cycles, duplicate names) are reported with the
// kgraph sentinels.
var (
	ErrInvalidModel         = errors.New("invalid model")
	ErrInvalidMaker         = errors.New("invalid maker")
	ErrUnsupportedStructure = errors.New("unsupported structure")
	ErrLengthMismatch       = errors.New("length mismatch")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrShortHistory         = errors.New("history shorter than window")
	ErrMissingValue         = errors.New("missing value")
)
