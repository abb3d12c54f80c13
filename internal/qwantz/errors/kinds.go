package errors

import stderrors "errors"

// The two fatal-for-the-page error kinds (spec §7). Every other condition
// (UnmatchedShape, UnmatchedLine, ambiguous hyphen/block order, variant
// used, short space, inline offset) is reported as a logged warning via
// common.Log and never surfaces as a returned error.
var (
	// ErrWrongDimensions is returned when the input bitmap is not exactly
	// the fixed comic-page size (735x500).
	ErrWrongDimensions = stderrors.New("wrong image dimensions")

	// ErrInvalidTemplate is returned when none of the fixed reference
	// pixel/color samples match, meaning the input is not recognizable as
	// this comic's fixed layout at all.
	ErrInvalidTemplate = stderrors.New("invalid template: no reference sample matched")
)

// Is reports whether err (or any error it wraps) is one of the two fatal
// sentinel kinds. Kept as a thin helper so callers can use either
// stdlib errors.Is(err, ErrWrongDimensions) or this helper interchangeably;
// it exists because *processError above is commonly used to wrap the
// sentinel with page-specific context.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
