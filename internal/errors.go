package internal

import "errors"

var (
	// ErrNotFound is returned when a profile file cannot be opened for reading
	ErrNotFound = errors.New("profile not found")

	// ErrFormatMismatch is returned when the file identifier is not a profile identifier
	ErrFormatMismatch = errors.New("not a financial profile")

	// ErrTruncated is returned on a short read or write of any field
	ErrTruncated = errors.New("profile data truncated")

	// ErrInvalidIndex is returned for out-of-range item access or removal
	ErrInvalidIndex = errors.New("invalid item index")
)
