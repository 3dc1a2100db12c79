package pipeline

import "errors"

var (
	// ErrNoInput indicates neither file nor text was supplied. Rejected
	// before a transaction id is allocated.
	ErrNoInput = errors.New("no input provided (file or text)")

	// ErrDecode indicates the payload could not be decoded as text for
	// its declared format.
	ErrDecode = errors.New("failed to decode input payload")
)
