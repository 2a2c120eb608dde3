package protocol

import (
	"fmt"
)

// DecodeError is returned when a received buffer cannot be turned into a
// record: wrong length or malformed text.
type DecodeError struct {
	Layout   string // Name of the expected layout
	Expected int    // Expected number of bytes
	Actual   int    // Received number of bytes
	Err      error  // Underlying cause, nil for a length mismatch
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot decode %s: %s", e.Layout, e.Err.Error())
	}

	return fmt.Sprintf("cannot decode %s: expected %d bytes, got %d",
		e.Layout, e.Expected, e.Actual)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
