package forecast

import (
	"errors"
	"fmt"
)

// ErrEmptyWindow matches any *EmptyWindowError via errors.Is.
var ErrEmptyWindow = errors.New("no forecast records in the hours of interest")

// EmptyWindowError means the hours of interest held no usable records, so no
// day summary can be built.
type EmptyWindowError struct {
	Total   int // records offered to the window
	Dropped int // records skipped as malformed
}

func (e *EmptyWindowError) Error() string {
	return fmt.Sprintf("%v (%d records, %d malformed)", ErrEmptyWindow, e.Total, e.Dropped)
}

func (e *EmptyWindowError) Is(target error) bool {
	return target == ErrEmptyWindow
}

// MalformedRecordError describes a single record dropped during windowing.
// It is reported to the caller, never returned as a failure.
type MalformedRecordError struct {
	Index  int
	Value  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("forecast record %d (%q): %s", e.Index, e.Value, e.Reason)
}
