package serialization

import (
	"errors"
	"fmt"
)

// Direction tells whether a failure happened while reading or writing.
type Direction uint8

const (
	Read Direction = iota
	Write
)

func (d Direction) String() string {
	if d == Write {
		return "write"
	}
	return "read"
}

var (
	// ErrRead is matched by every read failure.
	ErrRead = errors.New("serialization: read failed")

	// ErrWrite is matched by every write failure.
	ErrWrite = errors.New("serialization: write failed")
)

// Target names of Error.
const (
	TargetTree     = "tree"
	TargetProperty = "property"
)

// Error reports a failed serialization call. No partial output accompanies it.
type Error struct {
	Direction Direction
	Target    string
	Mode      Mode
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("serialization: %s %s (%s): %v", e.Direction, e.Target, e.Mode, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrRead or ErrWrite according to the direction.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrRead:
		return e.Direction == Read
	case ErrWrite:
		return e.Direction == Write
	}
	return false
}

func readError(target string, mode Mode, err error) error {
	var serr *Error
	if errors.As(err, &serr) {
		return err
	}
	return &Error{Direction: Read, Target: target, Mode: mode, Err: err}
}

func writeError(target string, mode Mode, err error) error {
	var serr *Error
	if errors.As(err, &serr) {
		return err
	}
	return &Error{Direction: Write, Target: target, Mode: mode, Err: err}
}
