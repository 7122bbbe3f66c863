package metaprop

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
)

// Sentinel errors shared by the store and the command line tool.
var (
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrInvalidObject indicates an object failed validation before it was stored.
	ErrInvalidObject = errors.New("invalid object")

	// ErrInvalidConfig indicates the configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClosed indicates an operation on a closed store.
	ErrClosed = errors.New("store is closed")
)

// Error kinds.
const (
	KindNotFound      = "not_found"
	KindValidation    = "validation"
	KindSerialization = "serialization"
	KindStorage       = "storage"
	KindConfiguration = "configuration"
)

// Error wraps an underlying error with the operation that failed and the category of
// the failure. It supports errors.Is and errors.As.
//
//	err := &metaprop.Error{Op: "store.Get", Kind: metaprop.KindNotFound, Err: metaprop.ErrNotFound}
type Error struct {
	// Op is the operation that failed, e.g. "store.Put".
	Op string

	// Kind is one of the Kind constants.
	Kind string

	Err error

	// Context carries debugging details such as object IDs.
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("metaprop: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("metaprop: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("metaprop: %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind, and by Op when the target sets one. Otherwise it
// delegates to the wrapped error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*Error); ok && t.Kind != "" && e.Kind == t.Kind {
		if t.Op == "" || e.Op == t.Op {
			return true
		}
	}
	return errors.Is(e.Err, target)
}

// WithContext returns a copy of e with ctx merged into its context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	out := *e
	out.Context = make(map[string]any, len(e.Context)+len(ctx))
	maps.Copy(out.Context, e.Context)
	maps.Copy(out.Context, ctx)
	return &out
}

// KindOf returns the kind of the first *Error in the chain of err, or "".
func KindOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NewNotFoundError creates an error of kind not_found.
func NewNotFoundError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: err}
}

// NewValidationError creates an error of kind validation.
func NewValidationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

// NewSerializationError creates an error of kind serialization.
func NewSerializationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindSerialization, Err: err}
}

// NewStorageError creates an error of kind storage.
func NewStorageError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindStorage, Err: err}
}

// NewConfigurationError creates an error of kind configuration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// CloseWithLog closes closer and logs a failure at warning level. A nil logger uses
// slog.Default().
//
//	defer metaprop.CloseWithLog(st, logger, "store")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
