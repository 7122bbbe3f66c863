package validator

import (
	"fmt"
	"strings"
)

// ValidationError reports a rule violation, or an aggregate of several.
//
// A single violation carries its Message. An aggregate carries no message of its own and
// exposes the collected violations through Causes, in the order they were collected.
// ValidationError is recoverable: callers are expected to report it back to whoever
// supplied the value.
type ValidationError struct {
	message *Message
	causes  []*ValidationError
}

// NewValidationError creates a single violation with the given message.
func NewValidationError(m Message) *ValidationError {
	c := m.clone()
	return &ValidationError{message: &c}
}

// Errorf creates a single violation whose default text is formatted from format and args.
func Errorf(format string, args ...any) *ValidationError {
	return &ValidationError{message: &Message{Default: fmt.Sprintf(format, args...)}}
}

// Aggregate wraps causes into one aggregate violation. The order of causes is kept.
func Aggregate(causes ...*ValidationError) *ValidationError {
	return &ValidationError{causes: append([]*ValidationError(nil), causes...)}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.message != nil {
		return e.message.String()
	}
	parts := make([]string, 0, len(e.causes))
	for _, c := range e.causes {
		parts = append(parts, c.Error())
	}
	return fmt.Sprintf("%d validation errors: %s", len(e.causes), strings.Join(parts, "; "))
}

// Message returns the violation message. It reports false for an aggregate without one.
func (e *ValidationError) Message() (Message, bool) {
	if e.message == nil {
		return Message{}, false
	}
	return *e.message, true
}

// Causes returns the violations wrapped by an aggregate, or nil.
func (e *ValidationError) Causes() []*ValidationError {
	return e.causes
}

// IsAggregate reports whether e wraps other violations.
func (e *ValidationError) IsAggregate() bool {
	return len(e.causes) > 0
}

// Messages returns every validation message carried by e: its own message when it has
// one, otherwise the messages of its causes, flattened in order.
func (e *ValidationError) Messages() []Message {
	if e.message != nil {
		return []Message{*e.message}
	}
	var out []Message
	for _, c := range e.causes {
		out = append(out, c.Messages()...)
	}
	return out
}

// Unwrap exposes the causes to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	if len(e.causes) == 0 {
		return nil
	}
	errs := make([]error, len(e.causes))
	for i, c := range e.causes {
		errs[i] = c
	}
	return errs
}

// UnsupportedTypeError reports that a rule was applied to a value kind it does not
// support. It signals a programming or configuration defect, not bad input.
type UnsupportedTypeError struct {
	// Rule is the name of the rule, e.g. "max".
	Rule string

	// Type is the Go type of the rejected value.
	Type string
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("validator: data type not supported by %s validator: %s", e.Rule, e.Type)
}

func unsupported(rule string, v any) error {
	return &UnsupportedTypeError{Rule: rule, Type: fmt.Sprintf("%T", v)}
}
