package validator

import (
	"fmt"
	"strings"
)

// MessageCodePrefix prefixes the lookup codes of all builtin messages.
const MessageCodePrefix = "validation.message."

// ArgumentPlaceholder marks where message arguments are substituted in default texts.
const ArgumentPlaceholder = "&"

// Message is a localisable validation message.
//
// Default is the fallback text, Codes are lookup keys for a message catalog in order of
// preference and Args are the values substituted into the resolved text.
type Message struct {
	Default string   `json:"default,omitempty" yaml:"default,omitempty"`
	Codes   []string `json:"codes,omitempty" yaml:"codes,omitempty"`
	Args    []any    `json:"args,omitempty" yaml:"args,omitempty"`
}

// String renders the message with DefaultResolver.
func (m Message) String() string {
	return DefaultResolver{}.Resolve(m)
}

func (m Message) clone() Message {
	c := Message{Default: m.Default}
	if len(m.Codes) > 0 {
		c.Codes = append([]string(nil), m.Codes...)
	}
	if len(m.Args) > 0 {
		c.Args = append([]any(nil), m.Args...)
	}
	return c
}

// Resolver renders a Message into human readable text.
type Resolver interface {
	Resolve(m Message) string
}

// DefaultResolver renders the default text, replacing each ArgumentPlaceholder with the
// next argument. Arguments without a placeholder are ignored.
type DefaultResolver struct{}

// Resolve implements Resolver.
func (DefaultResolver) Resolve(m Message) string {
	if len(m.Args) == 0 || !strings.Contains(m.Default, ArgumentPlaceholder) {
		return m.Default
	}
	var b strings.Builder
	rest := m.Default
	for _, arg := range m.Args {
		i := strings.Index(rest, ArgumentPlaceholder)
		if i < 0 {
			break
		}
		b.WriteString(rest[:i])
		b.WriteString(fmt.Sprint(arg))
		rest = rest[i+len(ArgumentPlaceholder):]
	}
	b.WriteString(rest)
	return b.String()
}

// Default messages of the builtin rules.
var (
	MessageNull           = Message{Default: "Value must be null", Codes: []string{MessageCodePrefix + "null"}}
	MessageNotNull        = Message{Default: "Value is required", Codes: []string{MessageCodePrefix + "notnull"}}
	MessageNotEmpty       = Message{Default: "Value is required and must not be empty", Codes: []string{MessageCodePrefix + "notempty"}}
	MessageNotBlank       = Message{Default: "Value is required and must not be blank", Codes: []string{MessageCodePrefix + "notblank"}}
	MessageMax            = Message{Default: "Value too large. Maximum is " + ArgumentPlaceholder, Codes: []string{MessageCodePrefix + "max"}}
	MessageMin            = Message{Default: "Value too small. Minimum is " + ArgumentPlaceholder, Codes: []string{MessageCodePrefix + "min"}}
	MessagePattern        = Message{Default: "Invalid value", Codes: []string{MessageCodePrefix + "pattern"}}
	MessageIn             = Message{Default: "Invalid value", Codes: []string{MessageCodePrefix + "in"}}
	MessageNotIn          = Message{Default: "Invalid value", Codes: []string{MessageCodePrefix + "notin"}}
	MessageDigits         = Message{Default: "Invalid number", Codes: []string{MessageCodePrefix + "digits"}}
	MessageNotNegative    = Message{Default: "Negative values are not allowed", Codes: []string{MessageCodePrefix + "notnegative"}}
	MessageNotZero        = Message{Default: "0 is not allowed", Codes: []string{MessageCodePrefix + "notzero"}}
	MessagePast           = Message{Default: "Date must be in the past", Codes: []string{MessageCodePrefix + "past"}}
	MessageFuture         = Message{Default: "Date must be in the future", Codes: []string{MessageCodePrefix + "future"}}
	MessageLessThan       = Message{Default: "Value must be less than " + ArgumentPlaceholder, Codes: []string{MessageCodePrefix + "lt"}}
	MessageLessOrEqual    = Message{Default: "Value must be less than or equal to " + ArgumentPlaceholder, Codes: []string{MessageCodePrefix + "loe"}}
	MessageGreaterThan    = Message{Default: "Value must be greater than " + ArgumentPlaceholder, Codes: []string{MessageCodePrefix + "gt"}}
	MessageGreaterOrEqual = Message{Default: "Value must be greater than or equal to " + ArgumentPlaceholder, Codes: []string{MessageCodePrefix + "goe"}}
	MessageEmail          = Message{Default: "Invalid e-mail address", Codes: []string{MessageCodePrefix + "email"}}
	MessageExpression     = Message{Default: "Invalid value", Codes: []string{MessageCodePrefix + "expression"}}
)
