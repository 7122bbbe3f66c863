// Package validator provides reusable, stateless validation rules for property values.
//
// A Validator[T] checks a single value of type T and reports a violation as a
// *ValidationError carrying a localisable Message (default text, lookup codes and
// arguments). Rules applied to a value kind they cannot inspect report an
// *UnsupportedTypeError instead; that error marks a configuration defect and is never
// folded into an aggregate of ordinary violations.
//
// # Builtin rules
//
//	validator.NotNull[*string]()
//	validator.NotEmpty[[]string]()
//	validator.Max[int32](120)
//	validator.Pattern[string]("^[a-z]+$", validator.CaseInsensitive)
//	validator.In("draft", "published")
//	validator.Digits[decimal.Decimal](5, 2)
//	validator.Past[time.Time](false)
//
// Every builtin accepts options overriding its default message:
//
//	validator.NotBlank[string](
//		validator.WithMessage("Name is required"),
//		validator.WithCodes("employee.name.required"),
//	)
//
// # Null values
//
// A value is null when it is a nil interface, pointer, map, slice, channel or func.
// Pointers are dereferenced before a rule inspects the underlying kind, so a *string
// property behaves like a nullable string. Most rules let null values pass; use NotNull
// or NotEmpty to require presence.
//
// # Aggregation
//
// Run evaluates an ordered list of validators against one value, collecting every
// violation. A single violation is returned as-is; two or more are wrapped into an
// aggregate whose Causes keep evaluation order.
//
// # Descriptors
//
// Builtins expose a machine readable Descriptor through Describe. Descriptors summarise a
// rule (required, bounds, pattern, ...) for tooling such as schema export; they never
// replace running Validate.
package validator
