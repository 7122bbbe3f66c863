package validator

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// CatalogResolver renders messages from a golang.org/x/text message catalog.
//
// The first code with a catalog entry for the resolver language wins; catalog entries
// use fmt verbs for arguments. Messages without a matching entry fall back to
// DefaultResolver.
type CatalogResolver struct {
	printer *message.Printer
}

// NewCatalogResolver creates a resolver for tag backed by cat.
func NewCatalogResolver(tag language.Tag, cat catalog.Catalog) *CatalogResolver {
	return &CatalogResolver{printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Resolve implements Resolver.
func (r *CatalogResolver) Resolve(m Message) string {
	for _, code := range m.Codes {
		// Unknown keys are printed verbatim.
		if text := r.printer.Sprintf(code, m.Args...); text != code && !strings.HasPrefix(text, code+"%!") {
			return text
		}
	}
	return DefaultResolver{}.Resolve(m)
}

// DefaultMessages lists the builtin messages, keyed by their first code.
func DefaultMessages() map[string]Message {
	out := make(map[string]Message)
	for _, m := range []Message{
		MessageNull, MessageNotNull, MessageNotEmpty, MessageNotBlank, MessageMax, MessageMin,
		MessagePattern, MessageIn, MessageNotIn, MessageDigits, MessageNotNegative, MessageNotZero,
		MessagePast, MessageFuture, MessageLessThan, MessageLessOrEqual, MessageGreaterThan,
		MessageGreaterOrEqual, MessageEmail, MessageExpression,
	} {
		out[m.Codes[0]] = m
	}
	return out
}

// NewDefaultCatalog returns an English catalog holding the builtin messages. Further
// languages can be added to the returned builder with SetString.
func NewDefaultCatalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for code, m := range DefaultMessages() {
		text := strings.ReplaceAll(m.Default, ArgumentPlaceholder, "%v")
		if err := b.SetString(language.English, code, text); err != nil {
			return nil, err
		}
	}
	return b, nil
}
