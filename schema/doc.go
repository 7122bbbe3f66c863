// Package schema exports JSON Schema (draft 7) descriptions of property trees and
// validates documents against them.
//
// The schema of a tree describes its NAME_VALUE shape. Property types map to JSON types
// and the descriptors of attached validators map to constraints:
//
//	required         required
//	min / max        minimum / maximum, minLength / maxLength, minItems / maxItems
//	exclusive bounds exclusiveMinimum / exclusiveMaximum
//	pattern          pattern
//	email            format: email
//	in / notIn       enum / not.enum
//	digits           x-integerDigits / x-fractionDigits
//	past / future    x-past / x-future
//
// Descriptors only describe; the exported schema never replaces running the validators.
//
// # Usage
//
//	s := schema.FromTree(root)
//	data, _ := json.MarshalIndent(s, "", "  ")
//
//	err := s.Validate(document)
package schema
