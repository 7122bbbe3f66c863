// Package property models named, typed and validatable values and composes them into
// trees describing schema-less records.
//
// A property pairs a name with a value, a runtime Type token and an ordered list of
// validators. Construction never validates; call Validate explicitly:
//
//	age := property.NewInteger("age", 17)
//	age.AddValidator(validator.Min[int32](18))
//	err := age.Validate()
//
// Properties are composed with TreeNode, usually through the Composite alias:
//
//	root := property.NewComposite(property.NewString("root", "root-value"))
//	root.SetChildren("child-node",
//		property.NewComposite(property.NewDecimal("child-1", decimal.RequireFromString("123.45"))),
//	)
//
// Children hold a weak reference to their parent, so a tree is owned from the root
// down. Path lookups over a tree are offered by Support rather than by the tree itself.
package property
