package validator

// Kind identifies the constraint a Descriptor summarises.
type Kind string

const (
	KindRequired       Kind = "REQUIRED"
	KindMin            Kind = "MIN"
	KindMax            Kind = "MAX"
	KindExclusiveMin   Kind = "EXCLUSIVE_MIN"
	KindExclusiveMax   Kind = "EXCLUSIVE_MAX"
	KindPattern        Kind = "PATTERN"
	KindIntegerDigits  Kind = "INTEGER_DIGITS"
	KindFractionDigits Kind = "FRACTION_DIGITS"
	KindPast           Kind = "PAST"
	KindFuture         Kind = "FUTURE"
	KindEmail          Kind = "EMAIL"
	KindIn             Kind = "IN"
	KindNotIn          Kind = "NOT_IN"
)

// Descriptor is a machine readable summary of a rule. It is informational only.
type Descriptor struct {
	Required       bool     `json:"required,omitempty"`
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	ExclusiveMin   bool     `json:"exclusiveMin,omitempty"`
	ExclusiveMax   bool     `json:"exclusiveMax,omitempty"`
	Pattern        string   `json:"pattern,omitempty"`
	IntegerDigits  *int     `json:"integerDigits,omitempty"`
	FractionDigits *int     `json:"fractionDigits,omitempty"`
	Past           bool     `json:"past,omitempty"`
	Future         bool     `json:"future,omitempty"`
	Email          bool     `json:"email,omitempty"`
	In             []any    `json:"in,omitempty"`
	NotIn          []any    `json:"notIn,omitempty"`
}

// Kinds lists the constraints set on d.
func (d Descriptor) Kinds() []Kind {
	var kinds []Kind
	if d.Required {
		kinds = append(kinds, KindRequired)
	}
	if d.Min != nil {
		if d.ExclusiveMin {
			kinds = append(kinds, KindExclusiveMin)
		} else {
			kinds = append(kinds, KindMin)
		}
	}
	if d.Max != nil {
		if d.ExclusiveMax {
			kinds = append(kinds, KindExclusiveMax)
		} else {
			kinds = append(kinds, KindMax)
		}
	}
	if d.Pattern != "" {
		kinds = append(kinds, KindPattern)
	}
	if d.IntegerDigits != nil {
		kinds = append(kinds, KindIntegerDigits)
	}
	if d.FractionDigits != nil {
		kinds = append(kinds, KindFractionDigits)
	}
	if d.Past {
		kinds = append(kinds, KindPast)
	}
	if d.Future {
		kinds = append(kinds, KindFuture)
	}
	if d.Email {
		kinds = append(kinds, KindEmail)
	}
	if len(d.In) > 0 {
		kinds = append(kinds, KindIn)
	}
	if len(d.NotIn) > 0 {
		kinds = append(kinds, KindNotIn)
	}
	return kinds
}

// Merge folds o into d. Bounds from o replace those of d only when they are tighter.
func (d Descriptor) Merge(o Descriptor) Descriptor {
	d.Required = d.Required || o.Required
	if o.Min != nil && (d.Min == nil || *o.Min > *d.Min) {
		d.Min, d.ExclusiveMin = o.Min, o.ExclusiveMin
	}
	if o.Max != nil && (d.Max == nil || *o.Max < *d.Max) {
		d.Max, d.ExclusiveMax = o.Max, o.ExclusiveMax
	}
	if o.Pattern != "" {
		d.Pattern = o.Pattern
	}
	if o.IntegerDigits != nil {
		d.IntegerDigits = o.IntegerDigits
	}
	if o.FractionDigits != nil {
		d.FractionDigits = o.FractionDigits
	}
	d.Past = d.Past || o.Past
	d.Future = d.Future || o.Future
	d.Email = d.Email || o.Email
	d.In = append(d.In, o.In...)
	d.NotIn = append(d.NotIn, o.NotIn...)
	return d
}

// Described is implemented by validators exposing a Descriptor.
type Described interface {
	Descriptor() (Descriptor, bool)
}

// Describe returns the descriptor of v, if v provides one.
func Describe(v any) (Descriptor, bool) {
	if d, ok := v.(Described); ok {
		return d.Descriptor()
	}
	return Descriptor{}, false
}

func float64p(f float64) *float64 { return &f }

func intp(i int) *int { return &i }
