package validator

import "time"

// Past requires a time.Time before now. With includeTime false both the value and the
// current time are floored to local midnight first, so today fails. Null passes.
func Past[T any](includeTime bool, opts ...Option) Validator[T] {
	s := newSettings(MessagePast, opts)
	return newRule[T]("past", s, &Descriptor{Past: true}, temporal("past", includeTime, s.now, func(c int) bool { return c < 0 }))
}

// Future requires a time.Time after now. With includeTime false both the value and the
// current time are floored to local midnight first, so today fails. Null passes.
func Future[T any](includeTime bool, opts ...Option) Validator[T] {
	s := newSettings(MessageFuture, opts)
	return newRule[T]("future", s, &Descriptor{Future: true}, temporal("future", includeTime, s.now, func(c int) bool { return c > 0 }))
}

func temporal(name string, includeTime bool, now func() time.Time, holds func(c int) bool) checkFunc {
	return func(v any) (bool, []any, error) {
		if v == nil {
			return true, nil, nil
		}
		t, ok := asTime(v)
		if !ok {
			return false, nil, unsupported(name, v)
		}
		ref := now()
		if !includeTime {
			t, ref = floorDay(t), floorDay(ref)
		}
		return holds(t.Compare(ref)), nil, nil
	}
}

func floorDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
