package valid

import (
	"reflect"
	"time"

	"github.com/reoring/formtree"
)

// Op is an ordered comparison operator.
type Op int

const (
	Lt Op = iota
	Le
	Gt
	Ge
)

// compareOrdered supports ints, floats (mixed freely), strings and
// time.Time. Values of other kinds never satisfy the comparison.
func compareOrdered(cur any, op Op, want any) bool {
	if a, ok := cur.(time.Time); ok {
		b, ok := want.(time.Time)
		if !ok {
			return false
		}
		return apply(op, a.Compare(b))
	}
	c := reflect.ValueOf(cur)
	w := reflect.ValueOf(want)
	if !c.IsValid() || !w.IsValid() {
		return false
	}
	switch {
	case isIntLike(c.Kind()) && isIntLike(w.Kind()):
		return apply(op, cmp3(toInt64(c), toInt64(w)))
	case isNumeric(c.Kind()) && isNumeric(w.Kind()):
		return apply(op, cmp3(toFloat64(c), toFloat64(w)))
	case c.Kind() == reflect.String && w.Kind() == reflect.String:
		return apply(op, cmp3(c.String(), w.String()))
	}
	return false
}

func cmp3[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func apply(op Op, c int) bool {
	switch op {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	default:
		return false
	}
}

func isIntLike(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isNumeric(k reflect.Kind) bool {
	return isIntLike(k) || k == reflect.Float32 || k == reflect.Float64
}

func toInt64(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return 0
	}
}

func toFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return float64(v.Int())
	}
}

// ValueLessThan fails unless value < Boundary. Placeholder: {boundary}.
type ValueLessThan struct {
	Boundary any
	Failure  string
}

func (ValueLessThan) Name() string { return "ValueLessThan" }

func (v ValueLessThan) Validate(el *formtree.Element, state any) formtree.Result {
	if !compareOrdered(el.Value(), Lt, v.Boundary) {
		return NoteError(el, state, or(v.Failure, "{label} must be less than {boundary}."),
			map[string]any{"boundary": v.Boundary})
	}
	return formtree.Pass
}

// ValueAtMost fails unless value <= Maximum. Placeholder: {maximum}.
type ValueAtMost struct {
	Maximum any
	Failure string
}

func (ValueAtMost) Name() string { return "ValueAtMost" }

func (v ValueAtMost) Validate(el *formtree.Element, state any) formtree.Result {
	if !compareOrdered(el.Value(), Le, v.Maximum) {
		return NoteError(el, state, or(v.Failure, "{label} must be less than or equal to {maximum}."),
			map[string]any{"maximum": v.Maximum})
	}
	return formtree.Pass
}

// ValueGreaterThan fails unless value > Boundary. Placeholder: {boundary}.
type ValueGreaterThan struct {
	Boundary any
	Failure  string
}

func (ValueGreaterThan) Name() string { return "ValueGreaterThan" }

func (v ValueGreaterThan) Validate(el *formtree.Element, state any) formtree.Result {
	if !compareOrdered(el.Value(), Gt, v.Boundary) {
		return NoteError(el, state, or(v.Failure, "{label} must be greater than {boundary}."),
			map[string]any{"boundary": v.Boundary})
	}
	return formtree.Pass
}

// ValueAtLeast fails unless value >= Minimum. Placeholder: {minimum}.
type ValueAtLeast struct {
	Minimum any
	Failure string
}

func (ValueAtLeast) Name() string { return "ValueAtLeast" }

func (v ValueAtLeast) Validate(el *formtree.Element, state any) formtree.Result {
	if !compareOrdered(el.Value(), Ge, v.Minimum) {
		return NoteError(el, state, or(v.Failure, "{label} must be greater than or equal to {minimum}."),
			map[string]any{"minimum": v.Minimum})
	}
	return formtree.Pass
}

// ValueBetween fails unless Minimum <= value <= Maximum, or
// Minimum < value < Maximum when Exclusive is set.
// Placeholders: {minimum}, {maximum}.
type ValueBetween struct {
	Minimum          any
	Maximum          any
	Exclusive        bool
	FailureInclusive string
	FailureExclusive string
}

func (ValueBetween) Name() string { return "ValueBetween" }

func (v ValueBetween) Validate(el *formtree.Element, state any) formtree.Result {
	val := el.Value()
	params := map[string]any{"minimum": v.Minimum, "maximum": v.Maximum}
	if v.Exclusive {
		if !compareOrdered(val, Gt, v.Minimum) || !compareOrdered(val, Lt, v.Maximum) {
			return NoteError(el, state, or(v.FailureExclusive, "{label} must be greater than {minimum} and less than {maximum}."), params)
		}
		return formtree.Pass
	}
	if !compareOrdered(val, Ge, v.Minimum) || !compareOrdered(val, Le, v.Maximum) {
		return NoteError(el, state, or(v.FailureInclusive, "{label} must be in the range {minimum} to {maximum}."), params)
	}
	return formtree.Pass
}
