package valid

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/formtree"
)

// Luhn10 fails unless the value's digits pass the Luhn mod-10 checksum.
type Luhn10 struct {
	Invalid string
}

func (Luhn10) Name() string { return "Luhn10" }

func (v Luhn10) Validate(el *formtree.Element, state any) formtree.Result {
	if !luhnValid(digits(el.Value())) {
		return NoteError(el, state, or(v.Invalid, "The {label} was not entered correctly."), nil)
	}
	return formtree.Pass
}

func digits(v any) string {
	if v == nil {
		return ""
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strings.TrimPrefix(fmt.Sprint(v), "-")
	case reflect.String:
		return strings.ReplaceAll(reflect.ValueOf(v).String(), " ", "")
	}
	return ""
}

func luhnValid(s string) bool {
	if s == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
