// Package codec converts between raw input and the native values held by
// scalar elements.
//
// A Codec has two halves. Adapt turns loosely typed input (strings from a
// form, numbers from decoded JSON, native Go values) into the canonical
// value for the kind, or reports ErrAdapt. Serialize renders a canonical
// value back to the text form used for flattening and redisplay.
//
// nil always adapts to nil (absence) without error.
package codec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrAdapt reports that raw input could not be converted to the codec's kind.
var ErrAdapt = errors.New("codec: cannot adapt value")

// Codec converts raw input into a canonical value and back into text.
type Codec interface {
	Adapt(raw any) (any, error)
	Serialize(v any) string
}

// Text renders raw input the way an element keeps it when adaptation fails:
// nil becomes "", strings are kept verbatim and everything else is printed.
func Text(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return strings.ToValidUTF8(string(v), "�")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func adaptErr(raw any, kind string) error {
	return fmt.Errorf("%w: %s from %T", ErrAdapt, kind, raw)
}

// indirect dereferences pointers so *int and int adapt the same way.
func indirect(raw any) (any, bool) {
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}

func isIntLike(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUintLike(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isFloatLike(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
