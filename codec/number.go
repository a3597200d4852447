package codec

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Integer adapts input to int, or to int64 when Long is set.
// Format is applied with fmt.Sprintf when serializing values of the native type.
type Integer struct {
	Signed bool
	Long   bool
	Format string
}

// NewInteger returns a signed int codec formatted with %d.
func NewInteger() Integer { return Integer{Signed: true, Format: "%d"} }

// NewLong returns a signed int64 codec formatted with %d.
func NewLong() Integer { return Integer{Signed: true, Long: true, Format: "%d"} }

func (c Integer) kind() string {
	if c.Long {
		return "long"
	}
	return "integer"
}

func (c Integer) Adapt(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	v, ok := indirect(raw)
	if !ok {
		return nil, nil
	}
	var n int64
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.String:
		s := strings.TrimSpace(rv.String())
		bits := strconv.IntSize
		if c.Long {
			bits = 64
		}
		p, err := strconv.ParseInt(s, 10, bits)
		if err != nil {
			return nil, adaptErr(raw, c.kind())
		}
		n = p
	case rv.Kind() == reflect.Bool:
		if rv.Bool() {
			n = 1
		}
	case isIntLike(rv.Kind()):
		n = rv.Int()
	case isUintLike(rv.Kind()):
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, adaptErr(raw, c.kind())
		}
		n = int64(u)
	case isFloatLike(rv.Kind()):
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
			return nil, adaptErr(raw, c.kind())
		}
		n = int64(f)
	default:
		return nil, adaptErr(raw, c.kind())
	}
	if !c.Signed && n < 0 {
		return nil, fmt.Errorf("%w: negative %s %d", ErrAdapt, c.kind(), n)
	}
	if c.Long {
		return n, nil
	}
	if n > math.MaxInt || n < math.MinInt {
		return nil, adaptErr(raw, c.kind())
	}
	return int(n), nil
}

func (c Integer) Serialize(v any) string {
	format := c.Format
	if format == "" {
		format = "%d"
	}
	switch x := v.(type) {
	case nil:
		return ""
	case int:
		if !c.Long {
			return fmt.Sprintf(format, x)
		}
	case int64:
		if c.Long {
			return fmt.Sprintf(format, x)
		}
	}
	return fmt.Sprint(v)
}

// Float adapts input to float64.
type Float struct {
	Signed bool
	Format string
}

// NewFloat returns a signed float64 codec formatted with %f.
func NewFloat() Float { return Float{Signed: true, Format: "%f"} }

func (c Float) Adapt(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	v, ok := indirect(raw)
	if !ok {
		return nil, nil
	}
	var f float64
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.String:
		p, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err != nil {
			return nil, adaptErr(raw, "float")
		}
		f = p
	case rv.Kind() == reflect.Bool:
		if rv.Bool() {
			f = 1
		}
	case isIntLike(rv.Kind()):
		f = float64(rv.Int())
	case isUintLike(rv.Kind()):
		f = float64(rv.Uint())
	case isFloatLike(rv.Kind()):
		f = rv.Float()
	default:
		return nil, adaptErr(raw, "float")
	}
	if !c.Signed && f < 0 {
		return nil, fmt.Errorf("%w: negative float %v", ErrAdapt, f)
	}
	return f, nil
}

func (c Float) Serialize(v any) string {
	format := c.Format
	if format == "" {
		format = "%f"
	}
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf(format, x)
	}
	return fmt.Sprint(v)
}
