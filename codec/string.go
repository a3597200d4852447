package codec

import (
	"fmt"
	"strings"
)

// String adapts any input to a string. Strip trims surrounding whitespace.
type String struct {
	Strip bool
}

// NewString returns a String codec that strips whitespace.
func NewString() String { return String{Strip: true} }

func (c String) Adapt(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	v, ok := indirect(raw)
	if !ok {
		return nil, nil
	}
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		s = Text(x)
	}
	if c.Strip {
		s = strings.TrimSpace(s)
	}
	return s, nil
}

func (c String) Serialize(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
