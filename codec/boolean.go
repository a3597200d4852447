package codec

import (
	"reflect"
	"strings"
)

// Boolean adapts input to bool.
//
// Strings are matched against the synonym lists; any other string fails.
// Non-string input uses its truthiness (non-zero numbers, non-empty
// collections). True and False are the tokens written by Serialize.
type Boolean struct {
	True          string
	False         string
	TrueSynonyms  []string
	FalseSynonyms []string
}

// NewBoolean returns a Boolean codec serializing to "1" and "".
func NewBoolean() Boolean {
	return Boolean{
		True:          "1",
		False:         "",
		TrueSynonyms:  []string{"on", "true", "True", "1"},
		FalseSynonyms: []string{"off", "false", "False", "0", ""},
	}
}

func (c Boolean) Adapt(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	v, ok := indirect(raw)
	if !ok {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, t := range c.TrueSynonyms {
			if s == t {
				return true, nil
			}
		}
		for _, f := range c.FalseSynonyms {
			if s == f {
				return false, nil
			}
		}
		if s == c.True && s != "" {
			return true, nil
		}
		if s == c.False {
			return false, nil
		}
		return nil, adaptErr(raw, "boolean")
	}
	return truthy(v), nil
}

func (c Boolean) Serialize(v any) string {
	b, ok := v.(bool)
	if !ok {
		return ""
	}
	if b {
		return c.True
	}
	return c.False
}

func truthy(v any) bool {
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.Bool:
		return rv.Bool()
	case isIntLike(rv.Kind()):
		return rv.Int() != 0
	case isUintLike(rv.Kind()):
		return rv.Uint() != 0
	case isFloatLike(rv.Kind()):
		return rv.Float() != 0
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() > 0
	case reflect.Interface, reflect.Pointer:
		return !rv.IsNil()
	}
	return true
}
