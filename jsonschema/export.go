package jsonschema

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/codec"
)

// FromSchema projects s into a JSON Schema document. Refs have no standalone
// representation and are left out of their parent's properties.
func FromSchema(s *formtree.Schema) (*Schema, error) {
	if s.Kind() == formtree.KindRef {
		return nil, fmt.Errorf("%w: ref %q has no JSON Schema form", formtree.ErrUnsupportedValue, s.Name())
	}
	out, err := project(s)
	if err != nil {
		return nil, err
	}
	out.Schema = Draft
	return out, nil
}

// Marshal renders the projection of s as indented JSON.
func Marshal(s *formtree.Schema) ([]byte, error) {
	js, err := FromSchema(s)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(js, "", "  ")
}

func project(s *formtree.Schema) (*Schema, error) {
	out := &Schema{Title: s.Label()}
	switch s.Kind() {
	case formtree.KindScalar:
		projectScalar(out, s.Codec())
		if s.IsEnum() {
			out.Enum = jsonValues(s.Codec(), s.ValidValues())
		}
		if d, ok := s.Default(); ok {
			out.Default = jsonValue(s.Codec(), d)
		}
	case formtree.KindCompound:
		projectScalar(out, s.Codec())
	case formtree.KindDict, formtree.KindSparseDict:
		out.Type = "object"
		out.Properties = map[string]*Schema{}
		for _, c := range s.Children() {
			if c.Kind() == formtree.KindRef {
				continue
			}
			p, err := project(c)
			if err != nil {
				return nil, err
			}
			out.Properties[c.Name()] = p
			if required(s, c) {
				out.Required = append(out.Required, c.Name())
			}
		}
		if s.Policy() != formtree.PolicyLenient {
			out.AdditionalProperties = false
		}
	case formtree.KindList, formtree.KindArray:
		out.Type = "array"
		items, err := project(s.Member())
		if err != nil {
			return nil, err
		}
		out.Items = items
		if !s.Optional() {
			one := 1
			out.MinItems = &one
		}
		if d, ok := s.Default(); ok {
			if _, isCount := d.(int); !isCount {
				out.Default = d
			}
		}
	default:
		return nil, fmt.Errorf("%w: kind %s", formtree.ErrUnsupportedValue, s.Kind())
	}
	if s.Optional() && s.Kind() != formtree.KindList && s.Kind() != formtree.KindArray {
		out.Type = []any{out.Type, "null"}
	}
	return out, nil
}

// required mirrors presence rules: dict keys are always present, sparse keys
// only when MinimumRequired keeps them.
func required(parent, child *formtree.Schema) bool {
	if child.Optional() {
		return false
	}
	if parent.Kind() == formtree.KindDict {
		return true
	}
	return parent.MinimumFields() == formtree.MinimumRequired
}

func projectScalar(out *Schema, c codec.Codec) {
	switch cd := c.(type) {
	case codec.String:
		out.Type = "string"
	case codec.Integer:
		out.Type = "integer"
		if !cd.Signed {
			out.Minimum = new(float64)
		}
	case codec.Float:
		out.Type = "number"
		if !cd.Signed {
			out.Minimum = new(float64)
		}
	case codec.Boolean:
		out.Type = "boolean"
	case codec.Temporal:
		out.Type = "string"
		switch cd.Layout {
		case codec.DateLayout:
			out.Format = "date"
		default:
			if cd.Pattern != nil {
				out.Pattern = cd.Pattern.String()
			}
		}
	case codec.UUID:
		out.Type = "string"
		out.Format = "uuid"
	default:
		out.Type = "string"
	}
}

func jsonValues(c codec.Codec, vs []any) []any {
	out := make([]any, 0, len(vs))
	for _, v := range vs {
		out = append(out, jsonValue(c, v))
	}
	return out
}

// jsonValue renders values without a natural JSON form through the codec.
func jsonValue(c codec.Codec, v any) any {
	switch v.(type) {
	case time.Time, uuid.UUID:
		return c.Serialize(v)
	}
	return v
}
