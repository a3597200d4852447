package schemafile

import (
	"fmt"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/codec"
)

type scalarFunc func(name string) *formtree.Schema

var scalars = map[string]scalarFunc{
	"string":   formtree.String,
	"integer":  formtree.Integer,
	"long":     formtree.Long,
	"float":    formtree.Float,
	"boolean":  formtree.Boolean,
	"date":     formtree.Date,
	"datetime": formtree.DateTime,
	"time":     formtree.Time,
	"uuid":     formtree.UUID,
}

func (d *Document) build() (*formtree.Schema, error) {
	s, err := d.node()
	if err != nil {
		return nil, err
	}
	if d.Label != "" {
		s = s.WithLabel(d.Label)
	}
	if d.Optional {
		s = s.WithOptional(true)
	}
	if d.Default != nil {
		s = s.WithDefault(d.Default)
	}
	if len(d.Validators) > 0 {
		vs, err := buildValidators(d.Validators)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
		s = s.WithValidators(vs...)
	}
	if len(d.DescentValidators) > 0 {
		vs, err := buildValidators(d.DescentValidators)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
		s = s.WithDescentValidators(vs...)
	}
	return s, nil
}

func (d *Document) node() (*formtree.Schema, error) {
	if fn, ok := scalars[d.Kind]; ok {
		return d.scalar(fn(d.Name)), nil
	}
	switch d.Kind {
	case "enum":
		return d.enum()
	case "date_yyyymmdd":
		return formtree.DateYYYYMMDD(d.Name), nil
	case "ref":
		if d.Path == "" {
			return nil, fmt.Errorf("%w: ref %q needs a path", formtree.ErrSchema, d.Name)
		}
		s := formtree.Ref(d.Name, d.Path)
		if d.Writable != "" {
			w, err := parseWritable(d.Writable)
			if err != nil {
				return nil, err
			}
			s = s.WithWritable(w)
		}
		return s, nil
	case "dict", "sparse_dict":
		children, err := buildAll(d.Children)
		if err != nil {
			return nil, err
		}
		if d.Kind == "dict" {
			s := formtree.Dict(d.Name, children...)
			if d.Policy != "" {
				p, err := parsePolicy(d.Policy)
				if err != nil {
					return nil, err
				}
				s = s.WithPolicy(p)
			}
			return s, nil
		}
		s := formtree.SparseDict(d.Name, children...)
		if d.MinimumFields != "" {
			m, err := parseMinimum(d.MinimumFields)
			if err != nil {
				return nil, err
			}
			s = s.WithMinimumFields(m)
		}
		return s, nil
	case "list", "array":
		if d.Member == nil {
			return nil, fmt.Errorf("%w: %s %q needs a member", formtree.ErrSchema, d.Kind, d.Name)
		}
		m, err := d.Member.build()
		if err != nil {
			return nil, err
		}
		if d.Kind == "list" {
			return formtree.List(d.Name, m), nil
		}
		return formtree.Array(d.Name, m), nil
	case "":
		return nil, fmt.Errorf("%w: %q has no kind", formtree.ErrSchema, d.Name)
	}
	return nil, fmt.Errorf("%w: unknown kind %q", formtree.ErrSchema, d.Kind)
}

func (d *Document) scalar(s *formtree.Schema) *formtree.Schema {
	if d.Strip != nil {
		s = s.WithStrip(*d.Strip)
	}
	if d.Signed != nil {
		s = s.WithSigned(*d.Signed)
	}
	if d.Format != "" {
		s = s.WithFormat(d.Format)
	}
	if d.True != "" || d.False != "" {
		t, f := d.True, d.False
		if b, ok := s.Codec().(codec.Boolean); ok {
			t, f = or(t, b.True), or(f, b.False)
		}
		s = s.WithTrueFalse(t, f)
	}
	return s
}

// enum adapts the declared values through the base codec so that they
// compare equal to adapted input.
func (d *Document) enum() (*formtree.Schema, error) {
	base := d.Base
	if base == "" {
		base = "string"
	}
	fn, ok := scalars[base]
	if !ok {
		return nil, fmt.Errorf("%w: enum %q: unknown base %q", formtree.ErrSchema, d.Name, base)
	}
	child := d.scalar(fn(d.Name))
	values := make([]any, 0, len(d.Values))
	for _, raw := range d.Values {
		v, err := child.Codec().Adapt(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: enum %q: %v", formtree.ErrSchema, d.Name, err)
		}
		values = append(values, v)
	}
	return formtree.EnumOf(child, values...), nil
}

func buildAll(docs []*Document) ([]*formtree.Schema, error) {
	out := make([]*formtree.Schema, 0, len(docs))
	for _, c := range docs {
		s, err := c.build()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parsePolicy(s string) (formtree.Policy, error) {
	switch s {
	case "subset":
		return formtree.PolicySubset, nil
	case "strict":
		return formtree.PolicyStrict, nil
	case "lenient":
		return formtree.PolicyLenient, nil
	}
	return 0, fmt.Errorf("%w: unknown policy %q", formtree.ErrSchema, s)
}

func parseMinimum(s string) (formtree.MinimumFields, error) {
	switch s {
	case "none":
		return formtree.MinimumNone, nil
	case "required":
		return formtree.MinimumRequired, nil
	}
	return 0, fmt.Errorf("%w: unknown minimum_fields %q", formtree.ErrSchema, s)
}

func parseWritable(s string) (formtree.Writable, error) {
	switch s {
	case "ignore":
		return formtree.WritableIgnore, nil
	case "always":
		return formtree.WritableAlways, nil
	case "never":
		return formtree.WritableNever, nil
	}
	return 0, fmt.Errorf("%w: unknown writable %q", formtree.ErrSchema, s)
}

func or(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
