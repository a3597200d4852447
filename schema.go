package formtree

import (
	"fmt"
	"slices"
	"time"

	"github.com/reoring/formtree/codec"
	"github.com/reoring/formtree/internal/pathexpr"
)

// ComposeFunc builds a compound value from its subfields. ok is false when
// the subfields do not form a value; an all-empty compound returns (nil, true).
type ComposeFunc func(el *Element) (v any, ok bool)

// ExplodeFunc distributes an adapted compound value (possibly nil) over its
// subfields.
type ExplodeFunc func(el *Element, v any) error

// Schema is an immutable element template. The With* methods return a
// modified copy and panic (with ErrSchema) when the option does not apply to
// the schema's kind.
type Schema struct {
	kind     Kind
	name     string
	label    string
	optional bool

	def            any
	hasDefault     bool
	defaultFactory func(el *Element) any

	validators        []Validator
	descentValidators []Validator

	codec       codec.Codec
	constraint  func(el *Element, v any) bool
	enum        bool
	validValues []any

	children []*Schema
	member   *Schema
	policy   Policy
	minimum  MinimumFields

	compose ComposeFunc
	explode ExplodeFunc

	path     pathexpr.Path
	rawPath  string
	writable Writable
}

var slotSchema = &Schema{kind: kindSlot}

// Scalar returns a scalar schema using c to adapt and serialize values.
func Scalar(name string, c codec.Codec) *Schema {
	if c == nil {
		schemaPanic("%s: nil codec", name)
	}
	return &Schema{kind: KindScalar, name: name, codec: c}
}

func String(name string) *Schema   { return Scalar(name, codec.NewString()) }
func Integer(name string) *Schema  { return Scalar(name, codec.NewInteger()) }
func Long(name string) *Schema     { return Scalar(name, codec.NewLong()) }
func Float(name string) *Schema    { return Scalar(name, codec.NewFloat()) }
func Boolean(name string) *Schema  { return Scalar(name, codec.NewBoolean()) }
func Date(name string) *Schema     { return Scalar(name, codec.NewDate()) }
func DateTime(name string) *Schema { return Scalar(name, codec.NewDateTime()) }
func Time(name string) *Schema     { return Scalar(name, codec.NewTime()) }
func UUID(name string) *Schema     { return Scalar(name, codec.UUID{}) }

// Enum returns a string scalar restricted to values.
func Enum(name string, values ...any) *Schema {
	return EnumOf(String(name), values...)
}

// EnumOf restricts the scalar child to values. Adaptation runs through the
// child's codec first.
func EnumOf(child *Schema, values ...any) *Schema {
	if child.kind != KindScalar {
		schemaPanic("%s: enum requires a scalar child, got %s", child.name, child.kind)
	}
	c := child.clone()
	c.enum = true
	c.validValues = slices.Clone(values)
	return c
}

// Constrained restricts the scalar child to values accepted by fn.
func Constrained(child *Schema, fn func(el *Element, v any) bool) *Schema {
	if child.kind != KindScalar {
		schemaPanic("%s: constrained requires a scalar child, got %s", child.name, child.kind)
	}
	if fn == nil {
		schemaPanic("%s: nil constraint", child.name)
	}
	c := child.clone()
	c.constraint = fn
	return c
}

// Ref returns a schema proxying the element at path, resolved from the root.
// The path uses DefaultPathSep.
func Ref(name, path string) *Schema {
	p, err := pathexpr.Parse(path, DefaultPathSep)
	if err != nil {
		schemaPanic("%s: %v", name, err)
	}
	return &Schema{kind: KindRef, name: name, path: p, rawPath: path}
}

// Dict returns a mapping with a fixed set of children.
func Dict(name string, children ...*Schema) *Schema {
	checkChildren(name, children)
	return &Schema{kind: KindDict, name: name, children: slices.Clone(children)}
}

// SparseDict returns a mapping whose children may be absent.
func SparseDict(name string, children ...*Schema) *Schema {
	checkChildren(name, children)
	return &Schema{kind: KindSparseDict, name: name, children: slices.Clone(children)}
}

// List returns an ordered sequence of member elements.
func List(name string, member *Schema) *Schema {
	if member == nil {
		schemaPanic("%s: nil member", name)
	}
	return &Schema{kind: KindList, name: name, member: member}
}

// Array returns a sequence of scalars flattened under a single repeated key.
func Array(name string, member *Schema) *Schema {
	if member == nil || member.kind != KindScalar {
		schemaPanic("%s: array members must be scalar", name)
	}
	return &Schema{kind: KindArray, name: name, member: member}
}

// Compound returns a scalar built from fixed subfields. c adapts raw input
// before explode distributes it; c.Serialize renders the composed value.
func Compound(name string, c codec.Codec, compose ComposeFunc, explode ExplodeFunc, children ...*Schema) *Schema {
	checkChildren(name, children)
	if c == nil || compose == nil || explode == nil {
		schemaPanic("%s: compound needs a codec, compose and explode", name)
	}
	return &Schema{kind: KindCompound, name: name, codec: c, compose: compose, explode: explode, children: slices.Clone(children)}
}

// DateYYYYMMDD returns a date compound with integer year, month and day
// subfields.
func DateYYYYMMDD(name string) *Schema {
	return Compound(name, codec.NewDate(), composeDate, explodeDate,
		Integer("year").WithFormat("%04d"),
		Integer("month").WithFormat("%02d"),
		Integer("day").WithFormat("%02d"),
	)
}

func composeDate(el *Element) (any, bool) {
	var parts [3]int
	empty := 0
	for i, name := range []string{"year", "month", "day"} {
		c := el.childNamed(name)
		if c.value == nil {
			if c.text != "" {
				return nil, false
			}
			empty++
			continue
		}
		n, ok := c.value.(int)
		if !ok {
			return nil, false
		}
		parts[i] = n
	}
	switch empty {
	case 3:
		return nil, true
	case 0:
	default:
		return nil, false
	}
	t := time.Date(parts[0], time.Month(parts[1]), parts[2], 0, 0, 0, 0, time.UTC)
	if t.Year() != parts[0] || int(t.Month()) != parts[1] || t.Day() != parts[2] {
		return nil, false
	}
	return t, true
}

func explodeDate(el *Element, v any) error {
	if v == nil {
		for _, c := range el.children {
			c.setScalar(nil)
		}
		return nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	el.childNamed("year").setScalar(t.Year())
	el.childNamed("month").setScalar(int(t.Month()))
	el.childNamed("day").setScalar(t.Day())
	return nil
}

func checkChildren(name string, children []*Schema) {
	seen := make(map[string]struct{}, len(children))
	for _, c := range children {
		if c == nil {
			schemaPanic("%s: nil child", name)
		}
		if c.name == "" {
			schemaPanic("%s: children must be named", name)
		}
		if _, dup := seen[c.name]; dup {
			schemaPanic("%s: duplicate child %q", name, c.name)
		}
		seen[c.name] = struct{}{}
	}
}

func (s *Schema) clone() *Schema {
	c := *s
	return &c
}

// Named returns a copy of s with a different name.
func (s *Schema) Named(name string) *Schema {
	c := s.clone()
	c.name = name
	return c
}

// WithLabel sets the human-readable label used in messages.
func (s *Schema) WithLabel(label string) *Schema {
	c := s.clone()
	c.label = label
	return c
}

// WithOptional marks the element as valid when empty.
func (s *Schema) WithOptional(optional bool) *Schema {
	c := s.clone()
	c.optional = optional
	return c
}

// WithDefault sets the value applied by SetDefault.
func (s *Schema) WithDefault(v any) *Schema {
	c := s.clone()
	c.def, c.hasDefault = v, true
	return c
}

// WithDefaultFactory computes the default from the element at SetDefault time.
func (s *Schema) WithDefaultFactory(fn func(el *Element) any) *Schema {
	c := s.clone()
	c.defaultFactory = fn
	return c
}

// WithValidators replaces the validators. For containers they run after all
// descendants have been validated.
func (s *Schema) WithValidators(vs ...Validator) *Schema {
	c := s.clone()
	c.validators = slices.Clone(vs)
	return c
}

// WithDescentValidators sets validators a container runs before its
// descendants are visited.
func (s *Schema) WithDescentValidators(vs ...Validator) *Schema {
	if !s.kind.container() {
		schemaPanic("%s: descent validators apply to containers, not %s", s.name, s.kind)
	}
	c := s.clone()
	c.descentValidators = slices.Clone(vs)
	return c
}

func (s *Schema) WithStrip(strip bool) *Schema {
	c := s.clone()
	switch cd := s.codec.(type) {
	case codec.String:
		cd.Strip = strip
		c.codec = cd
	case codec.Temporal:
		cd.Strip = strip
		c.codec = cd
	default:
		schemaPanic("%s: strip applies to string and temporal scalars", s.name)
	}
	return c
}

func (s *Schema) WithSigned(signed bool) *Schema {
	c := s.clone()
	switch cd := s.codec.(type) {
	case codec.Integer:
		cd.Signed = signed
		c.codec = cd
	case codec.Float:
		cd.Signed = signed
		c.codec = cd
	default:
		schemaPanic("%s: signed applies to numeric scalars", s.name)
	}
	return c
}

// WithFormat sets the fmt verb used to serialize numbers.
func (s *Schema) WithFormat(format string) *Schema {
	c := s.clone()
	switch cd := s.codec.(type) {
	case codec.Integer:
		cd.Format = format
		c.codec = cd
	case codec.Float:
		cd.Format = format
		c.codec = cd
	default:
		schemaPanic("%s: format applies to numeric scalars", s.name)
	}
	return c
}

// WithTrueFalse sets the tokens a boolean serializes to.
func (s *Schema) WithTrueFalse(t, f string) *Schema {
	cd, ok := s.codec.(codec.Boolean)
	if !ok {
		schemaPanic("%s: true/false tokens apply to booleans", s.name)
	}
	cd.True, cd.False = t, f
	c := s.clone()
	c.codec = cd
	return c
}

func (s *Schema) WithValidValues(values ...any) *Schema {
	if !s.enum {
		schemaPanic("%s: valid values apply to enums", s.name)
	}
	c := s.clone()
	c.validValues = slices.Clone(values)
	return c
}

func (s *Schema) WithPolicy(p Policy) *Schema {
	if !s.kind.mapping() {
		schemaPanic("%s: policy applies to dicts", s.name)
	}
	c := s.clone()
	c.policy = p
	return c
}

func (s *Schema) WithMinimumFields(m MinimumFields) *Schema {
	if s.kind != KindSparseDict {
		schemaPanic("%s: minimum fields apply to sparse dicts", s.name)
	}
	c := s.clone()
	c.minimum = m
	return c
}

func (s *Schema) WithWritable(w Writable) *Schema {
	if s.kind != KindRef {
		schemaPanic("%s: writable applies to refs", s.name)
	}
	c := s.clone()
	c.writable = w
	return c
}

func (s *Schema) Name() string                 { return s.name }
func (s *Schema) Kind() Kind                   { return s.kind }
func (s *Schema) Optional() bool               { return s.optional }
func (s *Schema) Codec() codec.Codec           { return s.codec }
func (s *Schema) Member() *Schema              { return s.member }
func (s *Schema) Policy() Policy               { return s.policy }
func (s *Schema) MinimumFields() MinimumFields { return s.minimum }
func (s *Schema) Writable() Writable           { return s.writable }
func (s *Schema) IsEnum() bool                 { return s.enum }
func (s *Schema) RefPath() string              { return s.rawPath }

// Label returns the label, falling back to the name.
func (s *Schema) Label() string {
	if s.label != "" {
		return s.label
	}
	return s.name
}

// Children returns the declared children of a mapping or compound.
func (s *Schema) Children() []*Schema { return slices.Clone(s.children) }

// ValidValues returns the enum's allowed values.
func (s *Schema) ValidValues() []any { return slices.Clone(s.validValues) }

// Default returns the static default, if one was declared.
func (s *Schema) Default() (any, bool) { return s.def, s.hasDefault }

// Child returns the declared child called name.
func (s *Schema) Child(name string) (*Schema, bool) {
	for _, c := range s.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

func (s *Schema) String() string {
	return fmt.Sprintf("%s(%q)", s.kind, s.name)
}

// required reports whether a sparse dict keeps child c present at all times.
func (s *Schema) required(c *Schema) bool {
	return s.kind == KindSparseDict && s.minimum == MinimumRequired && !c.optional
}
