package formtree

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reoring/formtree/codec"
)

// Element is a node in a data tree built from a Schema. Elements hold the
// adapted value, the text form used for redisplay, and the per-node
// validation state.
//
// Elements are not safe for concurrent mutation.
type Element struct {
	schema *Schema
	parent *Element
	name   string

	value any
	text  string

	valid    Validity
	errors   []string
	warnings []string

	children []*Element

	validValues    []any
	hasValidValues bool

	target    *Element
	targetGen uint64
	gen       uint64
}

// ElementOption configures CreateElement.
type ElementOption func(*elementConfig)

type elementConfig struct {
	value          any
	hasValue       bool
	defaults       bool
	flat           []FlatPair
	hasFlat        bool
	validValues    []any
	hasValidValues bool
}

// WithValue sets v on the new element.
func WithValue(v any) ElementOption {
	return func(c *elementConfig) { c.value, c.hasValue = v, true }
}

// WithDefaults applies schema defaults to the new element.
func WithDefaults() ElementOption {
	return func(c *elementConfig) { c.defaults = true }
}

// WithFlat loads flat pairs into the new element.
func WithFlat(pairs []FlatPair) ElementOption {
	return func(c *elementConfig) { c.flat, c.hasFlat = pairs, true }
}

// WithValidValues overrides an enum's allowed values for this element only.
func WithValidValues(values ...any) ElementOption {
	return func(c *elementConfig) { c.validValues, c.hasValidValues = values, true }
}

// New returns a blank element. Mapping children are created eagerly.
func (s *Schema) New() *Element { return newElement(s, nil) }

// CreateElement builds an element and applies opts in the order defaults,
// flat pairs, value.
func (s *Schema) CreateElement(opts ...ElementOption) (*Element, error) {
	var cfg elementConfig
	for _, o := range opts {
		o(&cfg)
	}
	e := newElement(s, nil)
	if cfg.hasValidValues {
		if !s.enum {
			return nil, fmt.Errorf("%w: %s: valid values apply to enums", ErrSchema, s.name)
		}
		e.validValues, e.hasValidValues = slices.Clone(cfg.validValues), true
	}
	if cfg.defaults {
		e.SetDefault()
	}
	if cfg.hasFlat {
		e.SetFlat(cfg.flat)
	}
	if cfg.hasValue {
		if _, err := e.Set(cfg.value); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// FromValue builds an element and sets v on it. Adaptation failures are
// reported through the element's value and text, not the error.
func (s *Schema) FromValue(v any) (*Element, error) {
	return s.CreateElement(WithValue(v))
}

// FromFlat builds an element from flat pairs using DefaultFlatSep.
func (s *Schema) FromFlat(pairs []FlatPair) *Element {
	e := newElement(s, nil)
	e.SetFlat(pairs)
	return e
}

// FromDefaults builds an element and applies schema defaults.
func (s *Schema) FromDefaults() *Element {
	e := newElement(s, nil)
	e.SetDefault()
	return e
}

func newElement(s *Schema, parent *Element) *Element {
	e := &Element{schema: s, parent: parent, name: s.name}
	switch s.kind {
	case KindDict, KindCompound:
		e.children = make([]*Element, 0, len(s.children))
		for _, cs := range s.children {
			e.children = append(e.children, newElement(cs, e))
		}
	case KindSparseDict:
		for _, cs := range s.children {
			if s.required(cs) {
				e.children = append(e.children, newElement(cs, e))
			}
		}
	}
	return e
}

func newSlot(parent *Element, index int) *Element {
	slot := &Element{schema: slotSchema, parent: parent, name: strconv.Itoa(index)}
	slot.children = []*Element{newElement(parent.schema.member, slot)}
	return slot
}

func (e *Element) Schema() *Schema { return e.schema }
func (e *Element) Name() string    { return e.name }
func (e *Element) Parent() *Element {
	return e.parent
}

// Kind returns the schema kind. Slots report the kind of their member.
func (e *Element) Kind() Kind {
	if e.IsSlot() {
		return e.member().Kind()
	}
	return e.schema.kind
}

// IsSlot reports whether e is the positional wrapper around a sequence member.
func (e *Element) IsSlot() bool { return e.schema.kind == kindSlot }

func (e *Element) member() *Element { return e.children[0] }

// Label returns the schema label, falling back to the name.
func (e *Element) Label() string {
	if e.IsSlot() {
		return e.name
	}
	return e.schema.Label()
}

func (e *Element) Optional() bool { return e.schema.optional }

// Root returns the top-most ancestor.
func (e *Element) Root() *Element {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Parents returns the ancestors of e, nearest first.
func (e *Element) Parents() []*Element {
	var out []*Element
	for p := e.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// Path returns the elements from the root down to e.
func (e *Element) Path() []*Element {
	out := append([]*Element{e}, e.Parents()...)
	slices.Reverse(out)
	return out
}

// Children returns the direct children. Sequences return their slots.
func (e *Element) Children() []*Element { return slices.Clone(e.children) }

// AllChildren returns every descendant in breadth-first order.
func (e *Element) AllChildren() []*Element {
	var out []*Element
	seen := map[*Element]struct{}{e: {}}
	queue := slices.Clone(e.children)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		queue = append(queue, c.children...)
	}
	return out
}

func (e *Element) childNamed(name string) *Element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// child resolves one path segment. Sequence indexes resolve to the member.
func (e *Element) child(seg string) (*Element, bool) {
	switch {
	case e.IsSlot():
		return e.member().child(seg)
	case e.schema.kind.sequence():
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(e.children) {
			return nil, false
		}
		return e.children[i].member(), true
	case e.schema.kind.mapping(), e.schema.kind == KindCompound:
		c := e.childNamed(seg)
		return c, c != nil
	default:
		return nil, false
	}
}

// Get returns the child called key. For sequences key is a decimal index.
func (e *Element) Get(key string) (*Element, error) {
	if c, ok := e.child(key); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, key, e.FQName(DefaultPathSep))
}

// Index returns the i-th member of a sequence.
func (e *Element) Index(i int) (*Element, error) {
	if !e.schema.kind.sequence() {
		return nil, fmt.Errorf("%w: %s is not a sequence", ErrUnsupportedValue, e.FQName(DefaultPathSep))
	}
	if i < 0 || i >= len(e.children) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNotFound, i, len(e.children))
	}
	return e.children[i].member(), nil
}

// Len returns the number of sequence members or present mapping keys.
func (e *Element) Len() int { return len(e.children) }

// Keys returns the names of the present mapping children in declared order.
func (e *Element) Keys() []string {
	if !e.schema.kind.mapping() {
		return nil
	}
	out := make([]string, 0, len(e.children))
	for _, c := range e.children {
		out = append(out, c.name)
	}
	return out
}

// Value returns the native value. Mappings return map[string]any, sequences
// []any, and unresolvable refs nil.
func (e *Element) Value() any {
	switch e.schema.kind {
	case KindScalar:
		return e.value
	case KindRef:
		if t, err := e.Target(); err == nil {
			return t.Value()
		}
		return nil
	case KindCompound:
		v, _ := e.schema.compose(e)
		return v
	case KindDict, KindSparseDict:
		m := make(map[string]any, len(e.children))
		for _, c := range e.children {
			m[c.name] = c.Value()
		}
		return m
	case KindList, KindArray:
		out := make([]any, 0, len(e.children))
		for _, slot := range e.children {
			out = append(out, slot.member().Value())
		}
		return out
	case kindSlot:
		return e.member().Value()
	}
	return nil
}

// compoundJoin separates subfield texts in the text of a compound whose
// subfields do not compose.
const compoundJoin = "-"

func (e *Element) composes() bool {
	_, ok := e.schema.compose(e)
	return ok
}

// Text returns the text form. Containers render their members' texts as JSON.
func (e *Element) Text() string {
	switch e.schema.kind {
	case KindScalar:
		return e.text
	case KindRef:
		if t, err := e.Target(); err == nil {
			return t.Text()
		}
		return ""
	case KindCompound:
		v, ok := e.schema.compose(e)
		switch {
		case ok && v != nil:
			return e.schema.codec.Serialize(v)
		case ok || e.text != "":
			return e.text
		}
		// Keep what was entered in the subfields for redisplay.
		parts := make([]string, 0, len(e.children))
		for _, c := range e.children {
			parts = append(parts, c.Text())
		}
		return strings.Join(parts, compoundJoin)
	case KindDict, KindSparseDict:
		m := make(map[string]string, len(e.children))
		for _, c := range e.children {
			m[c.name] = c.Text()
		}
		b, _ := json.Marshal(m)
		return string(b)
	case KindList, KindArray:
		out := make([]string, 0, len(e.children))
		for _, slot := range e.children {
			out = append(out, slot.member().Text())
		}
		b, _ := json.Marshal(out)
		return string(b)
	case kindSlot:
		return e.member().Text()
	}
	return ""
}

// IsEmpty reports whether e holds nothing. Scalars are empty when their value
// is nil (or "" for strings) and their text is "". Dicts and compounds are empty when
// all children are; sparse dicts and sequences when they have no children.
func (e *Element) IsEmpty() bool {
	switch e.schema.kind {
	case KindScalar:
		if _, ok := e.schema.codec.(codec.String); ok {
			return (e.value == nil || e.value == "") && e.text == ""
		}
		return e.value == nil && e.text == ""
	case KindRef:
		t, err := e.Target()
		return err != nil || t.IsEmpty()
	case KindDict:
		for _, c := range e.children {
			if !c.IsEmpty() {
				return false
			}
		}
		return true
	case KindCompound:
		if e.text != "" {
			return false
		}
		for _, c := range e.children {
			if !c.IsEmpty() {
				return false
			}
		}
		return true
	case kindSlot:
		return e.member().IsEmpty()
	default:
		return len(e.children) == 0
	}
}

func (e *Element) Valid() Validity { return e.valid }

func (e *Element) SetValid(v Validity) { e.valid = v }

// AllValid reports whether no element in the subtree is Invalid and at least
// one of them has been evaluated.
func (e *Element) AllValid() bool {
	evaluated := e.valid != Unevaluated
	if e.valid == Invalid {
		return false
	}
	for _, c := range e.AllChildren() {
		switch c.valid {
		case Invalid:
			return false
		case Valid:
			evaluated = true
		}
	}
	return evaluated
}

// SetAllValid sets the validity flag on e and every descendant.
func (e *Element) SetAllValid(v Validity) {
	e.valid = v
	for _, c := range e.AllChildren() {
		c.valid = v
	}
}

func (e *Element) Errors() []string   { return slices.Clone(e.errors) }
func (e *Element) Warnings() []string { return slices.Clone(e.warnings) }

// AddError records msg unless it is already present.
func (e *Element) AddError(msg string) {
	if !slices.Contains(e.errors, msg) {
		e.errors = append(e.errors, msg)
	}
}

// AddWarning records msg unless it is already present.
func (e *Element) AddWarning(msg string) {
	if !slices.Contains(e.warnings, msg) {
		e.warnings = append(e.warnings, msg)
	}
}

// ClearMessages drops the errors and warnings of e and its descendants.
func (e *Element) ClearMessages() {
	for _, c := range append([]*Element{e}, e.AllChildren()...) {
		c.errors, c.warnings = nil, nil
	}
}

// ValidValues returns the allowed values of an enum, preferring the
// per-element override.
func (e *Element) ValidValues() []any {
	if e.hasValidValues {
		return slices.Clone(e.validValues)
	}
	return e.schema.ValidValues()
}

func (e *Element) String() string {
	return fmt.Sprintf("<%s %q; value=%v>", e.schema.kind, e.name, e.Value())
}

// touch invalidates cached ref targets after a structural change.
func (e *Element) touch() {
	e.Root().gen++
}
