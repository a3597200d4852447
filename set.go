package formtree

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/formtree/codec"
)

// Pair is a key and native value, used as ordered mapping input and as the
// output of FlattenFunc.
type Pair struct {
	Key   string
	Value any
}

// Set replaces the content of e with raw.
//
// ok is false when some scalar in the subtree could not adapt its input; the
// failed scalar keeps a nil value and the input's text. err reports structural
// problems: key policy violations, non-writable refs, unsupported input
// shapes. Scalars never return an error.
//
// Key policies are checked over the whole input before anything is written,
// so an error leaves e unchanged.
func (e *Element) Set(raw any) (ok bool, err error) {
	s := e.schema
	if s.kind == kindSlot {
		s = e.member().schema
	}
	if s.kind.container() {
		if err := s.precheck(raw, e.FQName(DefaultPathSep)); err != nil {
			return false, err
		}
	}
	return e.set(raw)
}

func (e *Element) set(raw any) (bool, error) {
	switch e.schema.kind {
	case KindScalar:
		return e.setScalar(raw), nil
	case KindRef:
		return e.setRef(raw)
	case KindDict:
		return e.setDict(raw)
	case KindSparseDict:
		return e.setSparse(raw)
	case KindList, KindArray:
		return e.setSequence(raw)
	case KindCompound:
		return e.setCompound(raw), nil
	case kindSlot:
		return e.member().set(raw)
	}
	return false, fmt.Errorf("%w: kind %s", ErrUnsupportedValue, e.schema.kind)
}

func (e *Element) setScalar(raw any) bool {
	v, err := e.adapt(raw)
	if err != nil {
		e.value = nil
		e.text = codec.Text(raw)
		return false
	}
	e.value = v
	if v == nil {
		e.text = ""
	} else {
		e.text = e.schema.codec.Serialize(v)
	}
	return true
}

func (e *Element) adapt(raw any) (any, error) {
	v, err := e.schema.codec.Adapt(raw)
	if err != nil || v == nil {
		return v, err
	}
	if e.schema.enum && !containsValue(e.ValidValues(), v) {
		return nil, fmt.Errorf("%w: %v is not a valid value", codec.ErrAdapt, v)
	}
	if fn := e.schema.constraint; fn != nil && !fn(e, v) {
		return nil, fmt.Errorf("%w: %v rejected", codec.ErrAdapt, v)
	}
	return v, nil
}

func containsValue(values []any, v any) bool {
	for _, x := range values {
		if reflect.DeepEqual(x, v) {
			return true
		}
	}
	return false
}

func (e *Element) setRef(raw any) (bool, error) {
	switch e.schema.writable {
	case WritableIgnore:
		return e.adaptThroughTarget(raw), nil
	case WritableNever:
		return false, fmt.Errorf("%w: %s", ErrNotWritable, e.FQName(DefaultPathSep))
	}
	t, err := e.Target()
	if err != nil {
		return false, err
	}
	return t.Set(raw)
}

// adaptThroughTarget reports whether the ref's target would accept raw,
// without writing it. An unresolved target accepts anything.
func (e *Element) adaptThroughTarget(raw any) bool {
	t, err := e.Target()
	if err != nil {
		return true
	}
	switch t.schema.kind {
	case KindScalar:
		_, err = t.adapt(raw)
	case KindCompound:
		_, err = t.schema.codec.Adapt(raw)
	case KindRef:
		return t.adaptThroughTarget(raw)
	}
	return err == nil
}

func (e *Element) setCompound(raw any) bool {
	v, err := e.schema.codec.Adapt(raw)
	if err == nil {
		err = e.schema.explode(e, v)
	}
	if err != nil {
		for _, c := range e.children {
			_, _ = c.Set(nil)
		}
		e.text = codec.Text(raw)
		return false
	}
	e.text = ""
	return true
}

// mappingInput normalizes mapping input to pairs. Maps are read in key order.
func mappingInput(raw any) ([]Pair, error) {
	switch m := raw.(type) {
	case nil:
		return nil, nil
	case []Pair:
		return m, nil
	case []FlatPair:
		out := make([]Pair, 0, len(m))
		for _, p := range m {
			out = append(out, Pair{Key: p.Key, Value: p.Value})
		}
		return out, nil
	case map[string]any:
		out := make([]Pair, 0, len(m))
		for _, k := range sortedKeys(m) {
			out = append(out, Pair{Key: k, Value: m[k]})
		}
		return out, nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		out := make([]Pair, 0, len(keys))
		for _, k := range keys {
			out = append(out, Pair{Key: k.String(), Value: rv.MapIndex(k).Interface()})
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T is not a mapping", ErrUnsupportedValue, raw)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkKeys applies the mapping policy to the incoming keys. A nil input
// clears the mapping and is never missing keys.
func (s *Schema) checkKeys(raw any, pairs []Pair, where string) error {
	if s.policy != PolicyLenient {
		for _, p := range pairs {
			if _, ok := s.Child(p.Key); !ok {
				return fmt.Errorf("%w: %q in %s", ErrUnknownKey, p.Key, where)
			}
		}
	}
	if s.policy == PolicyStrict && raw != nil {
		for _, cs := range s.children {
			if cs.optional || cs.kind == KindRef {
				continue
			}
			if !slices.ContainsFunc(pairs, func(p Pair) bool { return p.Key == cs.name }) {
				return fmt.Errorf("%w: %q in %s", ErrMissingKey, cs.name, where)
			}
		}
	}
	return nil
}

// precheck walks raw along s and returns the first structural error setting
// it would produce: unsupported shapes, key policy violations and writes to
// never-writable refs.
func (s *Schema) precheck(raw any, where string) error {
	switch s.kind {
	case KindDict, KindSparseDict:
		pairs, err := mappingInput(raw)
		if err != nil {
			return err
		}
		if err := s.checkKeys(raw, pairs, where); err != nil {
			return err
		}
		for _, p := range pairs {
			cs, ok := s.Child(p.Key)
			if !ok {
				continue
			}
			if err := cs.precheck(p.Value, childPath(where, p.Key)); err != nil {
				return err
			}
		}
	case KindList, KindArray:
		items, err := sequenceInput(raw)
		if err != nil {
			return err
		}
		for i, it := range items {
			if err := s.member.precheck(it, childPath(where, strconv.Itoa(i))); err != nil {
				return err
			}
		}
	case KindRef:
		if s.writable == WritableNever {
			return fmt.Errorf("%w: %s", ErrNotWritable, where)
		}
	}
	return nil
}

func childPath(where, key string) string {
	if strings.HasSuffix(where, DefaultPathSep) {
		return where + key
	}
	return where + DefaultPathSep + key
}

func pairValues(pairs []Pair) map[string]any {
	m := make(map[string]any, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

func (e *Element) setDict(raw any) (bool, error) {
	pairs, err := mappingInput(raw)
	if err != nil {
		return false, err
	}
	if err := e.schema.checkKeys(raw, pairs, e.FQName(DefaultPathSep)); err != nil {
		return false, err
	}
	vals := pairValues(pairs)
	ok := true
	for _, c := range e.children {
		v, has := vals[c.name]
		if !has && c.schema.kind == KindRef {
			continue
		}
		r, err := c.set(v)
		if err != nil {
			return false, err
		}
		ok = ok && r
	}
	return ok, nil
}

func (e *Element) setSparse(raw any) (bool, error) {
	pairs, err := mappingInput(raw)
	if err != nil {
		return false, err
	}
	if err := e.schema.checkKeys(raw, pairs, e.FQName(DefaultPathSep)); err != nil {
		return false, err
	}
	vals := pairValues(pairs)
	e.children = nil
	defer e.touch()
	ok := true
	for _, cs := range e.schema.children {
		v, has := vals[cs.name]
		if !has && !e.schema.required(cs) {
			continue
		}
		c := newElement(cs, e)
		e.children = append(e.children, c)
		r, err := c.set(v)
		if err != nil {
			return false, err
		}
		ok = ok && r
	}
	return ok, nil
}

// SetKey assigns v to the child at key. Sparse dicts create the child when it
// is declared but absent.
func (e *Element) SetKey(key string, v any) (bool, error) {
	switch e.schema.kind {
	case KindDict:
		c := e.childNamed(key)
		if c == nil {
			return false, fmt.Errorf("%w: cannot add %q", ErrImmutableKey, key)
		}
		return c.Set(v)
	case KindSparseDict:
		c, err := e.ensureKey(key)
		if err != nil {
			return false, err
		}
		return c.Set(v)
	}
	return false, fmt.Errorf("%w: %s is not a mapping", ErrUnsupportedValue, e.FQName(DefaultPathSep))
}

// SetDefaultKey returns the child at key, first creating it with v when a
// sparse dict lacks it.
func (e *Element) SetDefaultKey(key string, v any) (*Element, error) {
	if c := e.childNamed(key); c != nil && e.schema.kind.mapping() {
		return c, nil
	}
	if e.schema.kind != KindSparseDict {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	c, err := e.ensureKey(key)
	if err != nil {
		return nil, err
	}
	if _, err := c.Set(v); err != nil {
		return nil, err
	}
	return c, nil
}

func (e *Element) ensureKey(key string) (*Element, error) {
	if c := e.childNamed(key); c != nil {
		return c, nil
	}
	pos := slices.IndexFunc(e.schema.children, func(cs *Schema) bool { return cs.name == key })
	if pos < 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownKey, key, e.FQName(DefaultPathSep))
	}
	c := newElement(e.schema.children[pos], e)
	at := len(e.children)
	for i, existing := range e.children {
		if e.declaredIndex(existing.name) > pos {
			at = i
			break
		}
	}
	e.children = slices.Insert(e.children, at, c)
	e.touch()
	return c, nil
}

func (e *Element) declaredIndex(name string) int {
	return slices.IndexFunc(e.schema.children, func(cs *Schema) bool { return cs.name == name })
}

// Delete removes key from a sparse dict. Dict keys and keys kept present by
// MinimumRequired cannot be removed.
func (e *Element) Delete(key string) error {
	s := e.schema
	if !s.kind.mapping() {
		return fmt.Errorf("%w: %s is not a mapping", ErrUnsupportedValue, e.FQName(DefaultPathSep))
	}
	cs, ok := s.Child(key)
	if !ok {
		return fmt.Errorf("%w: %q in %s", ErrUnknownKey, key, e.FQName(DefaultPathSep))
	}
	if s.kind == KindDict || s.required(cs) {
		return fmt.Errorf("%w: cannot delete %q", ErrImmutableKey, key)
	}
	i := slices.IndexFunc(e.children, func(c *Element) bool { return c.name == key })
	if i < 0 {
		return fmt.Errorf("%w: %q in %s", ErrNotFound, key, e.FQName(DefaultPathSep))
	}
	e.children = slices.Delete(e.children, i, i+1)
	e.touch()
	return nil
}

// Clear empties a sequence or sparse dict. Sparse dicts keep blank required
// keys.
func (e *Element) Clear() error {
	switch e.schema.kind {
	case KindList, KindArray:
		e.children = nil
	case KindSparseDict:
		e.children = nil
		for _, cs := range e.schema.children {
			if e.schema.required(cs) {
				e.children = append(e.children, newElement(cs, e))
			}
		}
	case KindDict:
		return fmt.Errorf("%w: cannot clear %s", ErrImmutableKey, e.FQName(DefaultPathSep))
	default:
		return fmt.Errorf("%w: %s is not a container", ErrUnsupportedValue, e.FQName(DefaultPathSep))
	}
	e.touch()
	return nil
}

func sequenceInput(raw any) ([]any, error) {
	switch s := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		return s, nil
	case string:
		return nil, fmt.Errorf("%w: string is not a sequence", ErrUnsupportedValue)
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %T is not a sequence", ErrUnsupportedValue, raw)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func (e *Element) setSequence(raw any) (bool, error) {
	items, err := sequenceInput(raw)
	if err != nil {
		return false, err
	}
	e.children = nil
	defer e.touch()
	ok := true
	for _, it := range items {
		r, err := e.appendSlot().member().set(it)
		if err != nil {
			return false, err
		}
		ok = ok && r
	}
	return ok, nil
}

func (e *Element) appendSlot() *Element {
	slot := newSlot(e, len(e.children))
	e.children = append(e.children, slot)
	return slot
}

func (e *Element) renumber() {
	for i, slot := range e.children {
		slot.name = strconv.Itoa(i)
	}
}

// Append adds a member holding v to the end of a sequence.
func (e *Element) Append(v any) (bool, error) {
	if !e.schema.kind.sequence() {
		return false, fmt.Errorf("%w: %s is not a sequence", ErrUnsupportedValue, e.FQName(DefaultPathSep))
	}
	slot := e.appendSlot()
	e.touch()
	return slot.member().Set(v)
}

// Insert adds a member holding v at index i, shifting later members.
func (e *Element) Insert(i int, v any) (bool, error) {
	if !e.schema.kind.sequence() {
		return false, fmt.Errorf("%w: %s is not a sequence", ErrUnsupportedValue, e.FQName(DefaultPathSep))
	}
	if i < 0 || i > len(e.children) {
		return false, fmt.Errorf("%w: index %d of %d", ErrNotFound, i, len(e.children))
	}
	slot := newSlot(e, i)
	e.children = slices.Insert(e.children, i, slot)
	e.renumber()
	e.touch()
	return slot.member().Set(v)
}

// Remove drops the member at index i.
func (e *Element) Remove(i int) error {
	if !e.schema.kind.sequence() {
		return fmt.Errorf("%w: %s is not a sequence", ErrUnsupportedValue, e.FQName(DefaultPathSep))
	}
	if i < 0 || i >= len(e.children) {
		return fmt.Errorf("%w: index %d of %d", ErrNotFound, i, len(e.children))
	}
	e.children = slices.Delete(e.children, i, i+1)
	e.renumber()
	e.touch()
	return nil
}

// Default returns the factory result, the static default, or nil.
func (e *Element) Default() any {
	if fn := e.schema.defaultFactory; fn != nil {
		return fn(e)
	}
	return e.schema.def
}

func (e *Element) hasDefault() bool {
	return e.schema.defaultFactory != nil || e.schema.hasDefault
}

// SetDefault applies defaults to e and its descendants. A container with its
// own default is set from it; otherwise each child applies its default.
// A sequence default may be an int, giving the number of blank members.
//
// Defaults that violate the schema's key policy panic with ErrSchema.
func (e *Element) SetDefault() {
	s := e.schema
	if s.kind == KindRef {
		return
	}
	if s.kind == kindSlot {
		e.member().SetDefault()
		return
	}
	if !e.hasDefault() {
		switch s.kind {
		case KindDict, KindCompound:
			for _, c := range e.children {
				c.SetDefault()
			}
			e.text = ""
		case KindSparseDict:
			e.children = nil
			for _, cs := range s.children {
				if s.required(cs) {
					c := newElement(cs, e)
					e.children = append(e.children, c)
					c.SetDefault()
				}
			}
			e.touch()
		}
		return
	}
	d := e.Default()
	if n, ok := d.(int); ok && s.kind.sequence() {
		e.children = nil
		for range n {
			e.appendSlot().member().SetDefault()
		}
		e.touch()
		return
	}
	if _, err := e.Set(d); err != nil {
		schemaPanic("%s: default: %v", s.name, err)
	}
}
