package formtree

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// FlatPair is a flattened name and its text.
type FlatPair struct {
	Key   string
	Value string
}

// PairsFromMap converts m to pairs ordered by key.
func PairsFromMap(m map[string]string) []FlatPair {
	out := make([]FlatPair, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, FlatPair{Key: k, Value: m[k]})
	}
	return out
}

// PairsFromValues converts form values to pairs ordered by key, keeping the
// order of repeated values.
func PairsFromValues(v url.Values) []FlatPair {
	var out []FlatPair
	for _, k := range sortedKeys(v) {
		for _, s := range v[k] {
			out = append(out, FlatPair{Key: k, Value: s})
		}
	}
	return out
}

// Flatten returns (flattened name, text) pairs for every flattenable element
// using DefaultFlatSep.
func (e *Element) Flatten() []FlatPair { return e.FlattenSep(DefaultFlatSep) }

// FlattenSep is Flatten with a custom separator.
func (e *Element) FlattenSep(sep string) []FlatPair {
	var out []FlatPair
	for _, el := range e.flattenable() {
		out = append(out, FlatPair{Key: el.FlattenedName(sep), Value: el.Text()})
	}
	return out
}

// FlattenFunc is like FlattenSep but takes each value from fn.
func (e *Element) FlattenFunc(sep string, fn func(el *Element) any) []Pair {
	var out []Pair
	for _, el := range e.flattenable() {
		out = append(out, Pair{Key: el.FlattenedName(sep), Value: fn(el)})
	}
	return out
}

// flattenable walks e breadth-first and returns scalars and compounds.
// Compound subfields are emitted only when they do not compose; refs never.
func (e *Element) flattenable() []*Element {
	var out []*Element
	queue := []*Element{e}
	for len(queue) > 0 {
		el := queue[0]
		queue = queue[1:]
		switch el.schema.kind {
		case KindScalar:
			out = append(out, el)
		case KindCompound:
			// Subfields that do not compose are emitted as they are.
			if el.text == "" && !el.composes() {
				queue = append(queue, el.children...)
			} else {
				out = append(out, el)
			}
		case KindRef:
		default:
			queue = append(queue, el.children...)
		}
	}
	return out
}

// SetFlat loads pairs produced by Flatten (or a form submission) into e,
// growing sequences and sparse dicts as needed. Unknown keys are ignored.
func (e *Element) SetFlat(pairs []FlatPair) { e.SetFlatSep(pairs, DefaultFlatSep) }

// SetFlatSep is SetFlat with a custom separator.
func (e *Element) SetFlatSep(pairs []FlatPair, sep string) { e.setFlat(pairs, sep) }

// SetFlatMap is SetFlat over a map.
func (e *Element) SetFlatMap(m map[string]string) { e.SetFlat(PairsFromMap(m)) }

// SetFlatValues is SetFlat over form values.
func (e *Element) SetFlatValues(v url.Values) { e.SetFlat(PairsFromValues(v)) }

func (e *Element) setFlat(pairs []FlatPair, sep string) {
	switch e.schema.kind {
	case KindScalar:
		name := e.FlattenedName(sep)
		for _, p := range pairs {
			if p.Key == name {
				e.setScalar(p.Value)
				return
			}
		}
	case KindCompound:
		name := e.FlattenedName(sep)
		for _, p := range pairs {
			if p.Key == name {
				e.setCompound(p.Value)
				return
			}
		}
		if e.schema.claimsAnyFlat(pairs, name, sep) {
			for _, c := range e.children {
				c.setFlat(pairs, sep)
			}
			e.text = ""
		}
	case KindDict:
		for _, c := range e.children {
			c.setFlat(pairs, sep)
		}
	case KindSparseDict:
		e.setFlatSparse(pairs, sep)
	case KindList:
		e.setFlatList(pairs, sep)
	case KindArray:
		name := e.FlattenedName(sep)
		e.children = nil
		for _, p := range pairs {
			if p.Key == name {
				e.appendSlot().member().setScalar(p.Value)
			}
		}
		e.touch()
	case kindSlot:
		e.member().setFlat(pairs, sep)
	}
}

func joinFlat(prefix, name, sep string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	}
	return prefix + sep + name
}

// claimsFlat reports whether key is read by an element of schema s whose
// flattened name is name.
func (s *Schema) claimsFlat(name, key, sep string) bool {
	switch s.kind {
	case KindScalar, KindArray:
		return key == name
	case KindCompound, KindDict, KindSparseDict:
		if s.kind == KindCompound && key == name {
			return true
		}
		for _, c := range s.children {
			if c.claimsFlat(joinFlat(name, c.name, sep), key, sep) {
				return true
			}
		}
	case KindList:
		rest := key
		if name != "" {
			var ok bool
			if rest, ok = strings.CutPrefix(key, name+sep); !ok {
				return false
			}
		}
		head, _, _ := strings.Cut(rest, sep)
		if _, ok := parseIndex(head); !ok {
			return false
		}
		return s.member.claimsFlat(joinFlat(joinFlat(name, head, sep), s.member.name, sep), key, sep)
	}
	return false
}

// claimsAnyFlat reports whether the subfields of s, flattened under name,
// read any of pairs. The element's own key is not considered.
func (s *Schema) claimsAnyFlat(pairs []FlatPair, name, sep string) bool {
	return slices.ContainsFunc(pairs, func(p FlatPair) bool {
		for _, c := range s.children {
			if c.claimsFlat(joinFlat(name, c.name, sep), p.Key, sep) {
				return true
			}
		}
		return false
	})
}

func (e *Element) setFlatSparse(pairs []FlatPair, sep string) {
	own := e.FlattenedName(sep)
	for _, cs := range e.schema.children {
		c := e.childNamed(cs.name)
		if c == nil {
			name := joinFlat(own, cs.name, sep)
			if !slices.ContainsFunc(pairs, func(p FlatPair) bool { return cs.claimsFlat(name, p.Key, sep) }) {
				continue
			}
			c, _ = e.ensureKey(cs.name)
		}
		c.setFlat(pairs, sep)
	}
}

// setFlatList rebuilds the list from keys of the form <name><sep><index>...,
// ordering members by index and renumbering them from zero.
func (e *Element) setFlatList(pairs []FlatPair, sep string) {
	prefix := e.FlattenedName(sep)
	if prefix != "" {
		prefix += sep
	}
	var indexes []int
	for _, p := range pairs {
		rest, ok := strings.CutPrefix(p.Key, prefix)
		if !ok {
			continue
		}
		head, _, _ := strings.Cut(rest, sep)
		if i, ok := parseIndex(head); ok && !slices.Contains(indexes, i) {
			indexes = append(indexes, i)
		}
	}
	slices.Sort(indexes)
	e.children = nil
	for _, i := range indexes {
		slot := newSlot(e, i)
		e.children = append(e.children, slot)
		slot.member().setFlat(pairs, sep)
	}
	e.renumber()
	e.touch()
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(s)
	return i, err == nil
}
