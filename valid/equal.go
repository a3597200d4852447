package valid

import (
	"fmt"
	"strings"

	"github.com/reoring/formtree"
)

// MapEqual fails unless Transform returns equal results for every element
// named in Paths. Paths resolve relative to the validated element; an
// unresolvable path panics. Placeholders: {labels} (all but the last label,
// comma-separated) and {last_label}.
//
// ErrorsTo, when set, is the path of the element that receives the message.
type MapEqual struct {
	Paths     []string
	Transform func(el *formtree.Element) any
	Unequal   string
	ErrorsTo  string
}

// NewMapEqual panics unless at least two paths are given.
func NewMapEqual(transform func(el *formtree.Element) any, paths ...string) MapEqual {
	if len(paths) < 2 {
		panic(fmt.Errorf("%w: at least 2 element paths required", formtree.ErrSchema))
	}
	return MapEqual{Paths: paths, Transform: transform}
}

// ValuesEqual compares element values.
func ValuesEqual(paths ...string) MapEqual {
	return NewMapEqual(func(el *formtree.Element) any { return el.Value() }, paths...)
}

// TextsEqual compares element texts.
func TextsEqual(paths ...string) MapEqual {
	return NewMapEqual(func(el *formtree.Element) any { return el.Text() }, paths...)
}

func (MapEqual) Name() string { return "MapEqual" }

func (v MapEqual) Validate(el *formtree.Element, state any) formtree.Result {
	if len(v.Paths) < 2 {
		panic(fmt.Errorf("%w: at least 2 element paths required", formtree.ErrSchema))
	}
	elements := make([]*formtree.Element, 0, len(v.Paths))
	for _, p := range v.Paths {
		elements = append(elements, mustEl(el, p))
	}
	equal := true
	if v.Transform == nil {
		for _, other := range elements[1:] {
			equal = equal && elements[0].Equal(other)
		}
	} else {
		sample := v.Transform(elements[0])
		for _, other := range elements[1:] {
			equal = equal && equalAny(sample, v.Transform(other))
		}
	}
	if equal {
		return formtree.Pass
	}
	labels := make([]string, 0, len(elements)-1)
	for _, e := range elements[:len(elements)-1] {
		labels = append(labels, e.Label())
	}
	target := el
	if v.ErrorsTo != "" {
		target = mustEl(el, v.ErrorsTo)
	}
	NoteError(target, state, or(v.Unequal, "{labels} and {last_label} do not match."), map[string]any{
		"labels":     strings.Join(labels, ", "),
		"last_label": elements[len(elements)-1].Label(),
	})
	return formtree.Fail
}

func mustEl(el *formtree.Element, path string) *formtree.Element {
	found, err := el.El(path)
	if err != nil {
		panic(err)
	}
	return found
}
