package valid

import (
	"fmt"
	"reflect"

	"github.com/reoring/formtree"
)

// NotDuplicated fails when an earlier sibling in the same sequence (or
// mapping) compares equal. Apply it to a sequence member. Placeholders:
// {position} (1-based) and {container_label}.
type NotDuplicated struct {
	Comparator func(el, sibling *formtree.Element) bool
	Failure    string
}

func (NotDuplicated) Name() string { return "NotDuplicated" }

func (v NotDuplicated) Validate(el *formtree.Element, state any) formtree.Result {
	parent := el.Parent()
	if parent == nil {
		panic(fmt.Errorf("%w: NotDuplicated must be applied to a child of a container; %q has no parent", formtree.ErrSchema, el.Name()))
	}
	self, container := el, parent
	if parent.IsSlot() {
		self, container = parent, parent.Parent()
	}
	cmp := v.Comparator
	if cmp == nil {
		cmp = func(a, b *formtree.Element) bool { return equalAny(a.Value(), b.Value()) }
	}
	duplicate, position := false, 0
	for i, sib := range container.Children() {
		if sib == self {
			position = i + 1
			break
		}
		if sib.IsSlot() {
			sib = sib.Children()[0]
		}
		if !duplicate && cmp(el, sib) {
			duplicate = true
		}
	}
	if duplicate {
		return NoteError(el, state, or(v.Failure, "{label} may not be repeated within {container_label}."), map[string]any{
			"position":        position,
			"container_label": container.Label(),
		})
	}
	return formtree.Pass
}

func equalAny(a, b any) bool { return reflect.DeepEqual(a, b) }
