package valid

import "github.com/reoring/formtree"

// SkipAllIf settles a container on the way down when When reports true:
// none of its children are validated. The container is then valid, or
// invalid when Invalid is set. Otherwise it passes and the walk continues.
type SkipAllIf struct {
	When    func(el *formtree.Element) bool
	Invalid bool
}

func (SkipAllIf) Name() string { return "SkipAllIf" }

func (v SkipAllIf) Validate(el *formtree.Element, _ any) formtree.Result {
	if v.When == nil || !v.When(el) {
		return formtree.Pass
	}
	if v.Invalid {
		return formtree.SkipAllFalse
	}
	return formtree.SkipAll
}
