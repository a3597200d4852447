package valid

import (
	"github.com/go-playground/validator/v10"

	"github.com/reoring/formtree"
)

var tagValidate = validator.New()

// Tag checks the value against a go-playground validator tag expression,
// for example "email" or "min=3,max=10". Absent values are checked as "".
// Placeholder: {tag}.
type Tag struct {
	Tag     string
	Failure string
}

func (Tag) Name() string { return "Tag" }

func (v Tag) Validate(el *formtree.Element, state any) formtree.Result {
	val := el.Value()
	if val == nil {
		val = el.Text()
	}
	if err := tagValidate.Var(val, v.Tag); err != nil {
		return NoteError(el, state, or(v.Failure, "{label} is invalid."), map[string]any{"tag": v.Tag})
	}
	return formtree.Pass
}
