package valid

import (
	"reflect"
	"unicode/utf8"

	"github.com/reoring/formtree"
)

// Present fails when the element's text is empty.
type Present struct {
	Missing string
}

func (Present) Name() string { return "Present" }

func (v Present) Validate(el *formtree.Element, state any) formtree.Result {
	if el.Text() != "" {
		return formtree.Pass
	}
	return NoteError(el, state, or(v.Missing, "{label} may not be blank."), nil)
}

// IsTrue fails unless the value is truthy.
type IsTrue struct {
	False string
}

func (IsTrue) Name() string { return "IsTrue" }

func (v IsTrue) Validate(el *formtree.Element, state any) formtree.Result {
	if !truthy(el.Value()) {
		return NoteError(el, state, or(v.False, "{label} must be True."), nil)
	}
	return formtree.Pass
}

// IsFalse fails when the value is truthy.
type IsFalse struct {
	True string
}

func (IsFalse) Name() string { return "IsFalse" }

func (v IsFalse) Validate(el *formtree.Element, state any) formtree.Result {
	if truthy(el.Value()) {
		return NoteError(el, state, or(v.True, "{label} must be False."), nil)
	}
	return formtree.Pass
}

// ValueIn fails unless the value equals one of Options.
type ValueIn struct {
	Options []any
	Fail    string
}

func (ValueIn) Name() string { return "ValueIn" }

func (v ValueIn) Validate(el *formtree.Element, state any) formtree.Result {
	val := el.Value()
	for _, o := range v.Options {
		if reflect.DeepEqual(o, val) {
			return formtree.Pass
		}
	}
	return NoteError(el, state, or(v.Fail, "{value} is not a valid value for {label}."), nil)
}

// Converted fails when the input could not be adapted.
type Converted struct {
	Correct string
}

func (Converted) Name() string { return "Converted" }

func (v Converted) Validate(el *formtree.Element, state any) formtree.Result {
	if el.Value() != nil {
		return formtree.Pass
	}
	return NoteError(el, state, or(v.Correct, "{label} is not correct."), nil)
}

// ShorterThan fails when the text has more than MaxLength characters.
// Placeholder: {maxlength}.
type ShorterThan struct {
	MaxLength int
	Exceeded  string
}

// NoLongerThan is an alias of ShorterThan.
type NoLongerThan = ShorterThan

func (ShorterThan) Name() string { return "ShorterThan" }

func (v ShorterThan) Validate(el *formtree.Element, state any) formtree.Result {
	if utf8.RuneCountInString(el.Text()) > v.MaxLength {
		return NoteError(el, state, or(v.Exceeded, "{label} may not exceed {maxlength} characters."),
			map[string]any{"maxlength": v.MaxLength})
	}
	return formtree.Pass
}

// LongerThan fails when the text has fewer than MinLength characters.
// Placeholder: {minlength}.
type LongerThan struct {
	MinLength int
	Short     string
}

func (LongerThan) Name() string { return "LongerThan" }

func (v LongerThan) Validate(el *formtree.Element, state any) formtree.Result {
	if utf8.RuneCountInString(el.Text()) < v.MinLength {
		return NoteError(el, state, or(v.Short, "{label} must be at least {minlength} characters."),
			map[string]any{"minlength": v.MinLength})
	}
	return formtree.Pass
}

// LengthBetween fails unless MinLength <= len(text) <= MaxLength.
// Placeholders: {minlength}, {maxlength}.
type LengthBetween struct {
	MinLength int
	MaxLength int
	Breached  string
}

func (LengthBetween) Name() string { return "LengthBetween" }

func (v LengthBetween) Validate(el *formtree.Element, state any) formtree.Result {
	n := utf8.RuneCountInString(el.Text())
	if n < v.MinLength || n > v.MaxLength {
		return NoteError(el, state, or(v.Breached, "{label} must be between {minlength} and {maxlength} characters long."),
			map[string]any{"minlength": v.MinLength, "maxlength": v.MaxLength})
	}
	return formtree.Pass
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.String:
		return rv.Len() > 0
	}
	return !rv.IsZero()
}
