package valid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
	"github.com/reoring/formtree/valid"
)

func validate(t *testing.T, s *formtree.Schema, v any) (*formtree.Element, bool) {
	t.Helper()
	el, err := s.FromValue(v)
	require.NoError(t, err)
	return el, el.Validate(nil)
}

func TestPresent(t *testing.T) {
	s := formtree.String("name").WithLabel("Name").WithValidators(valid.Present{})

	el, ok := validate(t, s, "")
	assert.False(t, ok)
	assert.Equal(t, []string{"Name may not be blank."}, el.Errors())

	_, ok = validate(t, s, "x")
	assert.True(t, ok)

	custom := formtree.String("name").WithValidators(valid.Present{Missing: "Need {label}!"})
	el, _ = validate(t, custom, nil)
	assert.Equal(t, []string{"Need name!"}, el.Errors())
}

func TestIsTrueIsFalse(t *testing.T) {
	agree := formtree.Boolean("agree").WithValidators(valid.IsTrue{})
	el, ok := validate(t, agree, "off")
	assert.False(t, ok)
	assert.Equal(t, []string{"agree must be True."}, el.Errors())
	_, ok = validate(t, agree, "on")
	assert.True(t, ok)

	spam := formtree.Boolean("spam").WithValidators(valid.IsFalse{})
	_, ok = validate(t, spam, "on")
	assert.False(t, ok)
	_, ok = validate(t, spam, "off")
	assert.True(t, ok)
}

func TestValueInAndConverted(t *testing.T) {
	s := formtree.String("c").WithValidators(valid.ValueIn{Options: []any{"a", "b"}})
	el, ok := validate(t, s, "z")
	assert.False(t, ok)
	assert.Equal(t, []string{"z is not a valid value for c."}, el.Errors())

	n := formtree.Integer("n").WithValidators(valid.Converted{}, valid.Present{})
	el, ok = validate(t, n, "abc")
	assert.False(t, ok)
	assert.Equal(t, []string{"n is not correct."}, el.Errors())
}

func TestLengths(t *testing.T) {
	short := formtree.String("s").WithValidators(valid.ShorterThan{MaxLength: 3})
	el, ok := validate(t, short, "abcd")
	assert.False(t, ok)
	assert.Equal(t, []string{"s may not exceed 3 characters."}, el.Errors())
	_, ok = validate(t, short, "äöü")
	assert.True(t, ok)

	long := formtree.String("s").WithValidators(valid.LongerThan{MinLength: 2})
	el, ok = validate(t, long, "a")
	assert.False(t, ok)
	assert.Equal(t, []string{"s must be at least 2 characters."}, el.Errors())

	between := formtree.String("s").WithValidators(valid.LengthBetween{MinLength: 2, MaxLength: 3})
	el, ok = validate(t, between, "abcd")
	assert.False(t, ok)
	assert.Equal(t, []string{"s must be between 2 and 3 characters long."}, el.Errors())
	_, ok = validate(t, between, "ab")
	assert.True(t, ok)
}

func TestValueBounds(t *testing.T) {
	cases := []struct {
		v    formtree.Validator
		in   any
		ok   bool
		want string
	}{
		{valid.ValueLessThan{Boundary: 4}, 3, true, ""},
		{valid.ValueLessThan{Boundary: 4}, 4, false, "n must be less than 4."},
		{valid.ValueAtMost{Maximum: 4}, 4, true, ""},
		{valid.ValueAtMost{Maximum: 4}, 5, false, "n must be less than or equal to 4."},
		{valid.ValueGreaterThan{Boundary: 4}, 4, false, "n must be greater than 4."},
		{valid.ValueAtLeast{Minimum: 4}, 4, true, ""},
		{valid.ValueAtLeast{Minimum: 4.5}, 4, false, "n must be greater than or equal to 4.5."},
		{valid.ValueBetween{Minimum: 1, Maximum: 3}, 3, true, ""},
		{valid.ValueBetween{Minimum: 1, Maximum: 3}, 4, false, "n must be in the range 1 to 3."},
		{valid.ValueBetween{Minimum: 1, Maximum: 3, Exclusive: true}, 3, false, "n must be greater than 1 and less than 3."},
		{valid.ValueBetween{Minimum: 1, Maximum: 3, Exclusive: true}, 2, true, ""},
	}
	for _, tc := range cases {
		el, ok := validate(t, formtree.Integer("n").WithValidators(tc.v), tc.in)
		assert.Equal(t, tc.ok, ok, "%T %v", tc.v, tc.in)
		if tc.want != "" {
			assert.Equal(t, []string{tc.want}, el.Errors())
		}
	}
}

func TestValuesEqual(t *testing.T) {
	s := formtree.Dict("pw",
		formtree.String("password").WithLabel("Password"),
		formtree.String("again").WithLabel("Confirmation"),
	).WithValidators(valid.ValuesEqual("password", "again"))

	_, ok := validate(t, s, map[string]any{"password": "a", "again": "a"})
	assert.True(t, ok)

	el, ok := validate(t, s, map[string]any{"password": "a", "again": "b"})
	assert.False(t, ok)
	assert.Equal(t, []string{"Password and Confirmation do not match."}, el.Errors())
}

func TestMapEqual_LabelsAndErrorsTo(t *testing.T) {
	eq := valid.TextsEqual("x", "y", "z")
	eq.ErrorsTo = "z"
	s := formtree.Dict("d", formtree.String("x"), formtree.String("y"), formtree.String("z")).WithValidators(eq)

	el, ok := validate(t, s, map[string]any{"x": "1", "y": "1", "z": "2"})
	assert.False(t, ok)
	assert.Empty(t, el.Errors())
	z, err := el.Get("z")
	require.NoError(t, err)
	assert.Equal(t, []string{"x, y and z do not match."}, z.Errors())

	assert.Panics(t, func() { valid.ValuesEqual("x") })

	bad := formtree.Dict("d", formtree.String("x")).WithValidators(valid.MapEqual{Paths: []string{"x", "nope"}})
	el2, err := bad.FromValue(map[string]any{"x": "1"})
	require.NoError(t, err)
	assert.Panics(t, func() { el2.Validate(nil) })
}

func TestNotDuplicated(t *testing.T) {
	s := formtree.List("colors", formtree.String("color").WithValidators(valid.NotDuplicated{})).WithLabel("Colors")

	el, ok := validate(t, s, []string{"red", "blue", "red"})
	assert.False(t, ok)

	third, err := el.Index(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"color may not be repeated within Colors."}, third.Errors())

	first, err := el.Index(0)
	require.NoError(t, err)
	assert.Empty(t, first.Errors())

	_, ok = validate(t, s, []string{"red", "blue"})
	assert.True(t, ok)

	assert.Panics(t, func() {
		root := formtree.String("s").WithValidators(valid.NotDuplicated{}).New()
		root.Set("x")
		root.Validate(nil)
	})
}

func TestLuhn10(t *testing.T) {
	s := formtree.Long("card").WithValidators(valid.Luhn10{})

	_, ok := validate(t, s, "4111111111111111")
	assert.True(t, ok)

	el, ok := validate(t, s, "4111111111111112")
	assert.False(t, ok)
	assert.Equal(t, []string{"The card was not entered correctly."}, el.Errors())
}

func TestTag(t *testing.T) {
	s := formtree.String("email").WithValidators(valid.Tag{Tag: "email"})

	_, ok := validate(t, s, "a@example.com")
	assert.True(t, ok)

	el, ok := validate(t, s, "nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"email is invalid."}, el.Errors())
}

func TestNoteWarning(t *testing.T) {
	warn := formtree.ValidatorFunc(func(el *formtree.Element, state any) formtree.Result {
		return valid.NoteWarning(el, state, "{label} looks odd: {text}", nil)
	})
	el, ok := validate(t, formtree.String("s").WithValidators(warn), "x")
	assert.True(t, ok)
	assert.Equal(t, []string{"s looks odd: x"}, el.Warnings())
}

func TestSkipAllIf(t *testing.T) {
	s := formtree.SparseDict("opts", formtree.String("a")).
		WithDescentValidators(valid.SkipAllIf{When: func(el *formtree.Element) bool { return el.Len() == 0 }})

	el, ok := validate(t, s, map[string]any{})
	assert.True(t, ok)
	assert.Equal(t, formtree.Valid, el.Valid())

	_, ok = validate(t, s, map[string]any{"a": ""})
	assert.False(t, ok)

	strict := formtree.SparseDict("opts", formtree.String("a")).
		WithDescentValidators(valid.SkipAllIf{When: func(*formtree.Element) bool { return true }, Invalid: true})
	_, ok = validate(t, strict, map[string]any{"a": "x"})
	assert.False(t, ok)
}

func TestMessagesTranslated(t *testing.T) {
	s := formtree.String("name").WithLabel("名前").WithValidators(valid.Present{})
	el, err := s.FromValue("")
	require.NoError(t, err)

	ja, ok := i18n.Lookup("ja")
	require.True(t, ok)
	assert.False(t, el.Validate(ja))
	assert.Equal(t, []string{"名前は必須です。"}, el.Errors())

	el.ClearMessages()
	i18n.SetLanguage("ja")
	t.Cleanup(func() { i18n.SetLanguage("en") })
	assert.False(t, el.Validate(nil))
	assert.Equal(t, []string{"名前は必須です。"}, el.Errors())
}
