package formtree_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/formtree"
)

func mustSet(t *testing.T, el *formtree.Element, v any) bool {
	t.Helper()
	ok, err := el.Set(v)
	require.NoError(t, err)
	return ok
}

func TestString_SetStripsWhitespace(t *testing.T) {
	el := formtree.String("name").New()
	assert.True(t, mustSet(t, el, "  bob "))
	assert.Equal(t, "bob", el.Value())
	assert.Equal(t, "bob", el.Text())

	raw := formtree.String("name").WithStrip(false).New()
	assert.True(t, mustSet(t, raw, "  bob "))
	assert.Equal(t, "  bob ", raw.Value())
}

func TestInteger_AdaptFailureKeepsText(t *testing.T) {
	el := formtree.Integer("age").New()

	assert.False(t, mustSet(t, el, "abc"))
	assert.Nil(t, el.Value())
	assert.Equal(t, "abc", el.Text())
	assert.False(t, el.IsEmpty())

	assert.True(t, mustSet(t, el, " 42 "))
	assert.Equal(t, 42, el.Value())
	assert.Equal(t, "42", el.Text())

	assert.True(t, mustSet(t, el, nil))
	assert.Nil(t, el.Value())
	assert.Equal(t, "", el.Text())
	assert.True(t, el.IsEmpty())
}

func TestScalar_IsEmpty(t *testing.T) {
	s := formtree.String("s").New()
	mustSet(t, s, "")
	assert.True(t, s.IsEmpty())

	n := formtree.Integer("n").New()
	mustSet(t, n, 0)
	assert.False(t, n.IsEmpty())

	b := formtree.Boolean("b").New()
	mustSet(t, b, false)
	assert.Equal(t, "", b.Text())
	assert.False(t, b.IsEmpty())
}

func TestBoolean_Tokens(t *testing.T) {
	el := formtree.Boolean("agree").New()
	assert.True(t, mustSet(t, el, "on"))
	assert.Equal(t, true, el.Value())
	assert.Equal(t, "1", el.Text())

	assert.True(t, mustSet(t, el, "off"))
	assert.Equal(t, false, el.Value())

	assert.False(t, mustSet(t, el, "perhaps"))
	assert.Equal(t, "perhaps", el.Text())

	yn := formtree.Boolean("agree").WithTrueFalse("yes", "no").New()
	mustSet(t, yn, true)
	assert.Equal(t, "yes", yn.Text())
}

func TestNumbers_FormatAndSign(t *testing.T) {
	n := formtree.Integer("n").WithFormat("%03d").New()
	mustSet(t, n, 7)
	assert.Equal(t, "007", n.Text())

	f := formtree.Float("f").New()
	mustSet(t, f, "2.5")
	assert.Equal(t, 2.5, f.Value())
	assert.Equal(t, "2.500000", f.Text())

	u := formtree.Integer("u").WithSigned(false).New()
	assert.False(t, mustSet(t, u, "-1"))

	l := formtree.Long("l").New()
	mustSet(t, l, "9000000000")
	assert.Equal(t, int64(9000000000), l.Value())
}

func TestTemporalAndUUID(t *testing.T) {
	d := formtree.Date("d").New()
	assert.True(t, mustSet(t, d, "2020-01-02"))
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), d.Value())
	assert.False(t, mustSet(t, d, "02/01/2020"))
	assert.Equal(t, "02/01/2020", d.Text())

	dt := formtree.DateTime("dt").New()
	assert.True(t, mustSet(t, dt, "2020-01-02 03:04:05"))
	assert.Equal(t, "2020-01-02 03:04:05", dt.Text())

	tm := formtree.Time("t").New()
	assert.True(t, mustSet(t, tm, "23:59:00"))

	id := formtree.UUID("id").New()
	assert.True(t, mustSet(t, id, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	assert.Equal(t, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), id.Value())
}

func TestEnum_ValidValues(t *testing.T) {
	s := formtree.Enum("color", "red", "green")

	el := s.New()
	assert.True(t, mustSet(t, el, "red"))
	assert.False(t, mustSet(t, el, "blue"))
	assert.Nil(t, el.Value())
	assert.Equal(t, "blue", el.Text())

	over, err := s.CreateElement(formtree.WithValidValues("blue"))
	require.NoError(t, err)
	assert.True(t, mustSet(t, over, "blue"))
	assert.False(t, mustSet(t, over, "red"))

	ints := formtree.EnumOf(formtree.Integer("n"), 1, 2).New()
	assert.True(t, mustSet(t, ints, "2"))
	assert.Equal(t, 2, ints.Value())
	assert.False(t, mustSet(t, ints, "3"))

	_, err = formtree.String("s").CreateElement(formtree.WithValidValues("x"))
	assert.ErrorIs(t, err, formtree.ErrSchema)
}

func TestConstrained(t *testing.T) {
	even := formtree.Constrained(formtree.Integer("even"), func(_ *formtree.Element, v any) bool {
		return v.(int)%2 == 0
	})
	el := even.New()
	assert.True(t, mustSet(t, el, "4"))
	assert.False(t, mustSet(t, el, "3"))
	assert.Equal(t, "3", el.Text())
}

func TestSchema_MisconfigurationPanics(t *testing.T) {
	assert.Panics(t, func() { formtree.Integer("n").WithStrip(true) })
	assert.Panics(t, func() { formtree.String("s").WithFormat("%d") })
	assert.Panics(t, func() { formtree.String("s").WithPolicy(formtree.PolicyStrict) })
	assert.Panics(t, func() { formtree.Dict("d", formtree.String("a"), formtree.String("a")) })
	assert.Panics(t, func() { formtree.Dict("d", formtree.String("")) })
	assert.Panics(t, func() { formtree.Ref("r", "a..b") })
	assert.Panics(t, func() { formtree.Array("a", formtree.Dict("d")) })
}

func TestScalar_Defaults(t *testing.T) {
	el := formtree.String("s").WithDefault("x").FromDefaults()
	assert.Equal(t, "x", el.Value())

	f := formtree.String("s").WithDefaultFactory(func(el *formtree.Element) any { return el.Name() + "!" }).FromDefaults()
	assert.Equal(t, "s!", f.Value())

	none := formtree.Integer("n").FromDefaults()
	assert.Nil(t, none.Value())
}

func TestEqualAndEscaping(t *testing.T) {
	a, err := formtree.Integer("n").FromValue(3)
	require.NoError(t, err)
	b, err := formtree.Integer("m").FromValue("3")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.True(t, a.EqualValue(3))
	assert.True(t, a.EqualText("3"))
	assert.False(t, a.EqualValue("3"))

	s := formtree.String("s").WithStrip(false).New()
	mustSet(t, s, `<a href="x">&`)
	assert.Equal(t, `&lt;a href="x"&gt;&amp;`, s.EscapedText())
	assert.Equal(t, `&lt;a href=&quot;x&quot;&gt;&amp;`, s.EscapedAttr())
}
