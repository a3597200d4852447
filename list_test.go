package formtree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/formtree"
)

func TestList_SetAndEdit(t *testing.T) {
	el := formtree.List("nums", formtree.Integer("n")).New()

	assert.False(t, mustSet(t, el, []any{"1", "2", "x"}))
	assert.Equal(t, []any{1, 2, nil}, el.Value())
	assert.Equal(t, 3, el.Len())

	assert.True(t, mustSet(t, el, []int{1, 2}))
	assert.Equal(t, []any{1, 2}, el.Value())
	assert.JSONEq(t, `["1","2"]`, el.Text())

	ok, err := el.Append("3")
	require.NoError(t, err)
	assert.True(t, ok)

	m, err := el.Index(2)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Value())

	_, err = el.Insert(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{0, 1, 2, 3}, el.Value())

	require.NoError(t, el.Remove(1))
	assert.Equal(t, []any{0, 2, 3}, el.Value())
	assert.Equal(t, "1", el.Children()[1].Name())
	assert.True(t, el.Children()[1].IsSlot())

	_, err = el.Index(9)
	assert.ErrorIs(t, err, formtree.ErrNotFound)
	assert.ErrorIs(t, el.Remove(-1), formtree.ErrNotFound)

	_, err = el.Set("abc")
	assert.ErrorIs(t, err, formtree.ErrUnsupportedValue)

	require.NoError(t, el.Clear())
	assert.Equal(t, []any{}, el.Value())
	assert.True(t, el.IsEmpty())
}

func TestList_DefaultCount(t *testing.T) {
	s := formtree.List("l", formtree.String("s").WithDefault("x")).WithDefault(2)
	assert.Equal(t, []any{"x", "x"}, s.FromDefaults().Value())

	fromSlice := formtree.List("l", formtree.String("s")).WithDefault([]string{"a"})
	assert.Equal(t, []any{"a"}, fromSlice.FromDefaults().Value())
}

func TestList_NotSequenceErrors(t *testing.T) {
	el := formtree.String("s").New()
	_, err := el.Append("x")
	assert.ErrorIs(t, err, formtree.ErrUnsupportedValue)
	_, err = el.Index(0)
	assert.ErrorIs(t, err, formtree.ErrUnsupportedValue)
}

func TestArray_FlattensUnderOneKey(t *testing.T) {
	s := formtree.Array("tags", formtree.String("tag"))

	el := s.New()
	mustSet(t, el, []string{"a", "b"})
	assert.Equal(t, []formtree.FlatPair{{Key: "tags", Value: "a"}, {Key: "tags", Value: "b"}}, el.Flatten())

	m, err := el.Index(1)
	require.NoError(t, err)
	assert.Equal(t, "tags", m.FlattenedName("_"))

	back := s.FromFlat([]formtree.FlatPair{{Key: "tags", Value: "a"}, {Key: "other", Value: "z"}, {Key: "tags", Value: "b"}})
	assert.Equal(t, []any{"a", "b"}, back.Value())
}
