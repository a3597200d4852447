package formtree_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/formtree"
)

func TestCollectIssues(t *testing.T) {
	blank := formtree.ValidatorFunc(func(el *formtree.Element, _ any) formtree.Result {
		if el.Text() != "" {
			return formtree.Pass
		}
		el.AddError(el.Label() + " may not be blank.")
		el.AddError(el.Label() + " may not be blank.")
		el.AddWarning("check " + el.Label())
		return formtree.Fail
	})
	s := formtree.Dict("d", formtree.String("a").WithLabel("Name").WithValidators(blank))
	el := s.New()
	assert.False(t, el.Validate(nil))

	iss := formtree.CollectIssues(el)
	require.Len(t, iss, 2)
	assert.Equal(t, formtree.Issue{
		Path: ".a", Pointer: "/a", Label: "Name",
		Message: "Name may not be blank.", Severity: formtree.SeverityError,
	}, iss[0])
	assert.Equal(t, formtree.SeverityWarning, iss[1].Severity)

	err := iss.Err()
	require.Error(t, err)
	assert.Equal(t, ".a: Name may not be blank.", err.Error())

	wrapped := errors.Join(errors.New("form"), err)
	got, ok := formtree.AsIssues(wrapped)
	require.True(t, ok)
	assert.Len(t, got, 1)

	el.ClearMessages()
	assert.Empty(t, formtree.CollectIssues(el))
	assert.NoError(t, formtree.CollectIssues(el).Err())
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := formtree.Issues{
		{Path: ".a", Message: "m1"},
		{Path: ".b", Message: "m2"},
		{Path: ".c", Message: "m3"},
		{Path: ".d", Message: "m4"},
	}
	assert.Equal(t, ".a: m1; .b: m2; .c: m3; ... (total 4)", iss.Error())
}

func TestSeverity_Text(t *testing.T) {
	b, err := formtree.SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(b))

	var s formtree.Severity
	require.NoError(t, s.UnmarshalText([]byte("warning")))
	assert.Equal(t, formtree.SeverityWarning, s)
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
}
