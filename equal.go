package formtree

import (
	"reflect"
	"strings"
)

// Equal reports whether e and other hold equal values and texts.
func (e *Element) Equal(other *Element) bool {
	if other == nil {
		return false
	}
	return reflect.DeepEqual(e.Value(), other.Value()) && e.Text() == other.Text()
}

// EqualValue reports whether the native value of e deep-equals v.
func (e *Element) EqualValue(v any) bool { return reflect.DeepEqual(e.Value(), v) }

// EqualText reports whether the text of e is s.
func (e *Element) EqualText(s string) bool { return e.Text() == s }

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#10;", "\r", "&#13;", "\t", "&#9;")
)

// EscapedText returns the text with &, < and > escaped for markup content.
func (e *Element) EscapedText() string { return textEscaper.Replace(e.Text()) }

// EscapedAttr returns the text escaped for a double-quoted markup attribute.
func (e *Element) EscapedAttr() string { return attrEscaper.Replace(e.Text()) }
