// Package pathexpr parses and renders separator-delimited element paths.
//
// A path is a list of child names. A leading separator anchors it at the
// root; the bare separator names the root itself.
package pathexpr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed reports a path that cannot be parsed.
var ErrMalformed = errors.New("formtree: malformed path")

// Path is a parsed element path.
type Path struct {
	Root     bool
	Segments []string
}

// Parse splits s on sep. Empty segments are rejected.
func Parse(s, sep string) (Path, error) {
	if sep == "" {
		return Path{}, fmt.Errorf("%w: empty separator", ErrMalformed)
	}
	if s == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrMalformed)
	}
	if s == sep {
		return Path{Root: true}, nil
	}
	var p Path
	if strings.HasPrefix(s, sep) {
		p.Root = true
		s = s[len(sep):]
	}
	for _, seg := range strings.Split(s, sep) {
		if seg == "" {
			return Path{}, fmt.Errorf("%w: empty segment in %q", ErrMalformed, s)
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// Format renders p with sep. A rooted path with no segments renders as sep.
func (p Path) Format(sep string) string {
	body := strings.Join(p.Segments, sep)
	if p.Root {
		return sep + body
	}
	return body
}

// Pointer renders segments as an RFC 6901 JSON Pointer.
func Pointer(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range segments {
		b.WriteByte('/')
		// '~' -> '~0', '/' -> '~1'
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// JoinNonEmpty joins the non-empty names with sep.
func JoinNonEmpty(names []string, sep string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, sep)
}
