package formtree

import (
	"fmt"

	"github.com/reoring/formtree/internal/pathexpr"
)

// El resolves a DefaultPathSep-separated path relative to e. A leading
// separator starts at the root, and the bare separator is the root itself.
// Sequence indexes resolve to the member element.
func (e *Element) El(path string) (*Element, error) {
	return e.ElSep(path, DefaultPathSep)
}

// ElSep is El with a custom separator.
func (e *Element) ElSep(path, sep string) (*Element, error) {
	p, err := pathexpr.Parse(path, sep)
	if err != nil {
		return nil, err
	}
	return e.resolve(p)
}

// Find resolves the child names one by one, relative to e.
func (e *Element) Find(names ...string) (*Element, error) {
	return e.resolve(pathexpr.Path{Segments: names})
}

func (e *Element) resolve(p pathexpr.Path) (*Element, error) {
	cur := e
	if p.Root {
		cur = e.Root()
	}
	for i, seg := range p.Segments {
		next, ok := cur.child(seg)
		if !ok {
			at := pathexpr.Path{Root: p.Root, Segments: p.Segments[:i+1]}
			return nil, fmt.Errorf("%w: %q", ErrNotFound, at.Format(DefaultPathSep))
		}
		cur = next
	}
	return cur, nil
}

// pathNames lists the names from below the root down to e. A slot's index
// stands in for its member's name.
func (e *Element) pathNames() []string {
	var names []string
	for _, el := range e.Path()[1:] {
		if el.parent.IsSlot() {
			continue
		}
		names = append(names, el.name)
	}
	return names
}

// FQName returns the root-anchored path of e, for example ".addresses.0.city".
// The root's FQName is sep.
func (e *Element) FQName(sep string) string {
	return pathexpr.Path{Root: true, Segments: e.pathNames()}.Format(sep)
}

// Pointer returns the JSON Pointer of e relative to the root.
func (e *Element) Pointer() string {
	return pathexpr.Pointer(e.pathNames())
}

// FlattenedName joins the names of every element on the path from the root,
// root included, skipping empty names. Array slots and members do not
// contribute, so all array members share the array's flattened name.
func (e *Element) FlattenedName(sep string) string {
	path := e.Path()
	names := make([]string, 0, len(path))
	for _, el := range path {
		names = append(names, el.flatSegment())
	}
	return pathexpr.JoinNonEmpty(names, sep)
}

func (e *Element) flatSegment() string {
	if e.IsSlot() && e.parent.schema.kind == KindArray {
		return ""
	}
	if e.parent != nil && e.parent.IsSlot() && e.parent.parent.schema.kind == KindArray {
		return ""
	}
	return e.name
}

// Target resolves the element a ref points at. The path is resolved from the
// root and cached until the tree's structure changes.
func (e *Element) Target() (*Element, error) {
	if e.schema.kind != KindRef {
		return nil, fmt.Errorf("%w: %s is not a ref", ErrUnsupportedValue, e.name)
	}
	root := e.Root()
	if e.target != nil && e.targetGen == root.gen {
		return e.target, nil
	}
	t, err := root.resolve(e.schema.path)
	if err != nil {
		e.target = nil
		return nil, err
	}
	e.checkTarget(root, t)
	e.target, e.targetGen = t, root.gen
	return t, nil
}

// checkTarget panics when reading through t would never terminate: t is the
// ref itself or one of its ancestors, or refs lead back to e.
func (e *Element) checkTarget(root, t *Element) {
	for a := e; a != nil; a = a.parent {
		if a == t {
			schemaPanic("ref %s: path %q points at itself or an ancestor", e.FQName(DefaultPathSep), e.schema.rawPath)
		}
	}
	seen := map[*Element]bool{e: true}
	for n := t; n.schema.kind == KindRef; {
		if seen[n] {
			schemaPanic("ref %s: path %q forms a cycle", e.FQName(DefaultPathSep), e.schema.rawPath)
		}
		seen[n] = true
		next, err := root.resolve(n.schema.path)
		if err != nil {
			return
		}
		n = next
	}
}
