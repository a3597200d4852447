// Package jsondup finds repeated object keys in JSON documents, which
// decoding into maps would otherwise resolve silently (last one wins).
package jsondup

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reoring/formtree/internal/pathexpr"
)

// Duplicate is one repeated key, located by the JSON Pointer of its second
// (or later) occurrence.
type Duplicate struct {
	Key     string
	Pointer string
}

// Error lists duplicates as an error.
type Error []Duplicate

func (e Error) Error() string {
	parts := make([]string, 0, len(e))
	for _, d := range e {
		parts = append(parts, fmt.Sprintf("%s (key %q)", d.Pointer, d.Key))
	}
	return "duplicate JSON keys: " + strings.Join(parts, ", ")
}

type frame struct {
	object    bool
	keys      map[string]struct{}
	expectKey bool
	key       string
	index     int
}

// Detect scans r and returns every duplicate key. Syntax errors are returned
// along with the duplicates found before them.
func Detect(r io.Reader) ([]Duplicate, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var (
		out   []Duplicate
		stack []*frame
		path  []string
	)
	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.object {
			top.expectKey = true
		} else {
			top.index++
		}
	}
	enter := func(object bool) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.object {
				path = append(path, top.key)
			} else {
				path = append(path, strconv.Itoa(top.index))
			}
		}
		f := &frame{object: object, expectKey: object}
		if object {
			f.keys = map[string]struct{}{}
		}
		stack = append(stack, f)
	}
	leave := func() {
		if len(stack) == 0 {
			return
		}
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			path = path[:len(path)-1]
		}
		valueDone()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				enter(true)
			case '[':
				enter(false)
			default:
				leave()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectKey {
				top := stack[n-1]
				if _, dup := top.keys[v]; dup {
					out = append(out, Duplicate{Key: v, Pointer: pathexpr.Pointer(append(slices.Clone(path), v))})
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectKey = false
				continue
			}
			valueDone()
		default:
			valueDone()
		}
	}
}

// Check returns an Error when data holds duplicate keys.
func Check(r io.Reader) error {
	dups, err := Detect(r)
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		return Error(dups)
	}
	return nil
}
