package formtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/formtree/internal/pathexpr"
)

// Sentinel errors. Callers test them with errors.Is.
var (
	ErrNotFound         = errors.New("formtree: element not found")
	ErrMalformedPath    = pathexpr.ErrMalformed
	ErrUnknownKey       = errors.New("formtree: unknown key")
	ErrMissingKey       = errors.New("formtree: missing key")
	ErrImmutableKey     = errors.New("formtree: key set is fixed")
	ErrNotWritable      = errors.New("formtree: reference is not writable")
	ErrUnsupportedValue = errors.New("formtree: unsupported value")
	ErrSchema           = errors.New("formtree: invalid schema")
)

func schemaPanic(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...)))
}

// Severity distinguishes errors from warnings in a report.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalText renders the severity by name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the names produced by MarshalText.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

// Issue is a single message attached to an element.
type Issue struct {
	Path     string   `json:"path"`    // Fully-qualified element path (for example: .addresses.1.city).
	Pointer  string   `json:"pointer"` // JSON Pointer to the same element.
	Label    string   `json:"label"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Issues is a collection of element messages that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. .name: Name may not be blank.
		fmt.Fprintf(b, "%s: %s", it.Path, it.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Errors returns only the error-severity issues.
func (iss Issues) Errors() Issues {
	var out Issues
	for _, it := range iss {
		if it.Severity == SeverityError {
			out = append(out, it)
		}
	}
	return out
}

// Err returns iss as an error when it holds at least one error-severity issue.
func (iss Issues) Err() error {
	if errs := iss.Errors(); len(errs) > 0 {
		return errs
	}
	return nil
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// CollectIssues gathers the errors and warnings of el and all its descendants
// in breadth-first order.
func CollectIssues(el *Element) Issues { return CollectIssuesSep(el, DefaultPathSep) }

// CollectIssuesSep is CollectIssues with paths joined by sep.
func CollectIssuesSep(el *Element, sep string) Issues {
	var out Issues
	for _, e := range append([]*Element{el}, el.AllChildren()...) {
		if len(e.errors) == 0 && len(e.warnings) == 0 {
			continue
		}
		path, ptr, label := e.FQName(sep), e.Pointer(), e.Label()
		for _, m := range e.errors {
			out = append(out, Issue{Path: path, Pointer: ptr, Label: label, Message: m, Severity: SeverityError})
		}
		for _, m := range e.warnings {
			out = append(out, Issue{Path: path, Pointer: ptr, Label: label, Message: m, Severity: SeverityWarning})
		}
	}
	return out
}
