package schemafile

import (
	"fmt"
	"sort"
	"sync"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/valid"
)

// ValidatorSpec declares one validator. Which fields apply depends on Type;
// Message overrides the validator's default failure message.
type ValidatorSpec struct {
	Type      string   `yaml:"type"`
	Message   string   `yaml:"message,omitempty"`
	Min       *int     `yaml:"min,omitempty"`
	Max       *int     `yaml:"max,omitempty"`
	Boundary  any      `yaml:"boundary,omitempty"`
	Minimum   any      `yaml:"minimum,omitempty"`
	Maximum   any      `yaml:"maximum,omitempty"`
	Exclusive bool     `yaml:"exclusive,omitempty"`
	Values    []any    `yaml:"values,omitempty"`
	Paths     []string `yaml:"paths,omitempty"`
	Compare   string   `yaml:"compare,omitempty"`
	ErrorsTo  string   `yaml:"errors_to,omitempty"`
	Tag       string   `yaml:"tag,omitempty"`
}

// Builder turns a spec into a validator.
type Builder func(spec ValidatorSpec) (formtree.Validator, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Builder{
		"present":   func(s ValidatorSpec) (formtree.Validator, error) { return valid.Present{Missing: s.Message}, nil },
		"is_true":   func(s ValidatorSpec) (formtree.Validator, error) { return valid.IsTrue{False: s.Message}, nil },
		"is_false":  func(s ValidatorSpec) (formtree.Validator, error) { return valid.IsFalse{True: s.Message}, nil },
		"converted": func(s ValidatorSpec) (formtree.Validator, error) { return valid.Converted{Correct: s.Message}, nil },
		"luhn10":    func(s ValidatorSpec) (formtree.Validator, error) { return valid.Luhn10{Invalid: s.Message}, nil },
		"not_duplicated": func(s ValidatorSpec) (formtree.Validator, error) {
			return valid.NotDuplicated{Failure: s.Message}, nil
		},
		"value_in": func(s ValidatorSpec) (formtree.Validator, error) {
			if len(s.Values) == 0 {
				return nil, fmt.Errorf("value_in needs values")
			}
			return valid.ValueIn{Options: s.Values, Fail: s.Message}, nil
		},
		"shorter_than": func(s ValidatorSpec) (formtree.Validator, error) {
			if s.Max == nil {
				return nil, fmt.Errorf("shorter_than needs max")
			}
			return valid.ShorterThan{MaxLength: *s.Max, Exceeded: s.Message}, nil
		},
		"longer_than": func(s ValidatorSpec) (formtree.Validator, error) {
			if s.Min == nil {
				return nil, fmt.Errorf("longer_than needs min")
			}
			return valid.LongerThan{MinLength: *s.Min, Short: s.Message}, nil
		},
		"length_between": func(s ValidatorSpec) (formtree.Validator, error) {
			if s.Min == nil || s.Max == nil {
				return nil, fmt.Errorf("length_between needs min and max")
			}
			return valid.LengthBetween{MinLength: *s.Min, MaxLength: *s.Max, Breached: s.Message}, nil
		},
		"value_less_than": func(s ValidatorSpec) (formtree.Validator, error) {
			if s.Boundary == nil {
				return nil, fmt.Errorf("value_less_than needs boundary")
			}
			return valid.ValueLessThan{Boundary: s.Boundary, Failure: s.Message}, nil
		},
		"value_greater_than": func(s ValidatorSpec) (formtree.Validator, error) {
			if s.Boundary == nil {
				return nil, fmt.Errorf("value_greater_than needs boundary")
			}
			return valid.ValueGreaterThan{Boundary: s.Boundary, Failure: s.Message}, nil
		},
		"value_at_most": func(s ValidatorSpec) (formtree.Validator, error) {
			if s.Maximum == nil {
				return nil, fmt.Errorf("value_at_most needs maximum")
			}
			return valid.ValueAtMost{Maximum: s.Maximum, Failure: s.Message}, nil
		},
		"value_at_least": func(s ValidatorSpec) (formtree.Validator, error) {
			if s.Minimum == nil {
				return nil, fmt.Errorf("value_at_least needs minimum")
			}
			return valid.ValueAtLeast{Minimum: s.Minimum, Failure: s.Message}, nil
		},
		"value_between": func(s ValidatorSpec) (formtree.Validator, error) {
			if s.Minimum == nil || s.Maximum == nil {
				return nil, fmt.Errorf("value_between needs minimum and maximum")
			}
			v := valid.ValueBetween{Minimum: s.Minimum, Maximum: s.Maximum, Exclusive: s.Exclusive}
			if s.Exclusive {
				v.FailureExclusive = s.Message
			} else {
				v.FailureInclusive = s.Message
			}
			return v, nil
		},
		"equal": func(s ValidatorSpec) (formtree.Validator, error) {
			if len(s.Paths) < 2 {
				return nil, fmt.Errorf("equal needs at least two paths")
			}
			var v valid.MapEqual
			switch s.Compare {
			case "", "value":
				v = valid.ValuesEqual(s.Paths...)
			case "text":
				v = valid.TextsEqual(s.Paths...)
			default:
				return nil, fmt.Errorf("equal: unknown compare %q", s.Compare)
			}
			v.Unequal = s.Message
			v.ErrorsTo = s.ErrorsTo
			return v, nil
		},
		"tag": func(s ValidatorSpec) (formtree.Validator, error) {
			if s.Tag == "" {
				return nil, fmt.Errorf("tag needs a tag expression")
			}
			return valid.Tag{Tag: s.Tag, Failure: s.Message}, nil
		},
	}
)

// Register makes a validator type available to documents. Registering an
// existing name replaces it.
func Register(name string, b Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = b
}

// Types lists the registered validator types.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func buildValidators(specs []ValidatorSpec) ([]formtree.Validator, error) {
	out := make([]formtree.Validator, 0, len(specs))
	for i, s := range specs {
		registryMu.RLock()
		b, ok := registry[s.Type]
		registryMu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: validator %d: unknown type %q", formtree.ErrSchema, i, s.Type)
		}
		v, err := b(s)
		if err != nil {
			return nil, fmt.Errorf("%w: validator %d: %v", formtree.ErrSchema, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
