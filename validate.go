package formtree

import "fmt"

// Validator decides the validity of an element. state is the value passed
// to Validate, unchanged.
type Validator interface {
	Validate(el *Element, state any) Result
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(el *Element, state any) Result

func (f ValidatorFunc) Validate(el *Element, state any) Result { return f(el, state) }

// ValidationEvent describes one validator run.
type ValidationEvent struct {
	Element    *Element
	Validator  string
	Descending bool
	Result     Result
}

// Observer receives an event after every validator run, including the
// built-in non-empty rule (reported as "NotEmpty").
type Observer func(ev ValidationEvent)

// ValidateOpt configures ValidateWith.
type ValidateOpt struct {
	State    any
	Shallow  bool // Only decide e itself.
	Observer Observer
}

func (o *ValidateOpt) notify(el *Element, name string, descending bool, r Result) {
	if o.Observer != nil {
		o.Observer(ValidationEvent{Element: el, Validator: name, Descending: descending, Result: r})
	}
}

func validatorName(v Validator) string {
	if n, ok := v.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", v)
}

// Validate runs validation over e and its descendants and reports whether
// every decision made passed.
func (e *Element) Validate(state any) bool {
	return e.ValidateWith(ValidateOpt{State: state})
}

// ValidateWith validates in two passes. Heading down, breadth-first, scalars
// run their validators and containers run their descent validators. Heading
// back up in reverse order, containers run their validators. A SkipAll or
// SkipAllFalse result heading down settles the element: its descendants are
// not visited and it is not revisited on the way up. The upward pass never
// turns an Invalid element Valid.
func (e *Element) ValidateWith(opt ValidateOpt) bool {
	valid := true
	var visited []*Element
	settled := map[*Element]bool{}
	seen := map[*Element]struct{}{}
	queue := []*Element{e}
	for len(queue) > 0 {
		el := queue[0]
		queue = queue[1:]
		if _, ok := seen[el]; ok {
			continue
		}
		seen[el] = struct{}{}
		visited = append(visited, el)

		r, decided := el.decide(&opt, true)
		if decided {
			el.valid = validityOf(r)
			valid = valid && r.passed()
			if r == SkipAll || r == SkipAllFalse {
				settled[el] = true
				continue
			}
		}
		if !opt.Shallow {
			queue = append(queue, el.validationChildren()...)
		}
	}
	for i := len(visited) - 1; i >= 0; i-- {
		el := visited[i]
		if settled[el] {
			continue
		}
		r, decided := el.decide(&opt, false)
		if !decided {
			continue
		}
		if el.valid != Invalid {
			el.valid = validityOf(r)
		}
		valid = valid && r.passed()
	}
	return valid
}

func validityOf(r Result) Validity {
	if r.passed() {
		return Valid
	}
	return Invalid
}

// validationChildren treats compounds as leaves.
func (e *Element) validationChildren() []*Element {
	if e.schema.kind == KindCompound {
		return nil
	}
	return e.children
}

// decide runs the validators owned by the given pass. decided is false when
// the element makes no decision in that pass.
func (e *Element) decide(opt *ValidateOpt, descending bool) (r Result, decided bool) {
	s := e.schema
	switch {
	case s.kind == kindSlot:
		return Pass, false
	case s.kind.container():
		if descending {
			if len(s.descentValidators) == 0 {
				return Pass, false
			}
			return e.runValidators(s.descentValidators, opt, true), true
		}
		r := e.runValidators(s.validators, opt, false)
		if s.kind == KindSparseDict && r.passed() && !(e.Optional() && e.IsEmpty()) && !e.requiredPresent() {
			r = Fail
		}
		return r, true
	default:
		if !descending {
			return Pass, false
		}
		return e.runValidators(s.validators, opt, true), true
	}
}

// runValidators applies the element rule: optional and empty passes; with no
// validators the element passes when non-empty; otherwise the validators run
// in order until one does not Pass.
func (e *Element) runValidators(vs []Validator, opt *ValidateOpt, descending bool) Result {
	if e.Optional() && e.IsEmpty() {
		return Pass
	}
	if len(vs) == 0 {
		r := ResultOf(!e.IsEmpty())
		opt.notify(e, "NotEmpty", descending, r)
		return r
	}
	for _, v := range vs {
		r := v.Validate(e, opt.State)
		opt.notify(e, validatorName(v), descending, r)
		switch r {
		case Pass:
			continue
		case Skip:
			return Pass
		default:
			return r
		}
	}
	return Pass
}

// requiredPresent reports whether every non-optional declared key is present.
func (e *Element) requiredPresent() bool {
	for _, cs := range e.schema.children {
		if !cs.optional && e.childNamed(cs.name) == nil {
			return false
		}
	}
	return true
}
