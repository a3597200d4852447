package formtree

// Kind identifies the structural shape of an element.
type Kind int

const (
	KindScalar     Kind = iota // A single adapted value.
	KindList                   // Ordered, homogeneous members behind index slots.
	KindArray                  // Like KindList, flattened under one repeated key.
	KindDict                   // Fixed set of named children.
	KindSparseDict             // Named children that may be absent.
	KindCompound               // Scalar composed from fixed subfields.
	KindRef                    // Proxy for another element in the same tree.

	kindSlot
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindSparseDict:
		return "sparse_dict"
	case KindCompound:
		return "compound"
	case KindRef:
		return "ref"
	case kindSlot:
		return "slot"
	default:
		return "unknown"
	}
}

func (k Kind) container() bool {
	switch k {
	case KindList, KindArray, KindDict, KindSparseDict:
		return true
	default:
		return false
	}
}

func (k Kind) sequence() bool { return k == KindList || k == KindArray }

func (k Kind) mapping() bool { return k == KindDict || k == KindSparseDict }

// Validity is the tri-state validity flag kept on each element.
type Validity int

const (
	Unevaluated Validity = iota
	Valid
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unevaluated"
	}
}

// Result is the outcome of a single validator.
type Result int

const (
	Pass         Result = iota // Continue with the next validator.
	Fail                       // Stop; the element is invalid.
	Skip                       // Stop; the element is valid.
	SkipAll                    // Stop; valid, and descendants are not visited.
	SkipAllFalse               // Stop; invalid, and descendants are not visited.
)

// ResultOf maps a boolean decision to Pass or Fail.
func ResultOf(ok bool) Result {
	if ok {
		return Pass
	}
	return Fail
}

func (r Result) passed() bool { return r == Pass || r == Skip || r == SkipAll }

func (r Result) String() string {
	switch r {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Skip:
		return "skip"
	case SkipAll:
		return "skip_all"
	case SkipAllFalse:
		return "skip_all_false"
	default:
		return "unknown"
	}
}

// Policy controls how mapping elements treat keys in a set operation.
type Policy int

const (
	PolicySubset  Policy = iota // Reject unknown keys; missing keys are set to absent.
	PolicyStrict                // Reject unknown and missing keys.
	PolicyLenient               // Ignore unknown keys.
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyLenient:
		return "lenient"
	default:
		return "subset"
	}
}

// MinimumFields controls which keys of a sparse dict are always present.
type MinimumFields int

const (
	MinimumNone     MinimumFields = iota // Keys exist only once assigned.
	MinimumRequired                      // Keys without the optional flag are always present.
)

// Writable controls how a Ref reacts to writes.
type Writable int

const (
	WritableIgnore Writable = iota // Writes are silently dropped.
	WritableAlways                 // Writes go through to the target.
	WritableNever                  // Writes fail with ErrNotWritable.
)

// Default separators.
const (
	DefaultFlatSep = "_"
	DefaultPathSep = "."
)
