// Package formtree binds form-shaped data to a tree of typed elements built
// from declarative schemas.
//
//   - A Schema is an immutable template: scalars (String, Integer, Date, ...),
//     containers (Dict, SparseDict, List, Array), compounds and refs.
//   - An Element is the mutable instance: it holds the adapted value, the text
//     used for redisplay, and per-node validity, errors and warnings.
//   - Flatten and SetFlat convert a tree to and from flat key/value pairs such
//     as HTML form submissions ("addresses_0_city").
//   - Validate walks the tree twice: down, breadth-first, then back up.
//
// Design policy:
//   - Keep the public API in the root package; codecs live under codec/ and
//     the validator library under valid/.
//   - Structural errors are returned; adaptation failures are recorded on the
//     element; schema misconfiguration panics with ErrSchema.
//
// Typical usage:
//
//	s := formtree.Dict("signup",
//		formtree.String("name").WithValidators(valid.Present{}),
//		formtree.Integer("age").WithOptional(true),
//	)
//	el := s.FromFlat(formtree.PairsFromValues(r.PostForm))
//	if !el.Validate(nil) {
//		return formtree.CollectIssues(el).Err()
//	}
package formtree
