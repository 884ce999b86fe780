// Package ir defines the intermediate representation shared by every stage of
// the diagram engine core: runtime values, the expression tree, paths into the
// translation store, and the tagged storage forms that let a field hold an
// unevaluated expression, an evaluated value, or a value awaiting external
// substitution.
//
// # Closed sums
//
// Values, expressions, paths, tag-expressions and field-expressions are all
// closed algebraic sums, modeled as sealed interfaces with unexported marker
// methods. Consumers dispatch with exhaustive type switches; there is no
// inheritance and no open extension point at this layer. Extension happens in
// the registries (shape catalog, function dictionaries), not in the IR.
//
// # Ordering
//
// Property dictionaries and evaluated shape dictionaries preserve insertion
// order. Determinism across the whole pipeline depends on it: samplers,
// analyzers and evaluators iterate dictionaries in the order entries were
// first inserted, so a fixed seed reproduces byte-identical results.
package ir
