// Package eval implements the expression evaluator: the recursive walk that
// turns the translation's deferred expressions into concrete values and
// evaluated shapes.
//
// The expression graph may reference itself through paths, including cycles
// the upstream compiler could not rule out. The evaluator carries a depth
// counter instead of a visited set; blowing the bound is reported as an
// unresolved cycle. Successful path evaluations are memoized back into the
// translation as Done entries (with override, so a second pass is a no-op),
// which is what makes repeated evaluation of a dense graph affordable.
//
// A varying overlay maps free scalar slots to the optimizer's current
// values. The overlay is consulted before the translation on every path
// resolution and is immutable within one pass; element entries for vector
// slots are merged over the stored vector at lookup time.
//
// Evaluation order is strictly left to right, and both the translation
// (memoization) and the RNG (computations that draw) thread sequentially
// through the walk, so a fixed seed yields an identical trace.
package eval
