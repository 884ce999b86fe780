// Package fns holds the three name-indexed function dictionaries the style
// language calls into: computations, objectives, and constraints.
//
// Computations are pure functions from evaluated arguments to a value; a few
// draw from the stage RNG (e.g. sampling a float in a range), which is why
// the RNG threads through the computation signature. Objectives and
// constraints map evaluated arguments to a scalar energy contribution and
// are strictly deterministic.
//
// Constraint functions return a penalty: zero when the constraint is
// satisfied and the squared violation otherwise, so the assembled energy
// stays smooth at the boundary.
//
// Arguments arrive as ir.ArgVal: plain values or whole evaluated shapes.
// Functions that accept "anything with a position" (near, repel, ...) take
// either a 2-vector or a shape, reading the shape's center or start/end
// midpoint. Arity and argument types are checked at call time; a mismatch is
// fatal to the compile, not a warning.
//
// All three dictionaries follow the engine's registry convention: Register
// panics on duplicates, the lookups (Comp, Obj, Constr) return nil for
// unknown names, and built-ins
// self-register at init.
package fns
