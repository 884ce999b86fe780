// Package shapes is the shape catalog: the data-driven schema registry that
// tells the rest of the engine what a shape type is made of.
//
// A schema lists a type's properties in declaration order, each with a value
// kind and a sampler that draws an initial value from the stage RNG. The
// schema also marks which properties are pending (their real value arrives
// from outside, e.g. measured text extents), which objective and constraint
// functions a type carries by default, and which properties are computed on
// demand from sibling properties instead of being stored.
//
// The catalog is a global registry in the same style as the engine's function
// dictionaries: implementations register themselves by type name, and
// registration panics on duplicates. The built-in types cover the standard
// drawing vocabulary; plugins may register more at init time.
package shapes
