// Package trans implements the translation store: the two-level mapping from
// object name to field name to field body that the upstream compiler produces
// and every later stage reads and writes.
//
// The store is insertion-ordered at both levels. Folds, analyzer traversals
// and samplers iterate objects and fields in the order the compiler inserted
// them, which is what makes the whole pipeline reproducible for a fixed seed.
//
// A field body is either a plain tagged expression or a graphical primitive
// carrying its own property dictionary (see package ir). Lookup and insertion
// are path-driven; insertion fails on an existing target unless the caller
// passes override, which the evaluator does for memoization writes.
//
// Warnings accumulated during analysis and sampling live on the translation
// and are cleared on resample. They are notes, never failures.
package trans
