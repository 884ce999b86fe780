// Package analyze contains the read-only traversals over a translation that
// set up the optimization problem: which scalar slots are free, which shape
// properties still need initial values, which are awaiting external
// substitution, where the shapes are, and which objective and constraint
// functions the style declared or the shape catalog attaches by default.
//
// Every traversal is a fold over the store in insertion order, so results are
// deterministic for a given translation. The only mutation any of them
// performs is appending translation warnings for slots the policy rejects
// (e.g. a varying vector with more than two components).
package analyze
