// Package rng is the deterministic random source the diagram engine threads
// through every call that draws.
//
// Each pipeline stage (sampling of fields and shapes, energy evaluation)
// gets its own generator, seeded from the master seed, the stage name and a
// hash of the configuration:
//
//	stageSeed = SHA-256(masterSeed || stage || configHash)[:8]
//
// so a run with the same seed and config replays exactly, distinct stages
// draw from unrelated streams, and any config change reshuffles everything.
//
// The surface is intentionally small: it is exactly the set of draws the
// samplers and computations perform. Instances are not safe for concurrent
// use; the core is single-threaded and passes one *RNG explicitly.
package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// RNG is the seeded generator for one pipeline stage.
type RNG struct {
	seed uint64
	src  *rand.Rand
}

// NewRNG derives a stage generator from the master seed, the stage name and
// the configuration hash.
func NewRNG(masterSeed uint64, stage string, configHash []byte) *RNG {
	seed := deriveSeed(masterSeed, stage, configHash)
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(int64(seed))),
	}
}

// deriveSeed folds the three seed inputs through SHA-256 and keeps the
// first eight bytes.
func deriveSeed(masterSeed uint64, stage string, configHash []byte) uint64 {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])
	h.Write([]byte(stage))
	h.Write(configHash)
	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}

// Seed returns the derived stage seed, for logging which stream a run used.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Float64 draws from [0, 1).
func (r *RNG) Float64() float64 {
	return r.src.Float64()
}

// Float64Range draws from [lo, hi).
// It panics if lo >= hi.
func (r *RNG) Float64Range(lo, hi float64) float64 {
	if lo >= hi {
		panic("rng: Float64Range needs lo < hi")
	}
	return lo + r.src.Float64()*(hi-lo)
}

// IntRange draws from [lo, hi].
// It panics if lo > hi.
func (r *RNG) IntRange(lo, hi int) int {
	if lo > hi {
		panic("rng: IntRange needs lo <= hi")
	}
	if lo == hi {
		return lo
	}
	return lo + r.src.Intn(hi-lo+1)
}
