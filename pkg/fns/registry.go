package fns

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/rng"
)

// ErrUnknownFunction means a name had no entry in the consulted dictionary.
var ErrUnknownFunction = errors.New("fns: unknown function")

// CompFunc is a computation: evaluated arguments plus the stage RNG to a
// value. Implementations that draw must advance the RNG a fixed number of
// times per call.
type CompFunc func(args []ir.ArgVal, r *rng.RNG) (ir.Value, error)

// ScalarFunc is an objective or constraint body: evaluated arguments to a
// scalar energy contribution. Deterministic.
type ScalarFunc func(args []ir.ArgVal) (float64, error)

var (
	regMu   sync.RWMutex
	comps   = make(map[string]CompFunc)
	objs    = make(map[string]ScalarFunc)
	constrs = make(map[string]ScalarFunc)
)

// RegisterComp adds a computation to the dictionary.
// Panics if name is already registered.
func RegisterComp(name string, fn CompFunc) {
	regMu.Lock()
	defer regMu.Unlock()

	if _, exists := comps[name]; exists {
		panic(fmt.Sprintf("computation %q already registered", name))
	}

	comps[name] = fn
}

// RegisterObj adds an objective to the dictionary.
// Panics if name is already registered.
func RegisterObj(name string, fn ScalarFunc) {
	regMu.Lock()
	defer regMu.Unlock()

	if _, exists := objs[name]; exists {
		panic(fmt.Sprintf("objective %q already registered", name))
	}

	objs[name] = fn
}

// RegisterConstr adds a constraint to the dictionary.
// Panics if name is already registered.
func RegisterConstr(name string, fn ScalarFunc) {
	regMu.Lock()
	defer regMu.Unlock()

	if _, exists := constrs[name]; exists {
		panic(fmt.Sprintf("constraint %q already registered", name))
	}

	constrs[name] = fn
}

// Comp retrieves a computation by name, or nil.
func Comp(name string) CompFunc {
	regMu.RLock()
	defer regMu.RUnlock()

	return comps[name]
}

// Obj retrieves an objective by name, or nil.
func Obj(name string) ScalarFunc {
	regMu.RLock()
	defer regMu.RUnlock()

	return objs[name]
}

// Constr retrieves a constraint by name, or nil.
func Constr(name string) ScalarFunc {
	regMu.RLock()
	defer regMu.RUnlock()

	return constrs[name]
}

// HasObj reports whether an objective name is registered.
func HasObj(name string) bool { return Obj(name) != nil }

// HasConstr reports whether a constraint name is registered.
func HasConstr(name string) bool { return Constr(name) != nil }

// HasComp reports whether a computation name is registered.
func HasComp(name string) bool { return Comp(name) != nil }
