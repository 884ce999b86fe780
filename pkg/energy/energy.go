// Package energy assembles the scalar function the numerical optimizer
// minimizes: the sum of every declared and default objective, plus the
// penalty-weighted sum of every constraint, over the varying state.
//
// The assembler owns no mutable state. Each evaluation clones the
// translation, lays the candidate varying values over it, evaluates every
// function's arguments, and applies the registered function bodies. The
// clone keeps memoization writes that depend on the candidate out of the
// caller's translation, so the energy is a pure function of the vector.
//
// The energy is total on valid states: an unknown function name, a bad
// arity or an argument type mismatch is a hard error, not a large value.
package energy

import (
	"fmt"

	"github.com/dshills/diagen/pkg/analyze"
	"github.com/dshills/diagen/pkg/eval"
	"github.com/dshills/diagen/pkg/fns"
	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/rng"
	"github.com/dshills/diagen/pkg/trans"
)

const (
	// ConstrWeight scales the constraint penalty sum.
	ConstrWeight = 1e4

	// InitWeight is the penalty weight a fresh optimization starts with.
	InitWeight = 1e-3
)

// Energy is the assembled optimization problem over one translation.
type Energy struct {
	Trans   *trans.Translation
	Objs    []analyze.Fn
	Constrs []analyze.Fn
	Varying []ir.Path
}

// Eval computes the energy at the given varying values:
//
//	sum(objectives) + ConstrWeight * weight * sum(constraints)
func (e *Energy) Eval(r *rng.RNG, weight float64, vals []float64) (float64, error) {
	ov, err := eval.NewOverlay(e.Varying, vals)
	if err != nil {
		return 0, err
	}
	c := &eval.Context{Trans: e.Trans.Clone(), Overlay: ov, R: r}

	objSum, err := applyAll(c, e.Objs, fns.Obj, "objective")
	if err != nil {
		return 0, err
	}
	constrSum, err := applyAll(c, e.Constrs, fns.Constr, "constraint")
	if err != nil {
		return 0, err
	}
	return objSum + ConstrWeight*weight*constrSum, nil
}

// applyAll evaluates each descriptor's arguments under the overlay and
// applies its registered body, summing the results.
func applyAll(c *eval.Context, list []analyze.Fn, lookup func(string) fns.ScalarFunc, what string) (float64, error) {
	sum := 0.0
	for _, f := range list {
		fn := lookup(f.Name)
		if fn == nil {
			return 0, fmt.Errorf("%w: %s %q", fns.ErrUnknownFunction, what, f.Name)
		}
		args, err := eval.EvalExprs(c, 0, f.Args)
		if err != nil {
			return 0, fmt.Errorf("%s %q: %w", what, f.Name, err)
		}
		v, err := fn(args)
		if err != nil {
			return 0, fmt.Errorf("%s %q: %w", what, f.Name, err)
		}
		sum += v
	}
	return sum, nil
}

// gradStep is the central-difference step for Grad.
const gradStep = 1e-5

// Grad estimates the energy gradient by central differences, one coordinate
// at a time. It is the numerical boundary handed to optimizers that need
// derivatives; an embedder with an autodiff layer can wrap Eval instead.
func (e *Energy) Grad(r *rng.RNG, weight float64, vals []float64) ([]float64, error) {
	grad := make([]float64, len(vals))
	probe := make([]float64, len(vals))
	copy(probe, vals)
	for i := range vals {
		probe[i] = vals[i] + gradStep
		hi, err := e.Eval(r, weight, probe)
		if err != nil {
			return nil, err
		}
		probe[i] = vals[i] - gradStep
		lo, err := e.Eval(r, weight, probe)
		if err != nil {
			return nil, err
		}
		probe[i] = vals[i]
		grad[i] = (hi - lo) / (2 * gradStep)
	}
	return grad, nil
}
