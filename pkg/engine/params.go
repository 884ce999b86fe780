package engine

import (
	"fmt"

	"github.com/dshills/diagen/pkg/energy"
)

// OptStatus is the optimizer's position in the exterior-point schedule.
type OptStatus int

const (
	// StatusNewIter means a fresh round is about to start.
	StatusNewIter OptStatus = iota
	// StatusUnconstrainedRunning means the inner unconstrained minimization
	// is in progress.
	StatusUnconstrainedRunning
	// StatusUnconstrainedConverged means the inner minimization converged
	// for the current penalty weight.
	StatusUnconstrainedConverged
	// StatusEPConverged means the exterior-point schedule has converged.
	StatusEPConverged
)

// String returns the string representation of the OptStatus.
func (s OptStatus) String() string {
	switch s {
	case StatusNewIter:
		return "NewIter"
	case StatusUnconstrainedRunning:
		return "UnconstrainedRunning"
	case StatusUnconstrainedConverged:
		return "UnconstrainedConverged"
	case StatusEPConverged:
		return "EPConverged"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// DefaultBfgsMemory is the L-BFGS history length.
const DefaultBfgsMemory = 17

// BfgsParams is the (L-)BFGS memory carried across optimizer steps. The
// engine only stores it; the embedder's optimizer reads and writes it.
type BfgsParams struct {
	// LastState and LastGrad are the previous iterate and gradient, nil
	// before the first step.
	LastState []float64
	LastGrad  []float64

	// InvH is the dense inverse Hessian approximation for full BFGS, nil
	// for the limited-memory variant.
	InvH [][]float64

	// SList and YList are the L-BFGS displacement and gradient-difference
	// histories, newest first, at most MemSize entries.
	SList [][]float64
	YList [][]float64

	// NumUnconstrSteps counts steps in the current unconstrained run.
	NumUnconstrSteps int

	// MemSize bounds the history length.
	MemSize int
}

// NewBfgsParams returns empty BFGS memory with the default history bound.
func NewBfgsParams() BfgsParams {
	return BfgsParams{MemSize: DefaultBfgsMemory}
}

// Params is the optimizer control block frozen into a State.
type Params struct {
	// Weight is the current exterior-point penalty weight.
	Weight float64

	// Status is the optimizer's schedule position.
	Status OptStatus

	// Bfgs is the quasi-Newton memory.
	Bfgs BfgsParams
}

// NewParams returns the control block a fresh or resampled state starts
// with: initial penalty weight, NewIter, empty BFGS memory.
func NewParams() Params {
	return Params{
		Weight: energy.InitWeight,
		Status: StatusNewIter,
		Bfgs:   NewBfgsParams(),
	}
}
