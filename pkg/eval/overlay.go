package eval

import (
	"fmt"

	"github.com/dshills/diagen/pkg/ir"
)

// Overlay maps varying-path keys to the optimizer's current scalar values.
// It is consulted before the translation during path resolution and never
// mutated by the evaluator.
type Overlay map[string]float64

// NewOverlay pairs varying paths with their current values. Lengths must
// agree; the pairing is positional.
func NewOverlay(paths []ir.Path, vals []float64) (Overlay, error) {
	if len(paths) != len(vals) {
		return nil, fmt.Errorf("eval: %d varying paths but %d values", len(paths), len(vals))
	}
	ov := make(Overlay, len(paths))
	for i, p := range paths {
		ov[p.Key()] = vals[i]
	}
	return ov, nil
}

// scalar returns the overlay value stored directly at p.
func (ov Overlay) scalar(p ir.Path) (float64, bool) {
	if ov == nil {
		return 0, false
	}
	v, ok := ov[p.Key()]
	return v, ok
}

// element returns the overlay value for component i of the vector at p.
func (ov Overlay) element(p ir.Path, i int) (float64, bool) {
	if ov == nil {
		return 0, false
	}
	v, ok := ov[ir.Access(p, i).Key()]
	return v, ok
}

// hasElements reports whether any component of the vector at p is overlaid.
// The optimized-vector policy fixes vectors at two components.
func (ov Overlay) hasElements(p ir.Path) bool {
	if ov == nil {
		return false
	}
	for i := 0; i < 2; i++ {
		if _, ok := ov[ir.Access(p, i).Key()]; ok {
			return true
		}
	}
	return false
}
