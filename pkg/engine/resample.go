package engine

import (
	"fmt"

	"github.com/dshills/diagen/pkg/energy"
	"github.com/dshills/diagen/pkg/eval"
	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/sampler"
	"github.com/dshills/diagen/pkg/trans"
)

// candidate is one resample draw: a freshly sampled translation and the
// varying vector read back from it.
type candidate struct {
	trans  *trans.Translation
	vstate []float64
	energy float64
}

// drawCandidate samples every shape property and free field afresh on a
// clone of the state's translation and reads back the varying vector.
func (s *State) drawCandidate() (*candidate, error) {
	c := s.Translation.Clone()
	if err := sampler.SampleShapes(c, s.ShapePaths, s.RNG, s.canvas); err != nil {
		return nil, err
	}
	if err := sampler.SampleFields(c, s.VaryingPaths, s.RNG, s.canvas); err != nil {
		return nil, err
	}
	vstate, err := c.LookupPaths(s.VaryingPaths)
	if err != nil {
		return nil, err
	}
	return &candidate{trans: c, vstate: vstate}, nil
}

// ResampleBest draws n candidates, scores each with the current penalty
// weight, and installs the lowest-energy one. n below 1 falls back to the
// configured resample count.
func (s *State) ResampleBest(n int) (*State, error) {
	if n < 1 {
		n = s.OptConfig.ResampleCount
	}

	var best *candidate
	for i := 0; i < n; i++ {
		cand, err := s.drawCandidate()
		if err != nil {
			return nil, fmt.Errorf("resample draw %d: %w", i, err)
		}
		en := &energy.Energy{
			Trans:   cand.trans,
			Objs:    s.ObjFns,
			Constrs: s.ConstrFns,
			Varying: s.VaryingPaths,
		}
		cand.energy, err = en.Eval(s.energyRNG(), s.Params.Weight, cand.vstate)
		if err != nil {
			return nil, fmt.Errorf("resample draw %d: %w", i, err)
		}
		if best == nil || cand.energy < best.energy {
			best = cand
		}
	}
	return s.apply(best)
}

// ResampleOne replaces the state with a single fresh draw.
func (s *State) ResampleOne() (*State, error) {
	return s.ResampleBest(1)
}

// apply installs a winning candidate: new shapes, re-substituted
// uninitialized values, cleared warnings, reset optimizer control.
func (s *State) apply(best *candidate) (*State, error) {
	next := *s
	next.Translation = best.trans
	next.VaryingState = best.vstate

	ov, err := eval.NewOverlay(next.VaryingPaths, next.VaryingState)
	if err != nil {
		return nil, err
	}
	c := &eval.Context{Trans: next.Translation.Clone(), Overlay: ov, R: s.RNG}
	shapesOut, err := eval.EvalShapes(c, next.ShapePaths)
	if err != nil {
		return nil, fmt.Errorf("evaluating resampled shapes: %w", err)
	}
	next.Shapes = shapesOut

	if err := reinsertUninitialized(next.Translation, next.UninitializedPaths, next.ShapePaths, shapesOut); err != nil {
		return nil, err
	}

	next.Translation.ClearWarnings()
	next.Params = NewParams()
	return &next, nil
}

// reinsertUninitialized writes the values the new shapes carry at the
// uninitialized paths back into the translation, so later evaluation passes
// see them without resampling.
func reinsertUninitialized(t *trans.Translation, uninit []ir.Path, shapePaths []ir.FieldPath, shapes []ir.Shape) error {
	byName := make(map[string]ir.Shape, len(shapes))
	for i, sp := range shapePaths {
		byName[sp.Key()] = shapes[i]
	}
	for _, p := range uninit {
		pp, ok := p.(ir.PropertyPath)
		if !ok {
			continue
		}
		shape, ok := byName[ir.FieldPath{Of: pp.Of, Field: pp.Field}.Key()]
		if !ok {
			continue
		}
		v, ok := shape.Props.Get(pp.Property)
		if !ok {
			continue
		}
		if err := t.InsertPath(pp, ir.Done{V: v}, true); err != nil {
			return fmt.Errorf("re-substituting %q: %w", pp.Key(), err)
		}
	}
	return nil
}
