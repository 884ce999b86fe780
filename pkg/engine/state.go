package engine

import (
	"fmt"

	"github.com/dshills/diagen/pkg/analyze"
	"github.com/dshills/diagen/pkg/energy"
	"github.com/dshills/diagen/pkg/eval"
	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/layering"
	"github.com/dshills/diagen/pkg/rng"
	"github.com/dshills/diagen/pkg/sampler"
	"github.com/dshills/diagen/pkg/shapes"
	"github.com/dshills/diagen/pkg/trans"
)

// State is the frozen output of problem construction: everything the
// optimizer, the resampler and the renderer need. The translation inside it
// stays the source of truth; VaryingState is an overlay consulted before it
// during evaluation.
type State struct {
	// Shapes is the evaluated shape list in declaration order. Empty until
	// a resample runs (EvalTranslation returns shapes without storing them
	// here); shape evaluation is deferred so a computation only rendering
	// needs cannot fail the build.
	Shapes []ir.Shape

	// ShapePaths names each shape field, aligned with Shapes.
	ShapePaths []ir.FieldPath

	// ShapeOrdering is the total layering order over shape names.
	ShapeOrdering []string

	// ShapeProperties lists every (object, field, property) triple.
	ShapeProperties []analyze.PropTriple

	// Translation is the unevaluated store, the source of truth for
	// re-evaluation.
	Translation *trans.Translation

	// VaryingPaths is the ordered list of free scalar slots.
	VaryingPaths []ir.Path

	// UninitializedPaths lists non-scalar slots re-substituted after a
	// resample.
	UninitializedPaths []ir.Path

	// PendingPaths lists slots whose value arrives externally.
	PendingPaths []ir.Path

	// VaryingState holds the current scalar values, aligned with
	// VaryingPaths.
	VaryingState []float64

	// Params is the optimizer control block.
	Params Params

	// ObjFns and ConstrFns are the resolved function descriptors, declared
	// plus catalog defaults.
	ObjFns    []analyze.Fn
	ConstrFns []analyze.Fn

	// RNG is the current seeded generator, advanced by sampling.
	RNG *rng.RNG

	// OptConfig is the selected optimization method and resample behavior.
	OptConfig OptCfg

	// canvas and seed material for stage RNG derivation.
	canvas  shapes.Canvas
	seed    uint64
	cfgHash []byte
}

// Compile checks a translation against the registries and builds the
// initial state. Registry failures surface as *TypecheckError, layering
// cycles as *LayeringError.
func Compile(t *trans.Translation, cfg *Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if terr := typecheck(t); terr != nil {
		return nil, terr
	}
	return GenOptProblemAndState(t, cfg)
}

// GenOptProblemAndState discovers the problem structure, samples every open
// slot, harvests the functions, solves the layering order and freezes the
// initial state. Shapes are not evaluated here.
func GenOptProblemAndState(t *trans.Translation, cfg *Config) (*State, error) {
	canvas := cfg.ShapeCanvas()
	hash := cfg.Hash()
	r := rng.NewRNG(cfg.Seed, "sampling", hash)

	varying := analyze.VaryingPaths(t)
	uninit := analyze.UninitializedPaths(t)
	shapePaths := analyze.ShapePaths(t)

	if err := sampler.SampleFields(t, varying, r, canvas); err != nil {
		return nil, fmt.Errorf("sampling fields: %w", err)
	}
	if err := sampler.SampleShapes(t, shapePaths, r, canvas); err != nil {
		return nil, fmt.Errorf("sampling shapes: %w", err)
	}

	pending := analyze.PendingPaths(t)

	objs, constrs := analyze.DeclaredFns(t)
	defObjs, defConstrs := analyze.DefaultFns(t)
	objs = append(objs, defObjs...)
	constrs = append(constrs, defConstrs...)

	vstate, err := t.LookupPaths(varying)
	if err != nil {
		return nil, fmt.Errorf("reading varying state: %w", err)
	}

	ordering, err := layering.Compute(t)
	if err != nil {
		return nil, &LayeringError{Msg: err.Error()}
	}

	return &State{
		ShapePaths:         shapePaths,
		ShapeOrdering:      ordering,
		ShapeProperties:    analyze.ShapeProperties(t),
		Translation:        t,
		VaryingPaths:       varying,
		UninitializedPaths: uninit,
		PendingPaths:       pending,
		VaryingState:       vstate,
		Params:             NewParams(),
		ObjFns:             objs,
		ConstrFns:          constrs,
		RNG:                r,
		OptConfig:          cfg.Opt,
		canvas:             canvas,
		seed:               cfg.Seed,
		cfgHash:            hash,
	}, nil
}

// EvalTranslation evaluates every shape under the current varying state and
// returns the shape list in declaration order together with the memoized
// translation it was evaluated against. The state itself is not modified.
func (s *State) EvalTranslation() ([]ir.Shape, *trans.Translation, error) {
	ov, err := eval.NewOverlay(s.VaryingPaths, s.VaryingState)
	if err != nil {
		return nil, nil, err
	}
	c := &eval.Context{Trans: s.Translation.Clone(), Overlay: ov, R: s.RNG}
	out, err := eval.EvalShapes(c, s.ShapePaths)
	if err != nil {
		return nil, nil, err
	}
	return out, c.Trans, nil
}

// energyFn assembles the state's energy function.
func (s *State) energyFn() *energy.Energy {
	return &energy.Energy{
		Trans:   s.Translation,
		Objs:    s.ObjFns,
		Constrs: s.ConstrFns,
		Varying: s.VaryingPaths,
	}
}

// energyRNG derives the stage generator energy evaluation draws from.
// Deriving it fresh per call keeps the energy pure in the varying vector.
func (s *State) energyRNG() *rng.RNG {
	return rng.NewRNG(s.seed, "energy", s.cfgHash)
}

// EvalEnergy computes the energy at the current varying state.
func (s *State) EvalEnergy() (float64, error) {
	return s.EvalEnergyOn(s.VaryingState)
}

// EvalEnergyOn computes the energy at an arbitrary varying vector using the
// current penalty weight.
func (s *State) EvalEnergyOn(vstate []float64) (float64, error) {
	return s.energyFn().Eval(s.energyRNG(), s.Params.Weight, vstate)
}

// GradEnergyOn estimates the energy gradient at a varying vector. This is
// the derivative boundary handed to the external optimizer.
func (s *State) GradEnergyOn(vstate []float64) ([]float64, error) {
	return s.energyFn().Grad(s.energyRNG(), s.Params.Weight, vstate)
}
