package energy

import (
	"errors"
	"math"
	"testing"

	"github.com/dshills/diagen/pkg/analyze"
	"github.com/dshills/diagen/pkg/fns"
	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/rng"
	"github.com/dshills/diagen/pkg/trans"
)

func newRNG() *rng.RNG {
	return rng.NewRNG(17, "energy", []byte("test"))
}

func mustInsert(t *testing.T, tr *trans.Translation, p ir.Path, te ir.TagExpr) {
	t.Helper()
	if err := tr.InsertPath(p, te, false); err != nil {
		t.Fatalf("failed to insert %s: %v", p.Key(), err)
	}
}

// distScene: A.center free at (3,4) via the overlay, B.center fixed (0,0),
// one dist objective.
func distScene(t *testing.T) (*Energy, []float64) {
	t.Helper()
	tr := trans.New()
	mustInsert(t, tr, ir.Field("A", "center"), ir.OptEval{E: ir.VectorExpr{
		Elems: []ir.Expr{ir.Vary(), ir.Vary()},
	}})
	mustInsert(t, tr, ir.Field("B", "center"), ir.OptEval{E: ir.VectorExpr{
		Elems: []ir.Expr{ir.Fix(0), ir.Fix(0)},
	}})

	varying := []ir.Path{
		ir.Access(ir.Field("A", "center"), 0),
		ir.Access(ir.Field("A", "center"), 1),
	}
	objs := []analyze.Fn{{
		Name: "dist",
		Args: []ir.Expr{
			ir.EPath{P: ir.Field("A", "center")},
			ir.EPath{P: ir.Field("B", "center")},
		},
	}}
	e := &Energy{Trans: tr, Objs: objs, Varying: varying}
	return e, []float64{3, 4}
}

func TestEval_Objective(t *testing.T) {
	e, vals := distScene(t)
	got, err := e.Eval(newRNG(), InitWeight, vals)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if math.Abs(got-5) > 1e-9 {
		t.Errorf("energy = %v, want 5", got)
	}
}

func TestEval_ConstraintPenalty(t *testing.T) {
	tr := trans.New()
	mustInsert(t, tr, ir.Field("c", "val"), ir.OptEval{E: ir.Vary()})

	varying := []ir.Path{ir.Field("c", "val")}
	constrs := []analyze.Fn{{
		Name: "greaterThan",
		Args: []ir.Expr{ir.EPath{P: ir.Field("c", "val")}, ir.Fix(0)},
	}}
	e := &Energy{Trans: tr, Constrs: constrs, Varying: varying}

	got, err := e.Eval(newRNG(), InitWeight, []float64{-2})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	// Violation 2, squared, scaled by ConstrWeight * InitWeight.
	if min := ConstrWeight * InitWeight * 2; got < min {
		t.Errorf("energy = %v, want >= %v", got, min)
	}

	// Satisfied constraint contributes nothing.
	got, err = e.Eval(newRNG(), InitWeight, []float64{3})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 0 {
		t.Errorf("energy = %v, want 0", got)
	}
}

func TestEval_WeightScaling(t *testing.T) {
	tr := trans.New()
	mustInsert(t, tr, ir.Field("c", "val"), ir.OptEval{E: ir.Vary()})
	constrs := []analyze.Fn{{
		Name: "greaterThan",
		Args: []ir.Expr{ir.EPath{P: ir.Field("c", "val")}, ir.Fix(0)},
	}}
	e := &Energy{Trans: tr, Constrs: constrs, Varying: []ir.Path{ir.Field("c", "val")}}

	at := func(w float64) float64 {
		got, err := e.Eval(newRNG(), w, []float64{-1})
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		return got
	}
	if a, b := at(1), at(10); math.Abs(b-10*a) > 1e-9 {
		t.Errorf("weight scaling broken: %v vs %v", a, b)
	}
}

func TestEval_PureInTranslation(t *testing.T) {
	e, vals := distScene(t)

	if _, err := e.Eval(newRNG(), InitWeight, vals); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	after, err := e.Trans.LookupField(ir.Field("A", "center"))
	if err != nil {
		t.Fatalf("LookupField: %v", err)
	}
	// The caller's translation still holds the deferred expression.
	if _, ok := after.(ir.FExpr).T.(ir.OptEval); !ok {
		t.Errorf("energy evaluation mutated the translation: %T", after.(ir.FExpr).T)
	}
}

func TestEval_UnknownFunction(t *testing.T) {
	tr := trans.New()
	e := &Energy{Trans: tr, Objs: []analyze.Fn{{Name: "nosuch"}}}
	if _, err := e.Eval(newRNG(), InitWeight, nil); !errors.Is(err, fns.ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestGrad(t *testing.T) {
	e, _ := distScene(t)
	grad, err := e.Grad(newRNG(), InitWeight, []float64{3, 4})
	if err != nil {
		t.Fatalf("Grad: %v", err)
	}
	// d/dx dist((x,y),(0,0)) = x/r, y/r at (3,4) with r=5.
	if math.Abs(grad[0]-0.6) > 1e-4 || math.Abs(grad[1]-0.8) > 1e-4 {
		t.Errorf("grad = %v, want [0.6 0.8]", grad)
	}
}
