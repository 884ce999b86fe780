package sampler

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/diagen/pkg/analyze"
	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/rng"
	"github.com/dshills/diagen/pkg/shapes"
	"github.com/dshills/diagen/pkg/trans"
)

var testCanvas = shapes.Canvas{Width: 800, Height: 700}

func newRNG(seed uint64) *rng.RNG {
	return rng.NewRNG(seed, "sampling", []byte("test"))
}

func mustInsert(t *testing.T, tr *trans.Translation, p ir.Path, te ir.TagExpr) {
	t.Helper()
	if err := tr.InsertPath(p, te, false); err != nil {
		t.Fatalf("failed to insert %s: %v", p.Key(), err)
	}
}

func TestSampleShapes_FillsSchema(t *testing.T) {
	tr := trans.New()
	sp := ir.Field("C", "shape")
	tr.InsertGPI(sp, "Circle")

	if err := SampleShapes(tr, []ir.FieldPath{sp}, newRNG(17), testCanvas); err != nil {
		t.Fatalf("SampleShapes: %v", err)
	}

	gpi, err := tr.LookupGPI(sp)
	if err != nil {
		t.Fatalf("LookupGPI: %v", err)
	}

	// Every schema property plus the injected name, in schema order.
	want := []string{"center", "r", "strokeWidth", "color", "strokeColor", "strokeStyle", "name"}
	if got := gpi.Props.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("sampled keys = %v, want %v", got, want)
	}

	name, _ := gpi.Props.Get("name")
	if name.(ir.Done).V != ir.StrV("C.shape") {
		t.Errorf("name = %v, want C.shape", name)
	}

	r, _ := gpi.Props.Get("r")
	f, err := ir.AsFloat(r.(ir.Done).V)
	if err != nil {
		t.Fatalf("r is not a float: %v", err)
	}
	if f < 10 || f > 90 {
		t.Errorf("r = %v outside sampler range [10, 90]", f)
	}
}

func TestSampleShapes_PendingTag(t *testing.T) {
	tr := trans.New()
	sp := ir.Field("T", "label")
	tr.InsertGPI(sp, "Text")

	if err := SampleShapes(tr, []ir.FieldPath{sp}, newRNG(17), testCanvas); err != nil {
		t.Fatalf("SampleShapes: %v", err)
	}

	gpi, _ := tr.LookupGPI(sp)
	w, _ := gpi.Props.Get("finalW")
	if _, ok := w.(ir.Pending); !ok {
		t.Errorf("finalW tagged %T, want Pending", w)
	}
	str, _ := gpi.Props.Get("string")
	if _, ok := str.(ir.Done); !ok {
		t.Errorf("string tagged %T, want Done", str)
	}
}

func TestSampleShapes_RespectsDeclared(t *testing.T) {
	tr := trans.New()
	sp := ir.Field("C", "shape")
	tr.InsertGPI(sp, "Circle")
	mustInsert(t, tr, ir.Property("C", "shape", "r"), ir.Done{V: ir.FloatV(42)})
	expr := ir.OptEval{E: ir.BinOp{Op: ir.BPlus, Left: ir.Fix(1), Right: ir.Fix(2)}}
	mustInsert(t, tr, ir.Property("C", "shape", "strokeWidth"), expr)

	if err := SampleShapes(tr, []ir.FieldPath{sp}, newRNG(17), testCanvas); err != nil {
		t.Fatalf("SampleShapes: %v", err)
	}

	gpi, _ := tr.LookupGPI(sp)
	r, _ := gpi.Props.Get("r")
	if r.(ir.Done).V != ir.FloatV(42) {
		t.Errorf("declared Done value resampled: %v", r)
	}
	sw, _ := gpi.Props.Get("strokeWidth")
	if !reflect.DeepEqual(sw, ir.TagExpr(expr)) {
		t.Errorf("stored expression disturbed: %v", sw)
	}
}

func TestSampleShapes_ResamplesVary(t *testing.T) {
	tr := trans.New()
	sp := ir.Field("C", "shape")
	tr.InsertGPI(sp, "Circle")
	mustInsert(t, tr, ir.Property("C", "shape", "r"), ir.OptEval{E: ir.Vary()})
	mustInsert(t, tr, ir.Property("C", "shape", "center"), ir.OptEval{E: ir.VectorExpr{
		Elems: []ir.Expr{ir.Vary(), ir.Vary()},
	}})

	if err := SampleShapes(tr, []ir.FieldPath{sp}, newRNG(17), testCanvas); err != nil {
		t.Fatalf("SampleShapes: %v", err)
	}

	gpi, _ := tr.LookupGPI(sp)
	r, _ := gpi.Props.Get("r")
	if _, ok := r.(ir.Done); !ok {
		t.Fatalf("free r tagged %T, want Done", r)
	}
	cen, _ := gpi.Props.Get("center")
	done, ok := cen.(ir.Done)
	if !ok {
		t.Fatalf("free center tagged %T, want Done", cen)
	}
	vec, ok := done.V.(ir.VectorV)
	if !ok || len(vec) != 2 {
		t.Fatalf("center = %v, want a 2-vector", done.V)
	}
}

func TestSampleShapes_MixedVectorKeepsFixed(t *testing.T) {
	tr := trans.New()
	sp := ir.Field("L", "shape")
	tr.InsertGPI(sp, "Line")
	mustInsert(t, tr, ir.Property("L", "shape", "start"), ir.OptEval{E: ir.VectorExpr{
		Elems: []ir.Expr{ir.Fix(25), ir.Vary()},
	}})

	if err := SampleShapes(tr, []ir.FieldPath{sp}, newRNG(17), testCanvas); err != nil {
		t.Fatalf("SampleShapes: %v", err)
	}

	gpi, _ := tr.LookupGPI(sp)
	start, _ := gpi.Props.Get("start")
	vec := start.(ir.Done).V.(ir.VectorV)
	if vec[0] != 25 {
		t.Errorf("fixed component resampled: %v", vec[0])
	}
	// The free component draws from the same centered range the catalog's
	// position samplers use, not the field-scalar range.
	if vec[1] < -testCanvas.HalfH() || vec[1] >= testCanvas.HalfH() {
		t.Errorf("free component %v outside [-%v, %v)", vec[1], testCanvas.HalfH(), testCanvas.HalfH())
	}
}

func TestSampleFields(t *testing.T) {
	tr := trans.New()
	mustInsert(t, tr, ir.Field("x", "val"), ir.OptEval{E: ir.Vary()})
	mustInsert(t, tr, ir.Field("x", "center"), ir.OptEval{E: ir.VectorExpr{
		Elems: []ir.Expr{ir.Vary(), ir.Vary()},
	}})
	varying := analyze.VaryingPaths(tr)

	if err := SampleFields(tr, varying, newRNG(17), testCanvas); err != nil {
		t.Fatalf("SampleFields: %v", err)
	}

	vals, err := tr.LookupPaths(varying)
	if err != nil {
		t.Fatalf("LookupPaths: %v", err)
	}
	if len(vals) != 3 {
		t.Fatalf("got %d varying values, want 3", len(vals))
	}
	if vals[0] < 0 || vals[0] > testCanvas.Width {
		t.Errorf("field sample %v outside [0, width]", vals[0])
	}
}

// Sampling with the same seed on the same translation produces identical
// results.
func TestSampling_Determinism(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")

		build := func() *trans.Translation {
			tr := trans.New()
			tr.InsertGPI(ir.Field("C", "shape"), "Circle")
			tr.InsertGPI(ir.Field("D", "shape"), "Square")
			return tr
		}
		sample := func(seed uint64) []float64 {
			tr := build()
			paths := analyze.ShapePaths(tr)
			varying := analyze.VaryingPaths(tr)
			if err := SampleShapes(tr, paths, rng.NewRNG(seed, "sampling", []byte("cfg")), testCanvas); err != nil {
				rt.Fatalf("SampleShapes: %v", err)
			}
			vals, err := tr.LookupPaths(varying)
			if err != nil {
				rt.Fatalf("LookupPaths: %v", err)
			}
			return vals
		}

		a := sample(seed)
		b := sample(seed)
		if !reflect.DeepEqual(a, b) {
			rt.Fatalf("same seed diverged: %v vs %v", a, b)
		}
	})
}
