package fns

import (
	"math"
	"testing"

	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/rng"
)

func val(v ir.Value) ir.ArgVal { return ir.Val{V: v} }

func vec(x, y float64) ir.ArgVal { return val(ir.VectorV{x, y}) }

func circle(name string, cx, cy, r float64) ir.ArgVal {
	s := ir.NewShape("Circle")
	s.Props.Set("center", ir.VectorV{cx, cy})
	s.Props.Set("r", ir.FloatV(r))
	s.Props.Set(ir.NameProperty, ir.StrV(name))
	return ir.GPI{S: s}
}

func TestRegistryLookups(t *testing.T) {
	if Comp("midpoint") == nil {
		t.Error("midpoint computation missing")
	}
	if Obj("dist") == nil {
		t.Error("dist objective missing")
	}
	if Constr("contains") == nil {
		t.Error("contains constraint missing")
	}
	if Comp("nosuch") != nil || Obj("nosuch") != nil || Constr("nosuch") != nil {
		t.Error("unknown names must return nil")
	}
}

func TestObjDist(t *testing.T) {
	got, err := Obj("dist")([]ir.ArgVal{vec(3, 4), vec(0, 0)})
	if err != nil {
		t.Fatalf("dist: %v", err)
	}
	if math.Abs(got-5) > 1e-12 {
		t.Errorf("dist = %v, want 5", got)
	}

	// Shapes contribute their centers
	got, err = Obj("dist")([]ir.ArgVal{circle("A.s", 3, 4, 1), circle("B.s", 0, 0, 1)})
	if err != nil {
		t.Fatalf("dist on shapes: %v", err)
	}
	if math.Abs(got-5) > 1e-12 {
		t.Errorf("dist on shapes = %v, want 5", got)
	}
}

func TestObjArityAndTypes(t *testing.T) {
	if _, err := Obj("dist")([]ir.ArgVal{vec(0, 0)}); err == nil {
		t.Error("dist with one arg should fail")
	}
	if _, err := Obj("equal")([]ir.ArgVal{val(ir.StrV("x")), val(ir.FloatV(1))}); err == nil {
		t.Error("equal on a string should fail")
	}
}

func TestConstrGreaterThan(t *testing.T) {
	// Violated by 2: squared penalty
	got, err := Constr("greaterThan")([]ir.ArgVal{val(ir.FloatV(-2)), val(ir.FloatV(0))})
	if err != nil {
		t.Fatalf("greaterThan: %v", err)
	}
	if got != 4 {
		t.Errorf("penalty = %v, want 4", got)
	}

	// Satisfied: zero
	got, err = Constr("greaterThan")([]ir.ArgVal{val(ir.FloatV(3)), val(ir.FloatV(0))})
	if err != nil {
		t.Fatalf("greaterThan: %v", err)
	}
	if got != 0 {
		t.Errorf("penalty = %v, want 0", got)
	}
}

func TestConstrContains(t *testing.T) {
	outer := circle("O.s", 0, 0, 50)
	insideOK := circle("I.s", 10, 0, 20)
	outside := circle("X.s", 100, 0, 20)

	got, err := Constr("contains")([]ir.ArgVal{outer, insideOK})
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if got != 0 {
		t.Errorf("satisfied contains penalty = %v, want 0", got)
	}

	got, err = Constr("contains")([]ir.ArgVal{outer, outside})
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if got <= 0 {
		t.Errorf("violated contains penalty = %v, want > 0", got)
	}
}

func TestConstrNonOverlap(t *testing.T) {
	a := circle("A.s", 0, 0, 10)
	b := circle("B.s", 50, 0, 10)
	c := circle("C.s", 5, 0, 10)

	got, err := Constr("nonOverlap")([]ir.ArgVal{a, b})
	if err != nil {
		t.Fatalf("nonOverlap: %v", err)
	}
	if got != 0 {
		t.Errorf("separated penalty = %v, want 0", got)
	}

	got, err = Constr("nonOverlap")([]ir.ArgVal{a, c})
	if err != nil {
		t.Fatalf("nonOverlap: %v", err)
	}
	if got <= 0 {
		t.Errorf("overlapping penalty = %v, want > 0", got)
	}
}

func TestConstrSizeBounds(t *testing.T) {
	small := circle("S.s", 0, 0, 1)
	big := circle("B.s", 0, 0, 1000)
	ok := circle("O.s", 0, 0, 50)

	if got, _ := Constr("minSize")([]ir.ArgVal{small}); got <= 0 {
		t.Errorf("minSize on tiny shape = %v, want > 0", got)
	}
	if got, _ := Constr("maxSize")([]ir.ArgVal{big}); got <= 0 {
		t.Errorf("maxSize on huge shape = %v, want > 0", got)
	}
	if got, _ := Constr("minSize")([]ir.ArgVal{ok}); got != 0 {
		t.Errorf("minSize on normal shape = %v, want 0", got)
	}
	if got, _ := Constr("maxSize")([]ir.ArgVal{ok}); got != 0 {
		t.Errorf("maxSize on normal shape = %v, want 0", got)
	}
}

func TestCompMidpointAndNorm(t *testing.T) {
	r := rng.NewRNG(17, "test", []byte("h"))

	v, err := Comp("midpoint")([]ir.ArgVal{vec(0, 0), vec(4, 6)}, r)
	if err != nil {
		t.Fatalf("midpoint: %v", err)
	}
	mid, ok := v.(ir.VectorV)
	if !ok || mid[0] != 2 || mid[1] != 3 {
		t.Errorf("midpoint = %v, want [2 3]", v)
	}

	v, err = Comp("norm")([]ir.ArgVal{vec(3, 4)}, r)
	if err != nil {
		t.Fatalf("norm: %v", err)
	}
	if v != ir.FloatV(5) {
		t.Errorf("norm = %v, want 5", v)
	}
}

func TestCompRGBA(t *testing.T) {
	r := rng.NewRNG(17, "test", []byte("h"))
	args := []ir.ArgVal{
		val(ir.FloatV(0.1)), val(ir.FloatV(0.2)), val(ir.FloatV(0.3)), val(ir.FloatV(1)),
	}
	v, err := Comp("rgba")(args, r)
	if err != nil {
		t.Fatalf("rgba: %v", err)
	}
	c, ok := v.(ir.ColorV)
	if !ok || c.Space != ir.ColorRGBA || c.B != 0.2 {
		t.Errorf("rgba = %v", v)
	}
}

func TestCompSampleFloatIn(t *testing.T) {
	r := rng.NewRNG(17, "test", []byte("h"))
	args := []ir.ArgVal{val(ir.FloatV(5)), val(ir.FloatV(6))}

	v, err := Comp("sampleFloatIn")(args, r)
	if err != nil {
		t.Fatalf("sampleFloatIn: %v", err)
	}
	f := float64(v.(ir.FloatV))
	if f < 5 || f >= 6 {
		t.Errorf("sample %v outside [5, 6)", f)
	}

	// Same seed, same draw
	r2 := rng.NewRNG(17, "test", []byte("h"))
	v2, err := Comp("sampleFloatIn")(args, r2)
	if err != nil {
		t.Fatalf("sampleFloatIn: %v", err)
	}
	if v != v2 {
		t.Errorf("same seed diverged: %v vs %v", v, v2)
	}

	// Empty range is a domain error
	if _, err := Comp("sampleFloatIn")([]ir.ArgVal{val(ir.FloatV(6)), val(ir.FloatV(5))}, r); err == nil {
		t.Error("inverted range should fail")
	}
}
