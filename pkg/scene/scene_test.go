package scene

import (
	"reflect"
	"testing"

	"github.com/dshills/diagen/pkg/analyze"
	"github.com/dshills/diagen/pkg/ir"
)

func TestBuild_ShapesAndFields(t *testing.T) {
	doc := []byte(`
objects:
  A:
    shape:
      shape: Circle
      props:
        r: "?"
        center: {vec: ["?", "?"]}
  x:
    val: "?"
    fixed: 3.5
`)
	tr, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	gpi, err := tr.LookupGPI(ir.Field("A", "shape"))
	if err != nil {
		t.Fatalf("LookupGPI: %v", err)
	}
	if gpi.Type != "Circle" {
		t.Errorf("type = %q", gpi.Type)
	}
	rTag, err := tr.LookupProperty(ir.Property("A", "shape", "r"))
	if err != nil {
		t.Fatalf("LookupProperty: %v", err)
	}
	if !ir.IsVary(rTag.(ir.OptEval).E) {
		t.Errorf("r = %v, want free slot", rTag)
	}

	fixed, err := tr.LookupFloat(ir.Field("x", "fixed"))
	if err != nil {
		t.Fatalf("LookupFloat: %v", err)
	}
	if fixed != 3.5 {
		t.Errorf("fixed = %v", fixed)
	}

	varying := analyze.VaryingPaths(tr)
	keys := make([]string, len(varying))
	for i, p := range varying {
		keys[i] = p.Key()
	}
	want := []string{"A.shape.center[0]", "A.shape.center[1]", "A.shape.r", "x.val"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("varying = %v, want %v", keys, want)
	}
}

func TestBuild_Functions(t *testing.T) {
	doc := []byte(`
objects:
  A:
    shape: {shape: Circle}
  B:
    shape: {shape: Circle}
  spec:
    o1: {objective: near, args: [{path: A.shape}, {path: B.shape}]}
    c1: {constraint: nonOverlap, args: [{path: A.shape}, {path: B.shape}]}
    l1: {layering: {below: B.shape, above: A.shape}}
`)
	tr, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	objs, constrs := analyze.DeclaredFns(tr)
	if len(objs) != 1 || objs[0].Name != "near" {
		t.Errorf("objectives = %v", objs)
	}
	if len(constrs) != 1 || constrs[0].Name != "nonOverlap" {
		t.Errorf("constraints = %v", constrs)
	}
}

func TestBuild_Arithmetic(t *testing.T) {
	doc := []byte(`
objects:
  x:
    sum: {op: "+", left: 1.0, right: {op: "*", left: 2.0, right: 3.0}}
    neg: {neg: 4.0}
    call: {comp: midpoint, args: [{vec: [0.0, 0.0]}, {vec: [2.0, 2.0]}]}
`)
	tr, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	fe, err := tr.LookupField(ir.Field("x", "sum"))
	if err != nil {
		t.Fatalf("LookupField: %v", err)
	}
	bin, ok := fe.(ir.FExpr).T.(ir.OptEval).E.(ir.BinOp)
	if !ok || bin.Op != ir.BPlus {
		t.Errorf("sum = %#v", fe)
	}
}

func TestParsePathRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A.val", "A.val"},
		{"A.shape.r", "A.shape.r"},
		{"A.center[1]", "A.center[1]"},
		{"A.shape.center[0]", "A.shape.center[0]"},
	}
	for _, tt := range tests {
		p, err := ParsePathRef(tt.in)
		if err != nil {
			t.Errorf("ParsePathRef(%q): %v", tt.in, err)
			continue
		}
		if p.Key() != tt.want {
			t.Errorf("ParsePathRef(%q).Key() = %q", tt.in, p.Key())
		}
	}

	for _, bad := range []string{"A", "A.b.c.d", "A.val[x]", "A.val[1"} {
		if _, err := ParsePathRef(bad); err == nil {
			t.Errorf("ParsePathRef(%q) should fail", bad)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	cases := map[string]string{
		"no objects":   "foo: 1",
		"bad expr":     "objects: {x: {val: {bogus: 1}}}",
		"bad layering": "objects: {x: {l: {layering: {below: A.s}}}}",
		"bad tuple":    "objects: {x: {t: {tuple: [1.0]}}}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Build([]byte(doc)); err == nil {
				t.Errorf("expected error for %q", doc)
			}
		})
	}
}

func TestBuild_DuplicateField(t *testing.T) {
	doc := []byte(`
objects:
  x:
    val: 1.0
    val: 2.0
`)
	// yaml.v3 rejects duplicate mapping keys itself; either way, Build must
	// not silently keep both.
	if _, err := Build(doc); err == nil {
		t.Skip("duplicate keys collapsed by the decoder")
	}
}
