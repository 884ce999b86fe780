package shapes

import (
	"fmt"
	"math"

	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/rng"
)

// Samplers shared by the built-in schemas. Each draws a fixed number of
// values from the RNG so the draw sequence is stable.

func samplePos(r *rng.RNG, c Canvas) ir.Value {
	x := r.Float64Range(-c.HalfW(), c.HalfW())
	y := r.Float64Range(-c.HalfH(), c.HalfH())
	return ir.VectorV{x, y}
}

func sampleFloat(lo, hi float64) SampleFunc {
	return func(r *rng.RNG, _ Canvas) ir.Value {
		return ir.FloatV(r.Float64Range(lo, hi))
	}
}

func sampleColor(r *rng.RNG, _ Canvas) ir.Value {
	return ir.ColorV{
		Space: ir.ColorRGBA,
		A:     r.Float64(),
		B:     r.Float64(),
		C:     r.Float64(),
		D:     r.Float64Range(0.3, 1.0),
	}
}

func sampleStrokeColor(r *rng.RNG, _ Canvas) ir.Value {
	g := r.Float64Range(0.0, 0.4)
	return ir.ColorV{Space: ir.ColorRGBA, A: g, B: g, C: g, D: 1.0}
}

func sampleStyle(style string) SampleFunc {
	return func(_ *rng.RNG, _ Canvas) ir.Value {
		return ir.StyleV(style)
	}
}

func sampleStr(s string) SampleFunc {
	return func(_ *rng.RNG, _ Canvas) ir.Value {
		return ir.StrV(s)
	}
}

func sampleFile(_ *rng.RNG, _ Canvas) ir.Value {
	return ir.FileV("")
}

func sampleZero(_ *rng.RNG, _ Canvas) ir.Value {
	return ir.FloatV(0)
}

// samplePolyline draws a short random open polyline inside the canvas.
func samplePolyline(r *rng.RNG, c Canvas) ir.Value {
	pts := make(ir.PtListV, r.IntRange(3, 5))
	for i := range pts {
		pts[i] = ir.PtV{
			X: r.Float64Range(-c.HalfW(), c.HalfW()),
			Y: r.Float64Range(-c.HalfH(), c.HalfH()),
		}
	}
	return pts
}

// segmentLength derives the length of a start/end pair.
func segmentLength(args []ir.Value) (ir.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("length: want 2 args, got %d", len(args))
	}
	a, aok := args[0].(ir.VectorV)
	b, bok := args[1].(ir.VectorV)
	if !aok || !bok || len(a) != 2 || len(b) != 2 {
		return nil, fmt.Errorf("length: want two 2-vectors, got %s and %s",
			ir.ValueKindOf(args[0]), ir.ValueKindOf(args[1]))
	}
	return ir.FloatV(math.Hypot(b[0]-a[0], b[1]-a[1])), nil
}

func init() {
	Register(&Spec{
		Type: "Circle",
		Props: []PropSpec{
			{Name: "center", Kind: "vector", Sample: samplePos},
			{Name: "r", Kind: "float", Sample: sampleFloat(10, 90)},
			{Name: "strokeWidth", Kind: "float", Sample: sampleFloat(0.5, 3)},
			{Name: "color", Kind: "color", Sample: sampleColor},
			{Name: "strokeColor", Kind: "color", Sample: sampleStrokeColor},
			{Name: "strokeStyle", Kind: "style", Sample: sampleStyle("solid")},
		},
		DefaultConstraints: []string{"minSize", "maxSize"},
	})

	Register(&Spec{
		Type: "Ellipse",
		Props: []PropSpec{
			{Name: "center", Kind: "vector", Sample: samplePos},
			{Name: "rx", Kind: "float", Sample: sampleFloat(10, 90)},
			{Name: "ry", Kind: "float", Sample: sampleFloat(10, 90)},
			{Name: "strokeWidth", Kind: "float", Sample: sampleFloat(0.5, 3)},
			{Name: "color", Kind: "color", Sample: sampleColor},
			{Name: "strokeColor", Kind: "color", Sample: sampleStrokeColor},
		},
		DefaultConstraints: []string{"minSize", "maxSize"},
	})

	Register(&Spec{
		Type: "Square",
		Props: []PropSpec{
			{Name: "center", Kind: "vector", Sample: samplePos},
			{Name: "side", Kind: "float", Sample: sampleFloat(20, 100)},
			{Name: "rotation", Kind: "float", Sample: sampleZero},
			{Name: "strokeWidth", Kind: "float", Sample: sampleFloat(0.5, 3)},
			{Name: "color", Kind: "color", Sample: sampleColor},
			{Name: "strokeColor", Kind: "color", Sample: sampleStrokeColor},
			{Name: "strokeStyle", Kind: "style", Sample: sampleStyle("solid")},
		},
		DefaultConstraints: []string{"minSize", "maxSize"},
	})

	Register(&Spec{
		Type: "Rectangle",
		Props: []PropSpec{
			{Name: "center", Kind: "vector", Sample: samplePos},
			{Name: "w", Kind: "float", Sample: sampleFloat(20, 120)},
			{Name: "h", Kind: "float", Sample: sampleFloat(20, 120)},
			{Name: "rotation", Kind: "float", Sample: sampleZero},
			{Name: "color", Kind: "color", Sample: sampleColor},
			{Name: "strokeColor", Kind: "color", Sample: sampleStrokeColor},
		},
		DefaultConstraints: []string{"minSize", "maxSize"},
	})

	Register(&Spec{
		Type: "Line",
		Props: []PropSpec{
			{Name: "start", Kind: "vector", Sample: samplePos},
			{Name: "end", Kind: "vector", Sample: samplePos},
			{Name: "thickness", Kind: "float", Sample: sampleFloat(1, 4)},
			{Name: "color", Kind: "color", Sample: sampleStrokeColor},
			{Name: "style", Kind: "style", Sample: sampleStyle("solid")},
		},
		Computed: map[string]ComputedProp{
			"length": {Args: []string{"start", "end"}, Compute: segmentLength},
		},
	})

	Register(&Spec{
		Type: "Arrow",
		Props: []PropSpec{
			{Name: "start", Kind: "vector", Sample: samplePos},
			{Name: "end", Kind: "vector", Sample: samplePos},
			{Name: "thickness", Kind: "float", Sample: sampleFloat(1, 4)},
			{Name: "arrowheadSize", Kind: "float", Sample: sampleFloat(6, 12)},
			{Name: "color", Kind: "color", Sample: sampleStrokeColor},
			{Name: "style", Kind: "style", Sample: sampleStyle("solid")},
		},
		Computed: map[string]ComputedProp{
			"length": {Args: []string{"start", "end"}, Compute: segmentLength},
		},
	})

	Register(&Spec{
		Type: "Curve",
		Props: []PropSpec{
			{Name: "path", Kind: "ptlist", Sample: samplePolyline},
			{Name: "thickness", Kind: "float", Sample: sampleFloat(1, 3)},
			{Name: "color", Kind: "color", Sample: sampleStrokeColor},
			{Name: "style", Kind: "style", Sample: sampleStyle("solid")},
		},
	})

	Register(&Spec{
		Type: "Text",
		Props: []PropSpec{
			{Name: "center", Kind: "vector", Sample: samplePos},
			{Name: "string", Kind: "string", Sample: sampleStr("text")},
			{Name: "fontSize", Kind: "style", Sample: sampleStyle("12pt")},
			{Name: "rotation", Kind: "float", Sample: sampleZero},
			{Name: "finalW", Kind: "float", Pending: true, Sample: sampleFloat(20, 60)},
			{Name: "finalH", Kind: "float", Pending: true, Sample: sampleFloat(10, 20)},
			{Name: "color", Kind: "color", Sample: sampleStrokeColor},
		},
	})

	Register(&Spec{
		Type: "Image",
		Props: []PropSpec{
			{Name: "center", Kind: "vector", Sample: samplePos},
			{Name: "w", Kind: "float", Sample: sampleFloat(20, 120)},
			{Name: "h", Kind: "float", Sample: sampleFloat(20, 120)},
			{Name: "rotation", Kind: "float", Sample: sampleZero},
			{Name: "opacity", Kind: "float", Sample: sampleFloat(0.5, 1)},
			{Name: "path", Kind: "file", Sample: sampleFile},
		},
	})
}
