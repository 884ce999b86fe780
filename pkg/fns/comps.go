package fns

import (
	"fmt"
	"math"

	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/rng"
)

// unary wraps a float-to-float function as a computation.
func unary(name string, fn func(float64) float64) CompFunc {
	return func(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
		if err := wantArgs(name, 1, args); err != nil {
			return nil, err
		}
		x, err := floatArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		return ir.FloatV(fn(x)), nil
	}
}

// binary wraps a two-float function as a computation.
func binary(name string, fn func(a, b float64) float64) CompFunc {
	return func(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
		if err := wantArgs(name, 2, args); err != nil {
			return nil, err
		}
		a, err := floatArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := floatArg(name, args, 1)
		if err != nil {
			return nil, err
		}
		return ir.FloatV(fn(a, b)), nil
	}
}

func compRGBA(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
	if err := wantArgs("rgba", 4, args); err != nil {
		return nil, err
	}
	c := [4]float64{}
	for i := range c {
		f, err := floatArg("rgba", args, i)
		if err != nil {
			return nil, err
		}
		c[i] = f
	}
	return ir.ColorV{Space: ir.ColorRGBA, A: c[0], B: c[1], C: c[2], D: c[3]}, nil
}

func compHSVA(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
	if err := wantArgs("hsva", 4, args); err != nil {
		return nil, err
	}
	c := [4]float64{}
	for i := range c {
		f, err := floatArg("hsva", args, i)
		if err != nil {
			return nil, err
		}
		c[i] = f
	}
	return ir.ColorV{Space: ir.ColorHSVA, A: c[0], B: c[1], C: c[2], D: c[3]}, nil
}

func compMidpoint(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
	if err := wantArgs("midpoint", 2, args); err != nil {
		return nil, err
	}
	ax, ay, err := positionArg("midpoint", args, 0)
	if err != nil {
		return nil, err
	}
	bx, by, err := positionArg("midpoint", args, 1)
	if err != nil {
		return nil, err
	}
	return ir.VectorV{(ax + bx) / 2, (ay + by) / 2}, nil
}

func compMidpointX(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
	if err := wantArgs("midpointX", 2, args); err != nil {
		return nil, err
	}
	ax, _, err := positionArg("midpointX", args, 0)
	if err != nil {
		return nil, err
	}
	bx, _, err := positionArg("midpointX", args, 1)
	if err != nil {
		return nil, err
	}
	return ir.FloatV((ax + bx) / 2), nil
}

func compMidpointY(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
	if err := wantArgs("midpointY", 2, args); err != nil {
		return nil, err
	}
	_, ay, err := positionArg("midpointY", args, 0)
	if err != nil {
		return nil, err
	}
	_, by, err := positionArg("midpointY", args, 1)
	if err != nil {
		return nil, err
	}
	return ir.FloatV((ay + by) / 2), nil
}

func compAverage(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("average: want at least one arg")
	}
	sum := 0.0
	for i := range args {
		f, err := floatArg("average", args, i)
		if err != nil {
			return nil, err
		}
		sum += f
	}
	return ir.FloatV(sum / float64(len(args))), nil
}

func compNorm(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
	if err := wantArgs("norm", 1, args); err != nil {
		return nil, err
	}
	v, ok := args[0].(ir.Val)
	if !ok {
		return nil, fmt.Errorf("norm: arg must be a vector")
	}
	vec, ok := v.V.(ir.VectorV)
	if !ok {
		return nil, fmt.Errorf("norm: want a vector, got %s", ir.ValueKindOf(v.V))
	}
	sum := 0.0
	for _, x := range vec {
		sum += x * x
	}
	return ir.FloatV(math.Sqrt(sum)), nil
}

func compLen(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
	if err := wantArgs("len", 1, args); err != nil {
		return nil, err
	}
	v, ok := args[0].(ir.Val)
	if !ok {
		return nil, fmt.Errorf("len: arg must be a value")
	}
	switch t := v.V.(type) {
	case ir.ListV:
		return ir.IntV(len(t)), nil
	case ir.VectorV:
		return ir.IntV(len(t)), nil
	case ir.PtListV:
		return ir.IntV(len(t)), nil
	default:
		return nil, fmt.Errorf("len: want a list, got %s", ir.ValueKindOf(v.V))
	}
}

// compSampleFloatIn draws a uniform float from [lo, hi). One of the few
// computations that consumes the RNG.
func compSampleFloatIn(args []ir.ArgVal, r *rng.RNG) (ir.Value, error) {
	if err := wantArgs("sampleFloatIn", 2, args); err != nil {
		return nil, err
	}
	lo, err := floatArg("sampleFloatIn", args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := floatArg("sampleFloatIn", args, 1)
	if err != nil {
		return nil, err
	}
	if lo >= hi {
		return nil, fmt.Errorf("sampleFloatIn: empty range [%g, %g)", lo, hi)
	}
	return ir.FloatV(r.Float64Range(lo, hi)), nil
}

// compPathFromPoints turns a point list into open line path data.
func compPathFromPoints(args []ir.ArgVal, _ *rng.RNG) (ir.Value, error) {
	if err := wantArgs("pathFromPoints", 1, args); err != nil {
		return nil, err
	}
	v, ok := args[0].(ir.Val)
	if !ok {
		return nil, fmt.Errorf("pathFromPoints: arg must be a point list")
	}
	pts, ok := v.V.(ir.PtListV)
	if !ok {
		return nil, fmt.Errorf("pathFromPoints: want a ptlist, got %s", ir.ValueKindOf(v.V))
	}
	elem := ir.PathElem{Elem: ir.ElemLine, Pts: append([]ir.PtV(nil), pts...)}
	return ir.PathDataV{{Closed: false, Elems: []ir.PathElem{elem}}}, nil
}

func init() {
	RegisterComp("rgba", compRGBA)
	RegisterComp("hsva", compHSVA)
	RegisterComp("midpoint", compMidpoint)
	RegisterComp("midpointX", compMidpointX)
	RegisterComp("midpointY", compMidpointY)
	RegisterComp("average", compAverage)
	RegisterComp("norm", compNorm)
	RegisterComp("len", compLen)
	RegisterComp("sampleFloatIn", compSampleFloatIn)
	RegisterComp("pathFromPoints", compPathFromPoints)
	RegisterComp("sqrt", unary("sqrt", math.Sqrt))
	RegisterComp("abs", unary("abs", math.Abs))
	RegisterComp("cos", unary("cos", math.Cos))
	RegisterComp("sin", unary("sin", math.Sin))
	RegisterComp("max", binary("max", math.Max))
	RegisterComp("min", binary("min", math.Min))
}
