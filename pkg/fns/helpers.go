package fns

import (
	"fmt"
	"math"

	"github.com/dshills/diagen/pkg/ir"
)

// wantArgs checks call arity.
func wantArgs(name string, n int, args []ir.ArgVal) error {
	if len(args) != n {
		return fmt.Errorf("%s: want %d args, got %d", name, n, len(args))
	}
	return nil
}

// floatArg extracts a scalar from args[i].
func floatArg(name string, args []ir.ArgVal, i int) (float64, error) {
	v, ok := args[i].(ir.Val)
	if !ok {
		return 0, fmt.Errorf("%s: arg %d must be a value, got a shape", name, i)
	}
	f, err := ir.AsFloat(v.V)
	if err != nil {
		return 0, fmt.Errorf("%s: arg %d: %w", name, i, err)
	}
	return f, nil
}

// vec2Arg extracts a 2-vector from args[i]. Tuples and points coerce.
func vec2Arg(name string, args []ir.ArgVal, i int) (x, y float64, err error) {
	v, ok := args[i].(ir.Val)
	if !ok {
		return 0, 0, fmt.Errorf("%s: arg %d must be a value, got a shape", name, i)
	}
	switch t := v.V.(type) {
	case ir.VectorV:
		if len(t) != 2 {
			return 0, 0, fmt.Errorf("%s: arg %d: want a 2-vector, got %d components", name, i, len(t))
		}
		return t[0], t[1], nil
	case ir.TupV:
		return t.A, t.B, nil
	case ir.PtV:
		return t.X, t.Y, nil
	default:
		return 0, 0, fmt.Errorf("%s: arg %d: want a 2-vector, got %s", name, i, ir.ValueKindOf(v.V))
	}
}

// positionArg extracts a position from args[i]: a 2-vector value, or the
// center of a shape (its "center" property, or the midpoint of start/end).
func positionArg(name string, args []ir.ArgVal, i int) (x, y float64, err error) {
	if gpi, ok := args[i].(ir.GPI); ok {
		return shapeCenter(gpi.S)
	}
	return vec2Arg(name, args, i)
}

// shapeArg extracts a shape from args[i].
func shapeArg(name string, args []ir.ArgVal, i int) (ir.Shape, error) {
	gpi, ok := args[i].(ir.GPI)
	if !ok {
		return ir.Shape{}, fmt.Errorf("%s: arg %d must be a shape", name, i)
	}
	return gpi.S, nil
}

// shapeCenter reads a shape's position.
func shapeCenter(s ir.Shape) (x, y float64, err error) {
	if v, ok := s.Props.Get("center"); ok {
		return valueVec2(v, s.Type, "center")
	}
	sv, sok := s.Props.Get("start")
	ev, eok := s.Props.Get("end")
	if sok && eok {
		sx, sy, err := valueVec2(sv, s.Type, "start")
		if err != nil {
			return 0, 0, err
		}
		ex, ey, err := valueVec2(ev, s.Type, "end")
		if err != nil {
			return 0, 0, err
		}
		return (sx + ex) / 2, (sy + ey) / 2, nil
	}
	return 0, 0, fmt.Errorf("shape %s (%s) has no position", s.Name(), s.Type)
}

func valueVec2(v ir.Value, typ, prop string) (x, y float64, err error) {
	switch t := v.(type) {
	case ir.VectorV:
		if len(t) != 2 {
			return 0, 0, fmt.Errorf("%s.%s: want a 2-vector, got %d components", typ, prop, len(t))
		}
		return t[0], t[1], nil
	case ir.TupV:
		return t.A, t.B, nil
	case ir.PtV:
		return t.X, t.Y, nil
	default:
		return 0, 0, fmt.Errorf("%s.%s: want a 2-vector, got %s", typ, prop, ir.ValueKindOf(v))
	}
}

// shapeSize reads a shape's characteristic radius.
func shapeSize(s ir.Shape) (float64, error) {
	read := func(prop string) (float64, bool) {
		v, ok := s.Props.Get(prop)
		if !ok {
			return 0, false
		}
		f, err := ir.AsFloat(v)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	switch s.Type {
	case "Circle":
		if r, ok := read("r"); ok {
			return r, nil
		}
	case "Ellipse":
		rx, okx := read("rx")
		ry, oky := read("ry")
		if okx && oky {
			return math.Min(rx, ry), nil
		}
	case "Square":
		if side, ok := read("side"); ok {
			return side / 2, nil
		}
	case "Rectangle", "Image":
		w, okw := read("w")
		h, okh := read("h")
		if okw && okh {
			return math.Min(w, h) / 2, nil
		}
	case "Text":
		w, okw := read("finalW")
		h, okh := read("finalH")
		if okw && okh {
			return math.Min(w, h) / 2, nil
		}
	}
	return 0, fmt.Errorf("shape %s (%s) has no size", s.Name(), s.Type)
}

// penalty maps a raw constraint violation to a smooth non-negative energy.
func penalty(g float64) float64 {
	if g <= 0 {
		return 0
	}
	return g * g
}

// distance between two positions.
func distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}
