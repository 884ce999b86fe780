package fns

import "github.com/dshills/diagen/pkg/ir"

// Size bounds applied by the catalog's default minSize/maxSize constraints.
const (
	defaultMinSize = 5
	defaultMaxSize = 300
)

func constrMinSize(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("minSize", 1, args); err != nil {
		return 0, err
	}
	s, err := shapeArg("minSize", args, 0)
	if err != nil {
		return 0, err
	}
	size, err := shapeSize(s)
	if err != nil {
		return 0, err
	}
	return penalty(defaultMinSize - size), nil
}

func constrMaxSize(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("maxSize", 1, args); err != nil {
		return 0, err
	}
	s, err := shapeArg("maxSize", args, 0)
	if err != nil {
		return 0, err
	}
	size, err := shapeSize(s)
	if err != nil {
		return 0, err
	}
	return penalty(size - defaultMaxSize), nil
}

func constrLessThan(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("lessThan", 2, args); err != nil {
		return 0, err
	}
	a, err := floatArg("lessThan", args, 0)
	if err != nil {
		return 0, err
	}
	b, err := floatArg("lessThan", args, 1)
	if err != nil {
		return 0, err
	}
	return penalty(a - b), nil
}

func constrGreaterThan(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("greaterThan", 2, args); err != nil {
		return 0, err
	}
	a, err := floatArg("greaterThan", args, 0)
	if err != nil {
		return 0, err
	}
	b, err := floatArg("greaterThan", args, 1)
	if err != nil {
		return 0, err
	}
	return penalty(b - a), nil
}

// constrContains keeps the second shape strictly inside the first, with an
// optional third scalar argument as padding.
func constrContains(args []ir.ArgVal) (float64, error) {
	if len(args) != 2 && len(args) != 3 {
		return 0, wantArgs("contains", 2, args)
	}
	outer, err := shapeArg("contains", args, 0)
	if err != nil {
		return 0, err
	}
	inner, err := shapeArg("contains", args, 1)
	if err != nil {
		return 0, err
	}
	pad := 0.0
	if len(args) == 3 {
		pad, err = floatArg("contains", args, 2)
		if err != nil {
			return 0, err
		}
	}
	ox, oy, err := shapeCenter(outer)
	if err != nil {
		return 0, err
	}
	ix, iy, err := shapeCenter(inner)
	if err != nil {
		return 0, err
	}
	or, err := shapeSize(outer)
	if err != nil {
		return 0, err
	}
	irad, err := shapeSize(inner)
	if err != nil {
		return 0, err
	}
	return penalty(distance(ox, oy, ix, iy) + irad + pad - or), nil
}

func constrNonOverlap(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("nonOverlap", 2, args); err != nil {
		return 0, err
	}
	a, err := shapeArg("nonOverlap", args, 0)
	if err != nil {
		return 0, err
	}
	b, err := shapeArg("nonOverlap", args, 1)
	if err != nil {
		return 0, err
	}
	ax, ay, err := shapeCenter(a)
	if err != nil {
		return 0, err
	}
	bx, by, err := shapeCenter(b)
	if err != nil {
		return 0, err
	}
	ra, err := shapeSize(a)
	if err != nil {
		return 0, err
	}
	rb, err := shapeSize(b)
	if err != nil {
		return 0, err
	}
	return penalty(ra + rb - distance(ax, ay, bx, by)), nil
}

// constrSmallerThan orders two shapes by size.
func constrSmallerThan(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("smallerThan", 2, args); err != nil {
		return 0, err
	}
	a, err := shapeArg("smallerThan", args, 0)
	if err != nil {
		return 0, err
	}
	b, err := shapeArg("smallerThan", args, 1)
	if err != nil {
		return 0, err
	}
	ra, err := shapeSize(a)
	if err != nil {
		return 0, err
	}
	rb, err := shapeSize(b)
	if err != nil {
		return 0, err
	}
	return penalty(ra - rb), nil
}

func init() {
	RegisterConstr("minSize", constrMinSize)
	RegisterConstr("maxSize", constrMaxSize)
	RegisterConstr("lessThan", constrLessThan)
	RegisterConstr("greaterThan", constrGreaterThan)
	RegisterConstr("contains", constrContains)
	RegisterConstr("nonOverlap", constrNonOverlap)
	RegisterConstr("smallerThan", constrSmallerThan)
}
