package fns

import (
	"math"

	"github.com/dshills/diagen/pkg/ir"
)

// repelEps keeps the inverse-square repulsion finite at zero distance.
const repelEps = 1e-6

func objDist(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("dist", 2, args); err != nil {
		return 0, err
	}
	ax, ay, err := positionArg("dist", args, 0)
	if err != nil {
		return 0, err
	}
	bx, by, err := positionArg("dist", args, 1)
	if err != nil {
		return 0, err
	}
	return distance(ax, ay, bx, by), nil
}

func objNear(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("near", 2, args); err != nil {
		return 0, err
	}
	ax, ay, err := positionArg("near", args, 0)
	if err != nil {
		return 0, err
	}
	bx, by, err := positionArg("near", args, 1)
	if err != nil {
		return 0, err
	}
	d := distance(ax, ay, bx, by)
	return d * d, nil
}

func objCenter(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("center", 1, args); err != nil {
		return 0, err
	}
	x, y, err := positionArg("center", args, 0)
	if err != nil {
		return 0, err
	}
	return x*x + y*y, nil
}

func objRepel(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("repel", 2, args); err != nil {
		return 0, err
	}
	ax, ay, err := positionArg("repel", args, 0)
	if err != nil {
		return 0, err
	}
	bx, by, err := positionArg("repel", args, 1)
	if err != nil {
		return 0, err
	}
	d := distance(ax, ay, bx, by)
	return 1 / (d*d + repelEps), nil
}

func objSameCenter(args []ir.ArgVal) (float64, error) {
	return objNear(args)
}

// objAbove pulls the first argument above the second by a fixed gap.
func objAbove(args []ir.ArgVal) (float64, error) {
	const gap = 100
	if err := wantArgs("above", 2, args); err != nil {
		return 0, err
	}
	_, ay, err := positionArg("above", args, 0)
	if err != nil {
		return 0, err
	}
	_, by, err := positionArg("above", args, 1)
	if err != nil {
		return 0, err
	}
	d := ay - by - gap
	return d * d, nil
}

func objEqual(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("equal", 2, args); err != nil {
		return 0, err
	}
	a, err := floatArg("equal", args, 0)
	if err != nil {
		return 0, err
	}
	b, err := floatArg("equal", args, 1)
	if err != nil {
		return 0, err
	}
	return (a - b) * (a - b), nil
}

// objNotTooClose is the avoid-directive body: it decays with distance
// instead of growing, so minimizing it pushes its arguments apart.
func objNotTooClose(args []ir.ArgVal) (float64, error) {
	if err := wantArgs("notTooClose", 2, args); err != nil {
		return 0, err
	}
	ax, ay, err := positionArg("notTooClose", args, 0)
	if err != nil {
		return 0, err
	}
	bx, by, err := positionArg("notTooClose", args, 1)
	if err != nil {
		return 0, err
	}
	return math.Exp(-distance(ax, ay, bx, by) / 20), nil
}

func init() {
	RegisterObj("dist", objDist)
	RegisterObj("near", objNear)
	RegisterObj("center", objCenter)
	RegisterObj("repel", objRepel)
	RegisterObj("sameCenter", objSameCenter)
	RegisterObj("above", objAbove)
	RegisterObj("equal", objEqual)
	RegisterObj("notTooClose", objNotTooClose)
}
