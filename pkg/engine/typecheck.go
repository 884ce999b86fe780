package engine

import (
	"fmt"

	"github.com/dshills/diagen/pkg/fns"
	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/shapes"
	"github.com/dshills/diagen/pkg/trans"
)

// typecheck verifies that every shape type, computation, objective and
// constraint the translation references is registered. All failures are
// collected, not just the first.
func typecheck(t *trans.Translation) *TypecheckError {
	var errs []string

	t.FoldFields(func(object, field string, fe ir.FieldExpr) {
		where := object + "." + field
		switch body := fe.(type) {
		case ir.FGPI:
			if shapes.Get(body.Type) == nil {
				errs = append(errs, fmt.Sprintf("%s: unknown shape type %q", where, body.Type))
				return
			}
			body.Props.Range(func(prop string, te ir.TagExpr) bool {
				if opt, ok := te.(ir.OptEval); ok {
					errs = append(errs, checkExpr(where+"."+prop, opt.E)...)
				}
				return true
			})
		case ir.FExpr:
			if opt, ok := body.T.(ir.OptEval); ok {
				errs = append(errs, checkExpr(where, opt.E)...)
			}
		}
	})

	if len(errs) == 0 {
		return nil
	}
	return &TypecheckError{Errors: errs}
}

// checkExpr walks one expression for unregistered names.
func checkExpr(where string, e ir.Expr) []string {
	var errs []string
	switch x := e.(type) {
	case ir.CompApp:
		if !fns.HasComp(x.Name) {
			errs = append(errs, fmt.Sprintf("%s: unknown computation %q", where, x.Name))
		}
		for _, a := range x.Args {
			errs = append(errs, checkExpr(where, a)...)
		}
	case ir.ObjFn:
		if !fns.HasObj(x.Name) {
			errs = append(errs, fmt.Sprintf("%s: unknown objective %q", where, x.Name))
		}
		for _, a := range x.Args {
			errs = append(errs, checkExpr(where, a)...)
		}
	case ir.AvoidFn:
		if !fns.HasObj(x.Name) {
			errs = append(errs, fmt.Sprintf("%s: unknown objective %q", where, x.Name))
		}
		for _, a := range x.Args {
			errs = append(errs, checkExpr(where, a)...)
		}
	case ir.ConstrFn:
		if !fns.HasConstr(x.Name) {
			errs = append(errs, fmt.Sprintf("%s: unknown constraint %q", where, x.Name))
		}
		for _, a := range x.Args {
			errs = append(errs, checkExpr(where, a)...)
		}
	case ir.BinOp:
		errs = append(errs, checkExpr(where, x.Left)...)
		errs = append(errs, checkExpr(where, x.Right)...)
	case ir.UOp:
		errs = append(errs, checkExpr(where, x.E)...)
	case ir.ListExpr:
		for _, a := range x.Elems {
			errs = append(errs, checkExpr(where, a)...)
		}
	case ir.TupleExpr:
		errs = append(errs, checkExpr(where, x.A)...)
		errs = append(errs, checkExpr(where, x.B)...)
	case ir.VectorExpr:
		for _, a := range x.Elems {
			errs = append(errs, checkExpr(where, a)...)
		}
	case ir.MatrixExpr:
		for _, row := range x.Rows {
			for _, a := range row {
				errs = append(errs, checkExpr(where, a)...)
			}
		}
	case ir.Ctor:
		errs = append(errs, fmt.Sprintf("%s: inline shape constructor was not lowered", where))
	}
	return errs
}
