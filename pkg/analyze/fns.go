package analyze

import (
	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/shapes"
	"github.com/dshills/diagen/pkg/trans"
)

// Fn is a resolved function descriptor: a registry name plus its argument
// expressions as declared.
type Fn struct {
	Name string
	Args []ir.Expr
}

// DeclaredFns harvests the objective and constraint declarations stored as
// field bodies, in store order. Avoid directives are folded into the
// objective list; they optimize away from a region rather than toward one,
// and the registry function carries that sign.
func DeclaredFns(t *trans.Translation) (objs, constrs []Fn) {
	t.FoldFields(func(object, field string, fe ir.FieldExpr) {
		body, ok := fe.(ir.FExpr)
		if !ok {
			return
		}
		opt, ok := body.T.(ir.OptEval)
		if !ok {
			return
		}
		switch e := opt.E.(type) {
		case ir.ObjFn:
			objs = append(objs, Fn{Name: e.Name, Args: e.Args})
		case ir.AvoidFn:
			objs = append(objs, Fn{Name: e.Name, Args: e.Args})
		case ir.ConstrFn:
			constrs = append(constrs, Fn{Name: e.Name, Args: e.Args})
		}
	})
	return objs, constrs
}

// DefaultFns collects the catalog's default objectives and constraints for
// every primitive in the translation. Each is called with the primitive
// itself as the single argument.
func DefaultFns(t *trans.Translation) (objs, constrs []Fn) {
	t.FoldFields(func(object, field string, fe ir.FieldExpr) {
		gpi, ok := fe.(ir.FGPI)
		if !ok {
			return
		}
		spec := shapes.Get(gpi.Type)
		if spec == nil {
			return
		}
		arg := []ir.Expr{ir.EPath{P: ir.Field(object, field)}}
		for _, name := range spec.DefaultObjectives {
			objs = append(objs, Fn{Name: name, Args: arg})
		}
		for _, name := range spec.DefaultConstraints {
			constrs = append(constrs, Fn{Name: name, Args: arg})
		}
	})
	return objs, constrs
}
