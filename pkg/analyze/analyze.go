package analyze

import (
	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/shapes"
	"github.com/dshills/diagen/pkg/trans"
)

// UnoptimizedProps lists scalar shape properties excluded from the varying
// set by policy. They are sampled once and left alone by the optimizer.
var UnoptimizedProps = map[string]bool{
	"rotation":       true,
	"strokeWidth":    true,
	"thickness":      true,
	"transform":      true,
	"transformation": true,
	"opacity":        true,
	"finalW":         true,
	"finalH":         true,
	"arrowheadSize":  true,
}

// OptimizedVectorProps lists vector-valued shape properties whose elements
// may join the varying set. Expansion is fixed at two components.
var OptimizedVectorProps = map[string]bool{
	"start":  true,
	"end":    true,
	"center": true,
}

// optVectorDim is the only vector arity the element-wise expansion supports.
const optVectorDim = 2

// VaryingPaths enumerates the free scalar slots of the translation, in store
// order: fields that are literally "?", vector-literal fields with "?"
// elements, and shape properties per the catalog schema and the unoptimized
// and pending policies.
func VaryingPaths(t *trans.Translation) []ir.Path {
	var out []ir.Path
	t.FoldFields(func(object, field string, fe ir.FieldExpr) {
		fp := ir.Field(object, field)
		switch body := fe.(type) {
		case ir.FExpr:
			opt, ok := body.T.(ir.OptEval)
			if !ok {
				return
			}
			switch e := opt.E.(type) {
			case ir.AFloat:
				if e.Vary {
					out = append(out, fp)
				}
			case ir.VectorExpr:
				out = append(out, varyingElems(t, fp, e)...)
			}
		case ir.FGPI:
			out = append(out, shapeVarying(t, fp, body)...)
		}
	})
	return out
}

// shapeVarying enumerates the varying slots of one graphical primitive.
func shapeVarying(t *trans.Translation, fp ir.FieldPath, gpi ir.FGPI) []ir.Path {
	spec := shapes.Get(gpi.Type)
	if spec == nil {
		t.AddWarning("unknown shape type %q at %s", gpi.Type, fp.Key())
		return nil
	}

	var out []ir.Path
	for _, prop := range spec.Props {
		pp := ir.PropertyPath{Of: fp.Of, Field: fp.Field, Property: prop.Name}

		if prop.Scalar() {
			if UnoptimizedProps[prop.Name] || prop.Pending {
				continue
			}
			te, ok := gpi.Props.Get(prop.Name)
			if !ok {
				out = append(out, pp)
				continue
			}
			opt, ok := te.(ir.OptEval)
			if !ok {
				continue
			}
			if ir.IsVary(opt.E) {
				out = append(out, pp)
			}
			continue
		}

		if !OptimizedVectorProps[prop.Name] {
			continue
		}
		te, ok := gpi.Props.Get(prop.Name)
		if !ok {
			continue
		}
		opt, ok := te.(ir.OptEval)
		if !ok {
			continue
		}
		vec, ok := opt.E.(ir.VectorExpr)
		if !ok {
			continue
		}
		out = append(out, varyingElems(t, pp, vec)...)
	}
	return out
}

// varyingElems expands a vector literal into element access paths for its
// "?" entries. Vectors longer than two components are rejected rather than
// silently truncated.
func varyingElems(t *trans.Translation, base ir.Path, vec ir.VectorExpr) []ir.Path {
	hasVary := false
	for _, e := range vec.Elems {
		if ir.IsVary(e) {
			hasVary = true
			break
		}
	}
	if !hasVary {
		return nil
	}
	if len(vec.Elems) != optVectorDim {
		t.AddWarning("varying vector at %s has %d components; only %d are supported",
			base.Key(), len(vec.Elems), optVectorDim)
		return nil
	}
	var out []ir.Path
	for i, e := range vec.Elems {
		if ir.IsVary(e) {
			out = append(out, ir.Access(base, i))
		}
	}
	return out
}

// UninitializedPaths enumerates, per primitive, the non-scalar schema
// properties with no dictionary entry. These are sampled wholesale and must
// be re-substituted into the translation after a resample.
func UninitializedPaths(t *trans.Translation) []ir.Path {
	var out []ir.Path
	t.FoldFields(func(object, field string, fe ir.FieldExpr) {
		gpi, ok := fe.(ir.FGPI)
		if !ok {
			return
		}
		spec := shapes.Get(gpi.Type)
		if spec == nil {
			return
		}
		for _, prop := range spec.Props {
			if prop.Scalar() || prop.Name == ir.NameProperty {
				continue
			}
			if !gpi.Props.Has(prop.Name) {
				out = append(out, ir.Property(object, field, prop.Name))
			}
		}
	})
	return out
}

// PendingPaths enumerates shape-property slots currently tagged Pending.
func PendingPaths(t *trans.Translation) []ir.Path {
	var out []ir.Path
	t.FoldFields(func(object, field string, fe ir.FieldExpr) {
		gpi, ok := fe.(ir.FGPI)
		if !ok {
			return
		}
		gpi.Props.Range(func(prop string, te ir.TagExpr) bool {
			if _, ok := te.(ir.Pending); ok {
				out = append(out, ir.Property(object, field, prop))
			}
			return true
		})
	})
	return out
}

// ShapePaths enumerates the fields holding graphical primitives, in store
// order.
func ShapePaths(t *trans.Translation) []ir.FieldPath {
	var out []ir.FieldPath
	t.FoldFields(func(object, field string, fe ir.FieldExpr) {
		if _, ok := fe.(ir.FGPI); ok {
			out = append(out, ir.Field(object, field))
		}
	})
	return out
}

// PropTriple names one property of one shape.
type PropTriple struct {
	Object   string
	Field    string
	Property string
}

// ShapeProperties enumerates every (object, field, property) triple present
// in shape dictionaries, in store order.
func ShapeProperties(t *trans.Translation) []PropTriple {
	var out []PropTriple
	t.FoldFields(func(object, field string, fe ir.FieldExpr) {
		gpi, ok := fe.(ir.FGPI)
		if !ok {
			return
		}
		gpi.Props.Range(func(prop string, _ ir.TagExpr) bool {
			out = append(out, PropTriple{Object: object, Field: field, Property: prop})
			return true
		})
	})
	return out
}
