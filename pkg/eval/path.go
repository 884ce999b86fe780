package eval

import (
	"fmt"

	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/shapes"
	"github.com/dshills/diagen/pkg/trans"
)

// evalPath resolves a path reference: overlay first, then the translation,
// recursing into deferred expressions and memoizing plain-value results.
func evalPath(c *Context, depth int, p ir.Path) (ir.ArgVal, error) {
	if depth >= c.bound() {
		return nil, fmt.Errorf("%w (depth %d) at %q", ErrCycleDepth, depth, p.Key())
	}

	switch pp := p.(type) {
	case ir.FieldPath:
		return evalFieldPath(c, depth, pp)
	case ir.PropertyPath:
		return evalPropertyPath(c, depth, pp)
	case ir.AccessPath:
		return evalAccessElem(c, depth, pp)
	case ir.LocalVar:
		return nil, fmt.Errorf("%w: local %q escaped compilation", trans.ErrPathNotFound, pp.Key())
	default:
		return nil, fmt.Errorf("%w: %q", trans.ErrPathNotFound, p.Key())
	}
}

func evalFieldPath(c *Context, depth int, p ir.FieldPath) (ir.ArgVal, error) {
	if v, ok := c.Overlay.scalar(p); ok {
		return ir.Val{V: ir.FloatV(v)}, nil
	}

	fe, err := c.Trans.LookupField(p)
	if err != nil {
		return nil, err
	}

	switch body := fe.(type) {
	case ir.FExpr:
		return evalTag(c, depth, p, body.T)
	case ir.FGPI:
		s, err := evalGPI(c, depth, p, body)
		if err != nil {
			return nil, err
		}
		return ir.GPI{S: s}, nil
	default:
		return nil, fmt.Errorf("%w: %q", trans.ErrKindMismatch, p.Key())
	}
}

func evalPropertyPath(c *Context, depth int, p ir.PropertyPath) (ir.ArgVal, error) {
	fp := ir.FieldPath{Of: p.Of, Field: p.Field}
	gpi, err := c.Trans.LookupGPI(fp)
	if err != nil {
		return nil, err
	}

	// Computed properties are derived from siblings, never stored.
	if spec := shapes.Get(gpi.Type); spec != nil {
		if cp, ok := spec.ComputedProp(p.Property); ok {
			return evalComputed(c, depth, p, cp)
		}
	}

	if v, ok := c.Overlay.scalar(p); ok {
		return ir.Val{V: ir.FloatV(v)}, nil
	}

	te, err := c.Trans.LookupProperty(p)
	if err != nil {
		return nil, err
	}
	return evalTag(c, depth, p, te)
}

// evalComputed evaluates a computed property: each declared sibling argument
// is resolved in order, then the derivation runs over the results.
func evalComputed(c *Context, depth int, p ir.PropertyPath, cp shapes.ComputedProp) (ir.ArgVal, error) {
	args := make([]ir.Value, len(cp.Args))
	for i, sibling := range cp.Args {
		sp := ir.PropertyPath{Of: p.Of, Field: p.Field, Property: sibling}
		av, err := evalPropertyPath(c, depth+1, sp)
		if err != nil {
			return nil, err
		}
		v, ok := av.(ir.Val)
		if !ok {
			return nil, fmt.Errorf("%w: computed %q argument %q is a shape", ErrTypeMismatch, p.Key(), sibling)
		}
		args[i] = v.V
	}
	v, err := cp.Compute(args)
	if err != nil {
		return nil, fmt.Errorf("computed %q: %w", p.Key(), err)
	}
	return ir.Val{V: v}, nil
}

// evalTag resolves the stored form at p. Done and Pending values return
// as-is (after merging any overlaid vector elements); deferred expressions
// recurse, and a plain-value result is memoized at p with override.
func evalTag(c *Context, depth int, p ir.Path, te ir.TagExpr) (ir.ArgVal, error) {
	switch x := te.(type) {
	case ir.Done:
		if vec, ok := x.V.(ir.VectorV); ok && c.Overlay.hasElements(p) {
			return ir.Val{V: mergeVector(c.Overlay, p, vec)}, nil
		}
		return ir.Val{V: x.V}, nil

	case ir.Pending:
		if vec, ok := x.V.(ir.VectorV); ok && c.Overlay.hasElements(p) {
			return ir.Val{V: mergeVector(c.Overlay, p, vec)}, nil
		}
		return ir.Val{V: x.V}, nil

	case ir.OptEval:
		if alias, ok := x.E.(ir.EPath); ok && alias.P.Key() == p.Key() {
			return nil, fmt.Errorf("%w: %q", trans.ErrSelfAlias, p.Key())
		}
		if vec, ok := x.E.(ir.VectorExpr); ok && c.Overlay.hasElements(p) {
			merged, err := mergeVectorExpr(c, depth, p, vec)
			if err != nil {
				return nil, err
			}
			return ir.Val{V: merged}, nil
		}
		av, err := Eval(c, depth+1, x.E)
		if err != nil {
			return nil, err
		}
		if v, ok := av.(ir.Val); ok {
			if err := c.Trans.InsertPath(p, ir.Done{V: v.V}, true); err != nil {
				return nil, fmt.Errorf("memoizing %q: %w", p.Key(), err)
			}
		}
		// Shape results come from alias lookups and are not memoized.
		return av, nil

	default:
		return nil, fmt.Errorf("%w: %q holds nothing evaluable", trans.ErrPathNotFound, p.Key())
	}
}

// mergeVector overlays element values onto a concrete vector.
func mergeVector(ov Overlay, p ir.Path, vec ir.VectorV) ir.VectorV {
	out := make(ir.VectorV, len(vec))
	copy(out, vec)
	for i := range out {
		if v, ok := ov.element(p, i); ok {
			out[i] = v
		}
	}
	return out
}

// mergeVectorExpr resolves a vector literal whose free components live in
// the overlay; fixed components evaluate normally.
func mergeVectorExpr(c *Context, depth int, p ir.Path, vec ir.VectorExpr) (ir.VectorV, error) {
	out := make(ir.VectorV, len(vec.Elems))
	for i, e := range vec.Elems {
		if v, ok := c.Overlay.element(p, i); ok {
			out[i] = v
			continue
		}
		if ir.IsVary(e) {
			return nil, fmt.Errorf("%w: component %d of %q", ErrUninitializedVary, i, p.Key())
		}
		f, err := evalValue(c, depth+1, e)
		if err != nil {
			return nil, err
		}
		fl, ok := f.(ir.FloatV)
		if !ok {
			return nil, fmt.Errorf("%w: component %d of %q is %s", ErrTypeMismatch, i, p.Key(), ir.ValueKindOf(f))
		}
		out[i] = float64(fl)
	}
	return out, nil
}

// evalGPI evaluates every property of a primitive in dictionary order,
// memoizing each, and returns the flat shape with its name injected.
func evalGPI(c *Context, depth int, fp ir.FieldPath, gpi ir.FGPI) (ir.Shape, error) {
	s := ir.NewShape(gpi.Type)
	var firstErr error
	gpi.Props.Range(func(prop string, _ ir.TagExpr) bool {
		pp := ir.PropertyPath{Of: fp.Of, Field: fp.Field, Property: prop}
		av, err := evalPropertyPath(c, depth+1, pp)
		if err != nil {
			firstErr = err
			return false
		}
		v, ok := av.(ir.Val)
		if !ok {
			firstErr = fmt.Errorf("%w: property %q evaluated to a shape", ErrTypeMismatch, pp.Key())
			return false
		}
		s.Props.Set(prop, v.V)
		return true
	})
	if firstErr != nil {
		return ir.Shape{}, firstErr
	}
	s.Props.Set(ir.NameProperty, ir.StrV(ir.ShapeName(fp)))
	return s, nil
}

// evalAccessElem resolves an indexed element of a vector- or matrix-valued
// path by resolving the base and selecting.
func evalAccessElem(c *Context, depth int, p ir.AccessPath) (ir.ArgVal, error) {
	if v, ok := c.Overlay.scalar(p); ok {
		return ir.Val{V: ir.FloatV(v)}, nil
	}

	av, err := evalPath(c, depth+1, p.Base)
	if err != nil {
		return nil, err
	}
	v, ok := av.(ir.Val)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a shape", ErrTypeMismatch, p.Base.Key())
	}

	switch base := v.V.(type) {
	case ir.VectorV:
		if len(p.Indices) != 1 {
			return nil, fmt.Errorf("%w: vector access at %q needs one index", ErrTypeMismatch, p.Key())
		}
		i := p.Indices[0]
		if i < 0 || i >= len(base) {
			return nil, fmt.Errorf("%w: index %d out of range at %q", ErrTypeMismatch, i, p.Key())
		}
		return ir.Val{V: ir.FloatV(base[i])}, nil
	case ir.MatrixV:
		if len(p.Indices) != 2 {
			return nil, fmt.Errorf("%w: matrix access at %q needs two indices", ErrTypeMismatch, p.Key())
		}
		r, col := p.Indices[0], p.Indices[1]
		if r < 0 || r >= len(base) || col < 0 || col >= len(base[r]) {
			return nil, fmt.Errorf("%w: index (%d,%d) out of range at %q", ErrTypeMismatch, r, col, p.Key())
		}
		return ir.Val{V: ir.FloatV(base[r][col])}, nil
	default:
		return nil, fmt.Errorf("%w: %q is %s, not indexable", ErrTypeMismatch, p.Base.Key(), ir.ValueKindOf(v.V))
	}
}

// EvalShape evaluates the primitive at sp under the context's overlay.
func EvalShape(c *Context, sp ir.FieldPath) (ir.Shape, error) {
	gpi, err := c.Trans.LookupGPI(sp)
	if err != nil {
		return ir.Shape{}, err
	}
	return evalGPI(c, 0, sp, gpi)
}

// EvalShapes evaluates every listed primitive in order.
func EvalShapes(c *Context, shapePaths []ir.FieldPath) ([]ir.Shape, error) {
	out := make([]ir.Shape, len(shapePaths))
	for i, sp := range shapePaths {
		s, err := EvalShape(c, sp)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
