package trans

import (
	"fmt"

	"github.com/dshills/diagen/pkg/ir"
)

// LookupFloat reads the scalar currently stored at p. It understands the
// three storage forms a varying path can take after sampling: an evaluated
// scalar, a fixed float literal, and an indexed element of a vector slot.
func (t *Translation) LookupFloat(p ir.Path) (float64, error) {
	switch pp := p.(type) {
	case ir.FieldPath, ir.PropertyPath:
		te, err := t.lookupTag(pp)
		if err != nil {
			return 0, err
		}
		return scalarOfTag(te, p)

	case ir.AccessPath:
		if len(pp.Indices) != 1 {
			return 0, fmt.Errorf("%w: %q needs exactly one index", ErrNonVectorAccess, pp.Key())
		}
		idx := pp.Indices[0]
		te, err := t.lookupTag(pp.Base)
		if err != nil {
			return 0, err
		}
		switch base := te.(type) {
		case ir.OptEval:
			vec, ok := base.E.(ir.VectorExpr)
			if !ok {
				return 0, fmt.Errorf("%w: %q", ErrNonVectorAccess, pp.Key())
			}
			if idx < 0 || idx >= len(vec.Elems) {
				return 0, fmt.Errorf("%w: index %d out of range at %q", ErrNonVectorAccess, idx, pp.Key())
			}
			af, ok := vec.Elems[idx].(ir.AFloat)
			if !ok || af.Vary {
				return 0, fmt.Errorf("%w: element %d of %q is not a fixed float", ErrNonVectorAccess, idx, pp.Key())
			}
			return af.Val, nil
		case ir.Done:
			vec, ok := base.V.(ir.VectorV)
			if !ok {
				return 0, fmt.Errorf("%w: %q", ErrNonVectorAccess, pp.Key())
			}
			if idx < 0 || idx >= len(vec) {
				return 0, fmt.Errorf("%w: index %d out of range at %q", ErrNonVectorAccess, idx, pp.Key())
			}
			return vec[idx], nil
		default:
			return 0, fmt.Errorf("%w: %q is pending", ErrNonVectorAccess, pp.Key())
		}

	default:
		return 0, fmt.Errorf("%w: %q", ErrPathNotFound, p.Key())
	}
}

// scalarOfTag extracts a concrete scalar out of a tagged expression.
func scalarOfTag(te ir.TagExpr, p ir.Path) (float64, error) {
	switch x := te.(type) {
	case ir.Done:
		f, err := ir.AsFloat(x.V)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", p.Key(), err)
		}
		return f, nil
	case ir.Pending:
		f, err := ir.AsFloat(x.V)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", p.Key(), err)
		}
		return f, nil
	case ir.OptEval:
		af, ok := x.E.(ir.AFloat)
		if !ok || af.Vary {
			return 0, fmt.Errorf("%q holds an unevaluated expression", p.Key())
		}
		return af.Val, nil
	default:
		return 0, fmt.Errorf("%q holds nothing readable", p.Key())
	}
}

// LookupPaths reads the scalar at every path, in order.
func (t *Translation) LookupPaths(paths []ir.Path) ([]float64, error) {
	out := make([]float64, len(paths))
	for i, p := range paths {
		f, err := t.LookupFloat(p)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// InsertPaths writes vals[i] as an evaluated scalar at paths[i], overriding
// existing slots. Lengths must agree.
func (t *Translation) InsertPaths(paths []ir.Path, vals []float64) error {
	if len(paths) != len(vals) {
		return fmt.Errorf("trans: %d paths but %d values", len(paths), len(vals))
	}
	for i, p := range paths {
		if err := t.InsertPath(p, ir.Done{V: ir.FloatV(vals[i])}, true); err != nil {
			return err
		}
	}
	return nil
}
