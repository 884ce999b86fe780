// Package sampler draws initial values for everything the upstream compiler
// left open: free field scalars and uninitialized or free shape properties.
//
// Sampling is schema-driven and strictly ordered. Shapes are visited in
// store order and their properties in schema declaration order; the RNG is
// advanced once per draw and threaded left to right, so a fixed seed
// reproduces byte-identical dictionaries. Free field scalars are drawn
// uniformly over the canvas dimensions.
package sampler

import (
	"fmt"

	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/rng"
	"github.com/dshills/diagen/pkg/shapes"
	"github.com/dshills/diagen/pkg/trans"
)

// SampleShapes initializes the property dictionaries of every listed
// primitive from its catalog schema.
//
// Per property, the current dictionary entry decides the action: an absent
// entry is sampled (tagged Pending if the schema marks it pending, Done
// otherwise); a free scalar or a vector with free components is resampled to
// Done; any other stored expression or evaluated value is left untouched.
// The synthetic "name" property is always set last.
func SampleShapes(t *trans.Translation, shapePaths []ir.FieldPath, r *rng.RNG, canvas shapes.Canvas) error {
	for _, sp := range shapePaths {
		gpi, err := t.LookupGPI(sp)
		if err != nil {
			return err
		}
		spec := shapes.Get(gpi.Type)
		if spec == nil {
			return fmt.Errorf("sampler: unknown shape type %q at %s", gpi.Type, sp.Key())
		}

		for _, prop := range spec.Props {
			pp := ir.PropertyPath{Of: sp.Of, Field: sp.Field, Property: prop.Name}
			cur, ok := gpi.Props.Get(prop.Name)
			if !ok {
				v := prop.Sample(r, canvas)
				var te ir.TagExpr
				if prop.Pending {
					te = ir.Pending{V: v}
				} else {
					te = ir.Done{V: v}
				}
				if err := t.InsertPath(pp, te, true); err != nil {
					return err
				}
				continue
			}

			opt, isOpt := cur.(ir.OptEval)
			if !isOpt {
				continue
			}
			switch e := opt.E.(type) {
			case ir.AFloat:
				if !e.Vary {
					continue
				}
				if err := t.InsertPath(pp, ir.Done{V: prop.Sample(r, canvas)}, true); err != nil {
					return err
				}
			case ir.VectorExpr:
				if allVary(e) {
					if err := t.InsertPath(pp, ir.Done{V: prop.Sample(r, canvas)}, true); err != nil {
						return err
					}
					continue
				}
				v, changed, err := sampleVectorElems(e, r, canvas)
				if err != nil {
					return fmt.Errorf("sampler: %s: %w", pp.Key(), err)
				}
				if !changed {
					continue
				}
				if err := t.InsertPath(pp, ir.Done{V: v}, true); err != nil {
					return err
				}
			}
		}

		name := ir.StrV(ir.ShapeName(sp))
		if err := t.InsertPath(
			ir.PropertyPath{Of: sp.Of, Field: sp.Field, Property: ir.NameProperty},
			ir.Done{V: name}, true); err != nil {
			return err
		}
	}
	return nil
}

// allVary reports whether every component of a vector literal is free.
func allVary(vec ir.VectorExpr) bool {
	if len(vec.Elems) == 0 {
		return false
	}
	for _, e := range vec.Elems {
		if !ir.IsVary(e) {
			return false
		}
	}
	return true
}

// sampleVectorElems resolves a shape-property vector literal whose
// components may be free: fixed components keep their value, free ones draw
// from the same centered canvas range the catalog's position samplers use,
// so a component's domain does not depend on whether its sibling is also
// free.
func sampleVectorElems(vec ir.VectorExpr, r *rng.RNG, canvas shapes.Canvas) (ir.VectorV, bool, error) {
	changed := false
	out := make(ir.VectorV, len(vec.Elems))
	for i, e := range vec.Elems {
		af, ok := e.(ir.AFloat)
		if !ok {
			return nil, false, fmt.Errorf("vector component %d is not a float literal", i)
		}
		if af.Vary {
			out[i] = sampleCenteredScalar(r, canvas, i)
			changed = true
		} else {
			out[i] = af.Val
		}
	}
	return out, changed, nil
}

// sampleCenteredScalar draws one position component over the centered
// canvas extent, matching the catalog's position samplers.
func sampleCenteredScalar(r *rng.RNG, canvas shapes.Canvas, axis int) float64 {
	if axis == 1 {
		return r.Float64Range(-canvas.HalfH(), canvas.HalfH())
	}
	return r.Float64Range(-canvas.HalfW(), canvas.HalfW())
}

// SampleFields draws values for the free field slots among varying. Property
// slots are skipped; SampleShapes owns those. Field scalars and the first
// vector component draw over the canvas width, the second component over the
// height.
func SampleFields(t *trans.Translation, varying []ir.Path, r *rng.RNG, canvas shapes.Canvas) error {
	for _, p := range varying {
		switch pp := p.(type) {
		case ir.FieldPath:
			v := ir.FloatV(sampleCanvasScalar(r, canvas, 0))
			if err := t.InsertPath(pp, ir.Done{V: v}, true); err != nil {
				return err
			}
		case ir.AccessPath:
			if _, ok := pp.Base.(ir.FieldPath); !ok {
				continue
			}
			idx := 0
			if len(pp.Indices) == 1 {
				idx = pp.Indices[0]
			}
			v := ir.Done{V: ir.FloatV(sampleCanvasScalar(r, canvas, idx))}
			if err := t.InsertPath(pp, v, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// sampleCanvasScalar draws a scalar over the canvas extent for one axis.
func sampleCanvasScalar(r *rng.RNG, canvas shapes.Canvas, axis int) float64 {
	if axis == 1 {
		return r.Float64Range(0, canvas.Height)
	}
	return r.Float64Range(0, canvas.Width)
}
