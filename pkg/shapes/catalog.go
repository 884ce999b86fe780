package shapes

import (
	"fmt"
	"sync"

	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/rng"
)

// Canvas is the drawing surface extent. Position samplers draw uniformly
// inside [-Width/2, Width/2] x [-Height/2, Height/2].
type Canvas struct {
	Width  float64
	Height float64
}

// HalfW returns half the canvas width.
func (c Canvas) HalfW() float64 { return c.Width / 2 }

// HalfH returns half the canvas height.
func (c Canvas) HalfH() float64 { return c.Height / 2 }

// SampleFunc draws an initial value for one property. Implementations must
// advance the RNG a fixed number of times per call so sampling stays
// reproducible.
type SampleFunc func(r *rng.RNG, canvas Canvas) ir.Value

// PropSpec describes one property of a shape type.
type PropSpec struct {
	// Name is the property key in the shape's dictionary.
	Name string

	// Kind is the ir value kind this property holds, e.g. "float", "vector".
	Kind string

	// Pending marks a property whose final value is substituted externally
	// after initial evaluation.
	Pending bool

	// Sample draws an initial value.
	Sample SampleFunc
}

// Scalar reports whether the property is scalar-typed and therefore a
// candidate for the varying set.
func (p PropSpec) Scalar() bool {
	return p.Kind == "float"
}

// ComputedProp derives a property value from sibling properties instead of
// storing it. Args lists the sibling property names the compute function
// needs, in order.
type ComputedProp struct {
	Args    []string
	Compute func(args []ir.Value) (ir.Value, error)
}

// Spec is the full schema of one shape type.
type Spec struct {
	// Type is the catalog name, e.g. "Circle".
	Type string

	// Props lists the properties in declaration order. The synthetic "name"
	// property is not listed; it is injected by the sampler and evaluator.
	Props []PropSpec

	// DefaultObjectives names objective functions attached to every instance
	// of this type, each called with the instance as its only argument.
	DefaultObjectives []string

	// DefaultConstraints names constraint functions attached likewise.
	DefaultConstraints []string

	// Computed maps property names to on-demand derivations.
	Computed map[string]ComputedProp
}

// Prop returns the spec for a property name.
func (s *Spec) Prop(name string) (PropSpec, bool) {
	for _, p := range s.Props {
		if p.Name == name {
			return p, true
		}
	}
	return PropSpec{}, false
}

// IsPending reports whether the named property is pending.
func (s *Spec) IsPending(name string) bool {
	p, ok := s.Prop(name)
	return ok && p.Pending
}

// ComputedProp returns the derivation for a property, if one is declared.
func (s *Spec) ComputedProp(name string) (ComputedProp, bool) {
	cp, ok := s.Computed[name]
	return cp, ok
}

// Registry of shape schemas.
var (
	specsMu sync.RWMutex
	specs   = make(map[string]*Spec)
)

// Register adds a schema to the global catalog.
// Panics if the type name is already registered.
func Register(s *Spec) {
	specsMu.Lock()
	defer specsMu.Unlock()

	if _, exists := specs[s.Type]; exists {
		panic(fmt.Sprintf("shape type %q already registered", s.Type))
	}

	specs[s.Type] = s
}

// Get retrieves a schema by type name.
// Returns nil if not found.
func Get(typ string) *Spec {
	specsMu.RLock()
	defer specsMu.RUnlock()

	return specs[typ]
}

// List returns all registered type names.
func List() []string {
	specsMu.RLock()
	defer specsMu.RUnlock()

	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	return names
}
