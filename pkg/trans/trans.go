package trans

import (
	"errors"
	"fmt"

	"github.com/dshills/diagen/pkg/ir"
)

// Sentinel errors for store operations. Callers branch with errors.Is.
var (
	// ErrPathNotFound means the referenced object, field or property does
	// not exist.
	ErrPathNotFound = errors.New("trans: path not found")
	// ErrDuplicatePath means insertion hit an existing slot without override.
	ErrDuplicatePath = errors.New("trans: path already exists")
	// ErrKindMismatch means a field held a primitive where a plain expression
	// was required, or the reverse.
	ErrKindMismatch = errors.New("trans: field kind mismatch")
	// ErrNonVectorAccess means an indexed path landed on a slot that is not
	// vector-valued.
	ErrNonVectorAccess = errors.New("trans: access into a non-vector")
	// ErrSelfAlias means a field aliases itself.
	ErrSelfAlias = errors.New("trans: field aliases itself")
)

// FieldDict is the ordered field map of one object.
type FieldDict = ir.Dict[ir.FieldExpr]

// Translation is the semantic store: object name to field name to field body,
// plus non-fatal warnings.
type Translation struct {
	objs     *ir.Dict[*FieldDict]
	warnings []string
}

// New creates an empty translation.
func New() *Translation {
	return &Translation{objs: ir.NewDict[*FieldDict]()}
}

// Objects returns object names in insertion order.
func (t *Translation) Objects() []string {
	return t.objs.Keys()
}

// EnsureObject creates the object entry if absent and returns its field map.
func (t *Translation) EnsureObject(name string) *FieldDict {
	if fd, ok := t.objs.Get(name); ok {
		return fd
	}
	fd := ir.NewDict[ir.FieldExpr]()
	t.objs.Set(name, fd)
	return fd
}

// Fields returns the field map for object, or nil if the object is unknown.
func (t *Translation) Fields(object string) *FieldDict {
	fd, _ := t.objs.Get(object)
	return fd
}

// AddWarning appends a non-fatal note.
func (t *Translation) AddWarning(format string, args ...interface{}) {
	t.warnings = append(t.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns the accumulated notes.
func (t *Translation) Warnings() []string {
	out := make([]string, len(t.warnings))
	copy(out, t.warnings)
	return out
}

// ClearWarnings drops all accumulated notes.
func (t *Translation) ClearWarnings() {
	t.warnings = nil
}

// LookupField returns the body of object.field.
func (t *Translation) LookupField(p ir.FieldPath) (ir.FieldExpr, error) {
	fd, ok := t.objs.Get(p.Of.Name)
	if !ok {
		return nil, fmt.Errorf("%w: object %q", ErrPathNotFound, p.Of.Name)
	}
	fe, ok := fd.Get(p.Field)
	if !ok {
		return nil, fmt.Errorf("%w: field %q", ErrPathNotFound, p.Key())
	}
	return fe, nil
}

// LookupGPI returns the primitive at object.field, failing if the field is a
// plain expression.
func (t *Translation) LookupGPI(p ir.FieldPath) (ir.FGPI, error) {
	fe, err := t.LookupField(p)
	if err != nil {
		return ir.FGPI{}, err
	}
	gpi, ok := fe.(ir.FGPI)
	if !ok {
		return ir.FGPI{}, fmt.Errorf("%w: %q is not a graphical primitive", ErrKindMismatch, p.Key())
	}
	return gpi, nil
}

// LookupProperty returns the tagged expression stored at
// object.field.property. The field must be a graphical primitive.
func (t *Translation) LookupProperty(p ir.PropertyPath) (ir.TagExpr, error) {
	gpi, err := t.LookupGPI(ir.FieldPath{Of: p.Of, Field: p.Field})
	if err != nil {
		return nil, err
	}
	te, ok := gpi.Props.Get(p.Property)
	if !ok {
		return nil, fmt.Errorf("%w: property %q", ErrPathNotFound, p.Key())
	}
	return te, nil
}

// InsertGPI installs a fresh primitive of the given type at object.field,
// overwriting any previous body.
func (t *Translation) InsertGPI(p ir.FieldPath, typ string) {
	fd := t.EnsureObject(p.Of.Name)
	fd.Set(p.Field, ir.FGPI{Type: typ, Props: ir.NewPropertyDict()})
}

// InsertPath writes a tagged expression at p. Field and property targets
// refuse to overwrite an existing slot unless override is set; the evaluator
// always overrides for memoization writes. Access targets write one element
// inside a vector-valued slot and always overwrite.
func (t *Translation) InsertPath(p ir.Path, te ir.TagExpr, override bool) error {
	switch pp := p.(type) {
	case ir.FieldPath:
		fd := t.EnsureObject(pp.Of.Name)
		if prev, ok := fd.Get(pp.Field); ok {
			if _, isGPI := prev.(ir.FGPI); isGPI {
				return fmt.Errorf("%w: %q is a graphical primitive", ErrKindMismatch, pp.Key())
			}
			if !override {
				return fmt.Errorf("%w: %q", ErrDuplicatePath, pp.Key())
			}
		}
		fd.Set(pp.Field, ir.FExpr{T: te})
		return nil

	case ir.PropertyPath:
		gpi, err := t.LookupGPI(ir.FieldPath{Of: pp.Of, Field: pp.Field})
		if err != nil {
			return err
		}
		if gpi.Props.Has(pp.Property) && !override {
			return fmt.Errorf("%w: %q", ErrDuplicatePath, pp.Key())
		}
		gpi.Props.Set(pp.Property, te)
		return nil

	case ir.AccessPath:
		return t.insertAccess(pp, te)

	case ir.LocalVar:
		return fmt.Errorf("%w: local %q has no storage", ErrPathNotFound, pp.Key())

	default:
		return fmt.Errorf("%w: %q", ErrPathNotFound, p.Key())
	}
}

// insertAccess writes one element of a vector-valued slot. Only single-index
// access is supported; the optimized-vector policy never produces deeper
// indexing.
func (t *Translation) insertAccess(p ir.AccessPath, te ir.TagExpr) error {
	if len(p.Indices) != 1 {
		return fmt.Errorf("%w: %q needs exactly one index", ErrNonVectorAccess, p.Key())
	}
	idx := p.Indices[0]

	done, ok := te.(ir.Done)
	if !ok {
		return fmt.Errorf("%w: %q expects an evaluated scalar", ErrNonVectorAccess, p.Key())
	}
	f, err := ir.AsFloat(done.V)
	if err != nil {
		return fmt.Errorf("%q: %w", p.Key(), err)
	}

	cur, err := t.lookupTag(p.Base)
	if err != nil {
		return err
	}

	switch base := cur.(type) {
	case ir.OptEval:
		vec, ok := base.E.(ir.VectorExpr)
		if !ok {
			return fmt.Errorf("%w: %q", ErrNonVectorAccess, p.Key())
		}
		if idx < 0 || idx >= len(vec.Elems) {
			return fmt.Errorf("%w: index %d out of range at %q", ErrNonVectorAccess, idx, p.Key())
		}
		elems := make([]ir.Expr, len(vec.Elems))
		copy(elems, vec.Elems)
		elems[idx] = ir.Fix(f)
		return t.InsertPath(p.Base, ir.OptEval{E: ir.VectorExpr{Elems: elems}}, true)

	case ir.Done:
		vec, ok := base.V.(ir.VectorV)
		if !ok {
			return fmt.Errorf("%w: %q", ErrNonVectorAccess, p.Key())
		}
		if idx < 0 || idx >= len(vec) {
			return fmt.Errorf("%w: index %d out of range at %q", ErrNonVectorAccess, idx, p.Key())
		}
		next := make(ir.VectorV, len(vec))
		copy(next, vec)
		next[idx] = f
		return t.InsertPath(p.Base, ir.Done{V: next}, true)

	default:
		return fmt.Errorf("%w: %q is pending", ErrNonVectorAccess, p.Key())
	}
}

// lookupTag reads the tagged expression at a field or property path.
func (t *Translation) lookupTag(p ir.Path) (ir.TagExpr, error) {
	switch pp := p.(type) {
	case ir.FieldPath:
		fe, err := t.LookupField(pp)
		if err != nil {
			return nil, err
		}
		fx, ok := fe.(ir.FExpr)
		if !ok {
			return nil, fmt.Errorf("%w: %q is a graphical primitive", ErrKindMismatch, pp.Key())
		}
		return fx.T, nil
	case ir.PropertyPath:
		return t.LookupProperty(pp)
	default:
		return nil, fmt.Errorf("%w: %q", ErrPathNotFound, p.Key())
	}
}

// FoldFields visits every (object, field, body) triple in insertion order.
func (t *Translation) FoldFields(fn func(object, field string, fe ir.FieldExpr)) {
	t.objs.Range(func(object string, fd *FieldDict) bool {
		fd.Range(func(field string, fe ir.FieldExpr) bool {
			fn(object, field, fe)
			return true
		})
		return true
	})
}

// Clone deep-copies the store structure. Tagged expressions and values are
// immutable and shared; dictionaries and the warning list are fresh.
func (t *Translation) Clone() *Translation {
	c := New()
	t.objs.Range(func(object string, fd *FieldDict) bool {
		nfd := ir.NewDict[ir.FieldExpr]()
		fd.Range(func(field string, fe ir.FieldExpr) bool {
			if gpi, ok := fe.(ir.FGPI); ok {
				nfd.Set(field, ir.FGPI{Type: gpi.Type, Props: gpi.Props.Clone()})
			} else {
				nfd.Set(field, fe)
			}
			return true
		})
		c.objs.Set(object, nfd)
		return true
	})
	c.warnings = append([]string(nil), t.warnings...)
	return c
}
