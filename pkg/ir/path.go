package ir

import (
	"fmt"
	"strings"
)

// BindingKind distinguishes identifiers bound by the substance program from
// identifiers local to a style block.
type BindingKind int

const (
	// BindSub marks a substance-bound identifier.
	BindSub BindingKind = iota
	// BindSty marks a style-local identifier.
	BindSty
)

// String returns the string representation of the BindingKind.
func (k BindingKind) String() string {
	switch k {
	case BindSub:
		return "Sub"
	case BindSty:
		return "Sty"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// BindingForm is a named identifier plus its binding origin. Two forms with
// the same name but different origins refer to the same translation object;
// the origin is kept for diagnostics only.
type BindingForm struct {
	Kind BindingKind
	Name string
}

// SubVar creates a substance-bound identifier.
func SubVar(name string) BindingForm { return BindingForm{Kind: BindSub, Name: name} }

// StyVar creates a style-local identifier.
func StyVar(name string) BindingForm { return BindingForm{Kind: BindSty, Name: name} }

// String returns the bare identifier name.
func (b BindingForm) String() string { return b.Name }

// Path is a typed reference into the translation store. It is a closed sum of
// FieldPath, PropertyPath, AccessPath and LocalVar.
//
// Paths are the unique keys of the translation; Key returns the canonical
// string form used wherever a comparable key is needed (overlay maps, test
// expectations).
type Path interface {
	isPath()
	// Key returns the canonical string form, e.g. "A.shape.r" or "x.val[1]".
	Key() string
}

// FieldPath references a field of an object: object.field.
type FieldPath struct {
	Of    BindingForm
	Field string
}

// PropertyPath references a property of a graphical primitive:
// object.field.property.
type PropertyPath struct {
	Of       BindingForm
	Field    string
	Property string
}

// AccessPath selects elements inside a vector- or matrix-valued path.
type AccessPath struct {
	Base    Path
	Indices []int
}

// LocalVar is an anonymous style-local slot.
type LocalVar struct {
	Name string
}

func (FieldPath) isPath()    {}
func (PropertyPath) isPath() {}
func (AccessPath) isPath()   {}
func (LocalVar) isPath()     {}

// Key implements Path.
func (p FieldPath) Key() string {
	return p.Of.Name + "." + p.Field
}

// Key implements Path.
func (p PropertyPath) Key() string {
	return p.Of.Name + "." + p.Field + "." + p.Property
}

// Key implements Path.
func (p AccessPath) Key() string {
	var sb strings.Builder
	sb.WriteString(p.Base.Key())
	for _, i := range p.Indices {
		fmt.Fprintf(&sb, "[%d]", i)
	}
	return sb.String()
}

// Key implements Path.
func (p LocalVar) Key() string {
	return "$" + p.Name
}

// Field creates a FieldPath for a substance-bound object.
func Field(obj, field string) FieldPath {
	return FieldPath{Of: SubVar(obj), Field: field}
}

// Property creates a PropertyPath for a substance-bound object.
func Property(obj, field, prop string) PropertyPath {
	return PropertyPath{Of: SubVar(obj), Field: field, Property: prop}
}

// Access creates an AccessPath over base.
func Access(base Path, indices ...int) AccessPath {
	return AccessPath{Base: base, Indices: indices}
}
