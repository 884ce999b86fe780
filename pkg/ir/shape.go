package ir

// NameProperty is the synthetic property injected into every evaluated shape
// and every sampled property dictionary, holding "object.field".
const NameProperty = "name"

// Shape is a fully evaluated graphical primitive: its catalog type name and a
// flat, insertion-ordered property dictionary of concrete values.
type Shape struct {
	Type  string
	Props *Dict[Value]
}

// NewShape creates an empty shape of the given type.
func NewShape(typ string) Shape {
	return Shape{Type: typ, Props: NewDict[Value]()}
}

// Name returns the injected "name" property, or "" if absent.
func (s Shape) Name() string {
	v, ok := s.Props.Get(NameProperty)
	if !ok {
		return ""
	}
	str, ok := v.(StrV)
	if !ok {
		return ""
	}
	return string(str)
}

// ShapeName forms the canonical shape name for a field path, "object.field".
func ShapeName(p FieldPath) string {
	return p.Key()
}

// ArgVal is an evaluated argument: a plain value or a whole shape.
type ArgVal interface {
	isArgVal()
}

// Val wraps a plain value.
type Val struct {
	V Value
}

// GPI wraps an evaluated shape.
type GPI struct {
	S Shape
}

func (Val) isArgVal() {}
func (GPI) isArgVal() {}
