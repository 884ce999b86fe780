package ir

import "fmt"

// Value is a fully evaluated runtime value. It is a closed sum; every variant
// carries concrete data and no deferred computation.
type Value interface {
	isValue()
	// Kind returns a short tag for diagnostics, e.g. "float", "color".
	Kind() string
}

// FloatV is a scalar.
type FloatV float64

// IntV is a 64-bit integer.
type IntV int64

// BoolV is a boolean.
type BoolV bool

// StrV is a string.
type StrV string

// PtV is a 2D point.
type PtV struct {
	X, Y float64
}

// PtListV is a list of 2D points.
type PtListV []PtV

// ElemKind tags a sub-path element.
type ElemKind int

const (
	// ElemLine is a straight segment through its points.
	ElemLine ElemKind = iota
	// ElemQuad is a quadratic Bezier segment.
	ElemQuad
	// ElemCubic is a cubic Bezier segment.
	ElemCubic
)

// PathElem is one element of a sub-path.
type PathElem struct {
	Elem ElemKind
	Pts  []PtV
}

// SubPath is a run of path elements, open or closed.
type SubPath struct {
	Closed bool
	Elems  []PathElem
}

// PathDataV is SVG-style path data: a sequence of sub-paths.
type PathDataV []SubPath

// PaletteV is a list of colors.
type PaletteV []ColorV

// ColorKind tags the color space of a ColorV.
type ColorKind int

const (
	// ColorRGBA stores red, green, blue, alpha in [0,1].
	ColorRGBA ColorKind = iota
	// ColorHSVA stores hue in degrees and saturation, value, alpha in [0,1].
	ColorHSVA
)

// ColorV is a four-component color in RGBA or HSVA space.
type ColorV struct {
	Space      ColorKind
	A, B, C, D float64
}

// FileV is a file reference.
type FileV string

// StyleV is a free-form style keyword (e.g. "dashed").
type StyleV string

// ListV is a list of scalars.
type ListV []float64

// TupV is a pair of scalars.
type TupV struct {
	A, B float64
}

// VectorV is a scalar vector.
type VectorV []float64

// MatrixV is a dense scalar matrix in row-major rows.
type MatrixV [][]float64

// LListV is a ragged list of scalar lists.
type LListV [][]float64

// HMatrixV is a six-component 2D affine transform:
//
//	| XScale XSkew  DX |
//	| YSkew  YScale DY |
type HMatrixV struct {
	XScale, XSkew, YSkew, YScale, DX, DY float64
}

// PolygonV is a region set: positive and negative closed contours, a bounding
// box, and precomputed boundary sample points.
type PolygonV struct {
	Positive [][]PtV
	Negative [][]PtV
	BBoxMin  PtV
	BBoxMax  PtV
	Samples  []PtV
}

func (FloatV) isValue()    {}
func (IntV) isValue()      {}
func (BoolV) isValue()     {}
func (StrV) isValue()      {}
func (PtV) isValue()       {}
func (PtListV) isValue()   {}
func (PathDataV) isValue() {}
func (PaletteV) isValue()  {}
func (ColorV) isValue()    {}
func (FileV) isValue()     {}
func (StyleV) isValue()    {}
func (ListV) isValue()     {}
func (TupV) isValue()      {}
func (VectorV) isValue()   {}
func (MatrixV) isValue()   {}
func (LListV) isValue()    {}
func (HMatrixV) isValue()  {}
func (PolygonV) isValue()  {}

// Kind implements Value.
func (FloatV) Kind() string { return "float" }

// Kind implements Value.
func (IntV) Kind() string { return "int" }

// Kind implements Value.
func (BoolV) Kind() string { return "bool" }

// Kind implements Value.
func (StrV) Kind() string { return "string" }

// Kind implements Value.
func (PtV) Kind() string { return "point" }

// Kind implements Value.
func (PtListV) Kind() string { return "ptlist" }

// Kind implements Value.
func (PathDataV) Kind() string { return "pathdata" }

// Kind implements Value.
func (PaletteV) Kind() string { return "palette" }

// Kind implements Value.
func (ColorV) Kind() string { return "color" }

// Kind implements Value.
func (FileV) Kind() string { return "file" }

// Kind implements Value.
func (StyleV) Kind() string { return "style" }

// Kind implements Value.
func (ListV) Kind() string { return "list" }

// Kind implements Value.
func (TupV) Kind() string { return "tuple" }

// Kind implements Value.
func (VectorV) Kind() string { return "vector" }

// Kind implements Value.
func (MatrixV) Kind() string { return "matrix" }

// Kind implements Value.
func (LListV) Kind() string { return "llist" }

// Kind implements Value.
func (HMatrixV) Kind() string { return "hmatrix" }

// Kind implements Value.
func (PolygonV) Kind() string { return "polygon" }

// ValueKindOf names the dynamic variant of v, or "nil" for a nil Value.
func ValueKindOf(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind()
}

// AsFloat extracts a scalar from FloatV or IntV.
func AsFloat(v Value) (float64, error) {
	switch x := v.(type) {
	case FloatV:
		return float64(x), nil
	case IntV:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("expected a scalar, got %s", ValueKindOf(v))
	}
}
