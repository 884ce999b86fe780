package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dshills/diagen/pkg/ir"
)

func testCircle(name string, x, y, r float64) ir.Shape {
	s := ir.NewShape("Circle")
	s.Props.Set("center", ir.VectorV{x, y})
	s.Props.Set("r", ir.FloatV(r))
	s.Props.Set("strokeWidth", ir.FloatV(1))
	s.Props.Set("color", ir.ColorV{Space: ir.ColorRGBA, A: 1, B: 0, C: 0, D: 0.5})
	s.Props.Set("strokeColor", ir.ColorV{Space: ir.ColorRGBA, D: 1})
	s.Props.Set(ir.NameProperty, ir.StrV(name))
	return s
}

func testArrow(name string, x1, y1, x2, y2 float64) ir.Shape {
	s := ir.NewShape("Arrow")
	s.Props.Set("start", ir.VectorV{x1, y1})
	s.Props.Set("end", ir.VectorV{x2, y2})
	s.Props.Set("thickness", ir.FloatV(2))
	s.Props.Set("arrowheadSize", ir.FloatV(8))
	s.Props.Set("color", ir.ColorV{Space: ir.ColorRGBA, D: 1})
	s.Props.Set("style", ir.StyleV("solid"))
	s.Props.Set(ir.NameProperty, ir.StrV(name))
	return s
}

func TestExportSVG_Basic(t *testing.T) {
	shapes := []ir.Shape{
		testCircle("A.shape", 0, 0, 40),
		testArrow("B.arrow", -50, 0, 50, 0),
	}
	data, err := ExportSVG(shapes, []string{"A.shape", "B.arrow"}, DefaultSVGOptions())
	if err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	out := string(data)

	for _, want := range []string{"<svg", "<circle", "<line", "<polygon", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestExportSVG_LayeringOrder(t *testing.T) {
	shapes := []ir.Shape{
		testCircle("top", 0, 0, 10),
		testCircle("bottom", 0, 0, 20),
	}
	data, err := ExportSVG(shapes, []string{"bottom", "top"}, DefaultSVGOptions())
	if err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	out := string(data)

	// "bottom" (r=20) must be emitted before "top" (r=10).
	iBottom := strings.Index(out, `r="20"`)
	iTop := strings.Index(out, `r="10"`)
	if iBottom < 0 || iTop < 0 {
		t.Fatalf("circles missing from output:\n%s", out)
	}
	if iBottom > iTop {
		t.Error("layering order not honored in draw order")
	}
}

func TestExportSVG_UnknownType(t *testing.T) {
	s := ir.NewShape("Blob")
	s.Props.Set(ir.NameProperty, ir.StrV("X.b"))
	if _, err := ExportSVG([]ir.Shape{s}, nil, DefaultSVGOptions()); err == nil {
		t.Error("unknown shape type should fail")
	}
}

func TestExportSVG_Labels(t *testing.T) {
	opts := DefaultSVGOptions()
	opts.ShowLabels = true
	data, err := ExportSVG([]ir.Shape{testCircle("A.shape", 0, 0, 30)}, []string{"A.shape"}, opts)
	if err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	if !strings.Contains(string(data), "A.shape") {
		t.Error("label missing")
	}
}

func TestExportJSON(t *testing.T) {
	shapes := []ir.Shape{testCircle("A.shape", 1, 2, 3)}
	data, err := ExportJSON(shapes, []string{"A.shape"})
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(d.Shapes) != 1 || d.Shapes[0].Type != "Circle" || d.Shapes[0].Name != "A.shape" {
		t.Errorf("diagram = %+v", d)
	}
	if d.Shapes[0].Properties["r"].(float64) != 3 {
		t.Errorf("r = %v", d.Shapes[0].Properties["r"])
	}
	if !strings.Contains(string(data), "\"ordering\"") {
		t.Error("ordering missing")
	}
}

func TestHSVConversion(t *testing.T) {
	r, g, b := hsvToRGB(0, 1, 1)
	if r != 1 || g != 0 || b != 0 {
		t.Errorf("hsv(0,1,1) = %v,%v,%v, want red", r, g, b)
	}
	r, g, b = hsvToRGB(120, 1, 1)
	if r != 0 || g != 1 || b != 0 {
		t.Errorf("hsv(120,1,1) = %v,%v,%v, want green", r, g, b)
	}
}
