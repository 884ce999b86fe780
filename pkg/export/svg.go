// Package export renders evaluated shapes. It sits downstream of the engine
// core: it consumes the evaluated shape list and the layering order and
// never touches the translation or the optimizer.
package export

import (
	"bytes"
	"fmt"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/diagen/pkg/ir"
)

// SVGOptions configures SVG export.
type SVGOptions struct {
	Width      int    // Canvas width in pixels
	Height     int    // Canvas height in pixels
	ShowLabels bool   // Draw shape names next to shapes
	Background string // Background fill color
	Title      string // Optional title
}

// DefaultSVGOptions returns sensible default SVG export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      800,
		Height:     700,
		Background: "#ffffff",
	}
}

// ExportSVG renders shapes in layering order (earlier names render below
// later ones) and returns the SVG bytes. Shapes missing from the ordering
// render first, in list order.
func ExportSVG(shapeList []ir.Shape, ordering []string, opts SVGOptions) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 700
	}
	if opts.Background == "" {
		opts.Background = "#ffffff"
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:"+opts.Background)

	// The engine's coordinate system puts the origin at the canvas center
	// with y growing upward; SVG puts it top-left with y growing down.
	cx := float64(opts.Width) / 2
	cy := float64(opts.Height) / 2
	tx := func(x float64) int { return int(math.Round(cx + x)) }
	ty := func(y float64) int { return int(math.Round(cy - y)) }

	for _, s := range orderShapes(shapeList, ordering) {
		if err := drawShape(canvas, s, tx, ty); err != nil {
			return nil, err
		}
		if opts.ShowLabels {
			drawLabel(canvas, s, tx, ty)
		}
	}

	if opts.Title != "" {
		canvas.Text(10, 20, opts.Title, "font-family:sans-serif;font-size:14px;fill:#333")
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile renders shapes and writes the result to a file.
// The file is created with 0644 permissions (readable by all, writable by owner).
func SaveSVGToFile(shapeList []ir.Shape, ordering []string, path string, opts SVGOptions) error {
	data, err := ExportSVG(shapeList, ordering, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// orderShapes sorts shapes by the layering order. Unlisted shapes keep their
// list order and render first.
func orderShapes(shapeList []ir.Shape, ordering []string) []ir.Shape {
	rank := make(map[string]int, len(ordering))
	for i, name := range ordering {
		rank[name] = i + 1
	}
	out := make([]ir.Shape, len(shapeList))
	copy(out, shapeList)
	// Stable insertion sort; shape lists are small.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && rank[out[j].Name()] < rank[out[j-1].Name()]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// drawShape renders one shape by catalog type.
func drawShape(canvas *svg.SVG, s ir.Shape, tx, ty func(float64) int) error {
	switch s.Type {
	case "Circle":
		x, y := center(s)
		r := floatProp(s, "r", 20)
		canvas.Circle(tx(x), ty(y), int(r), fillStyle(s)+strokeStyle(s, "strokeColor", "strokeWidth"))

	case "Ellipse":
		x, y := center(s)
		rx := floatProp(s, "rx", 30)
		ry := floatProp(s, "ry", 20)
		canvas.Ellipse(tx(x), ty(y), int(rx), int(ry), fillStyle(s)+strokeStyle(s, "strokeColor", "strokeWidth"))

	case "Square":
		x, y := center(s)
		side := floatProp(s, "side", 40)
		canvas.Rect(tx(x-side/2), ty(y+side/2), int(side), int(side),
			fillStyle(s)+strokeStyle(s, "strokeColor", "strokeWidth"))

	case "Rectangle", "Image":
		x, y := center(s)
		w := floatProp(s, "w", 40)
		h := floatProp(s, "h", 30)
		canvas.Rect(tx(x-w/2), ty(y+h/2), int(w), int(h),
			fillStyle(s)+strokeStyle(s, "strokeColor", "strokeWidth"))

	case "Line":
		x1, y1, x2, y2 := segment(s)
		canvas.Line(tx(x1), ty(y1), tx(x2), ty(y2), lineStyle(s))

	case "Arrow":
		x1, y1, x2, y2 := segment(s)
		canvas.Line(tx(x1), ty(y1), tx(x2), ty(y2), lineStyle(s))
		drawArrowhead(canvas, s, tx, ty)

	case "Curve":
		pts, ok := ptsProp(s, "path")
		if !ok || len(pts) == 0 {
			return nil
		}
		xs := make([]int, len(pts))
		ys := make([]int, len(pts))
		for i, p := range pts {
			xs[i] = tx(p.X)
			ys[i] = ty(p.Y)
		}
		canvas.Polyline(xs, ys, "fill:none;"+lineStyle(s))

	case "Text":
		x, y := center(s)
		canvas.Text(tx(x), ty(y), strProp(s, "string"),
			fmt.Sprintf("font-family:sans-serif;font-size:%s;text-anchor:middle;fill:%s",
				strPropOr(s, "fontSize", "12pt"), colorHex(s, "color", "#000000")))

	default:
		return fmt.Errorf("export: no renderer for shape type %q", s.Type)
	}
	return nil
}

// drawArrowhead draws the triangular head at the end of an arrow.
func drawArrowhead(canvas *svg.SVG, s ir.Shape, tx, ty func(float64) int) {
	x1, y1, x2, y2 := segment(s)
	size := floatProp(s, "arrowheadSize", 8)
	angle := math.Atan2(y2-y1, x2-x1)

	left := angle + 5*math.Pi/6
	right := angle - 5*math.Pi/6
	xs := []int{tx(x2), tx(x2 + size*math.Cos(left)), tx(x2 + size*math.Cos(right))}
	ys := []int{ty(y2), ty(y2 + size*math.Sin(left)), ty(y2 + size*math.Sin(right))}
	canvas.Polygon(xs, ys, "fill:"+colorHex(s, "color", "#333333"))
}

func drawLabel(canvas *svg.SVG, s ir.Shape, tx, ty func(float64) int) {
	x, y := center(s)
	canvas.Text(tx(x), ty(y)-4, s.Name(),
		"font-family:sans-serif;font-size:10px;text-anchor:middle;fill:#555")
}

// center reads the shape position, falling back to the segment midpoint.
func center(s ir.Shape) (float64, float64) {
	if v, ok := s.Props.Get("center"); ok {
		if x, y, ok := vec2(v); ok {
			return x, y
		}
	}
	x1, y1, x2, y2 := segment(s)
	return (x1 + x2) / 2, (y1 + y2) / 2
}

func segment(s ir.Shape) (x1, y1, x2, y2 float64) {
	if v, ok := s.Props.Get("start"); ok {
		x1, y1, _ = vec2(v)
	}
	if v, ok := s.Props.Get("end"); ok {
		x2, y2, _ = vec2(v)
	}
	return x1, y1, x2, y2
}

func vec2(v ir.Value) (float64, float64, bool) {
	switch t := v.(type) {
	case ir.VectorV:
		if len(t) == 2 {
			return t[0], t[1], true
		}
	case ir.TupV:
		return t.A, t.B, true
	case ir.PtV:
		return t.X, t.Y, true
	}
	return 0, 0, false
}

func floatProp(s ir.Shape, name string, fallback float64) float64 {
	v, ok := s.Props.Get(name)
	if !ok {
		return fallback
	}
	f, err := ir.AsFloat(v)
	if err != nil {
		return fallback
	}
	return f
}

func strProp(s ir.Shape, name string) string {
	v, ok := s.Props.Get(name)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case ir.StrV:
		return string(t)
	case ir.StyleV:
		return string(t)
	}
	return ""
}

func strPropOr(s ir.Shape, name, fallback string) string {
	if v := strProp(s, name); v != "" {
		return v
	}
	return fallback
}

func ptsProp(s ir.Shape, name string) (ir.PtListV, bool) {
	v, ok := s.Props.Get(name)
	if !ok {
		return nil, false
	}
	pts, ok := v.(ir.PtListV)
	return pts, ok
}

func fillStyle(s ir.Shape) string {
	v, ok := s.Props.Get("color")
	if !ok {
		return "fill:#cccccc;"
	}
	col, ok := v.(ir.ColorV)
	if !ok {
		return "fill:#cccccc;"
	}
	r, g, b, a := rgba(col)
	return fmt.Sprintf("fill:rgb(%d,%d,%d);fill-opacity:%.3f;", r, g, b, a)
}

func strokeStyle(s ir.Shape, colorProp, widthProp string) string {
	return fmt.Sprintf("stroke:%s;stroke-width:%.1f",
		colorHex(s, colorProp, "#333333"), floatProp(s, widthProp, 1))
}

func lineStyle(s ir.Shape) string {
	style := fmt.Sprintf("stroke:%s;stroke-width:%.1f",
		colorHex(s, "color", "#333333"), floatProp(s, "thickness", 2))
	if strProp(s, "style") == "dashed" {
		style += ";stroke-dasharray:5,5"
	}
	return style
}

func colorHex(s ir.Shape, name, fallback string) string {
	v, ok := s.Props.Get(name)
	if !ok {
		return fallback
	}
	col, ok := v.(ir.ColorV)
	if !ok {
		return fallback
	}
	r, g, b, _ := rgba(col)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// rgba converts a color value to 8-bit RGB plus alpha in [0,1].
func rgba(c ir.ColorV) (r, g, b int, a float64) {
	if c.Space == ir.ColorHSVA {
		fr, fg, fb := hsvToRGB(c.A, c.B, c.C)
		return to255(fr), to255(fg), to255(fb), clamp01(c.D)
	}
	return to255(c.A), to255(c.B), to255(c.C), clamp01(c.D)
}

func to255(f float64) int {
	return int(math.Round(clamp01(f) * 255))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// hsvToRGB converts hue in degrees and saturation/value in [0,1].
func hsvToRGB(h, s, v float64) (r, g, b float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
