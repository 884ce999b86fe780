package export

import (
	"encoding/json"
	"os"

	"github.com/dshills/diagen/pkg/ir"
)

// Diagram is the JSON export form: the evaluated shapes with their layering
// order, enough for an external renderer to draw the scene.
type Diagram struct {
	Shapes   []ShapeJSON `json:"shapes"`
	Ordering []string    `json:"ordering"`
}

// ShapeJSON is one evaluated shape with its properties flattened to plain
// JSON values.
type ShapeJSON struct {
	Type       string                 `json:"type"`
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties"`
}

// ExportJSON serializes shapes and their layering order to JSON with
// indentation.
func ExportJSON(shapeList []ir.Shape, ordering []string) ([]byte, error) {
	return json.MarshalIndent(toDiagram(shapeList, ordering), "", "  ")
}

// ExportJSONCompact serializes shapes without indentation.
// Returns compact JSON suitable for storage or transmission.
func ExportJSONCompact(shapeList []ir.Shape, ordering []string) ([]byte, error) {
	return json.Marshal(toDiagram(shapeList, ordering))
}

// SaveJSONToFile exports shapes to a JSON file with indentation.
// The file is created with 0644 permissions (readable by all, writable by owner).
func SaveJSONToFile(shapeList []ir.Shape, ordering []string, path string) error {
	data, err := ExportJSON(shapeList, ordering)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func toDiagram(shapeList []ir.Shape, ordering []string) Diagram {
	d := Diagram{
		Shapes:   make([]ShapeJSON, len(shapeList)),
		Ordering: append([]string(nil), ordering...),
	}
	for i, s := range shapeList {
		props := make(map[string]interface{}, s.Props.Len())
		s.Props.Range(func(name string, v ir.Value) bool {
			props[name] = jsonValue(v)
			return true
		})
		d.Shapes[i] = ShapeJSON{Type: s.Type, Name: s.Name(), Properties: props}
	}
	return d
}

// jsonValue flattens an ir value into JSON-marshalable data.
func jsonValue(v ir.Value) interface{} {
	switch t := v.(type) {
	case ir.FloatV:
		return float64(t)
	case ir.IntV:
		return int64(t)
	case ir.BoolV:
		return bool(t)
	case ir.StrV:
		return string(t)
	case ir.StyleV:
		return string(t)
	case ir.FileV:
		return string(t)
	case ir.PtV:
		return []float64{t.X, t.Y}
	case ir.TupV:
		return []float64{t.A, t.B}
	case ir.VectorV:
		return []float64(t)
	case ir.ListV:
		return []float64(t)
	case ir.MatrixV:
		return [][]float64(t)
	case ir.LListV:
		return [][]float64(t)
	case ir.PtListV:
		out := make([][]float64, len(t))
		for i, p := range t {
			out[i] = []float64{p.X, p.Y}
		}
		return out
	case ir.ColorV:
		space := "rgba"
		if t.Space == ir.ColorHSVA {
			space = "hsva"
		}
		return map[string]interface{}{
			"space": space, "values": []float64{t.A, t.B, t.C, t.D},
		}
	default:
		return map[string]string{"kind": ir.ValueKindOf(v)}
	}
}
