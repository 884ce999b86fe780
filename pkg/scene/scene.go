// Package scene builds a translation from a structural YAML document. It
// stands in for the upstream style/substance compiler: the document lists
// objects, their fields, and typed expression nodes, and the builder lowers
// them into the translation store without any text parsing.
//
// Document shape:
//
//	objects:
//	  A:
//	    shape:
//	      shape: Circle
//	      props:
//	        r: "?"
//	        center: {vec: ["?", "?"]}
//	  layout:
//	    o1: {objective: near, args: [{path: A.shape}, {path: B.shape}]}
//	    l1: {layering: {below: B.shape, above: A.shape}}
//
// Expression nodes are maps keyed by a single discriminator (float, int,
// str, bool, path, comp, objective, constraint, avoid, op, neg, vec, list,
// tuple, matrix, layering). Bare YAML scalars are literals, and the string
// "?" is a free float slot.
//
// Decoding walks the yaml.Node tree instead of untyped maps so that object
// and field order in the document becomes insertion order in the store; the
// engine's determinism leans on that.
package scene

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/trans"
)

// Load reads and builds a scene file.
func Load(path string) (*trans.Translation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return Build(data)
}

// Build lowers a structural YAML document into a translation.
func Build(data []byte) (*trans.Translation, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("scene: empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("scene: top level must be a mapping")
	}

	objects := childValue(root, "objects")
	if objects == nil {
		return nil, fmt.Errorf("scene: missing %q section", "objects")
	}
	if objects.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("scene: %q must be a mapping", "objects")
	}

	t := trans.New()
	for i := 0; i < len(objects.Content); i += 2 {
		objName := objects.Content[i].Value
		fields := objects.Content[i+1]
		if fields.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("scene: object %q must be a mapping of fields", objName)
		}
		for j := 0; j < len(fields.Content); j += 2 {
			fieldName := fields.Content[j].Value
			body := fields.Content[j+1]
			if err := buildField(t, objName, fieldName, body); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// buildField lowers one field body: a shape declaration or an expression.
func buildField(t *trans.Translation, obj, field string, n *yaml.Node) error {
	fp := ir.Field(obj, field)

	if n.Kind == yaml.MappingNode {
		if typ := childValue(n, "shape"); typ != nil && typ.Kind == yaml.ScalarNode {
			t.InsertGPI(fp, typ.Value)
			props := childValue(n, "props")
			if props == nil {
				return nil
			}
			if props.Kind != yaml.MappingNode {
				return fmt.Errorf("scene: %s.%s props must be a mapping", obj, field)
			}
			for i := 0; i < len(props.Content); i += 2 {
				prop := props.Content[i].Value
				e, err := buildExpr(props.Content[i+1])
				if err != nil {
					return fmt.Errorf("scene: %s.%s.%s: %w", obj, field, prop, err)
				}
				pp := ir.Property(obj, field, prop)
				if err := t.InsertPath(pp, ir.OptEval{E: e}, false); err != nil {
					return err
				}
			}
			return nil
		}
	}

	e, err := buildExpr(n)
	if err != nil {
		return fmt.Errorf("scene: %s.%s: %w", obj, field, err)
	}
	return t.InsertPath(fp, ir.OptEval{E: e}, false)
}

// buildExpr lowers one expression node.
func buildExpr(n *yaml.Node) (ir.Expr, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return buildScalar(n)
	case yaml.MappingNode:
		return buildTagged(n)
	default:
		return nil, fmt.Errorf("unsupported node kind %d", n.Kind)
	}
}

// buildScalar lowers a bare YAML scalar: "?" is a free float, numbers are
// literals, booleans and strings are themselves.
func buildScalar(n *yaml.Node) (ir.Expr, error) {
	v := n.Value
	if v == "?" {
		return ir.Vary(), nil
	}
	switch n.Tag {
	case "!!int":
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", v)
		}
		return ir.IntLit(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("bad float %q", v)
		}
		return ir.Fix(f), nil
	case "!!bool":
		return ir.BoolLit(v == "true"), nil
	default:
		return ir.StringLit(v), nil
	}
}

// buildTagged lowers a discriminated mapping node.
func buildTagged(n *yaml.Node) (ir.Expr, error) {
	get := func(key string) *yaml.Node { return childValue(n, key) }

	switch {
	case get("float") != nil:
		f, err := strconv.ParseFloat(get("float").Value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad float %q", get("float").Value)
		}
		return ir.Fix(f), nil

	case get("vary") != nil:
		return ir.Vary(), nil

	case get("int") != nil:
		i, err := strconv.ParseInt(get("int").Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", get("int").Value)
		}
		return ir.IntLit(i), nil

	case get("str") != nil:
		return ir.StringLit(get("str").Value), nil

	case get("bool") != nil:
		return ir.BoolLit(get("bool").Value == "true"), nil

	case get("path") != nil:
		p, err := ParsePathRef(get("path").Value)
		if err != nil {
			return nil, err
		}
		return ir.EPath{P: p}, nil

	case get("comp") != nil:
		args, err := buildArgs(get("args"))
		if err != nil {
			return nil, err
		}
		return ir.CompApp{Name: get("comp").Value, Args: args}, nil

	case get("objective") != nil:
		args, err := buildArgs(get("args"))
		if err != nil {
			return nil, err
		}
		return ir.ObjFn{Name: get("objective").Value, Args: args}, nil

	case get("constraint") != nil:
		args, err := buildArgs(get("args"))
		if err != nil {
			return nil, err
		}
		return ir.ConstrFn{Name: get("constraint").Value, Args: args}, nil

	case get("avoid") != nil:
		args, err := buildArgs(get("args"))
		if err != nil {
			return nil, err
		}
		return ir.AvoidFn{Name: get("avoid").Value, Args: args}, nil

	case get("op") != nil:
		return buildBinOp(n)

	case get("neg") != nil:
		e, err := buildExpr(get("neg"))
		if err != nil {
			return nil, err
		}
		return ir.UOp{Op: ir.UMinus, E: e}, nil

	case get("vec") != nil:
		elems, err := buildArgs(get("vec"))
		if err != nil {
			return nil, err
		}
		return ir.VectorExpr{Elems: elems}, nil

	case get("list") != nil:
		elems, err := buildArgs(get("list"))
		if err != nil {
			return nil, err
		}
		return ir.ListExpr{Elems: elems}, nil

	case get("tuple") != nil:
		elems, err := buildArgs(get("tuple"))
		if err != nil {
			return nil, err
		}
		if len(elems) != 2 {
			return nil, fmt.Errorf("tuple needs 2 elements, got %d", len(elems))
		}
		return ir.TupleExpr{A: elems[0], B: elems[1]}, nil

	case get("matrix") != nil:
		rowsNode := get("matrix")
		if rowsNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("matrix must be a sequence of rows")
		}
		rows := make([][]ir.Expr, len(rowsNode.Content))
		for i, rn := range rowsNode.Content {
			row, err := buildArgs(rn)
			if err != nil {
				return nil, err
			}
			rows[i] = row
		}
		return ir.MatrixExpr{Rows: rows}, nil

	case get("layering") != nil:
		lay := get("layering")
		belowN := childValue(lay, "below")
		aboveN := childValue(lay, "above")
		if belowN == nil || aboveN == nil {
			return nil, fmt.Errorf("layering needs below and above")
		}
		below, err := ParsePathRef(belowN.Value)
		if err != nil {
			return nil, err
		}
		above, err := ParsePathRef(aboveN.Value)
		if err != nil {
			return nil, err
		}
		return ir.LayeringExpr{Below: below, Above: above}, nil

	default:
		return nil, fmt.Errorf("unrecognized expression node (keys: %s)", mapKeys(n))
	}
}

func buildBinOp(n *yaml.Node) (ir.Expr, error) {
	opNode := childValue(n, "op")
	left := childValue(n, "left")
	right := childValue(n, "right")
	if left == nil || right == nil {
		return nil, fmt.Errorf("op %q needs left and right", opNode.Value)
	}
	var op ir.BinOpKind
	switch opNode.Value {
	case "+":
		op = ir.BPlus
	case "-":
		op = ir.BMinus
	case "*":
		op = ir.BMultiply
	case "/":
		op = ir.BDivide
	case "^":
		op = ir.BExp
	default:
		return nil, fmt.Errorf("unknown operator %q", opNode.Value)
	}
	l, err := buildExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := buildExpr(right)
	if err != nil {
		return nil, err
	}
	return ir.BinOp{Op: op, Left: l, Right: r}, nil
}

func buildArgs(n *yaml.Node) ([]ir.Expr, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a sequence")
	}
	out := make([]ir.Expr, len(n.Content))
	for i, c := range n.Content {
		e, err := buildExpr(c)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// ParsePathRef resolves a dotted path reference: "A.field",
// "A.field.property", with an optional "[i]" element suffix.
func ParsePathRef(s string) (ir.Path, error) {
	base := s
	idx := -1
	if open := strings.IndexByte(s, '['); open >= 0 {
		if !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("bad path reference %q", s)
		}
		n, err := strconv.Atoi(s[open+1 : len(s)-1])
		if err != nil {
			return nil, fmt.Errorf("bad path index in %q", s)
		}
		base, idx = s[:open], n
	}

	parts := strings.Split(base, ".")
	var p ir.Path
	switch len(parts) {
	case 2:
		p = ir.Field(parts[0], parts[1])
	case 3:
		p = ir.Property(parts[0], parts[1], parts[2])
	default:
		return nil, fmt.Errorf("bad path reference %q: want object.field or object.field.property", s)
	}
	if idx >= 0 {
		p = ir.Access(p, idx)
	}
	return p, nil
}

// childValue returns the value node for a mapping key, or nil.
func childValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func mapKeys(n *yaml.Node) string {
	var keys []string
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return strings.Join(keys, ", ")
}
