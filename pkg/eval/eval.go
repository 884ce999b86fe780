package eval

import (
	"errors"
	"fmt"
	"math"

	"github.com/dshills/diagen/pkg/fns"
	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/rng"
	"github.com/dshills/diagen/pkg/trans"
)

// MaxDepth is the recursion bound. An expression graph that needs more
// nesting than this has an unresolved cycle.
const MaxDepth = 500

// Sentinel errors for evaluation failures. Callers branch with errors.Is.
var (
	// ErrCycleDepth means the recursion bound was exceeded.
	ErrCycleDepth = errors.New("eval: cycle depth exceeded")
	// ErrUninitializedVary means a free float slot reached the evaluator
	// without having been sampled or overlaid.
	ErrUninitializedVary = errors.New("eval: uninitialized varying value")
	// ErrTypeMismatch means an operator met operands it is not defined on.
	ErrTypeMismatch = errors.New("eval: type mismatch")
	// ErrDivZero is division by zero.
	ErrDivZero = errors.New("eval: division by zero")
	// ErrMisuse means a declarative-only form appeared inside an evaluated
	// expression.
	ErrMisuse = errors.New("eval: declarative form in expression context")
)

// Context carries the shared state of one evaluation pass. The translation
// is mutated in place by memoization; the overlay is read-only; the RNG
// advances through computations that draw.
type Context struct {
	Trans   *trans.Translation
	Overlay Overlay
	R       *rng.RNG

	// MaxDepth overrides the default recursion bound when positive.
	MaxDepth int
}

func (c *Context) bound() int {
	if c.MaxDepth > 0 {
		return c.MaxDepth
	}
	return MaxDepth
}

// Eval evaluates one expression at the given depth.
func Eval(c *Context, depth int, e ir.Expr) (ir.ArgVal, error) {
	if depth >= c.bound() {
		return nil, fmt.Errorf("%w (depth %d)", ErrCycleDepth, depth)
	}

	switch x := e.(type) {
	case ir.IntLit:
		return ir.Val{V: ir.IntV(x)}, nil
	case ir.AFloat:
		if x.Vary {
			return nil, ErrUninitializedVary
		}
		return ir.Val{V: ir.FloatV(x.Val)}, nil
	case ir.StringLit:
		return ir.Val{V: ir.StrV(x)}, nil
	case ir.BoolLit:
		return ir.Val{V: ir.BoolV(x)}, nil

	case ir.EPath:
		return evalPath(c, depth, x.P)

	case ir.CompApp:
		args, err := EvalExprs(c, depth+1, x.Args)
		if err != nil {
			return nil, err
		}
		fn := fns.Comp(x.Name)
		if fn == nil {
			return nil, fmt.Errorf("%w: computation %q", fns.ErrUnknownFunction, x.Name)
		}
		v, err := fn(args, c.R)
		if err != nil {
			return nil, err
		}
		return ir.Val{V: v}, nil

	case ir.BinOp:
		return evalBinOp(c, depth, x)
	case ir.UOp:
		return evalUOp(c, depth, x)

	case ir.ListExpr:
		elems, err := evalScalars(c, depth, x.Elems, "list")
		if err != nil {
			return nil, err
		}
		return ir.Val{V: ir.ListV(elems)}, nil

	case ir.TupleExpr:
		elems, err := evalScalars(c, depth, []ir.Expr{x.A, x.B}, "tuple")
		if err != nil {
			return nil, err
		}
		return ir.Val{V: ir.TupV{A: elems[0], B: elems[1]}}, nil

	case ir.VectorExpr:
		elems, err := evalScalars(c, depth, x.Elems, "vector")
		if err != nil {
			return nil, err
		}
		return ir.Val{V: ir.VectorV(elems)}, nil

	case ir.MatrixExpr:
		rows := make(ir.MatrixV, len(x.Rows))
		for i, row := range x.Rows {
			elems, err := evalScalars(c, depth, row, "matrix")
			if err != nil {
				return nil, err
			}
			rows[i] = elems
		}
		return ir.Val{V: rows}, nil

	case ir.VectorAccess:
		return evalVectorAccess(c, depth, x)
	case ir.MatrixAccess:
		return evalMatrixAccess(c, depth, x)
	case ir.ListAccess:
		return evalListAccess(c, depth, x)

	case ir.ObjFn, ir.ConstrFn, ir.AvoidFn, ir.LayeringExpr, ir.Ctor, ir.PluginAccess:
		return nil, fmt.Errorf("%w: %T", ErrMisuse, e)

	default:
		return nil, fmt.Errorf("eval: unhandled expression %T", e)
	}
}

// EvalExprs folds Eval over a list, left to right, returning results in
// input order.
func EvalExprs(c *Context, depth int, exprs []ir.Expr) ([]ir.ArgVal, error) {
	out := make([]ir.ArgVal, len(exprs))
	for i, e := range exprs {
		av, err := Eval(c, depth, e)
		if err != nil {
			return nil, err
		}
		out[i] = av
	}
	return out, nil
}

// evalScalars evaluates a list of expressions that must all be scalars.
func evalScalars(c *Context, depth int, exprs []ir.Expr, what string) ([]float64, error) {
	out := make([]float64, len(exprs))
	for i, e := range exprs {
		av, err := Eval(c, depth+1, e)
		if err != nil {
			return nil, err
		}
		v, ok := av.(ir.Val)
		if !ok {
			return nil, fmt.Errorf("%w: %s element %d is a shape", ErrTypeMismatch, what, i)
		}
		f, ok := v.V.(ir.FloatV)
		if !ok {
			return nil, fmt.Errorf("%w: %s element %d is %s, want float", ErrTypeMismatch, what, i, ir.ValueKindOf(v.V))
		}
		out[i] = float64(f)
	}
	return out, nil
}

func evalBinOp(c *Context, depth int, b ir.BinOp) (ir.ArgVal, error) {
	lv, err := evalValue(c, depth+1, b.Left)
	if err != nil {
		return nil, err
	}
	rv, err := evalValue(c, depth+1, b.Right)
	if err != nil {
		return nil, err
	}

	switch l := lv.(type) {
	case ir.FloatV:
		r, ok := rv.(ir.FloatV)
		if !ok {
			return nil, fmt.Errorf("%w: %s %s %s", ErrTypeMismatch, lv.Kind(), b.Op, ir.ValueKindOf(rv))
		}
		f, err := floatBinOp(b.Op, float64(l), float64(r))
		if err != nil {
			return nil, err
		}
		return ir.Val{V: ir.FloatV(f)}, nil

	case ir.IntV:
		r, ok := rv.(ir.IntV)
		if !ok {
			return nil, fmt.Errorf("%w: %s %s %s", ErrTypeMismatch, lv.Kind(), b.Op, ir.ValueKindOf(rv))
		}
		n, err := intBinOp(b.Op, int64(l), int64(r))
		if err != nil {
			return nil, err
		}
		return ir.Val{V: ir.IntV(n)}, nil

	default:
		return nil, fmt.Errorf("%w: operator %s on %s", ErrTypeMismatch, b.Op, ir.ValueKindOf(lv))
	}
}

func floatBinOp(op ir.BinOpKind, a, b float64) (float64, error) {
	switch op {
	case ir.BPlus:
		return a + b, nil
	case ir.BMinus:
		return a - b, nil
	case ir.BMultiply:
		return a * b, nil
	case ir.BDivide:
		if b == 0 {
			return 0, ErrDivZero
		}
		return a / b, nil
	case ir.BExp:
		return math.Pow(a, b), nil
	default:
		return 0, fmt.Errorf("%w: unknown operator %s", ErrTypeMismatch, op)
	}
}

func intBinOp(op ir.BinOpKind, a, b int64) (int64, error) {
	switch op {
	case ir.BPlus:
		return a + b, nil
	case ir.BMinus:
		return a - b, nil
	case ir.BMultiply:
		return a * b, nil
	case ir.BDivide:
		if b == 0 {
			return 0, ErrDivZero
		}
		return a / b, nil
	case ir.BExp:
		return intPow(a, b)
	default:
		return 0, fmt.Errorf("%w: unknown operator %s", ErrTypeMismatch, op)
	}
}

// intPow is exponentiation by squaring. Negative exponents have no integer
// result and are rejected with ErrTypeMismatch.
func intPow(base, exp int64) (int64, error) {
	if exp < 0 {
		return 0, fmt.Errorf("%w: negative integer exponent %d", ErrTypeMismatch, exp)
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result, nil
}

func evalUOp(c *Context, depth int, u ir.UOp) (ir.ArgVal, error) {
	v, err := evalValue(c, depth+1, u.E)
	if err != nil {
		return nil, err
	}
	if u.Op == ir.UPlus {
		return ir.Val{V: v}, nil
	}
	switch x := v.(type) {
	case ir.FloatV:
		return ir.Val{V: -x}, nil
	case ir.IntV:
		return ir.Val{V: -x}, nil
	default:
		return nil, fmt.Errorf("%w: unary - on %s", ErrTypeMismatch, ir.ValueKindOf(v))
	}
}

// evalValue evaluates an expression that must yield a plain value.
func evalValue(c *Context, depth int, e ir.Expr) (ir.Value, error) {
	av, err := Eval(c, depth, e)
	if err != nil {
		return nil, err
	}
	v, ok := av.(ir.Val)
	if !ok {
		return nil, fmt.Errorf("%w: expected a value, got a shape", ErrTypeMismatch)
	}
	return v.V, nil
}

func evalVectorAccess(c *Context, depth int, a ir.VectorAccess) (ir.ArgVal, error) {
	idx, err := evalIndex(c, depth, a.Index)
	if err != nil {
		return nil, err
	}
	av, err := evalPath(c, depth+1, a.P)
	if err != nil {
		return nil, err
	}
	v, ok := av.(ir.Val)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a shape, not a vector", ErrTypeMismatch, a.P.Key())
	}
	vec, ok := v.V.(ir.VectorV)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s, not a vector", ErrTypeMismatch, a.P.Key(), ir.ValueKindOf(v.V))
	}
	if idx < 0 || idx >= len(vec) {
		return nil, fmt.Errorf("%w: index %d out of range at %q", ErrTypeMismatch, idx, a.P.Key())
	}
	return ir.Val{V: ir.FloatV(vec[idx])}, nil
}

func evalMatrixAccess(c *Context, depth int, a ir.MatrixAccess) (ir.ArgVal, error) {
	if len(a.Indices) != 2 {
		return nil, fmt.Errorf("%w: matrix access needs two indices, got %d", ErrTypeMismatch, len(a.Indices))
	}
	row, err := evalIndex(c, depth, a.Indices[0])
	if err != nil {
		return nil, err
	}
	col, err := evalIndex(c, depth, a.Indices[1])
	if err != nil {
		return nil, err
	}
	av, err := evalPath(c, depth+1, a.P)
	if err != nil {
		return nil, err
	}
	v, ok := av.(ir.Val)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a shape, not a matrix", ErrTypeMismatch, a.P.Key())
	}
	m, ok := v.V.(ir.MatrixV)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s, not a matrix", ErrTypeMismatch, a.P.Key(), ir.ValueKindOf(v.V))
	}
	if row < 0 || row >= len(m) || col < 0 || col >= len(m[row]) {
		return nil, fmt.Errorf("%w: index (%d,%d) out of range at %q", ErrTypeMismatch, row, col, a.P.Key())
	}
	return ir.Val{V: ir.FloatV(m[row][col])}, nil
}

func evalListAccess(c *Context, depth int, a ir.ListAccess) (ir.ArgVal, error) {
	av, err := evalPath(c, depth+1, a.P)
	if err != nil {
		return nil, err
	}
	v, ok := av.(ir.Val)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a shape, not a list", ErrTypeMismatch, a.P.Key())
	}
	list, ok := v.V.(ir.ListV)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s, not a list", ErrTypeMismatch, a.P.Key(), ir.ValueKindOf(v.V))
	}
	if a.Index < 0 || a.Index >= len(list) {
		return nil, fmt.Errorf("%w: index %d out of range at %q", ErrTypeMismatch, a.Index, a.P.Key())
	}
	return ir.Val{V: ir.FloatV(list[a.Index])}, nil
}

func evalIndex(c *Context, depth int, e ir.Expr) (int, error) {
	av, err := Eval(c, depth+1, e)
	if err != nil {
		return 0, err
	}
	v, ok := av.(ir.Val)
	if !ok {
		return 0, fmt.Errorf("%w: index is a shape", ErrTypeMismatch)
	}
	switch n := v.V.(type) {
	case ir.IntV:
		return int(n), nil
	case ir.FloatV:
		if float64(n) != math.Trunc(float64(n)) {
			return 0, fmt.Errorf("%w: index %g is not an integer", ErrTypeMismatch, float64(n))
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: index is %s, want int", ErrTypeMismatch, ir.ValueKindOf(v.V))
	}
}
