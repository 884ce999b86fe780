// Package layering resolves the partial drawing order declared in a
// translation into a total order over shape names.
//
// Layering declarations are directed edges "below renders under above". The
// solver collects them, resolves each endpoint through field aliases to a
// concrete shape name, builds a directed graph over all shape names
// (including shapes no declaration mentions), and topologically sorts it.
// Any cycle, including a self-loop, means the declarations are unsatisfiable
// and the solver reports it instead of picking an order.
//
// Ties between otherwise-unordered shapes break by first-declaration order,
// so the result is deterministic for a given translation.
package layering

import (
	"errors"
	"fmt"

	"github.com/dshills/diagen/pkg/analyze"
	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/trans"
)

// ErrCycle means the layering declarations contain a cycle and no total
// order exists.
var ErrCycle = errors.New("layering: cycle detected")

// Compute returns a total order over the translation's shape names honoring
// every layering declaration, earlier entries rendering below later ones.
// It fails with ErrCycle when the declarations are cyclic, and with a
// resolution error when a declaration endpoint does not name a shape.
func Compute(t *trans.Translation) ([]string, error) {
	nodes := make([]string, 0)
	for _, sp := range analyze.ShapePaths(t) {
		nodes = append(nodes, ir.ShapeName(sp))
	}

	edges, err := collectEdges(t)
	if err != nil {
		return nil, err
	}

	adj := make(map[string][]string, len(nodes))
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n] = true
	}
	for _, e := range edges {
		if !known[e.below] {
			return nil, fmt.Errorf("layering: %q does not name a shape", e.below)
		}
		if !known[e.above] {
			return nil, fmt.Errorf("layering: %q does not name a shape", e.above)
		}
		adj[e.below] = append(adj[e.below], e.above)
	}

	return sortNodes(nodes, adj)
}

// sortNodes is Kahn's algorithm over a declaration-ordered node list. Each
// round takes the earliest-declared node with no remaining predecessor, so
// unordered shapes keep their declaration order. Leftover nodes mean a
// cycle.
func sortNodes(nodes []string, adj map[string][]string) ([]string, error) {
	indeg := make(map[string]int, len(nodes))
	for _, n := range nodes {
		indeg[n] = 0
	}
	for _, succs := range adj {
		for _, m := range succs {
			indeg[m]++
		}
	}

	order := make([]string, 0, len(nodes))
	done := make(map[string]bool, len(nodes))
	for len(order) < len(nodes) {
		picked := ""
		for _, n := range nodes {
			if !done[n] && indeg[n] == 0 {
				picked = n
				break
			}
		}
		if picked == "" {
			return nil, fmt.Errorf("%w: %d shapes remain unordered", ErrCycle, len(nodes)-len(order))
		}
		done[picked] = true
		order = append(order, picked)
		for _, m := range adj[picked] {
			indeg[m]--
		}
	}
	return order, nil
}

type edge struct {
	below, above string
}

// collectEdges walks the store for layering declarations and resolves both
// endpoints to shape names.
func collectEdges(t *trans.Translation) ([]edge, error) {
	var edges []edge
	var firstErr error
	t.FoldFields(func(object, field string, fe ir.FieldExpr) {
		if firstErr != nil {
			return
		}
		body, ok := fe.(ir.FExpr)
		if !ok {
			return
		}
		opt, ok := body.T.(ir.OptEval)
		if !ok {
			return
		}
		lay, ok := opt.E.(ir.LayeringExpr)
		if !ok {
			return
		}
		below, err := resolveShapeName(t, lay.Below, nil)
		if err != nil {
			firstErr = err
			return
		}
		above, err := resolveShapeName(t, lay.Above, nil)
		if err != nil {
			firstErr = err
			return
		}
		edges = append(edges, edge{below: below, above: above})
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return edges, nil
}

// resolveShapeName follows field aliases until it lands on a primitive.
// seen guards against alias loops.
func resolveShapeName(t *trans.Translation, p ir.Path, seen map[string]bool) (string, error) {
	fp, ok := p.(ir.FieldPath)
	if !ok {
		return "", fmt.Errorf("layering: %q is not a field path", p.Key())
	}
	if seen[fp.Key()] {
		return "", fmt.Errorf("%w: alias loop at %q", trans.ErrSelfAlias, fp.Key())
	}

	fe, err := t.LookupField(fp)
	if err != nil {
		return "", err
	}
	switch body := fe.(type) {
	case ir.FGPI:
		return ir.ShapeName(fp), nil
	case ir.FExpr:
		opt, ok := body.T.(ir.OptEval)
		if !ok {
			return "", fmt.Errorf("layering: %q does not resolve to a shape", fp.Key())
		}
		alias, ok := opt.E.(ir.EPath)
		if !ok {
			return "", fmt.Errorf("layering: %q does not resolve to a shape", fp.Key())
		}
		if seen == nil {
			seen = make(map[string]bool)
		}
		seen[fp.Key()] = true
		return resolveShapeName(t, alias.P, seen)
	default:
		return "", fmt.Errorf("layering: %q does not resolve to a shape", fp.Key())
	}
}
