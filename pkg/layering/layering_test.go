package layering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/diagen/pkg/ir"
	"github.com/dshills/diagen/pkg/trans"
)

// buildShapes inserts one Circle primitive per name, in order.
func buildShapes(t *testing.T, tr *trans.Translation, names ...string) {
	t.Helper()
	for _, n := range names {
		tr.InsertGPI(ir.Field(n, "shape"), "Circle")
	}
}

// declare inserts a layering declaration as a spec field.
func declare(t *testing.T, tr *trans.Translation, field, below, above string) {
	t.Helper()
	lay := ir.LayeringExpr{
		Below: ir.Field(below, "shape"),
		Above: ir.Field(above, "shape"),
	}
	err := tr.InsertPath(ir.Field("spec", field), ir.OptEval{E: lay}, false)
	require.NoError(t, err)
}

func TestCompute_NoDeclarations(t *testing.T) {
	tr := trans.New()
	buildShapes(t, tr, "A", "B", "C")

	order, err := Compute(tr)
	require.NoError(t, err)
	// Unordered shapes keep declaration order.
	assert.Equal(t, []string{"A.shape", "B.shape", "C.shape"}, order)
}

func TestCompute_SimpleChain(t *testing.T) {
	tr := trans.New()
	buildShapes(t, tr, "A", "B", "C")
	declare(t, tr, "l1", "C", "B")
	declare(t, tr, "l2", "B", "A")

	order, err := Compute(tr)
	require.NoError(t, err)
	assert.Equal(t, []string{"C.shape", "B.shape", "A.shape"}, order)
}

func TestCompute_Diamond(t *testing.T) {
	tr := trans.New()
	buildShapes(t, tr, "A", "B", "C", "D")
	declare(t, tr, "l1", "A", "B")
	declare(t, tr, "l2", "A", "C")
	declare(t, tr, "l3", "B", "D")
	declare(t, tr, "l4", "C", "D")

	order, err := Compute(tr)
	require.NoError(t, err)
	require.Len(t, order, 4)
	assert.Equal(t, "A.shape", order[0])
	assert.Equal(t, "D.shape", order[3])
	// B before C by declaration order.
	assert.Equal(t, []string{"B.shape", "C.shape"}, order[1:3])
}

func TestCompute_Cycle(t *testing.T) {
	tr := trans.New()
	buildShapes(t, tr, "A", "B")
	declare(t, tr, "l1", "A", "B")
	declare(t, tr, "l2", "B", "A")

	_, err := Compute(tr)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestCompute_SelfLoop(t *testing.T) {
	tr := trans.New()
	buildShapes(t, tr, "A")
	declare(t, tr, "l1", "A", "A")

	_, err := Compute(tr)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestCompute_AliasResolution(t *testing.T) {
	tr := trans.New()
	buildShapes(t, tr, "A", "B")
	// ref aliases B.shape; the declaration uses the alias.
	err := tr.InsertPath(ir.Field("x", "ref"),
		ir.OptEval{E: ir.EPath{P: ir.Field("B", "shape")}}, false)
	require.NoError(t, err)
	lay := ir.LayeringExpr{Below: ir.Field("x", "ref"), Above: ir.Field("A", "shape")}
	require.NoError(t, tr.InsertPath(ir.Field("spec", "l1"), ir.OptEval{E: lay}, false))

	order, err := Compute(tr)
	require.NoError(t, err)
	assert.Equal(t, []string{"B.shape", "A.shape"}, order)
}

func TestCompute_AliasLoop(t *testing.T) {
	tr := trans.New()
	buildShapes(t, tr, "A")
	require.NoError(t, tr.InsertPath(ir.Field("x", "ref"),
		ir.OptEval{E: ir.EPath{P: ir.Field("x", "ref")}}, false))
	lay := ir.LayeringExpr{Below: ir.Field("x", "ref"), Above: ir.Field("A", "shape")}
	require.NoError(t, tr.InsertPath(ir.Field("spec", "l1"), ir.OptEval{E: lay}, false))

	_, err := Compute(tr)
	assert.ErrorIs(t, err, trans.ErrSelfAlias)
}

func TestCompute_NonShapeEndpoint(t *testing.T) {
	tr := trans.New()
	buildShapes(t, tr, "A")
	require.NoError(t, tr.InsertPath(ir.Field("x", "val"), ir.Done{V: ir.FloatV(1)}, false))
	lay := ir.LayeringExpr{Below: ir.Field("x", "val"), Above: ir.Field("A", "shape")}
	require.NoError(t, tr.InsertPath(ir.Field("spec", "l1"), ir.OptEval{E: lay}, false))

	_, err := Compute(tr)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCycle)
}

func TestCompute_Deterministic(t *testing.T) {
	build := func() *trans.Translation {
		tr := trans.New()
		buildShapes(t, tr, "E", "D", "C", "B", "A")
		declare(t, tr, "l1", "A", "B")
		return tr
	}
	first, err := Compute(build())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Compute(build())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
