package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syncAdd(field string, delta int) SyncFunc {
	return func(_ context.Context, args map[string]any) ([]any, error) {
		return []any{args[field].(int) + delta}, nil
	}
}

func TestGraph_ExplicitWiring(t *testing.T) {
	g := NewGraph()

	root, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "root",
		Outputs: []FieldSpec{{Name: "m"}},
	}, func(_ context.Context, _ map[string]any) ([]any, error) {
		return []any{1}, nil
	}), nil)
	require.NoError(t, err)

	sub, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "sub",
		Inputs:  []FieldSpec{{Name: "m"}},
		Outputs: []FieldSpec{{Name: "p"}},
	}, syncAdd("m", -1)), root)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "mult",
		Inputs:  []FieldSpec{{Name: "p"}},
		Outputs: []FieldSpec{{Name: "q"}},
	}, func(_ context.Context, args map[string]any) ([]any, error) {
		return []any{2 * args["p"].(int)}, nil
	}), sub)
	require.NoError(t, err)

	result, err := g.Run(context.Background())
	require.NoError(t, err)
	q, err := result.Get("q")
	require.NoError(t, err)
	assert.Equal(t, 0, q)
}

func TestGraph_ImplicitWiringWithArg(t *testing.T) {
	g := NewGraph()
	_, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "sub_1",
		Inputs:  []FieldSpec{{Name: "m"}},
		Outputs: []FieldSpec{{Name: "p"}},
	}, syncAdd("m", -1)), nil)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "add_1",
		Inputs:  []FieldSpec{{Name: "n"}},
		Outputs: []FieldSpec{{Name: "m"}},
	}, syncAdd("n", 1)), nil)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "mult_2",
		Inputs:  []FieldSpec{{Name: "p"}},
		Outputs: []FieldSpec{{Name: "q"}},
	}, func(_ context.Context, args map[string]any) ([]any, error) {
		return []any{2 * args["p"].(int)}, nil
	}), nil)
	require.NoError(t, err)

	result, err := g.Run(context.Background(), 5)
	require.NoError(t, err)
	q, err := result.Get("q")
	require.NoError(t, err)
	assert.Equal(t, 10, q)
}

func TestGraph_FanIn(t *testing.T) {
	g := NewGraph()
	m := g.Input("m")
	n := g.Input("n")

	o1, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "sub_1",
		Inputs:  []FieldSpec{{Name: "m"}},
		Outputs: []FieldSpec{{Name: "p"}},
	}, syncAdd("m", -1)), m)
	require.NoError(t, err)

	o2, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "add_1",
		Inputs:  []FieldSpec{{Name: "n"}},
		Outputs: []FieldSpec{{Name: "m"}},
	}, syncAdd("n", 1)), n)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "reverse_order",
		Inputs:  []FieldSpec{{Name: "s"}, {Name: "t"}},
		Outputs: []FieldSpec{{Name: "t"}, {Name: "s"}},
	}, func(_ context.Context, args map[string]any) ([]any, error) {
		return []any{args["t"], args["s"]}, nil
	}), o1, o2)
	require.NoError(t, err)

	result, err := g.RunWith(context.Background(), map[string]any{"m": 5, "n": 6})
	require.NoError(t, err)
	s, err := result.Get("s")
	require.NoError(t, err)
	tv, err := result.Get("t")
	require.NoError(t, err)
	assert.Equal(t, 4, s)
	assert.Equal(t, 7, tv)
}

func TestGraph_FanOut(t *testing.T) {
	g := NewGraph()
	n := g.Input("n")

	o1, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "add_1",
		Inputs:  []FieldSpec{{Name: "n"}},
		Outputs: []FieldSpec{{Name: "m"}},
	}, syncAdd("n", 1)), n)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "mult_2",
		Inputs:  []FieldSpec{{Name: "p"}},
		Outputs: []FieldSpec{{Name: "q"}},
	}, func(_ context.Context, args map[string]any) ([]any, error) {
		return []any{2 * args["p"].(int)}, nil
	}), o1)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "sub_1",
		Inputs:  []FieldSpec{{Name: "m"}},
		Outputs: []FieldSpec{{Name: "p"}},
	}, syncAdd("m", -1)), o1)
	require.NoError(t, err)

	result, err := g.RunWith(context.Background(), map[string]any{"n": 1})
	require.NoError(t, err)
	q, err := result.Get("q")
	require.NoError(t, err)
	p, err := result.Get("p")
	require.NoError(t, err)
	assert.Equal(t, 4, q)
	assert.Equal(t, 1, p)
}

func TestGraph_AmbiguousTopology(t *testing.T) {
	g := NewGraph()
	_, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "a",
		Outputs: []FieldSpec{{Name: "x"}},
	}, func(_ context.Context, _ map[string]any) ([]any, error) { return []any{1}, nil }), nil)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "b",
		Outputs: []FieldSpec{{Name: "x"}},
	}, func(_ context.Context, _ map[string]any) ([]any, error) { return []any{2}, nil }), nil)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "c",
		Inputs:  []FieldSpec{{Name: "x"}},
		Outputs: []FieldSpec{{Name: "y"}},
	}, func(_ context.Context, args map[string]any) ([]any, error) { return []any{args["x"]}, nil }), nil)
	require.NoError(t, err)

	_, err = g.Run(context.Background())
	var ambiguous *AmbiguousTopologyError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "c", ambiguous.Consumer)
}

func TestGraph_UnboundInputWhenInputNeverSupplied(t *testing.T) {
	g := NewGraph()
	_, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "needs_z",
		Inputs:  []FieldSpec{{Name: "z"}},
		Outputs: []FieldSpec{{Name: "w"}},
	}, func(_ context.Context, args map[string]any) ([]any, error) { return []any{args["z"]}, nil }), nil)
	require.NoError(t, err)

	_, err = g.Run(context.Background())
	var unbound *UnboundInputError
	require.ErrorAs(t, err, &unbound)
}

func TestGraph_FanOutDefaultOutputsOnlyLeafFields(t *testing.T) {
	g := NewGraph()
	n := g.Input("n")

	o1, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "add_1",
		Inputs:  []FieldSpec{{Name: "n"}},
		Outputs: []FieldSpec{{Name: "m"}},
	}, syncAdd("n", 1)), n)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "mult_2",
		Inputs:  []FieldSpec{{Name: "p"}},
		Outputs: []FieldSpec{{Name: "q"}},
	}, func(_ context.Context, args map[string]any) ([]any, error) {
		return []any{2 * args["p"].(int)}, nil
	}), o1)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "sub_1",
		Inputs:  []FieldSpec{{Name: "m"}},
		Outputs: []FieldSpec{{Name: "p"}},
	}, syncAdd("m", -1)), o1)
	require.NoError(t, err)

	result, err := g.RunWith(context.Background(), map[string]any{"n": 1})
	require.NoError(t, err)

	// add_1's intermediate field "m" must not leak into the result: only
	// the two leaf nodes' declared fields (mult_2's q, sub_1's p) do.
	assert.ElementsMatch(t, []string{"q", "p"}, result.Fields())
}

func TestGraph_SetOutputsNarrowsResult(t *testing.T) {
	g := NewGraph()
	n := g.Input("n")

	o1, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "add_1",
		Inputs:  []FieldSpec{{Name: "n"}},
		Outputs: []FieldSpec{{Name: "m"}},
	}, syncAdd("n", 1)), n)
	require.NoError(t, err)

	qHandle, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "mult_2",
		Inputs:  []FieldSpec{{Name: "p"}},
		Outputs: []FieldSpec{{Name: "q"}},
	}, func(_ context.Context, args map[string]any) ([]any, error) {
		return []any{2 * args["p"].(int)}, nil
	}), o1)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "sub_1",
		Inputs:  []FieldSpec{{Name: "m"}},
		Outputs: []FieldSpec{{Name: "p"}},
	}, syncAdd("m", -1)), o1)
	require.NoError(t, err)

	g.SetOutputs(qHandle)

	result, err := g.RunWith(context.Background(), map[string]any{"n": 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, result.Fields())
}

func TestGraph_RootsAndLeaves(t *testing.T) {
	g := NewGraph()
	root, err := g.AddNode(NewSyncNode(NodeSpec{
		Name:    "root",
		Outputs: []FieldSpec{{Name: "m"}},
	}, func(_ context.Context, _ map[string]any) ([]any, error) { return []any{1}, nil }), nil)
	require.NoError(t, err)

	_, err = g.AddNode(NewSyncNode(NodeSpec{
		Name:    "leaf",
		Inputs:  []FieldSpec{{Name: "m"}},
		Outputs: []FieldSpec{{Name: "p"}},
	}, syncAdd("m", -1)), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"root"}, g.Roots())
	assert.Equal(t, []string{"leaf"}, g.Leaves())
}

func TestGraph_DuplicateNodeNameRejected(t *testing.T) {
	g := NewGraph()
	node := func() *Node {
		return NewSyncNode(NodeSpec{Name: "dup", Outputs: []FieldSpec{{Name: "x"}}},
			func(_ context.Context, _ map[string]any) ([]any, error) { return []any{1}, nil })
	}
	_, err := g.AddNode(node(), nil)
	require.NoError(t, err)
	_, err = g.AddNode(node(), nil)
	require.Error(t, err)
}
