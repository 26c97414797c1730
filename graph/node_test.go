package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func add1(_ context.Context, args map[string]any) ([]any, error) {
	return []any{args["n"].(int) + 1}, nil
}

func TestNewSyncNode_DerivesNameFromFunc(t *testing.T) {
	n := NewSyncNode(NodeSpec{
		Inputs:  []FieldSpec{{Name: "n"}},
		Outputs: []FieldSpec{{Name: "m"}},
	}, add1)

	assert.Equal(t, "add1", n.Name())
	assert.False(t, n.IsAsync())
	assert.Equal(t, []string{"n"}, n.InputFields())
	assert.Equal(t, []string{"m"}, n.OutputFields())
}

func TestNewSyncNode_ExplicitNameWins(t *testing.T) {
	n := NewSyncNode(NodeSpec{Name: "custom"}, add1)
	assert.Equal(t, "custom", n.Name())
}

func TestNode_InvokeSync(t *testing.T) {
	n := NewSyncNode(NodeSpec{
		Inputs:  []FieldSpec{{Name: "n"}},
		Outputs: []FieldSpec{{Name: "m"}},
	}, add1)

	values, err := n.invokeSync(context.Background(), map[string]any{"n": 4})
	assert.NoError(t, err)
	assert.Equal(t, []any{5}, values)
}
