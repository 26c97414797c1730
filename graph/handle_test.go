package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputHandle_FieldAndFirst(t *testing.T) {
	h := newOutputHandle("node1", []string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, h.Fields())

	ref := h.Field("b")
	assert.Equal(t, "node1", ref.Node())
	assert.Equal(t, "b", ref.Field())

	first := h.First()
	assert.Equal(t, "a", first.Field())
}

func TestMergeOutputHandles_LaterWinsOnCollision(t *testing.T) {
	h1 := newOutputHandle("n1", []string{"x", "y"})
	h2 := newOutputHandle("n2", []string{"y", "z"})

	merged := MergeOutputHandles(h1, h2)
	assert.Equal(t, []string{"x", "y", "z"}, merged.Fields())
	assert.Equal(t, "n2", merged.Field("y").Node())
}
