package graph

import (
	"context"

	"github.com/mcminis1/mr-graph/internal/generic"
)

// FieldSpec describes one named input or output field of a Node, standing
// in for a single entry of Python's inspect.signature parameter/return
// list (spec.md §4.B). Default is carried on the spec but not read by the
// planner or the scheduler: an input field with no producer becomes a
// required graph input whether or not Default is set.
type FieldSpec struct {
	Name    string
	Default any
}

// NodeSpec is the explicit registration-time oracle that replaces runtime
// introspection of the node function (see SPEC_FULL.md §3): Go functions
// carry no parameter names or docstrings, so the caller states the input
// and output field lists instead of a *Graph deriving them by reflection.
type NodeSpec struct {
	Name    string
	Inputs  []FieldSpec
	Outputs []FieldSpec
}

// SyncFunc is the function shape backing a synchronous Node. args holds one
// entry per bound input field; the returned slice holds one entry per
// output field, in NodeSpec.Outputs order.
type SyncFunc func(ctx context.Context, args map[string]any) ([]any, error)

// AsyncResult is delivered once an AsyncFunc's node body completes.
type AsyncResult struct {
	Values []any
	Err    error
}

// AsyncFunc is the function shape backing an asynchronous Node. It starts
// the work and returns a channel that receives exactly one AsyncResult.
type AsyncFunc func(ctx context.Context, args map[string]any) (<-chan AsyncResult, error)

type nodeKind int

const (
	syncKind nodeKind = iota
	asyncKind
)

// Node wraps a function with a typed input/output schema (spec.md §4.B,
// component B). A Node is stateless; invoking it never mutates the Node
// itself, only the args/Record it is given.
type Node struct {
	spec  NodeSpec
	kind  nodeKind
	sync  SyncFunc
	async AsyncFunc
}

// NewSyncNode registers a synchronous node. If spec.Name is empty, the name
// is derived from fn's own declared name (the closest Go analogue of
// Python's fn.__name__).
func NewSyncNode(spec NodeSpec, fn SyncFunc) *Node {
	if spec.Name == "" {
		spec.Name = generic.FuncName(fn)
	}
	return &Node{spec: spec, kind: syncKind, sync: fn}
}

// NewAsyncNode registers an asynchronous node, analogous to NewSyncNode.
func NewAsyncNode(spec NodeSpec, fn AsyncFunc) *Node {
	if spec.Name == "" {
		spec.Name = generic.FuncName(fn)
	}
	return &Node{spec: spec, kind: asyncKind, async: fn}
}

// Name returns the node's registered or derived name.
func (n *Node) Name() string { return n.spec.Name }

// IsAsync reports whether the node was registered with NewAsyncNode.
func (n *Node) IsAsync() bool { return n.kind == asyncKind }

// InputFields returns the node's input field names in declaration order.
func (n *Node) InputFields() []string {
	return fieldNames(n.spec.Inputs)
}

// OutputFields returns the node's output field names in declaration order.
func (n *Node) OutputFields() []string {
	return fieldNames(n.spec.Outputs)
}

func fieldNames(specs []FieldSpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

// invokeSync runs a synchronous node's function body directly.
func (n *Node) invokeSync(ctx context.Context, args map[string]any) ([]any, error) {
	return n.sync(ctx, args)
}

// invokeAsync starts an asynchronous node's function body and returns its
// result channel for the scheduler to await alongside the rest of the wave.
func (n *Node) invokeAsync(ctx context.Context, args map[string]any) (<-chan AsyncResult, error) {
	return n.async(ctx, args)
}
