package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Aggregator is a fan-in pseudo-node (spec.md §4.D, component D): it
// collects an ordered sequence of FieldRefs (or the inputs of another
// Aggregator, concatenated in place) and exposes them to the rest of the
// graph as a single output field holding an ordered list.
type Aggregator struct {
	id     string
	name   string
	inputs []*FieldRef
}

// NewAggregator creates an empty aggregator whose eventual output field is
// named name. id mirrors the uuid4() identity original_source/mr_graph's
// NodeDataAggregator carries per instance.
func NewAggregator(name string) *Aggregator {
	return &Aggregator{id: uuid.NewString(), name: name}
}

// Append adds src to the aggregator's ordered input list. src must be a
// *FieldRef or another *Aggregator (whose own inputs are concatenated in
// place, matching NodeDataAggregator.__iadd__); anything else is
// BadAggregatorInputError.
func (a *Aggregator) Append(src any) error {
	switch v := src.(type) {
	case *FieldRef:
		a.inputs = append(a.inputs, v)
	case *Aggregator:
		a.inputs = append(a.inputs, v.inputs...)
	default:
		return &BadAggregatorInputError{Got: src}
	}
	return nil
}

// Name returns the aggregator's output field / pseudo-node name.
func (a *Aggregator) Name() string { return a.name }

// Output returns an OutputHandle over the aggregator's single output
// field, so it can be wired into a downstream node like any other node's
// output.
func (a *Aggregator) Output() *OutputHandle {
	return newOutputHandle(a.name, []string{a.name})
}

// slotName returns the synthetic input field name a collected value is
// bound under, "<name>_<n>" per spec.md §4.D.
func (a *Aggregator) slotName(i int) string {
	return fmt.Sprintf("%s_%d", a.name, i)
}

// toNode compiles the aggregator into an ordinary synchronous Node: one
// input slot per collected FieldRef, one output field holding the ordered
// list. The planner and scheduler never need to know Aggregator exists.
func (a *Aggregator) toNode() *Node {
	slots := make([]FieldSpec, len(a.inputs))
	order := make([]string, len(a.inputs))
	for i := range a.inputs {
		slots[i] = FieldSpec{Name: a.slotName(i)}
		order[i] = a.slotName(i)
	}

	fn := func(_ context.Context, args map[string]any) ([]any, error) {
		values := make([]any, len(order))
		for i, slot := range order {
			values[i] = args[slot]
		}
		return []any{values}, nil
	}

	return NewSyncNode(NodeSpec{
		Name:    a.name,
		Inputs:  slots,
		Outputs: []FieldSpec{{Name: a.name}},
	}, fn)
}
