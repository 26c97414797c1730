package graph

import "github.com/mcminis1/mr-graph/internal/gmap"

// FieldRef is a proxy for a single named output field of a producing node
// (spec.md §4.C, component C). It is what a keyword argument at
// construction time resolves to.
type FieldRef struct {
	node  string
	field string
}

// Node returns the name of the producing node.
func (f *FieldRef) Node() string { return f.node }

// Field returns the output field name being referenced.
func (f *FieldRef) Field() string { return f.field }

// OutputHandle is a proxy for all of a node's output fields together
// (spec.md §4.C). Passed positionally at construction time, each of its
// fields, in order, binds to the consumer's next unfilled input field
// regardless of name — the resolution of spec.md §9 Open Question 1.
type OutputHandle struct {
	fieldMap map[string]string // output field name -> producing node name
	order    []string          // output field names, declaration order
}

func newOutputHandle(node string, fields []string) *OutputHandle {
	fm := make(map[string]string, len(fields))
	for _, f := range fields {
		fm[f] = node
	}
	order := make([]string, len(fields))
	copy(order, fields)
	return &OutputHandle{fieldMap: fm, order: order}
}

// Fields returns the handle's field names in order.
func (h *OutputHandle) Fields() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Field narrows the handle to a single named field, for use as a keyword
// argument.
func (h *OutputHandle) Field(name string) *FieldRef {
	return &FieldRef{node: h.fieldMap[name], field: name}
}

// First narrows the handle to its first declared field. Used when a handle
// (or an Aggregator's output) is passed as a keyword Args value, which binds
// only that first field.
func (h *OutputHandle) First() *FieldRef {
	if len(h.order) == 0 {
		return nil
	}
	return h.Field(h.order[0])
}

// MergeOutputHandles composes several handles into one with the union of
// their fields, later handles winning on a name collision. This is how a
// node consuming more than one upstream node's output as a single
// positional argument set is expressed.
func MergeOutputHandles(handles ...*OutputHandle) *OutputHandle {
	maps := make([]map[string]string, len(handles))
	var order []string
	seen := make(map[string]bool)
	for i, h := range handles {
		maps[i] = h.fieldMap
		for _, f := range h.order {
			if !seen[f] {
				seen[f] = true
				order = append(order, f)
			}
		}
	}
	return &OutputHandle{fieldMap: gmap.Concat(maps...), order: order}
}
