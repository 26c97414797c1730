package graph

import (
	"context"
	"fmt"
)

// Args is a keyword-style binding map passed to AddNode: each key names an
// input field of the node being added, and each value is one of
// *FieldRef, *OutputHandle, *Aggregator, or a raw constant.
type Args map[string]any

// Graph owns a set of nodes, their wiring, and the graph-level input
// fields a caller must supply to Run (spec.md §4.F, component F).
type Graph struct {
	nodes    map[string]*Node
	order    []string
	bindings map[string]map[string]*FieldRef

	inputOrder    []string
	inputDefaults map[string]any
	inputHasDef   map[string]bool

	outputs *OutputHandle

	compiled bool
}

// NewGraph returns an empty Graph ready for AddNode calls.
func NewGraph() *Graph {
	return &Graph{
		nodes:         make(map[string]*Node),
		bindings:      make(map[string]map[string]*FieldRef),
		inputDefaults: make(map[string]any),
		inputHasDef:   make(map[string]bool),
	}
}

// Input declares a graph-level input field the caller must supply to Run,
// and returns a FieldRef that can be wired into any node's Args exactly
// like a node's output field.
func (g *Graph) Input(name string) *FieldRef {
	g.declareInput(name, Unset, false)
	return &FieldRef{node: "", field: name}
}

func (g *Graph) declareInput(name string, value any, hasDefault bool) *FieldRef {
	if _, ok := g.inputHasDef[name]; !ok {
		g.inputOrder = append(g.inputOrder, name)
	}
	if hasDefault {
		g.inputDefaults[name] = value
		g.inputHasDef[name] = true
	} else if _, ok := g.inputHasDef[name]; !ok {
		g.inputHasDef[name] = false
	}
	return &FieldRef{node: "", field: name}
}

func (g *Graph) bind(nodeName, field string, ref *FieldRef) {
	if g.bindings[nodeName] == nil {
		g.bindings[nodeName] = make(map[string]*FieldRef)
	}
	g.bindings[nodeName][field] = ref
}

// AddNode registers node and wires its input fields from args.
//
// With a single Args map, binding is keyword-style: each key names an
// input field, and a raw constant value synthesizes a fresh graph input
// (spec.md §9 Open Question 2).
//
// Otherwise binding is positional: each *OutputHandle expands to all of
// its fields, in order, each *FieldRef or *Aggregator contributes one
// field, and the flattened sequence is zipped against node's input fields
// in declaration order — field-by-field regardless of name, which is the
// resolution of spec.md §9 Open Question 1. Fewer values than input
// fields leaves the rest for the implicit planner; no args at all defers
// every field to the planner.
//
// AddNode returns an OutputHandle over node's own output fields so later
// AddNode calls can wire off of it.
func (g *Graph) AddNode(node *Node, args ...any) (*OutputHandle, error) {
	name := node.Name()
	if name == "" {
		return nil, fmt.Errorf("graph: node has no name and none could be derived from its function")
	}
	if _, exists := g.nodes[name]; exists {
		return nil, fmt.Errorf("graph: duplicate node name %q", name)
	}

	g.nodes[name] = node
	g.order = append(g.order, name)
	g.compiled = false

	if len(args) == 1 && args[0] == nil {
		args = nil
	}

	if len(args) == 1 {
		if kw, ok := args[0].(Args); ok {
			for field, v := range kw {
				ref, err := g.resolveArg(name, field, v)
				if err != nil {
					return nil, err
				}
				g.bind(name, field, ref)
			}
			return newOutputHandle(name, node.OutputFields()), nil
		}
	}

	flat := flattenPositional(args)
	fields := node.InputFields()
	if len(flat) > len(fields) {
		return nil, fmt.Errorf("graph: node %q given %d positional value(s) but only has %d input field(s)", name, len(flat), len(fields))
	}
	for i, v := range flat {
		ref, err := g.resolveArg(name, fields[i], v)
		if err != nil {
			return nil, err
		}
		g.bind(name, fields[i], ref)
	}

	return newOutputHandle(name, node.OutputFields()), nil
}

// flattenPositional expands each positional arg into an ordered sequence
// of bindable values: an *OutputHandle contributes one entry per field it
// carries, everything else contributes itself.
func flattenPositional(args []any) []any {
	var out []any
	for _, a := range args {
		if h, ok := a.(*OutputHandle); ok {
			for _, f := range h.Fields() {
				out = append(out, h.Field(f))
			}
			continue
		}
		out = append(out, a)
	}
	return out
}

func (g *Graph) resolveArg(nodeName, field string, v any) (*FieldRef, error) {
	switch val := v.(type) {
	case *FieldRef:
		return val, nil
	case *OutputHandle:
		ref := val.First()
		if ref == nil {
			return nil, &UnboundInputError{Node: nodeName, Field: field}
		}
		return ref, nil
	case *Aggregator:
		return val.Output().First(), nil
	default:
		// Qualify by node so two node instances binding the same field
		// name to two different literals (e.g. the same function added
		// in a loop) never share one synthesized input slot.
		synthetic := nodeName + "#" + field
		return g.declareInput(synthetic, val, true), nil
	}
}

// AddAggregator wires agg's compiled pseudo-node into the graph exactly
// like AddNode, binding each collected FieldRef to its synthetic slot.
func (g *Graph) AddAggregator(agg *Aggregator) (*OutputHandle, error) {
	node := agg.toNode()
	name := node.Name()
	if _, exists := g.nodes[name]; exists {
		return nil, fmt.Errorf("graph: duplicate node name %q", name)
	}

	g.nodes[name] = node
	g.order = append(g.order, name)
	g.compiled = false

	for i, ref := range agg.inputs {
		g.bind(name, agg.slotName(i), ref)
	}

	return newOutputHandle(name, node.OutputFields()), nil
}

// Roots returns the names of nodes with no input fields at all — the ones
// the scheduler's very first wave always contains.
func (g *Graph) Roots() []string {
	return g.roots()
}

// Leaves returns the names of nodes whose output fields are never used as
// a binding source by another node — what SetOutputs defaults to deriving
// Run's result schema from when it is never called explicitly.
func (g *Graph) Leaves() []string {
	return g.leaves()
}

// SetOutputs declares which fields Run's result carries (spec.md §3
// "outputs: OutputHandle | list<OutputHandle>", §4.F). Multiple handles are
// composed with MergeOutputHandles, later handles winning on a field-name
// collision. If SetOutputs is never called, compile derives the same thing
// automatically from the graph's leaf nodes (spec.md §4.G step 5).
func (g *Graph) SetOutputs(handles ...*OutputHandle) {
	if len(handles) == 1 {
		g.outputs = handles[0]
		return
	}
	g.outputs = MergeOutputHandles(handles...)
}

// compile runs the implicit planner over every node's still-unbound
// input fields, fails fast if any field remains unbound afterward, and
// (absent an explicit SetOutputs call) derives the declared output fields
// from the graph's leaf nodes.
func (g *Graph) compile() error {
	if g.compiled {
		return nil
	}
	if err := g.planImplicit(); err != nil {
		return err
	}
	for _, name := range g.order {
		node := g.nodes[name]
		for _, field := range node.InputFields() {
			if _, ok := g.bindings[name][field]; !ok {
				return &UnboundInputError{Node: name, Field: field}
			}
		}
	}
	if g.outputs == nil {
		leafNames := g.leaves()
		handles := make([]*OutputHandle, len(leafNames))
		for i, name := range leafNames {
			handles[i] = newOutputHandle(name, g.nodes[name].OutputFields())
		}
		g.outputs = MergeOutputHandles(handles...)
	}
	g.compiled = true
	return nil
}

// Run executes the graph with positional values bound, in order, to the
// graph's declared input fields: those declared during construction
// (Input() calls and the inputs synthesized for literal values, in the
// order they were made), then any discovered by the implicit planner, in
// node-registration order.
func (g *Graph) Run(ctx context.Context, positional ...any) (*Record, error) {
	if err := g.compile(); err != nil {
		return nil, err
	}

	args := make(map[string]any, len(positional))
	for i, v := range positional {
		if i >= len(g.inputOrder) {
			return nil, fmt.Errorf("graph: Run got %d positional args but graph declares %d input(s)", len(positional), len(g.inputOrder))
		}
		args[g.inputOrder[i]] = v
	}
	return g.runWith(ctx, args)
}

// RunWith executes the graph with named values for its declared input
// fields, for graphs with more than one input where positional order is
// inconvenient to track.
func (g *Graph) RunWith(ctx context.Context, args map[string]any) (*Record, error) {
	if err := g.compile(); err != nil {
		return nil, err
	}
	return g.runWith(ctx, args)
}

func (g *Graph) runWith(ctx context.Context, args map[string]any) (*Record, error) {
	base := NewRecord(g.inputOrder...)

	for _, name := range g.inputOrder {
		v, ok := args[name]
		if !ok {
			if g.inputHasDef[name] {
				v = g.inputDefaults[name]
			} else {
				return nil, &UnboundInputError{Node: "", Field: name}
			}
		}
		if err := base.Set(name, v); err != nil {
			return nil, err
		}
	}

	// Clone before handing base to the scheduler so that a caller-supplied
	// default value (or a repeated Run call reusing the same default) is
	// never mutated in place by a node and observed by the next invocation
	// (spec.md §3 Lifecycle: a fresh output record per invocation).
	base = base.Clone()

	nodeOutputs, err := g.runWaves(ctx, base)
	if err != nil {
		return nil, err
	}

	outFields := g.outputs.Fields()
	result := NewRecord(outFields...)
	for _, field := range outFields {
		ref := g.outputs.Field(field)
		value, ok := nodeOutputs[ref.node][field]
		if !ok {
			continue
		}
		if err := result.Set(field, value); err != nil {
			return nil, err
		}
	}
	return result, nil
}
