package graph

import (
	"golang.org/x/exp/slices"

	"github.com/mcminis1/mr-graph/observe"
)

// planImplicit fills every input field a node was not given an explicit
// binding for (spec.md §4.G, component G). For each node, the set of its
// still-unbound input field names is compared, as a sorted multiset,
// against the output field-name multiset of every other node in the
// graph. Exactly one match binds the whole set field-by-field to that
// producer; more than one is AmbiguousTopologyError; zero means the
// fields are graph inputs the caller must supply.
func (g *Graph) planImplicit() error {
	for _, nodeName := range g.order {
		node := g.nodes[nodeName]
		unbound := g.unboundFields(nodeName, node)
		if len(unbound) == 0 {
			continue
		}

		want := append([]string(nil), unbound...)
		slices.Sort(want)

		var candidates []string
		for _, otherName := range g.order {
			if otherName == nodeName {
				continue
			}
			out := append([]string(nil), g.nodes[otherName].OutputFields()...)
			slices.Sort(out)
			if slices.Equal(want, out) {
				candidates = append(candidates, otherName)
			}
		}

		switch len(candidates) {
		case 0:
			for _, field := range unbound {
				g.bind(nodeName, field, g.declareInput(field, Unset, false))
			}
			observe.FireUnmappedInputs(nodeName, unbound)
		case 1:
			producer := candidates[0]
			for _, field := range unbound {
				g.bind(nodeName, field, &FieldRef{node: producer, field: field})
			}
		default:
			return &AmbiguousTopologyError{Consumer: nodeName, Candidates: candidates}
		}
	}
	return nil
}

// unboundFields returns node's input field names that have no binding yet.
func (g *Graph) unboundFields(nodeName string, node *Node) []string {
	bound := g.bindings[nodeName]
	var out []string
	for _, f := range node.InputFields() {
		if bound == nil {
			out = append(out, f)
			continue
		}
		if _, ok := bound[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// roots returns the names of nodes with no declared input fields at all.
func (g *Graph) roots() []string {
	var out []string
	for _, name := range g.order {
		if len(g.nodes[name].InputFields()) == 0 {
			out = append(out, name)
		}
	}
	return out
}

// leaves returns the names of nodes whose output fields are never
// referenced as a binding source by any other node.
func (g *Graph) leaves() []string {
	consumed := make(map[string]bool)
	for _, fields := range g.bindings {
		for _, ref := range fields {
			if ref != nil && ref.node != "" {
				consumed[ref.node] = true
			}
		}
	}
	var out []string
	for _, name := range g.order {
		if !consumed[name] {
			out = append(out, name)
		}
	}
	return out
}
