package graph

import (
	"context"
	"sync"

	"github.com/mcminis1/mr-graph/internal/safe"
	"github.com/mcminis1/mr-graph/observe"
)

// runWaves is the scheduler (spec.md §4.H, component H). It repeatedly
// scans for nodes whose every bound input is now resolvable, dispatches
// synchronous nodes inline and asynchronous nodes concurrently, and
// barriers on each wave before scanning again. It returns every node's
// output fields, keyed by node name.
func (g *Graph) runWaves(ctx context.Context, base *Record) (map[string]map[string]any, error) {
	outputs := make(map[string]map[string]any, len(g.order))
	remaining := make(map[string]bool, len(g.order))
	for _, n := range g.order {
		remaining[n] = true
	}

	resolve := func(ref *FieldRef) (any, bool) {
		if ref.node == "" {
			v, err := base.Get(ref.field)
			if err != nil || isUnset(v) {
				return nil, false
			}
			return v, true
		}
		m, ok := outputs[ref.node]
		if !ok {
			return nil, false
		}
		v, ok := m[ref.field]
		return v, ok
	}

	type readyNode struct {
		name string
		node *Node
		args map[string]any
	}

	for len(remaining) > 0 {
		var syncReady, asyncReady []readyNode

		for n := range remaining {
			node := g.nodes[n]
			args := make(map[string]any, len(node.InputFields()))
			ready := true
			for _, field := range node.InputFields() {
				ref := g.bindings[n][field]
				v, ok := resolve(ref)
				if !ok {
					ready = false
					break
				}
				args[field] = v
			}
			if !ready {
				continue
			}
			rn := readyNode{name: n, node: node, args: args}
			if node.IsAsync() {
				asyncReady = append(asyncReady, rn)
			} else {
				syncReady = append(syncReady, rn)
			}
		}

		if len(syncReady) == 0 && len(asyncReady) == 0 {
			left := make([]string, 0, len(remaining))
			for n := range remaining {
				left = append(left, n)
			}
			return nil, &StuckGraphError{Remaining: left}
		}

		observe.FireWaveStart(len(syncReady) + len(asyncReady))

		for _, rn := range syncReady {
			observe.FireNodeStart(rn.name)
			values, err := dispatchSync(ctx, rn.node, rn.args)
			if err != nil {
				observe.FireNodeError(rn.name, err)
				return nil, newNodeFailure(rn.name, err)
			}
			outputs[rn.name] = zipOutputs(rn.node, values)
			observe.FireNodeEnd(rn.name)
			delete(remaining, rn.name)
		}

		if len(asyncReady) > 0 {
			results := make([]struct {
				name   string
				values []any
				err    error
			}, len(asyncReady))

			var wg sync.WaitGroup
			for i, rn := range asyncReady {
				wg.Add(1)
				go func(i int, rn readyNode) {
					defer wg.Done()
					observe.FireNodeStart(rn.name)
					values, err := dispatchAsync(ctx, rn.node, rn.args)
					results[i].name = rn.name
					results[i].values = values
					results[i].err = err
				}(i, rn)
			}
			wg.Wait()

			for _, r := range results {
				if r.err != nil {
					observe.FireNodeError(r.name, r.err)
					return nil, newNodeFailure(r.name, r.err)
				}
				outputs[r.name] = zipOutputs(g.nodes[r.name], r.values)
				observe.FireNodeEnd(r.name)
				delete(remaining, r.name)
			}
		}

		observe.FireWaveEnd()
	}

	return outputs, nil
}

func dispatchSync(ctx context.Context, node *Node, args map[string]any) ([]any, error) {
	var values []any
	err := safe.Run(func() error {
		v, err := node.invokeSync(ctx, args)
		values = v
		return err
	})
	return values, err
}

func dispatchAsync(ctx context.Context, node *Node, args map[string]any) ([]any, error) {
	var ch <-chan AsyncResult
	err := safe.Run(func() error {
		c, err := node.invokeAsync(ctx, args)
		ch = c
		return err
	})
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Values, res.Err
	}
}

// zipOutputs pairs a node's result values against its declared output
// field names in order (spec.md §4.H step 4): a single output field takes
// the lone returned value, k>1 fields zip against the returned slice.
func zipOutputs(node *Node, values []any) map[string]any {
	fields := node.OutputFields()
	out := make(map[string]any, len(fields))
	for i, f := range fields {
		if i < len(values) {
			out[f] = values[i]
		}
	}
	return out
}
