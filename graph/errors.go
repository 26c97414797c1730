package graph

import (
	"fmt"

	"github.com/pkg/errors"
)

// The seven error kinds spec.md §7 requires. Each is a distinct sentinel
// type so callers can switch on errors.As instead of string matching.

// UnknownFieldError is returned when a Record operation references a field
// name the record was never given a slot for.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("graph: unknown field %q", e.Field)
}

// DoubleWriteError is returned when two inputs try to set the same field of
// a Record to two different, already-set values.
type DoubleWriteError struct {
	Field string
	Old   any
	New   any
}

func (e *DoubleWriteError) Error() string {
	return fmt.Sprintf("graph: double write on field %q: %v -> %v", e.Field, e.Old, e.New)
}

// UnboundInputError is returned when a node input field could not be bound
// to a graph input, a producing node's output, or a literal value: by
// AddNode when given an OutputHandle with no fields, and by Run/RunWith when
// a graph input was given no value and has no default.
type UnboundInputError struct {
	Node  string
	Field string
}

func (e *UnboundInputError) Error() string {
	return fmt.Sprintf("graph: node %q has unbound input %q", e.Node, e.Field)
}

// StuckGraphError is returned by the scheduler when a wave completes with
// no node having become ready and unfinished nodes remain.
type StuckGraphError struct {
	Remaining []string
}

func (e *StuckGraphError) Error() string {
	return fmt.Sprintf("graph: stuck, %d node(s) never became ready: %v", len(e.Remaining), e.Remaining)
}

// AmbiguousTopologyError is returned by the implicit planner when more than
// one producer node matches a consumer's input field-name multiset.
type AmbiguousTopologyError struct {
	Consumer   string
	Candidates []string
}

func (e *AmbiguousTopologyError) Error() string {
	return fmt.Sprintf("graph: ambiguous topology for %q, candidates: %v", e.Consumer, e.Candidates)
}

// BadAggregatorInputError is returned when Aggregator.Append is given
// something other than a FieldRef or another *Aggregator.
type BadAggregatorInputError struct {
	Got any
}

func (e *BadAggregatorInputError) Error() string {
	return fmt.Sprintf("graph: aggregator cannot append value of type %T", e.Got)
}

// NodeFailureError wraps an error raised by a node's function body,
// carrying the node name and a stack trace via github.com/pkg/errors so the
// original failure site survives the wave barrier.
type NodeFailureError struct {
	Node string
	Err  error
}

func (e *NodeFailureError) Error() string {
	return fmt.Sprintf("graph: node %q failed: %v", e.Node, e.Err)
}

func (e *NodeFailureError) Unwrap() error {
	return e.Err
}

func newNodeFailure(node string, err error) error {
	return &NodeFailureError{Node: node, Err: errors.WithStack(err)}
}
