// Package graph implements a small dataflow graph executor: nodes are
// plain Go functions with a declared input/output field schema, wiring
// between them is either explicit (AddNode's binding argument) or inferred
// by matching field names (the implicit planner), and Run executes ready
// nodes in waves, dispatching synchronous nodes inline and asynchronous
// nodes concurrently.
package graph
