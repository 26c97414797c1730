package graph

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// unsetType is the sentinel type occupying a Record field slot until a
// value is written to it (spec.md §3 component A).
type unsetType struct{}

// Unset is the sentinel value of every field a Record is declared with,
// until Set or Merge gives it a real value.
var Unset = unsetType{}

func isUnset(v any) bool {
	_, ok := v.(unsetType)
	return ok
}

// Record is an ordered, named-field container. Every field it knows about
// holds Unset until written once. Fields are looked up by name, not
// position, but iteration order follows declaration order — mirroring the
// ordered-dict-like behavior the original Python Record relied on.
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
}

// NewRecord builds a Record with the given field names, all initialized to
// Unset.
func NewRecord(fieldNames ...string) *Record {
	m := orderedmap.New[string, any](len(fieldNames))
	for _, name := range fieldNames {
		m.Set(name, Unset)
	}
	return &Record{fields: m}
}

// Fields returns the field names in declaration order.
func (r *Record) Fields() []string {
	out := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Has reports whether name is a known field of r, set or not.
func (r *Record) Has(name string) bool {
	_, ok := r.fields.Get(name)
	return ok
}

// Get returns the value stored at name. It returns UnknownFieldError if the
// record has no such field.
func (r *Record) Get(name string) (any, error) {
	v, ok := r.fields.Get(name)
	if !ok {
		return nil, &UnknownFieldError{Field: name}
	}
	return v, nil
}

// IsSet reports whether name holds a real value rather than Unset. It
// returns UnknownFieldError if the field does not exist.
func (r *Record) IsSet(name string) (bool, error) {
	v, err := r.Get(name)
	if err != nil {
		return false, err
	}
	return !isUnset(v), nil
}

// Set writes value into the pre-declared field name, enforcing spec.md
// §4.A's contract: it fails with UnknownFieldError if name is not part of
// the record's schema, and with DoubleWriteError if the field already holds
// a value not deeply equal to value. Writing the same value twice, or
// writing an Unset field, both succeed. This is the write path a graph's
// input values and its declared output fields both go through, so an
// output field is written at most once per graph invocation (spec.md §3).
func (r *Record) Set(name string, value any) error {
	existing, ok := r.fields.Get(name)
	if !ok {
		return &UnknownFieldError{Field: name}
	}
	if isUnset(existing) || deepEqual(existing, value) {
		r.fields.Set(name, value)
		return nil
	}
	return &DoubleWriteError{Field: name, Old: existing, New: value}
}

// Merge writes value into field name following the same unset-or-equal
// policy as Set, but declares name on the fly if the record did not
// already know about it. This is for callers that grow a record's schema
// as new fields are discovered, rather than ones (like Set's callers) that
// already know the full field set up front.
func (r *Record) Merge(name string, value any) error {
	existing, ok := r.fields.Get(name)
	if !ok || isUnset(existing) {
		r.fields.Set(name, value)
		return nil
	}
	if deepEqual(existing, value) {
		return nil
	}
	return &DoubleWriteError{Field: name, Old: existing, New: value}
}

// AsMap returns a plain map snapshot of the record's set fields, suitable
// for passing into a node's function body as its args map. Unset fields are
// omitted.
func (r *Record) AsMap() map[string]any {
	out := make(map[string]any, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !isUnset(pair.Value) {
			out[pair.Key] = pair.Value
		}
	}
	return out
}

// Clone returns a deep copy of r, used by Graph.runWith to give each Run
// invocation its own independent copy of the populated input record
// (spec.md §3 Lifecycle).
func (r *Record) Clone() *Record {
	m := orderedmap.New[string, any](r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		m.Set(pair.Key, deepCopy(pair.Value))
	}
	return &Record{fields: m}
}
