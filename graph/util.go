package graph

import (
	"reflect"

	"github.com/mohae/deepcopy"
)

func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// deepCopy clones a field value so the input record a Graph invocation
// hands to its nodes never shares mutable state (slices, maps, structs with
// pointer fields) with the graph's stored input defaults or with another
// invocation.
func deepCopy(v any) any {
	if v == nil {
		return nil
	}
	return deepcopy.Copy(v)
}
