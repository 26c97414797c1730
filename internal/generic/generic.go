// Package generic holds small reflection helpers shared by the graph
// package. It has no knowledge of nodes, records, or graphs.
package generic

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

var (
	regOfAnonymousFunc = regexp.MustCompile(`^func[0-9]+`)
	regOfNumber        = regexp.MustCompile(`^\d+$`)
)

// FuncName returns the declared name of a function value, stripped of its
// package qualifier: "github.com/x/y.DoThing" -> "DoThing",
// "(*Graph).run" -> "run". Anonymous functions and closures return "".
//
// This stands in for Python's fn.__name__ (spec.md §4.B "name <- fn.name"):
// Go functions carry a runtime name via runtime.FuncForPC, just not a
// docstring or parameter names, so FuncName only covers the part of the
// oracle contract Go can actually answer without a separate NodeSpec.
func FuncName(fn any) string {
	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func {
		return ""
	}

	full := runtime.FuncForPC(val.Pointer()).Name()
	idx := strings.LastIndex(full, ".")
	if idx < 0 {
		return full
	}
	name := full[idx+1:]

	if regOfAnonymousFunc.MatchString(name) || regOfNumber.MatchString(name) {
		return ""
	}
	return name
}
