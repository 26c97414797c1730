package generic

import "testing"

func namedFunc() {}

func TestFuncName_NamedFunction(t *testing.T) {
	if got := FuncName(namedFunc); got != "namedFunc" {
		t.Errorf("FuncName(namedFunc) = %q, want %q", got, "namedFunc")
	}
}

func TestFuncName_AnonymousFunction(t *testing.T) {
	if got := FuncName(func() {}); got != "" {
		t.Errorf("FuncName(anonymous) = %q, want empty", got)
	}
}

func TestFuncName_NotAFunction(t *testing.T) {
	if got := FuncName(42); got != "" {
		t.Errorf("FuncName(42) = %q, want empty", got)
	}
}
