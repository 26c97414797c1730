package safe

import (
	"errors"
	"testing"
)

func TestRun_PropagatesError(t *testing.T) {
	want := errors.New("boom")
	err := Run(func() error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
}

func TestRun_RecoversPanic(t *testing.T) {
	err := Run(func() error { panic("kaboom") })
	if err == nil {
		t.Fatal("expected error from recovered panic, got nil")
	}
	var pe *panicErr
	if !errors.As(err, &pe) {
		t.Fatalf("got %T, want *panicErr", err)
	}
}
