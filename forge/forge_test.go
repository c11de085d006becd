package forge_test

import (
	"strings"
	"testing"

	"github.com/forge-lang/forge/forge"
	"github.com/forge-lang/forge/internal/value"
)

// These six scenarios are the concrete end-to-end cases from spec.md
// §8, run against the public forge.Interpreter facade rather than any
// internal package directly, since that facade is the only place all
// of compile, engine, dict, and worker come together.

func TestScenarioArithmetic(t *testing.T) {
	interp := forge.New()
	if err := interp.ProcessSource("scenario-1", `3 4 + .s`); err != nil {
		t.Fatalf("ProcessSource: %v", err)
	}
	if interp.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", interp.Depth())
	}
	top, err := interp.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if top.(value.Int) != 7 {
		t.Fatalf("top = %v, want 7", top)
	}
}

func TestScenarioWordDefinition(t *testing.T) {
	interp := forge.New()
	if err := interp.ProcessSource("scenario-2", `: sq dup * ; 5 sq`); err != nil {
		t.Fatalf("ProcessSource: %v", err)
	}
	top, _ := interp.Pop()
	if top.(value.Int) != 25 {
		t.Fatalf("sq(5) = %v, want 25", top)
	}
}

func TestScenarioIfElseImmediateWords(t *testing.T) {
	interp := forge.New()
	src := `: abs dup 0 < if -1 * then ; -7 abs 3 abs`
	if err := interp.ProcessSource("scenario-3", src); err != nil {
		t.Fatalf("ProcessSource: %v", err)
	}
	posAbs, _ := interp.Pop()
	negAbs, _ := interp.Pop()
	if negAbs.(value.Int) != 7 {
		t.Fatalf("abs(-7) = %v, want 7", negAbs)
	}
	if posAbs.(value.Int) != 3 {
		t.Fatalf("abs(3) = %v, want 3", posAbs)
	}
}

func TestScenarioTryCatch(t *testing.T) {
	interp := forge.New()
	src := `: safe try 0 / catch drop -1 endtry ; 10 safe`
	if err := interp.ProcessSource("scenario-4", src); err != nil {
		t.Fatalf("ProcessSource: %v", err)
	}
	top, _ := interp.Pop()
	if top.(value.Int) != -1 {
		t.Fatalf("safe(10) = %v, want -1", top)
	}
}

func TestScenarioScopedVariable(t *testing.T) {
	interp := forge.New()
	src := `: f variable! x 10 x ! x @ ; f`
	if err := interp.ProcessSource("scenario-5", src); err != nil {
		t.Fatalf("ProcessSource: %v", err)
	}
	top, _ := interp.Pop()
	if top.(value.Int) != 10 {
		t.Fatalf("f() = %v, want 10", top)
	}

	// x was defined inside f's own mark_context/release_context pair
	// (":" words default to context-managed), so it must not be visible
	// once f has returned.
	err := interp.ProcessSource("scenario-5b", `x`)
	if err == nil {
		t.Fatalf("expected lookup of x outside f to fail, got no error")
	}
	if !strings.Contains(err.Error(), "x") {
		t.Fatalf("error %v does not mention the missing word x", err)
	}
}

func TestScenarioWorkerEcho(t *testing.T) {
	interp := forge.New()
	src := `"echo" code.new-block thread.pop 1 + thread.push code.pop-stack-block thread.new`
	if err := interp.ProcessSource("scenario-6", src); err != nil {
		t.Fatalf("ProcessSource: %v", err)
	}
	idVal, err := interp.Pop()
	if err != nil {
		t.Fatalf("Pop thread id: %v", err)
	}
	id, ok := idVal.(value.ThreadID)
	if !ok {
		t.Fatalf("top = %#v, want a thread id", idVal)
	}

	if err := interp.ThreadPushTo(id, value.Int(5)); err != nil {
		t.Fatalf("ThreadPushTo: %v", err)
	}
	got, err := interp.ThreadPopFrom(id)
	if err != nil {
		t.Fatalf("ThreadPopFrom: %v", err)
	}
	if got.(value.Int) != 6 {
		t.Fatalf("echo(5) = %v, want 6", got)
	}
}

// TestScenarioThreadSeesParentVariable exercises spec.md §4.6's "clone
// of the parent's ... variable table" requirement directly: a variable
// defined at top level, before thread.new runs, must still be readable
// from inside the spawned worker.
func TestScenarioThreadSeesParentVariable(t *testing.T) {
	interp := forge.New()
	if err := interp.ProcessSource("scenario-7-setup", `99 variable! shared`); err != nil {
		t.Fatalf("ProcessSource (setup): %v", err)
	}

	src := `"reader" code.new-block shared @ thread.push code.pop-stack-block thread.new`
	if err := interp.ProcessSource("scenario-7", src); err != nil {
		t.Fatalf("ProcessSource: %v", err)
	}
	idVal, err := interp.Pop()
	if err != nil {
		t.Fatalf("Pop thread id: %v", err)
	}
	id, ok := idVal.(value.ThreadID)
	if !ok {
		t.Fatalf("top = %#v, want a thread id", idVal)
	}

	got, err := interp.ThreadPopFrom(id)
	if err != nil {
		t.Fatalf("ThreadPopFrom: %v", err)
	}
	if got.(value.Int) != 99 {
		t.Fatalf("worker read of shared = %v, want 99", got)
	}
}
