package builtin

import (
	"fmt"

	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/value"
)

// installThreads defines the thread.* words described in spec.md's
// worker-thread scenario (§8): thread.new spawns a sub-interpreter
// running a given code block, thread.push-to/thread.pop-from are the
// parent-side ends of its pair of FIFO channels, and thread.push/
// thread.pop are the worker-side ends, used from inside the spawned
// code itself to talk back to whoever is holding its ID.
//
// Grounded on evaluator/ (the only plausible analogue the teacher has
// for dispatching callable code the interpreter doesn't own is a
// first-class function value; there's no goroutine precedent in the
// teacher itself), generalized using the worker-pool shape of
// internal/worker, wired here purely through rt.Interp's Thread*
// methods so this package stays ignorant of the registry
// implementation.
func installThreads(scopes *dict.Scopes) {
	define(scopes, "thread.new", false, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		block, ok := v.(*value.Block)
		if !ok {
			return fmt.Errorf("thread.new: expected a block value, got %s", v.Kind())
		}
		name, err := i.PopAsString()
		if err != nil {
			return err
		}
		id, err := i.ThreadNew(name, block.Code)
		if err != nil {
			return err
		}
		i.Push(id)
		return nil
	})

	define(scopes, "thread.push-to", false, func(i rt.Interp) error {
		idValue, err := i.Pop()
		if err != nil {
			return err
		}
		id, ok := idValue.(value.ThreadID)
		if !ok {
			return fmt.Errorf("thread.push-to: expected a thread id, got %s", idValue.Kind())
		}
		v, err := i.Pop()
		if err != nil {
			return err
		}
		return i.ThreadPushTo(id, v)
	})

	define(scopes, "thread.pop-from", false, func(i rt.Interp) error {
		idValue, err := i.Pop()
		if err != nil {
			return err
		}
		id, ok := idValue.(value.ThreadID)
		if !ok {
			return fmt.Errorf("thread.pop-from: expected a thread id, got %s", idValue.Kind())
		}
		v, err := i.ThreadPopFrom(id)
		if err != nil {
			return err
		}
		i.Push(v)
		return nil
	})

	define(scopes, "thread.push", false, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		return i.ThreadPush(v)
	})

	define(scopes, "thread.pop", false, func(i rt.Interp) error {
		v, err := i.ThreadPop()
		if err != nil {
			return err
		}
		i.Push(v)
		return nil
	})
}
