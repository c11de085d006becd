// Package worker implements the threaded sub-interpreters of spec.md
// §4.6/§5: each worker is a goroutine running its own Engine against its
// own cloned dictionary/handler-table/variable-table state, reachable
// from the outside only through a pair of blocking FIFO queues.
//
// The teacher has no analogue for this — Monkey is single-threaded —
// so this package is grounded directly on spec.md's own description,
// with the "lock only what is actually shared" discipline the teacher
// applies elsewhere (vm/frame.go's per-call-frame state needs no lock at
// all; only the registry map mutation here does).
package worker

import (
	"fmt"

	"github.com/forge-lang/forge/internal/value"
)

// Worker is one threaded sub-interpreter. toWorker/fromWorker are
// unbuffered: a push blocks until the other side is ready to receive,
// matching spec.md's "blocking FIFO queue" description literally rather
// than approximating it with a bounded buffer.
type Worker struct {
	ID   value.ThreadID
	Name string

	toWorker   chan value.Value // parent -> worker (thread.push-to / thread.pop from within)
	fromWorker chan value.Value // worker -> parent (thread.push from within / thread.pop-from)
	done       chan struct{}
	err        error
}

// PushTo enqueues v for the worker to receive via Pop, blocking until
// the worker is ready or has already exited. Values cross the boundary
// deep-copied, so neither side can observe the other's mutations.
func (w *Worker) PushTo(v value.Value) error {
	select {
	case w.toWorker <- value.DeepCopy(v):
		return nil
	case <-w.done:
		return fmt.Errorf("thread %q has exited", w.Name)
	}
}

// PopFrom blocks for a value the worker has sent via Push. If the
// worker has exited, PopFrom still drains any value left buffered in
// flight before reporting exhaustion, so a short-lived worker's final
// message is never lost to a race with its own exit.
func (w *Worker) PopFrom() (value.Value, error) {
	select {
	case v := <-w.fromWorker:
		return v, nil
	case <-w.done:
		select {
		case v := <-w.fromWorker:
			return v, nil
		default:
			return nil, w.exitError()
		}
	}
}

// Push is called from inside the worker's own goroutine to send a value
// to the parent (the body of thread.push).
func (w *Worker) Push(v value.Value) error {
	w.fromWorker <- value.DeepCopy(v)
	return nil
}

// Pop is called from inside the worker's own goroutine to receive a
// value the parent sent via PushTo (the body of thread.pop).
func (w *Worker) Pop() (value.Value, error) {
	v, ok := <-w.toWorker
	if !ok {
		return nil, fmt.Errorf("thread %q input queue closed", w.Name)
	}
	return v, nil
}

func (w *Worker) exitError() error {
	if w.err != nil {
		return fmt.Errorf("thread %q exited: %w", w.Name, w.err)
	}
	return fmt.Errorf("thread %q has exited with no more output", w.Name)
}
