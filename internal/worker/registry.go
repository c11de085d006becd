package worker

import (
	"fmt"
	"sync"

	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/value"
)

// InterpFactory builds the rt.Interp a spawned worker's engine dispatch
// loop runs handlers against, given that worker's own cloned scopes and
// a handle back to itself (for thread.push/thread.pop called from
// inside the thread body). The registry cannot construct this itself —
// it would need to import the root forge package, which imports this
// one — so the caller supplies it.
type InterpFactory func(scopes *dict.Scopes, self *Worker) rt.Interp

// Runner actually executes a worker's body against an engine and the
// interpreter the factory produced; supplied by the caller for the same
// reason as InterpFactory (internal/engine.Run is the natural choice,
// injected here to avoid this package depending on internal/engine's
// concrete Engine type any more than necessary).
type Runner func(interp rt.Interp, scopes *dict.Scopes, code []value.Instruction) error

// Registry is the root interpreter's worker directory: only the root
// interpreter may spawn threads, while a worker's interpreter can look
// up threads through the shared registry. A clone never gets its own
// registry — it shares the root's by reference.
type Registry struct {
	mu      sync.Mutex
	workers map[value.ThreadID]*Worker
	nextID  uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{workers: make(map[value.ThreadID]*Worker)}
}

// Spawn starts name as a new goroutine running code against a clone of
// parentScopes, and registers it under a freshly minted thread id.
func (r *Registry) Spawn(name string, parentScopes *dict.Scopes, code []value.Instruction, newInterp InterpFactory, run Runner) *Worker {
	r.mu.Lock()
	r.nextID++
	id := value.ThreadID(fmt.Sprintf("thread-%d-%s", r.nextID, name))
	w := &Worker{
		ID:         id,
		Name:       name,
		toWorker:   make(chan value.Value),
		fromWorker: make(chan value.Value),
		done:       make(chan struct{}),
	}
	r.workers[id] = w
	r.mu.Unlock()

	go func() {
		defer close(w.done)
		defer r.reap(id)

		scopes := parentScopes.Clone()
		interp := newInterp(scopes, w)
		if err := run(interp, scopes, code); err != nil {
			w.err = err
		}
	}()

	return w
}

// Get looks up a live worker by id.
func (r *Registry) Get(id value.ThreadID) (*Worker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workers[id]
	return w, ok
}

// Len reports the number of currently-registered (not yet reaped)
// workers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workers)
}

// reap drops id from the registry once its goroutine has exited. A
// worker's output queue is drained through PopFrom even after reaping;
// reaping only removes it from Get/Len, it does not discard buffered
// output.
func (r *Registry) reap(id value.ThreadID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workers, id)
}
