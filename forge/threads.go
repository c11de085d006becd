package forge

import (
	"errors"

	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/engine"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/value"
	"github.com/forge-lang/forge/internal/worker"
)

// ThreadNew spawns body as a new goroutine running against a clone of
// this interpreter's scopes, per spec.md §4.6. Only the root interpreter
// may spawn — a worker's own Interpreter has isRoot false, so a thread
// cannot itself spawn further threads.
func (i *Interpreter) ThreadNew(name string, body []value.Instruction) (value.ThreadID, error) {
	if !i.isRoot {
		return "", errors.New("thread.new: only the root interpreter may spawn threads")
	}

	factory := func(scopes *dict.Scopes, self *worker.Worker) rt.Interp {
		workerEngine := engine.New()
		workerEngine.Variables = i.Engine.Variables.Clone()
		return &Interpreter{
			Scopes:      scopes,
			Engine:      workerEngine,
			workers:     i.workers,
			isRoot:      false,
			self:        self,
			searchPaths: i.searchPaths,
		}
	}
	runner := func(interp rt.Interp, scopes *dict.Scopes, code []value.Instruction) error {
		return interp.(*Interpreter).Engine.Run(interp, scopes, code)
	}

	w := i.workers.Spawn(name, i.Scopes, body, factory, runner)
	return w.ID, nil
}

func (i *Interpreter) ThreadPushTo(id value.ThreadID, v value.Value) error {
	w, ok := i.workers.Get(id)
	if !ok {
		return errors.New("thread.push-to: no such thread")
	}
	return w.PushTo(v)
}

func (i *Interpreter) ThreadPopFrom(id value.ThreadID) (value.Value, error) {
	w, ok := i.workers.Get(id)
	if !ok {
		return nil, errors.New("thread.pop-from: no such thread")
	}
	return w.PopFrom()
}

// ThreadPush and ThreadPop are valid only from inside a spawned worker's
// own code (i.self is set by ThreadNew's factory); they are the bodies
// of thread.push/thread.pop.
func (i *Interpreter) ThreadPush(v value.Value) error {
	if i.self == nil {
		return errors.New("thread.push: not running inside a worker thread")
	}
	return i.self.Push(v)
}

func (i *Interpreter) ThreadPop() (value.Value, error) {
	if i.self == nil {
		return nil, errors.New("thread.pop: not running inside a worker thread")
	}
	return i.self.Pop()
}
