package dict

import "fmt"

// Scopes pairs a Dictionary with its HandlerTable and is the only thing
// allowed to push or pop a scope on either: MarkContext/ReleaseContext
// always move both stacks together, which is how spec.md's invariant
// "the dictionary scope stack and the handler table scope stack are
// always the same depth" is enforced structurally rather than by
// convention.
type Scopes struct {
	Dictionary *Dictionary
	Handlers   *HandlerTable
}

// NewScopes returns a fresh, unnested dictionary/handler-table pair.
func NewScopes() *Scopes {
	return &Scopes{Dictionary: New(), Handlers: NewHandlerTable()}
}

// MarkContext opens a new scope on both stacks.
func (s *Scopes) MarkContext() {
	s.Dictionary.mark()
	s.Handlers.mark()
}

// ReleaseContext closes the innermost scope on both stacks. It returns
// an error, leaving both stacks untouched, if either has no open scope
// to release — which given MarkContext is the only way to open one,
// only happens on an unbalanced release_context at the root.
func (s *Scopes) ReleaseContext() error {
	if s.Dictionary.Depth() == 0 || s.Handlers.Depth() == 0 {
		return fmt.Errorf("release_context: no open context to release")
	}
	if s.Dictionary.Depth() != s.Handlers.Depth() {
		return fmt.Errorf("release_context: dictionary/handler-table scope depth mismatch (%d vs %d)",
			s.Dictionary.Depth(), s.Handlers.Depth())
	}
	if err := s.Dictionary.release(); err != nil {
		return err
	}
	return s.Handlers.release()
}

// Depth reports the shared scope depth.
func (s *Scopes) Depth() int {
	return s.Dictionary.Depth()
}

// DefineWord adds fn to the handler table and binds name to it in the
// innermost scope in one step, the common case for every word-defining
// primitive (":", built-in installation, thread clone re-registration).
func (s *Scopes) DefineWord(wd WordDescriptor, entry HandlerEntry) WordDescriptor {
	wd.HandlerIndex = s.Handlers.Add(entry)
	s.Dictionary.Define(wd)
	return wd
}

// Clone returns an independent copy of both stacks, for handing a fresh,
// isolated dictionary/handler-table pair to a threaded sub-interpreter.
func (s *Scopes) Clone() *Scopes {
	return &Scopes{Dictionary: s.Dictionary.Clone(), Handlers: s.Handlers.Clone()}
}
