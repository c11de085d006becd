package engine

import (
	"fmt"

	"github.com/forge-lang/forge/internal/value"
)

// Thrown wraps a value.Value raised by the throw primitive so that catch
// can recover the exact thrown value rather than just an error message,
// per spec.md's exception model.
type Thrown struct {
	V value.Value
}

func (t *Thrown) Error() string {
	return fmt.Sprintf("thrown: %s", t.V.Inspect())
}

// NewThrown wraps v as an error suitable for returning from a word
// handler to trigger stack/scope unwind to the nearest open catch.
func NewThrown(v value.Value) error {
	return &Thrown{V: v}
}
