package dict

import "fmt"

// Dictionary is a stack of name -> WordDescriptor scopes, innermost last.
// Lookup walks from the innermost scope outward and stops at the first
// match, shadowing outer definitions the way compiler/symbol_table.go's
// Outer chain does.
type Dictionary struct {
	scopes []map[string]WordDescriptor
}

// New returns a Dictionary with a single (root) scope open.
func New() *Dictionary {
	return &Dictionary{scopes: []map[string]WordDescriptor{{}}}
}

// Define binds name in the innermost currently-open scope, shadowing any
// outer definition of the same name.
func (d *Dictionary) Define(wd WordDescriptor) {
	d.scopes[len(d.scopes)-1][wd.Name] = wd
}

// Find resolves name innermost-scope-first. Hidden words are still
// resolved here — IsHidden only affects listing (see Each) — since a
// word must still be able to call a hidden helper or a base definition
// it has shadowed.
func (d *Dictionary) Find(name string) (WordDescriptor, bool) {
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if wd, ok := d.scopes[i][name]; ok {
			return wd, true
		}
	}
	return WordDescriptor{}, false
}

// Each calls fn once per visible name across all open scopes, innermost
// shadowing outer, skipping words marked IsHidden. Order is unspecified.
func (d *Dictionary) Each(fn func(WordDescriptor)) {
	merged := make(map[string]WordDescriptor)
	for _, scope := range d.scopes {
		for name, wd := range scope {
			merged[name] = wd
		}
	}
	for _, wd := range merged {
		if wd.IsHidden {
			continue
		}
		fn(wd)
	}
}

func (d *Dictionary) mark() {
	d.scopes = append(d.scopes, map[string]WordDescriptor{})
}

func (d *Dictionary) release() error {
	if len(d.scopes) <= 1 {
		return fmt.Errorf("release_context: dictionary has no open context")
	}
	d.scopes = d.scopes[:len(d.scopes)-1]
	return nil
}

// Depth reports the number of scopes beyond the root.
func (d *Dictionary) Depth() int {
	return len(d.scopes) - 1
}

// Clone returns an independent copy: each scope's map is copied so that
// defining a word in the clone never mutates the original, per the
// threaded-sub-interpreter isolation spec.md §4.6 requires.
func (d *Dictionary) Clone() *Dictionary {
	out := &Dictionary{scopes: make([]map[string]WordDescriptor, len(d.scopes))}
	for i, scope := range d.scopes {
		m := make(map[string]WordDescriptor, len(scope))
		for k, v := range scope {
			m[k] = v
		}
		out.scopes[i] = m
	}
	return out
}
