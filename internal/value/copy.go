package value

// DeepCopy duplicates v's entire graph: shared variants (array, table,
// buffer, struct) get freshly allocated storage with no aliasing back to
// v, recursively. Owned/primitive variants (including bytecode blocks,
// which are treated as immutable once compiled) are returned unchanged,
// since they carry no mutable shared storage.
//
// This is the explicit deep-copy operation spec.md calls for: used by the
// push_constant_value path when expanding a def_constant word, by
// user-level copy primitives, and at worker queue boundaries (internal/
// worker) so that a value enqueued by one goroutine shares no storage
// with the same value read back by another.
func DeepCopy(v Value) Value {
	switch x := v.(type) {
	case *Array:
		elements := make([]Value, len(x.Elements))
		for i, e := range x.Elements {
			elements[i] = DeepCopy(e)
		}
		return &Array{Elements: elements}
	case *Table:
		t := NewTable()
		x.Each(func(k, val Value) {
			t.Set(DeepCopy(k), DeepCopy(val))
		})
		return t
	case *Buffer:
		data := make([]byte, len(x.Data))
		copy(data, x.Data)
		return &Buffer{Data: data, Cursor: x.Cursor}
	case *Struct:
		values := make([]Value, len(x.Values))
		for i, fv := range x.Values {
			values[i] = DeepCopy(fv)
		}
		return &Struct{Def: x.Def, Values: values}
	default:
		// None, Bool, Int, Float, Str, TokenValue, Block, ThreadID carry no
		// externally-mutable shared storage.
		return v
	}
}
