package value

import (
	"fmt"
	"strings"
)

// Array is an ordered, mutable, resizable sequence of Values. It has
// reference semantics: every Go value holding this *Array points at the
// same backing slice.
type Array struct {
	Elements []Value
}

// NewArray returns an empty array.
func NewArray() *Array { return &Array{} }

func (*Array) Kind() Kind { return KindArray }

func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// tableEntry is one slot in a hash bucket's collision chain.
type tableEntry struct {
	key   Value
	value Value
}

// Table is an unordered mapping from Value to Value. Keys are resolved by
// structural hash with a collision chain per bucket, since arbitrary
// Values (including containers) are not usable as native Go map keys.
// Table has reference semantics, like Array.
type Table struct {
	buckets map[uint64][]tableEntry
	count   int
}

// NewTable returns an empty hash table.
func NewTable() *Table { return &Table{buckets: make(map[uint64][]tableEntry)} }

func (*Table) Kind() Kind { return KindTable }

func (t *Table) Inspect() string {
	var parts []string
	for _, chain := range t.buckets {
		for _, e := range chain {
			parts = append(parts, fmt.Sprintf("%s: %s", e.key.Inspect(), e.value.Inspect()))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Set inserts or overwrites the value stored under key.
func (t *Table) Set(key, val Value) {
	if t.buckets == nil {
		t.buckets = make(map[uint64][]tableEntry)
	}
	h := Hash(key)
	chain := t.buckets[h]
	for i, e := range chain {
		if Equal(e.key, key) {
			chain[i].value = val
			return
		}
	}
	t.buckets[h] = append(chain, tableEntry{key: key, value: val})
	t.count++
}

// Get looks up the value stored under key.
func (t *Table) Get(key Value) (Value, bool) {
	if t.buckets == nil {
		return nil, false
	}
	chain := t.buckets[Hash(key)]
	for _, e := range chain {
		if Equal(e.key, key) {
			return e.value, true
		}
	}
	return nil, false
}

// Delete removes the entry stored under key, if any.
func (t *Table) Delete(key Value) bool {
	if t.buckets == nil {
		return false
	}
	h := Hash(key)
	chain := t.buckets[h]
	for i, e := range chain {
		if Equal(e.key, key) {
			t.buckets[h] = append(chain[:i], chain[i+1:]...)
			t.count--
			return true
		}
	}
	return false
}

// Len reports the number of entries in the table.
func (t *Table) Len() int { return t.count }

// Each calls fn once per entry; iteration order is unspecified, matching
// spec.md's "insertion-order not guaranteed".
func (t *Table) Each(fn func(key, val Value)) {
	for _, chain := range t.buckets {
		for _, e := range chain {
			fn(e.key, e.value)
		}
	}
}

// Buffer is a fixed-capacity byte region with a movable cursor, used by
// binary-I/O primitives. It has reference semantics, like Array.
type Buffer struct {
	Data   []byte
	Cursor int
}

// NewBuffer allocates a Buffer with the given fixed capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{Data: make([]byte, capacity)}
}

func (*Buffer) Kind() Kind { return KindBuffer }

func (b *Buffer) Inspect() string {
	return fmt.Sprintf("byte-buffer[%d@%d]", len(b.Data), b.Cursor)
}

// StructDef is a data-object's shape: its name and ordered field names.
type StructDef struct {
	Name   string
	Fields []string
}

// Struct is an instance of a StructDef: a reference to its definition plus
// ordered field values. It has reference semantics, like Array.
type Struct struct {
	Def    *StructDef
	Values []Value
}

// NewStruct allocates a Struct with its fields initialized to None.
func NewStruct(def *StructDef) *Struct {
	values := make([]Value, len(def.Fields))
	for i := range values {
		values[i] = None{}
	}
	return &Struct{Def: def, Values: values}
}

func (*Struct) Kind() Kind { return KindStruct }

func (s *Struct) Inspect() string {
	parts := make([]string, len(s.Def.Fields))
	for i, name := range s.Def.Fields {
		parts[i] = fmt.Sprintf("%s: %s", name, s.Values[i].Inspect())
	}
	return s.Def.Name + "{" + strings.Join(parts, ", ") + "}"
}

// FieldIndex returns the index of a named field, or -1 if it's not defined.
func (s *Struct) FieldIndex(name string) int {
	for i, f := range s.Def.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// ThreadID identifies a worker sub-interpreter (internal/worker.Registry
// key). It's an owned value, not a reference type.
type ThreadID string

func (ThreadID) Kind() Kind      { return KindThreadID }
func (t ThreadID) Inspect() string { return "thread:" + string(t) }
