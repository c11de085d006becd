package value

import "testing"

func TestDeepCopyIdempotentAndUnaliased(t *testing.T) {
	inner := NewArray()
	inner.Elements = append(inner.Elements, Int(1), Str("x"))

	outer := NewArray()
	outer.Elements = append(outer.Elements, inner, Int(2))

	copy1 := DeepCopy(outer)
	copy2 := DeepCopy(copy1)

	if !Equal(copy1, copy2) {
		t.Fatalf("deep_copy(deep_copy(v)) not structurally equal to deep_copy(v)")
	}

	copy1Arr := copy1.(*Array)
	copy1Inner := copy1Arr.Elements[0].(*Array)
	if copy1Inner == inner {
		t.Fatal("deep copy shares storage with the original for a nested array")
	}

	// Mutating the copy must not affect the original.
	copy1Inner.Elements[0] = Int(999)
	if inner.Elements[0].(Int) != 1 {
		t.Fatal("mutating the deep copy mutated the original")
	}
}

func TestEqualityHashConsistency(t *testing.T) {
	a1 := NewArray()
	a1.Elements = append(a1.Elements, Int(1), Str("hi"))
	a2 := NewArray()
	a2.Elements = append(a2.Elements, Int(1), Str("hi"))

	if !Equal(a1, a2) {
		t.Fatal("structurally identical arrays should be equal")
	}
	if Hash(a1) != Hash(a2) {
		t.Fatal("a == b must imply hash(a) == hash(b)")
	}

	a3 := NewArray()
	a3.Elements = append(a3.Elements, Int(2))
	if Equal(a1, a3) {
		t.Fatal("structurally different arrays should not be equal")
	}
}

func TestTableSetGetDelete(t *testing.T) {
	tbl := NewTable()
	tbl.Set(Str("a"), Int(1))
	tbl.Set(Str("b"), Int(2))

	if v, ok := tbl.Get(Str("a")); !ok || v.(Int) != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}

	tbl.Set(Str("a"), Int(99))
	if v, _ := tbl.Get(Str("a")); v.(Int) != 99 {
		t.Fatalf("overwrite failed, got %v", v)
	}
	if tbl.Len() != 2 {
		t.Fatalf("overwrite should not grow the table, Len() = %d", tbl.Len())
	}

	if !tbl.Delete(Str("b")) {
		t.Fatal("Delete(b) should report true")
	}
	if _, ok := tbl.Get(Str("b")); ok {
		t.Fatal("b should be gone after Delete")
	}
}

func TestTableHashEqualityAgreesAcrossContainers(t *testing.T) {
	t1 := NewTable()
	t1.Set(Str("k"), Int(1))
	t2 := NewTable()
	t2.Set(Str("k"), Int(1))

	if !Equal(t1, t2) {
		t.Fatal("tables with identical contents should be equal")
	}
	if Hash(t1) != Hash(t2) {
		t.Fatal("a == b must imply hash(a) == hash(b), for tables too")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Bool(true), true},
		{Bool(false), false},
		{Int(0), false},
		{Int(1), true},
		{Int(-1), true},
		{None{}, false},
		{Str(""), false},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
