package value

// Equal reports structural equality between two Values: shared variants
// (array, table, buffer, struct) compare their contents, not their
// identity, per spec.md's "Equality on shared variants is structural."
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case None:
		return true
	case Bool:
		return av == b.(Bool)
	case Int:
		return av == b.(Int)
	case Float:
		return av == b.(Float)
	case Str:
		return av == b.(Str)
	case TokenValue:
		bv := b.(TokenValue)
		return av.Token.Hint == bv.Token.Hint && av.Token.Text == bv.Token.Text
	case ThreadID:
		return av == b.(ThreadID)
	case *Array:
		bv := b.(*Array)
		if av == bv {
			return true
		}
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Table:
		bv := b.(*Table)
		if av == bv {
			return true
		}
		if av.Len() != bv.Len() {
			return false
		}
		equal := true
		av.Each(func(k, v Value) {
			other, ok := bv.Get(k)
			if !ok || !Equal(v, other) {
				equal = false
			}
		})
		return equal
	case *Buffer:
		bv := b.(*Buffer)
		if av == bv {
			return true
		}
		if len(av.Data) != len(bv.Data) {
			return false
		}
		for i := range av.Data {
			if av.Data[i] != bv.Data[i] {
				return false
			}
		}
		return true
	case *Struct:
		bv := b.(*Struct)
		if av == bv {
			return true
		}
		if av.Def != bv.Def || len(av.Values) != len(bv.Values) {
			return false
		}
		for i := range av.Values {
			if !Equal(av.Values[i], bv.Values[i]) {
				return false
			}
		}
		return true
	case *Block:
		bv := b.(*Block)
		return av == bv
	default:
		return false
	}
}
