package value

import "hash/fnv"

// Hash computes a structural hash of v, recursing into container
// contents, per spec.md's "hashing is structural and recurses into
// contents." The FNV-1a accumulation style follows the teacher's
// object.String.HashKey (hash/fnv), generalized to every Value variant
// instead of just strings.
func Hash(v Value) uint64 {
	h := fnv.New64a()
	writeHash(h, v)
	return h.Sum64()
}

// hasher is the subset of hash.Hash64 that writeHash needs.
type hasher interface {
	Write(p []byte) (int, error)
}

func writeHash(h hasher, v Value) {
	_, _ = h.Write([]byte{byte(v.Kind())})

	switch x := v.(type) {
	case None:
	case Bool:
		if x {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	case Int:
		_, _ = h.Write(uint64Bytes(uint64(x)))
	case Float:
		_, _ = h.Write(uint64Bytes(uint64(int64(x))))
	case Str:
		_, _ = h.Write([]byte(x))
	case TokenValue:
		_, _ = h.Write([]byte(x.Token.Text))
	case ThreadID:
		_, _ = h.Write([]byte(x))
	case *Array:
		for _, e := range x.Elements {
			writeHash(h, e)
		}
	case *Table:
		// Sum per-entry hashes so the table's hash does not depend on the
		// unspecified iteration order (Hash/Equal consistency, per
		// spec.md's testable properties).
		var sum uint64
		x.Each(func(k, val Value) {
			sum += Hash(k) ^ Hash(val)
		})
		_, _ = h.Write(uint64Bytes(sum))
	case *Buffer:
		_, _ = h.Write(x.Data)
	case *Struct:
		_, _ = h.Write([]byte(x.Def.Name))
		for _, fv := range x.Values {
			writeHash(h, fv)
		}
	case *Block:
		_, _ = h.Write(uint64Bytes(uint64(len(x.Code))))
	}
}

func uint64Bytes(v uint64) []byte {
	return []byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	}
}
