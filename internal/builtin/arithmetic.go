package builtin

import (
	"fmt"

	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/value"
)

func toFloat(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case value.Int:
		return float64(x), true
	case value.Float:
		return float64(x), true
	default:
		return 0, false
	}
}

func numericBinOp(a, b value.Value, onInt func(x, y int64) (value.Value, error), onFloat func(x, y float64) (value.Value, error)) (value.Value, error) {
	if ai, ok := a.(value.Int); ok {
		if bi, ok := b.(value.Int); ok {
			return onInt(int64(ai), int64(bi))
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, fmt.Errorf("arithmetic requires numeric operands, got %s and %s", a.Kind(), b.Kind())
	}
	return onFloat(af, bf)
}

func defineBinaryArith(scopes *dict.Scopes, name string, onInt func(x, y int64) (value.Value, error), onFloat func(x, y float64) (value.Value, error)) {
	define(scopes, name, false, func(i rt.Interp) error {
		b, err := i.Pop()
		if err != nil {
			return err
		}
		a, err := i.Pop()
		if err != nil {
			return err
		}
		r, err := numericBinOp(a, b, onInt, onFloat)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		i.Push(r)
		return nil
	})
}

func installArithmetic(scopes *dict.Scopes) {
	defineBinaryArith(scopes, "+",
		func(x, y int64) (value.Value, error) { return value.Int(x + y), nil },
		func(x, y float64) (value.Value, error) { return value.Float(x + y), nil },
	)
	defineBinaryArith(scopes, "-",
		func(x, y int64) (value.Value, error) { return value.Int(x - y), nil },
		func(x, y float64) (value.Value, error) { return value.Float(x - y), nil },
	)
	defineBinaryArith(scopes, "*",
		func(x, y int64) (value.Value, error) { return value.Int(x * y), nil },
		func(x, y float64) (value.Value, error) { return value.Float(x * y), nil },
	)
	defineBinaryArith(scopes, "/",
		func(x, y int64) (value.Value, error) {
			if y == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return value.Int(x / y), nil
		},
		func(x, y float64) (value.Value, error) {
			if y == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return value.Float(x / y), nil
		},
	)
	define(scopes, "mod", false, func(i rt.Interp) error {
		b, err := i.PopAsInt()
		if err != nil {
			return err
		}
		a, err := i.PopAsInt()
		if err != nil {
			return err
		}
		if b == 0 {
			return fmt.Errorf("mod: division by zero")
		}
		i.Push(value.Int(a % b))
		return nil
	})
	define(scopes, "negate", false, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		switch x := v.(type) {
		case value.Int:
			i.Push(value.Int(-x))
		case value.Float:
			i.Push(value.Float(-x))
		default:
			return fmt.Errorf("negate: %s is not numeric", v.Kind())
		}
		return nil
	})

	compare := func(name string, ok func(c int) bool) {
		define(scopes, name, false, func(i rt.Interp) error {
			b, err := i.Pop()
			if err != nil {
				return err
			}
			a, err := i.Pop()
			if err != nil {
				return err
			}
			c, err := compareValues(a, b)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			i.Push(value.Bool(ok(c)))
			return nil
		})
	}
	compare("<", func(c int) bool { return c < 0 })
	compare(">", func(c int) bool { return c > 0 })
	compare("<=", func(c int) bool { return c <= 0 })
	compare(">=", func(c int) bool { return c >= 0 })

	define(scopes, "=", false, func(i rt.Interp) error {
		b, err := i.Pop()
		if err != nil {
			return err
		}
		a, err := i.Pop()
		if err != nil {
			return err
		}
		i.Push(value.Bool(value.Equal(a, b)))
		return nil
	})
	define(scopes, "<>", false, func(i rt.Interp) error {
		b, err := i.Pop()
		if err != nil {
			return err
		}
		a, err := i.Pop()
		if err != nil {
			return err
		}
		i.Push(value.Bool(!value.Equal(a, b)))
		return nil
	})

	define(scopes, "and", false, func(i rt.Interp) error {
		b, err := i.PopAsBool()
		if err != nil {
			return err
		}
		a, err := i.PopAsBool()
		if err != nil {
			return err
		}
		i.Push(value.Bool(a && b))
		return nil
	})
	define(scopes, "or", false, func(i rt.Interp) error {
		b, err := i.PopAsBool()
		if err != nil {
			return err
		}
		a, err := i.PopAsBool()
		if err != nil {
			return err
		}
		i.Push(value.Bool(a || b))
		return nil
	})
	define(scopes, "not", false, func(i rt.Interp) error {
		a, err := i.PopAsBool()
		if err != nil {
			return err
		}
		i.Push(value.Bool(!a))
		return nil
	})
}

// compareValues orders a and b, returning <0, 0, >0 like strings.Compare.
// Numeric operands compare numerically; strings compare lexically; any
// other pairing is an error (use = / <> for structural equality there).
func compareValues(a, b value.Value) (int, error) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	as, aok := a.(value.Str)
	bs, bok := b.(value.Str)
	if aok && bok {
		switch {
		case as < bs:
			return -1, nil
		case as > bs:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, fmt.Errorf("cannot order %s and %s", a.Kind(), b.Kind())
}
