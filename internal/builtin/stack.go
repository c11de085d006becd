package builtin

import (
	"fmt"

	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/value"
)

func installStack(scopes *dict.Scopes) {
	define(scopes, "dup", false, func(i rt.Interp) error {
		v, err := i.Pick(0)
		if err != nil {
			return err
		}
		i.Push(value.DeepCopy(v))
		return nil
	})
	define(scopes, "drop", false, func(i rt.Interp) error {
		_, err := i.Pop()
		return err
	})
	define(scopes, "swap", false, func(i rt.Interp) error {
		b, err := i.Pop()
		if err != nil {
			return err
		}
		a, err := i.Pop()
		if err != nil {
			return err
		}
		i.Push(b)
		i.Push(a)
		return nil
	})
	define(scopes, "over", false, func(i rt.Interp) error {
		v, err := i.Pick(1)
		if err != nil {
			return err
		}
		i.Push(value.DeepCopy(v))
		return nil
	})
	define(scopes, "rot", false, func(i rt.Interp) error {
		c, err := i.Pop()
		if err != nil {
			return err
		}
		b, err := i.Pop()
		if err != nil {
			return err
		}
		a, err := i.Pop()
		if err != nil {
			return err
		}
		i.Push(b)
		i.Push(c)
		i.Push(a)
		return nil
	})
	define(scopes, "clear-stack", false, func(i rt.Interp) error {
		i.ClearStack()
		return nil
	})

	define(scopes, ".", false, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		fmt.Println(v.Inspect())
		return nil
	})
	define(scopes, ".s", false, func(i rt.Interp) error {
		depth := i.Depth()
		fmt.Print("[")
		for n := depth - 1; n >= 0; n-- {
			v, err := i.Pick(n)
			if err != nil {
				return err
			}
			fmt.Print(v.Inspect())
			if n > 0 {
				fmt.Print(" ")
			}
		}
		fmt.Println("]")
		return nil
	})
}
