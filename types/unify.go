package types

import (
	"fmt"

	"github.com/hyperpolymath/betlang/decl"
)

// fresh returns a new inference variable.
func (c *Checker) fresh() *Type {
	c.nextVar++
	return VarType(c.nextVar)
}

// prune follows the substitution until t is not a bound variable.
func (c *Checker) prune(t *Type) *Type {
	for t.IsVar() && !t.IsGeneric() {
		bound, ok := c.subst[t.ID]
		if !ok {
			return t
		}
		t = bound
	}
	return t
}

// Resolve applies the current substitution throughout t.
func (c *Checker) Resolve(t *Type) *Type {
	if t == nil {
		return nil
	}
	return t.Map(func(n *Type) *Type {
		if n.IsVar() && !n.IsGeneric() {
			if bound, ok := c.subst[n.ID]; ok {
				return c.Resolve(bound)
			}
		}
		return n
	})
}

func (c *Checker) unify(a, b *Type, at decl.Node) error {
	a, b = c.prune(a), c.prune(b)
	if a == b {
		return nil
	}
	if a.IsVar() && !a.IsGeneric() {
		if b.IsVar() && !b.IsGeneric() && a.ID == b.ID {
			return nil
		}
		if c.Resolve(b).Occurs(a.ID) {
			return c.unificationError(a, b, at)
		}
		c.subst[a.ID] = b
		return nil
	}
	if b.IsVar() && !b.IsGeneric() {
		return c.unify(b, a, at)
	}
	if a.Tag != b.Tag || a.Name != b.Name || len(a.Args) != len(b.Args) {
		return c.unificationError(a, b, at)
	}
	for i := range a.Args {
		if err := c.unify(a.Args[i], b.Args[i], at); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) unificationError(a, b *Type, at decl.Node) *TypeError {
	return &TypeError{
		Kind:     UnificationError,
		Expected: c.Resolve(a).String(),
		Found:    c.Resolve(b).String(),
		Span:     spanOf(at),
	}
}

// instantiate replaces every quantified variable in t with a fresh one.
func (c *Checker) instantiate(t *Type) *Type {
	mapping := map[string]*Type{}
	return t.Map(func(n *Type) *Type {
		if !n.IsGeneric() {
			return n
		}
		v, ok := mapping[n.Name]
		if !ok {
			v = c.fresh()
			mapping[n.Name] = v
		}
		return v
	})
}

// generalize quantifies the variables of t that are not free in env.
func (c *Checker) generalize(t *Type, env *TypeEnv) *Type {
	t = c.Resolve(t)
	free := map[uint32]bool{}
	t.FreeVars(free)
	if len(free) == 0 {
		return t
	}
	inEnv := map[uint32]bool{}
	for _, et := range env.All() {
		c.Resolve(et).FreeVars(inEnv)
	}
	return t.Map(func(n *Type) *Type {
		if n.IsVar() && !n.IsGeneric() && !inEnv[n.ID] {
			return GenericType(fmt.Sprintf("t%d", n.ID))
		}
		return n
	})
}
