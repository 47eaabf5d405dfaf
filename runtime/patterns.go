package runtime

import (
	"slices"

	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
)

// bind matches v against p.  On success it returns env extended with the
// pattern's variables; a pattern without variables returns env itself.
func (in *Interpreter) bind(p decl.Pattern, v core.Value, env *ValueEnv) (*ValueEnv, bool, error) {
	vars := map[decl.Symbol]core.Value{}
	ok, err := in.match(p, v, vars)
	if err != nil || !ok {
		return nil, false, err
	}
	if len(vars) == 0 {
		return env, true, nil
	}
	return env.Extend(vars), true, nil
}

func (in *Interpreter) match(p decl.Pattern, v core.Value, vars map[decl.Symbol]core.Value) (bool, error) {
	switch p := p.(type) {
	case *decl.WildcardPattern:
		return true, nil
	case *decl.VarPattern:
		vars[p.Name] = v
		return true, nil
	case *decl.LiteralPattern:
		return valuesEqual(literalValue(p.Value), v), nil
	case *decl.TuplePattern:
		t, ok := v.(*core.TupleVal)
		if !ok || len(t.Elems) != len(p.Elems) {
			return false, nil
		}
		return in.matchAll(p.Elems, t.Elems, vars)
	case *decl.ListPattern:
		l, ok := v.(*core.ListVal)
		if !ok || len(l.Elems) < len(p.Elems) || (p.Rest == nil && len(l.Elems) != len(p.Elems)) {
			return false, nil
		}
		n := len(p.Elems)
		if ok, err := in.matchAll(p.Elems, l.Elems[:n], vars); !ok || err != nil {
			return ok, err
		}
		if p.Rest == nil {
			return true, nil
		}
		return in.match(p.Rest, core.NewList(slices.Clone(l.Elems[n:])...), vars)
	case *decl.ConstructorPattern:
		variant, ok := v.(*core.VariantVal)
		if !ok || variant.Tag != in.Names.Resolve(p.Name) || len(variant.Args) != len(p.Args) {
			return false, nil
		}
		return in.matchAll(p.Args, variant.Args, vars)
	case *decl.RecordPattern:
		m, ok := v.(*core.MapVal)
		if !ok {
			return false, nil
		}
		for _, f := range p.Fields {
			fv, found := m.Get(in.Names.Resolve(f.Name))
			if !found {
				return false, nil
			}
			if f.Pattern == nil {
				vars[f.Name] = fv
				continue
			}
			if ok, err := in.match(f.Pattern, fv, vars); !ok || err != nil {
				return ok, err
			}
		}
		return true, nil
	case *decl.AsPattern:
		ok, err := in.match(p.Pattern, v, vars)
		if ok {
			vars[p.Name] = v
		}
		return ok, err
	case *decl.OrPattern:
		for _, alt := range p.Alternatives {
			if alt == nil {
				continue
			}
			sub := map[decl.Symbol]core.Value{}
			ok, err := in.match(alt, v, sub)
			if err != nil {
				return false, err
			}
			if ok {
				for k, val := range sub {
					vars[k] = val
				}
				return true, nil
			}
		}
		return false, nil
	case *decl.AnnotatePattern:
		return in.match(p.Pattern, v, vars)
	}
	return false, errorf(p, ErrUnsupported, "pattern %T", p)
}

func (in *Interpreter) matchAll(ps []decl.Pattern, vs []core.Value, vars map[decl.Symbol]core.Value) (bool, error) {
	for i, p := range ps {
		if ok, err := in.match(p, vs[i], vars); !ok || err != nil {
			return ok, err
		}
	}
	return true, nil
}
