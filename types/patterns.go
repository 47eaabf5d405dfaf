package types

import (
	"github.com/hyperpolymath/betlang/decl"
)

// bindPattern checks that p can match a value of type t and returns env
// extended with the names p binds.
func (c *Checker) bindPattern(p decl.Pattern, t *Type, env *TypeEnv) (*TypeEnv, error) {
	switch p := p.(type) {
	case *decl.WildcardPattern:
		return env, nil
	case *decl.VarPattern:
		return env.Bind(p.Name, t), nil
	case *decl.LiteralPattern:
		return env, c.expect(literalType(p.Value), t, p)
	case *decl.TuplePattern:
		elems := make([]*Type, len(p.Elems))
		for i := range elems {
			elems[i] = c.fresh()
		}
		if err := c.expect(TupleType(elems...), t, p); err != nil {
			return nil, err
		}
		return c.bindAll(p.Elems, elems, env)
	case *decl.ListPattern:
		elem := c.fresh()
		if err := c.expect(ListType(elem), t, p); err != nil {
			return nil, err
		}
		var err error
		for _, el := range p.Elems {
			if env, err = c.bindPattern(el, elem, env); err != nil {
				return nil, err
			}
		}
		if p.Rest != nil {
			return c.bindPattern(p.Rest, ListType(elem), env)
		}
		return env, nil
	case *decl.ConstructorPattern:
		return c.bindConstructor(p, t, env)
	case *decl.RecordPattern:
		field := c.fresh()
		if err := c.expect(MapType(StrType, field), t, p); err != nil {
			return nil, err
		}
		var err error
		for _, f := range p.Fields {
			if f.Pattern == nil {
				env = env.Bind(f.Name, field)
				continue
			}
			if env, err = c.bindPattern(f.Pattern, field, env); err != nil {
				return nil, err
			}
		}
		return env, nil
	case *decl.AsPattern:
		inner, err := c.bindPattern(p.Pattern, t, env)
		if err != nil {
			return nil, err
		}
		return inner.Bind(p.Name, t), nil
	case *decl.OrPattern:
		// every alternative must fit t; names come from the first
		for _, alt := range p.Alternatives[1:] {
			if _, err := c.bindPattern(alt, t, env); err != nil {
				return nil, err
			}
		}
		return c.bindPattern(p.Alternatives[0], t, env)
	case *decl.AnnotatePattern:
		ann, err := c.resolveTypeExpr(p.Type)
		if err != nil {
			return nil, err
		}
		if err := c.expect(ann, t, p); err != nil {
			return nil, err
		}
		return c.bindPattern(p.Pattern, ann, env)
	case nil:
		return nil, invalid(nil, "missing pattern")
	}
	return nil, invalid(p, "unsupported pattern %T", p)
}

func (c *Checker) bindAll(ps []decl.Pattern, ts []*Type, env *TypeEnv) (*TypeEnv, error) {
	var err error
	for i, p := range ps {
		if env, err = c.bindPattern(p, ts[i], env); err != nil {
			return nil, err
		}
	}
	return env, nil
}

func (c *Checker) bindConstructor(p *decl.ConstructorPattern, t *Type, env *TypeEnv) (*TypeEnv, error) {
	var want *Type
	var args []*Type
	switch name := c.Names.Resolve(p.Name); name {
	case "Some":
		elem := c.fresh()
		want, args = OptionType(elem), []*Type{elem}
	case "None":
		want = OptionType(c.fresh())
	case "Ok":
		ok := c.fresh()
		want, args = ResultType(ok, c.fresh()), []*Type{ok}
	case "Err":
		e := c.fresh()
		want, args = ResultType(c.fresh(), e), []*Type{e}
	default:
		// user constructors carry no declared payload types
		for range p.Args {
			args = append(args, c.fresh())
		}
		return c.bindAll(p.Args, args, env)
	}
	if err := c.expect(want, t, p); err != nil {
		return nil, err
	}
	if len(p.Args) != len(args) {
		return nil, invalid(p, "%s takes %d argument(s), got %d", c.Names.Resolve(p.Name), len(args), len(p.Args))
	}
	return c.bindAll(p.Args, args, env)
}

var primitiveTypes = map[string]*Type{
	"Unit":    UnitType,
	"Bool":    BoolType,
	"Ternary": TernaryType,
	"Int":     IntType,
	"Float":   FloatType,
	"String":  StrType,
	"Bytes":   BytesType,
}

// resolveTypeExpr turns a written type into a semantic one.
func (c *Checker) resolveTypeExpr(te decl.TypeExpr) (*Type, error) {
	switch te := te.(type) {
	case *decl.NamedTypeExpr:
		name := c.Names.Resolve(te.Name)
		if t, ok := primitiveTypes[name]; ok {
			return t, nil
		}
		if t, ok := c.typeDefs[te.Name]; ok {
			return t, nil
		}
		return NamedType(name), nil
	case *decl.VarTypeExpr:
		if t, ok := c.annVars[te.Name]; ok {
			return t, nil
		}
		t := c.fresh()
		c.annVars[te.Name] = t
		return t, nil
	case *decl.AppTypeExpr:
		args := make([]*Type, len(te.Args))
		for i, a := range te.Args {
			t, err := c.resolveTypeExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		head, ok := te.Func.(*decl.NamedTypeExpr)
		if !ok {
			return nil, invalid(te, "type constructor must be a name")
		}
		name := c.Names.Resolve(head.Name)
		arity := map[string]int{"List": 1, "Set": 1, "Option": 1, "Dist": 1, "Map": 2, "Result": 2}
		if n, known := arity[name]; known && n != len(args) {
			return nil, invalid(te, "%s expects %d type argument(s), got %d", name, n, len(args))
		}
		switch name {
		case "List":
			return ListType(args[0]), nil
		case "Set":
			return SetType(args[0]), nil
		case "Option":
			return OptionType(args[0]), nil
		case "Dist":
			return DistType(args[0]), nil
		case "Map":
			return MapType(args[0], args[1]), nil
		case "Result":
			return ResultType(args[0], args[1]), nil
		}
		return NamedType(name, args...), nil
	case *decl.ArrowTypeExpr:
		from, err := c.resolveTypeExpr(te.From)
		if err != nil {
			return nil, err
		}
		to, err := c.resolveTypeExpr(te.To)
		if err != nil {
			return nil, err
		}
		return FunType(from, to), nil
	case *decl.TupleTypeExpr:
		elems := make([]*Type, len(te.Elems))
		for i, el := range te.Elems {
			t, err := c.resolveTypeExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return TupleType(elems...), nil
	case *decl.RecordTypeExpr:
		field := c.fresh()
		for _, f := range te.Fields {
			t, err := c.resolveTypeExpr(f.Type)
			if err != nil {
				return nil, err
			}
			if err := c.unify(field, t, te); err != nil {
				return nil, invalid(te, "record fields must share one type")
			}
		}
		return MapType(StrType, c.Resolve(field)), nil
	case *decl.DistTypeExpr:
		elem, err := c.resolveTypeExpr(te.Elem)
		if err != nil {
			return nil, err
		}
		return DistType(elem), nil
	case *decl.ProbTypeExpr:
		// the probability annotation is not tracked
		return c.resolveTypeExpr(te.Elem)
	case *decl.TernaryTypeExpr:
		return TernaryType, nil
	case *decl.HoleTypeExpr:
		return c.fresh(), nil
	case *decl.ErrorTypeExpr:
		return nil, invalid(te, "cannot resolve an error type")
	case nil:
		return nil, invalid(nil, "missing type")
	}
	return nil, invalid(te, "unsupported type expression %T", te)
}
