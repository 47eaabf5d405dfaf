package runtime

import (
	"fmt"
	"slices"
	"sync"

	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
	"github.com/hyperpolymath/betlang/types"
)

// Natives is a registry of builtins keyed by name.
type Natives struct {
	mu  sync.RWMutex
	fns map[string]*core.NativeFunction
}

func NewNatives() *Natives {
	return &Natives{fns: map[string]*core.NativeFunction{}}
}

// Register adds fn.  Names are unique.
func (n *Natives) Register(fns ...*core.NativeFunction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, fn := range fns {
		if _, exists := n.fns[fn.Name]; exists {
			return fmt.Errorf("%s: %w", fn.Name, ErrDuplicateNative)
		}
		if fn.Fn == nil && fn.Call == nil {
			return fmt.Errorf("%s: native has no implementation", fn.Name)
		}
		n.fns[fn.Name] = fn
	}
	return nil
}

func (n *Natives) mustRegister(fns ...*core.NativeFunction) {
	if err := n.Register(fns...); err != nil {
		panic(err)
	}
}

func (n *Natives) Get(name string) (*core.NativeFunction, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	fn, ok := n.fns[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (n *Natives) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]string, 0, len(n.fns))
	for name := range n.fns {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (n *Natives) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.fns)
}

// Install binds every native, plus the None constructor, in env.
func (n *Natives) Install(names *decl.Interner, env *ValueEnv) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for name, fn := range n.fns {
		env.Set(names.Intern(name), fn)
	}
	env.Set(names.Intern("None"), core.NewVariant("None"))
}

// TypeEnv returns a type environment holding the declared type of every
// native that has one, for checking programs against this registry.
func (n *Natives) TypeEnv(names *decl.Interner) *types.TypeEnv {
	env := types.NewTypeEnv()
	n.mu.RLock()
	defer n.mu.RUnlock()
	for name, fn := range n.fns {
		if fn.Type != nil {
			env.Set(names.Intern(name), fn.Type)
		}
	}
	env.Set(names.Intern("None"), types.OptionType(types.GenericType("a")))
	return env
}

// DefaultNatives returns a registry holding the builtin library.
func DefaultNatives() *Natives {
	n := NewNatives()
	registerDistributions(n)
	registerSampling(n)
	registerLists(n)
	registerStats(n)
	registerMisc(n)
	return n
}

// --- helpers for writing builtins ---

func pure(name string, t *types.Type, arity int, fn func([]core.Value) (core.Value, error)) *core.NativeFunction {
	return &core.NativeFunction{Name: name, Arity: arity, Type: t, Fn: fn}
}

func caller(name string, t *types.Type, arity int, fn func(core.Caller, []core.Value) (core.Value, error)) *core.NativeFunction {
	return &core.NativeFunction{Name: name, Arity: arity, Type: t, Call: fn}
}

// fun is the curried type params... -> result.
func fun(result *types.Type, params ...*types.Type) *types.Type {
	return types.CurriedFunType(result, params...)
}

var (
	tA = types.GenericType("a")
	tB = types.GenericType("b")
)

func argError(fn string, i int, want string, got core.Value) error {
	return fmt.Errorf("%s: argument %d must be %s, got %s: %w", fn, i+1, want, got.Kind(), ErrUnsupportedType)
}

func argFloat(fn string, args []core.Value, i int) (float64, error) {
	f, ok := core.ToFloat(args[i])
	if !ok {
		return 0, argError(fn, i, "a number", args[i])
	}
	return f, nil
}

func argInt(fn string, args []core.Value, i int) (int64, error) {
	n, ok := args[i].(core.IntVal)
	if !ok {
		return 0, argError(fn, i, "an Int", args[i])
	}
	return int64(n), nil
}

func argList(fn string, args []core.Value, i int) ([]core.Value, error) {
	l, ok := args[i].(*core.ListVal)
	if !ok {
		return nil, argError(fn, i, "a List", args[i])
	}
	return l.Elems, nil
}

func argDist(fn string, args []core.Value, i int) (*core.Distribution, error) {
	d, ok := args[i].(*core.Distribution)
	if !ok {
		return nil, argError(fn, i, "a Distribution", args[i])
	}
	return d, nil
}

// floats reads the arguments at idx as numbers.
func floats(fn string, args []core.Value, idx ...int) ([]float64, error) {
	out := make([]float64, len(idx))
	for k, i := range idx {
		f, err := argFloat(fn, args, i)
		if err != nil {
			return nil, err
		}
		out[k] = f
	}
	return out, nil
}
