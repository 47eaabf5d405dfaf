package runtime

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
)

// ValueEnv maps identifiers to runtime values.
type ValueEnv = decl.Env[core.Value]

// BetObserver is told about every bet the interpreter resolves: the node, the
// three evaluated alternatives and the index that was picked.
type BetObserver func(at decl.Node, results [3]core.Value, chosen int)

// Interpreter evaluates expressions and modules.  All randomness comes from
// its generator, so two interpreters with equally seeded generators produce
// the same results for the same program.
type Interpreter struct {
	Names   *decl.Interner
	Natives *Natives
	RunID   string
	Logger  core.Logger

	// Observer, when set, sees every bet.  It is called from the goroutines
	// of parallel blocks too.
	Observer BetObserver

	// MaxConcurrency bounds the goroutines of one parallel block.  Zero
	// means GOMAXPROCS.
	MaxConcurrency int

	// Context aborts parallel blocks that are waiting to start.
	Context context.Context

	rng *core.RNG
}

// NewInterpreter creates an interpreter with the default builtins.  A nil rng
// is replaced by one seeded from entropy.
func NewInterpreter(names *decl.Interner, rng *core.RNG) *Interpreter {
	if rng == nil {
		rng = core.NewRandomRNG()
	}
	id := uuid.NewString()
	return &Interpreter{
		Names:   names,
		Natives: DefaultNatives(),
		RunID:   id,
		Logger:  core.WithPrefix(core.Global(), "[run "+id[:8]+"]"),
		Context: context.Background(),
		rng:     rng,
	}
}

// RNG returns the generator of this interpreter.
func (in *Interpreter) RNG() *core.RNG { return in.rng }

// fork returns an interpreter sharing everything except the generator.
func (in *Interpreter) fork(rng *core.RNG) *Interpreter {
	out := *in
	out.rng = rng
	return &out
}

// Globals returns a fresh root environment holding every registered native
// under its name.
func (in *Interpreter) Globals() *ValueEnv {
	env := decl.NewEnv[core.Value]()
	in.Natives.Install(in.Names, env)
	return env
}

// Run evaluates expr in a fresh global environment.
func (in *Interpreter) Run(expr decl.Expr) (core.Value, error) {
	v, err := in.Eval(expr, in.Globals())
	if err != nil {
		in.Logger.Warn("evaluation failed: %v", err)
	}
	return v, err
}

// EvalModule evaluates items in order.  Let items extend the environment seen
// by later items.  It returns the final environment and the value of the last
// expression item (Unit if there is none).
func (in *Interpreter) EvalModule(mod *decl.Module, env *ValueEnv) (*ValueEnv, core.Value, error) {
	var last core.Value = core.Unit
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *decl.LetItem:
			var value decl.Expr = it.Body
			if len(it.Params) > 0 {
				value = &decl.LambdaExpr{ExprBase: decl.ExprBase{NodeInfo: it.NodeInfo}, Params: it.Params, Body: it.Body}
			}
			scope, v, err := in.bindValue(decl.PVar(it.Name), value, it.IsRec, env)
			if err != nil {
				in.Logger.Warn("binding %s failed: %v", in.Names.Resolve(it.Name), err)
				return nil, nil, err
			}
			env = scope
			last = v
			in.Logger.Debug("bound %s = %s", in.Names.Resolve(it.Name), v)
		case *decl.TypeDefItem, *decl.ImportItem:
			// nothing to evaluate
		case *decl.ExprItem:
			v, err := in.Eval(it.Expr, env)
			if err != nil {
				in.Logger.Warn("evaluation failed: %v", err)
				return nil, nil, err
			}
			last = v
		}
	}
	return env, last, nil
}
