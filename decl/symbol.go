package decl

import (
	"fmt"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Symbol is a handle to an interned identifier.  Two symbols from the same
// Interner are equal exactly when their names are equal.
type Symbol uint32

// Interner is the bidirectional name <-> Symbol table shared by every piece of
// code that builds or inspects trees for one program.  It is created once by
// the driving process and passed around explicitly.  Safe for concurrent use.
type Interner struct {
	mu    sync.RWMutex
	ids   map[string]Symbol
	names []string
}

func NewInterner() *Interner {
	return &Interner{ids: make(map[string]Symbol)}
}

// Intern returns the symbol for name, allocating one if needed.  Names are
// NFC-normalized first so canonically equivalent spellings share a handle.
func (in *Interner) Intern(name string) Symbol {
	name = norm.NFC.String(name)

	in.mu.RLock()
	sym, ok := in.ids[name]
	in.mu.RUnlock()
	if ok {
		return sym
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if sym, ok := in.ids[name]; ok {
		return sym
	}
	sym = Symbol(len(in.names))
	in.names = append(in.names, name)
	in.ids[name] = sym
	return sym
}

// InternAll interns each name in order.
func (in *Interner) InternAll(names ...string) []Symbol {
	out := make([]Symbol, len(names))
	for i, n := range names {
		out[i] = in.Intern(n)
	}
	return out
}

// Lookup returns the symbol for name without allocating a new one.
func (in *Interner) Lookup(name string) (Symbol, bool) {
	name = norm.NFC.String(name)
	in.mu.RLock()
	defer in.mu.RUnlock()
	sym, ok := in.ids[name]
	return sym, ok
}

// Resolve returns the name behind sym.  Symbols that did not come from this
// interner render as "#<n>".
func (in *Interner) Resolve(sym Symbol) string {
	if in == nil {
		return fmt.Sprintf("#%d", sym)
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(sym) >= len(in.names) {
		return fmt.Sprintf("#%d", sym)
	}
	return in.names[sym]
}

func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.names)
}
