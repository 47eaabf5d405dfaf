package decl

import (
	"runtime"
	"sync"
	"testing"
	"weak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanMerge(t *testing.T) {
	s := NewSpan(4, 9).Merge(NewSpan(2, 6))
	assert.Equal(t, Span{2, 9}, s)
	assert.Equal(t, uint32(7), s.Len())
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(9))
	assert.True(t, Span{}.IsEmpty())
	assert.Equal(t, "2..9", s.String())
}

func TestInternerSharesHandles(t *testing.T) {
	in := NewInterner()
	x := in.Intern("x")
	y := in.Intern("y")
	assert.NotEqual(t, x, y)
	assert.Equal(t, x, in.Intern("x"))
	assert.Equal(t, "y", in.Resolve(y))
	assert.Equal(t, "#99", in.Resolve(Symbol(99)))

	_, ok := in.Lookup("z")
	assert.False(t, ok)
	assert.Equal(t, 2, in.Len())

	// composed and decomposed forms of é are the same identifier
	assert.Equal(t, in.Intern("caf\u00e9"), in.Intern("cafe\u0301"))
}

func TestInternerConcurrent(t *testing.T) {
	in := NewInterner()
	names := []string{"a", "b", "c", "d", "e"}
	var wg sync.WaitGroup
	results := make([][]Symbol, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = in.InternAll(names...)
		}()
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
	assert.Equal(t, len(names), in.Len())
}

func TestEnvShadowing(t *testing.T) {
	in := NewInterner()
	x, y := in.Intern("x"), in.Intern("y")

	root := NewEnv[int]()
	root.Set(x, 1)

	child := root.Bind(x, 2)
	grandchild := child.Extend(map[Symbol]int{y: 3})

	v, ok := grandchild.Get(x)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = grandchild.Get(y)
	require.True(t, ok)
	assert.Equal(t, 3, v)

	// the parent is never modified by extension
	v, _ = root.Get(x)
	assert.Equal(t, 1, v)
	assert.False(t, root.Has(y))
	assert.False(t, child.Has(y))

	assert.Equal(t, 2, grandchild.Depth())
	assert.Equal(t, []Symbol{y}, grandchild.Keys())
	assert.Equal(t, map[Symbol]int{x: 2, y: 3}, grandchild.All())
	assert.Nil(t, root.Parent())
	p, _ := grandchild.Parent().Get(x)
	assert.Equal(t, 2, p)
}

func TestEnvSiblingsShareParent(t *testing.T) {
	in := NewInterner()
	x := in.Intern("x")
	root := NewEnv[string]()
	root.Set(x, "root")

	a := root.Bind(x, "a")
	b := root.Bind(x, "b")

	va, _ := a.Get(x)
	vb, _ := b.Get(x)
	assert.Equal(t, "a", va)
	assert.Equal(t, "b", vb)
	assert.Same(t, root, a.Parent())
	assert.Same(t, root, b.Parent())
	assert.Equal(t, []Symbol{x}, root.Keys())
	vr, _ := root.Get(x)
	assert.Equal(t, "root", vr)
}

func TestEnvFramesAreReclaimed(t *testing.T) {
	in := NewInterner()
	x := in.Intern("x")
	root := NewEnv[int]()
	root.Set(x, 0)

	var frames []weak.Pointer[Env[int]]
	for i := range 100 {
		child := root.Bind(x, i).Push()
		frames = append(frames, weak.Make(child), weak.Make(child.Parent()))
		v, _ := child.Get(x)
		require.Equal(t, i, v)
	}
	runtime.GC()

	for i, f := range frames {
		assert.Nil(t, f.Value(), "frame %d still reachable", i)
	}
	// root is untouched by its discarded children
	assert.Equal(t, []Symbol{x}, root.Keys())
	assert.Equal(t, 0, root.Depth())
	runtime.KeepAlive(root)
}

func TestEnvConcurrentExtend(t *testing.T) {
	in := NewInterner()
	x := in.Intern("x")
	root := NewEnv[int]()
	root.Set(x, -1)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env := root
			for j := range 10 {
				env = env.Bind(x, i*100+j)
			}
			v, ok := env.Get(x)
			assert.True(t, ok)
			assert.Equal(t, i*100+9, v)
		}()
	}
	wg.Wait()
	v, _ := root.Get(x)
	assert.Equal(t, -1, v)
}
