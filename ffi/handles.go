package ffi

import (
	"strconv"
	"sync/atomic"

	"github.com/hyperpolymath/betlang/parallel"
)

// Handles maps integer ids to generators for callers that cannot hold Go
// pointers.  Id 0 is never issued.
type Handles struct {
	next atomic.Uint64
	gens *parallel.ConcurrentMap[*Generator]
}

func NewHandles() *Handles {
	return &Handles{gens: parallel.NewConcurrentMap[*Generator]()}
}

func (h *Handles) New(seed uint64) uint64 {
	id := h.next.Add(1)
	h.gens.Set(strconv.FormatUint(id, 10), NewGenerator(seed))
	return id
}

// Get returns the generator for id.  Id 0 is the per-call generator.
func (h *Handles) Get(id uint64) (*Generator, error) {
	if id == 0 {
		return nil, nil
	}
	g, ok := h.gens.Get(strconv.FormatUint(id, 10))
	if !ok {
		return nil, ErrUnknownHandle
	}
	return g, nil
}

// Free releases id.  It reports whether id was live.
func (h *Handles) Free(id uint64) bool {
	return h.gens.Delete(strconv.FormatUint(id, 10))
}

func (h *Handles) Len() int { return h.gens.Len() }
