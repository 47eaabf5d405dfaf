package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hyperpolymath/betlang/core"
)

// Task is a unit of work for a WorkPool.
type Task func()

// WorkPool runs submitted tasks on a fixed set of workers.  Tasks are
// dequeued in submission order from an unbounded queue, so Submit never
// blocks.  A task that panics is logged and does not take its worker down.
type WorkPool struct {
	ID      string
	Workers int

	mu     sync.Mutex
	tasks  []Task
	closed bool
	signal chan struct{} // buffered, size 1; closed on Shutdown

	wg       sync.WaitGroup
	panicked atomic.Int64
	logger   core.Logger
}

func NewWorkPool(workers int) *WorkPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkPool{
		ID:      uuid.NewString(),
		Workers: workers,
		tasks:   make([]Task, 0, 64),
		signal:  make(chan struct{}, 1),
	}
	p.logger = core.WithPrefix(core.Global(), "[pool "+p.ID[:8]+"]")
	for i := range workers {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

// Submit queues t.  It returns ErrPoolClosed after Shutdown.
func (p *WorkPool) Submit(t Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.tasks = append(p.tasks, t)
	p.notify()
	return nil
}

// Pending returns the number of queued tasks not yet picked up.
func (p *WorkPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// Panics returns how many tasks have panicked so far.
func (p *WorkPool) Panics() int64 { return p.panicked.Load() }

// Shutdown stops accepting tasks, lets the workers drain the queue and waits
// for them to exit.  Calling it more than once is harmless.
func (p *WorkPool) Shutdown() {
	p.mu.Lock()
	first := !p.closed
	if first {
		p.closed = true
		close(p.signal)
	}
	p.mu.Unlock()
	p.wg.Wait()
	if first {
		p.logger.Info("shut down %d workers, %d tasks panicked", p.Workers, p.Panics())
	}
}

// notify must be called with mu held and the pool open.
func (p *WorkPool) notify() {
	select {
	case p.signal <- struct{}{}:
	default:
	}
}

// next blocks until a task is available.  It returns false once the pool is
// closed and the queue is empty.
func (p *WorkPool) next() (Task, bool) {
	for {
		p.mu.Lock()
		if len(p.tasks) > 0 {
			t := p.tasks[0]
			p.tasks[0] = nil
			p.tasks = p.tasks[1:]
			// pass the wakeup on so other idle workers see the rest
			if len(p.tasks) > 0 && !p.closed {
				p.notify()
			}
			p.mu.Unlock()
			return t, true
		}
		if p.closed {
			p.mu.Unlock()
			return nil, false
		}
		p.mu.Unlock()
		<-p.signal
	}
}

func (p *WorkPool) worker(id int) {
	defer p.wg.Done()
	for {
		t, ok := p.next()
		if !ok {
			return
		}
		p.run(id, t)
	}
}

func (p *WorkPool) run(id int, t Task) {
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			p.logger.Error("worker %d: task panicked: %v", id, r)
		}
	}()
	t()
}
