package threadpool

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/ygrebnov/errorc"
)

// worker is the handle of one long-lived worker goroutine.
type worker struct {
	id   int
	busy atomic.Bool

	// done is closed by the worker goroutine when it leaves its loop.
	done chan struct{}

	// err is the synchronization failure that ended the loop, if any.
	// Guarded by Pool.mu.
	err error
}

func newWorkers(n uint) []*worker {
	ws := make([]*worker, n)
	for i := range ws {
		ws[i] = &worker{id: i}
	}
	return ws
}

// join blocks until the worker goroutine has exited. Never-started workers return at once.
func (w *worker) join() {
	if w.done != nil {
		<-w.done
	}
}

// work is the worker loop: wait for a permit, claim the oldest task, run it, repeat
// while the pool is running.
func (p *Pool) work(ctx context.Context, w *worker, signal *signalCounter) {
	if p.config.LockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	p.register()
	defer close(w.done)
	defer p.deregister()

	for p.running.Load() {
		if err := signal.wait(ctx); err != nil {
			p.fail(w, err)
			return
		}

		// Permits posted by Stop carry no task. Leaving without a claim is what
		// lets a forced Stop abandon the queue; a draining Stop has already emptied it.
		if !p.running.Load() {
			return
		}

		task, ok := p.claim()
		if !ok {
			continue
		}
		p.execute(w, task)
	}
}

func (p *Pool) register() {
	p.mu.Lock()
	p.active.Add(1)
	p.ready++
	p.changed.Broadcast()
	p.mu.Unlock()

	p.instruments.active.Add(1)
}

func (p *Pool) deregister() {
	p.mu.Lock()
	p.active.Add(-1)
	p.changed.Broadcast()
	p.mu.Unlock()

	p.instruments.active.Add(-1)
}

// claim pops the oldest task. ok is false when the queue is empty.
func (p *Pool) claim() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.queue.popFront()
	if !ok {
		return nil, false
	}
	p.instruments.queueDepth.Add(-1)
	if p.queue.len() == 0 {
		p.changed.Broadcast()
	}
	return t, true
}

// execute runs t, turning a panic into a PanicHandler call so the loop survives.
func (p *Pool) execute(w *worker, t Task) {
	w.busy.Store(true)
	p.instruments.busy.Add(1)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.instruments.panicked.Add(1)
			p.config.PanicHandler(w.id, r)
		}
		p.instruments.duration.Observe(time.Since(start).Seconds())
		p.instruments.completed.Add(1)
		p.instruments.busy.Add(-1)
		w.busy.Store(false)
	}()

	if t != nil {
		t()
	}
}

// fail records a wait failure on w so the pool can report it after the fact.
func (p *Pool) fail(w *worker, cause error) {
	err := errorc.With(
		fmt.Errorf("%w: %w", ErrWorkerSynchronization, cause),
		errorc.String("worker", strconv.Itoa(w.id)),
	)

	p.mu.Lock()
	w.err = err
	p.mu.Unlock()

	p.instruments.workerFailures.Add(1)
	p.log.Error("worker left its loop", "worker", w.id, "error", err)
}

// logPanic is the default PanicHandler.
func (p *Pool) logPanic(workerID int, recovered any) {
	p.log.Error("task panicked", "worker", workerID, "panic", fmt.Sprint(recovered))
}
