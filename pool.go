package threadpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ygrebnov/errorc"
)

// Pool is a fixed set of long-lived workers executing Tasks from a shared FIFO queue.
//
// Lifecycle: New (or Resize/Reset) configures the pool while it is stopped,
// Start spawns the workers, Submit hands tasks over, Stop drains or abandons the
// queue and joins every worker. A stopped pool may be started again.
// All methods are safe for concurrent use.
type Pool struct {
	// noCopy prevents accidental copying of the pool.
	//go:nocopy
	nc noCopy

	config *config
	log    *slog.Logger

	// lifecycleMu serializes Start, Stop, Resize and Reset.
	lifecycleMu sync.Mutex

	// mu guards queue, workers, stopping, ready, signal and worker errors.
	// changed is broadcast when the queue empties and when a worker registers or deregisters.
	mu       sync.Mutex
	changed  *sync.Cond
	queue    taskQueue
	workers  []*worker
	stopping bool
	ready    int
	signal   *signalCounter

	running atomic.Bool
	// active is the number of workers inside their loop; only workers write it, Reset aside.
	active atomic.Int64

	// cancel releases the context handed to workers of the current run.
	cancel context.CancelFunc

	// newSignal creates the wake signal of each run.
	newSignal func() (*signalCounter, error)

	instruments instruments
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a stopped Pool with size unstarted workers.
func New(size uint, opts ...Option) (*Pool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	p := &Pool{
		config:  &cfg,
		log:     cfg.Logger.With("pool", cfg.Name),
		workers: newWorkers(size),
	}
	p.changed = sync.NewCond(&p.mu)
	p.newSignal = func() (*signalCounter, error) { return newSignalCounter(), nil }
	if p.config.PanicHandler == nil {
		p.config.PanicHandler = p.logPanic
	}
	p.instruments = newInstruments(cfg.Metrics, cfg.Name)
	return p, nil
}

// Name returns the pool name used in logs and metric attributes.
func (p *Pool) Name() string { return p.config.Name }

// Size returns the configured number of workers.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// IsRunning reports whether the pool has been started and not yet stopped.
func (p *Pool) IsRunning() bool { return p.running.Load() }

// ActiveWorkers returns the number of workers currently inside their loop.
func (p *Pool) ActiveWorkers() int { return int(p.active.Load()) }

// BusyWorkers returns the number of workers currently executing a task.
func (p *Pool) BusyWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, w := range p.workers {
		if w.busy.Load() {
			n++
		}
	}
	return n
}

// Pending returns the number of tasks waiting to be claimed.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.len()
}

// Err returns the synchronization failures of workers from the current or last run,
// joined into one error, or nil when every worker exited cleanly.
func (p *Pool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, w := range p.workers {
		if w.err != nil {
			errs = append(errs, w.err)
		}
	}
	return errors.Join(errs...)
}

// Resize replaces the workers with size fresh, unstarted ones.
// It fails with ErrRunning, leaving the pool untouched, while the pool is running.
func (p *Pool) Resize(size uint) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if p.running.Load() {
		return p.wrap(ErrRunning, "resize")
	}

	p.mu.Lock()
	p.workers = newWorkers(size)
	p.mu.Unlock()

	p.log.Debug("pool resized", "size", size)
	return nil
}

// Start spawns one goroutine per worker and returns once every one of them is
// ready to claim work. Tasks submitted while the pool was stopped are scheduled.
//
// ctx bounds the workers' waits for work: once it is done, idle workers leave their
// loop and record ErrWorkerSynchronization (see Err). Use Stop for an orderly shutdown.
//
// Start fails with ErrRunning when the pool is already running and with
// ErrInitialization when the wake signal cannot be created; in both cases no
// worker is spawned and the pool state is unchanged.
func (p *Pool) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if p.running.Load() {
		return p.wrap(ErrRunning, "start")
	}

	signal, err := p.newSignal()
	if err != nil {
		return p.wrap(fmt.Errorf("%w: %w", ErrInitialization, err), "start")
	}

	p.mu.Lock()
	// One permit per task queued while stopped.
	for range p.queue.len() {
		if err := signal.post(); err != nil {
			p.mu.Unlock()
			return p.wrap(fmt.Errorf("%w: %w", ErrInitialization, err), "start")
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.signal = signal
	p.ready = 0
	workers := p.workers
	for _, w := range workers {
		w.err = nil
		w.done = make(chan struct{})
	}
	p.running.Store(true)
	p.mu.Unlock()

	for _, w := range workers {
		go p.work(runCtx, w, signal)
	}

	p.mu.Lock()
	for p.ready < len(workers) {
		p.changed.Wait()
	}
	p.mu.Unlock()

	p.log.Info("pool started", "workers", len(workers))
	return nil
}

// Submit appends t to the queue and wakes one worker for it.
//
// While the pool is stopped, t is queued and scheduled by the next Start.
// Once Stop has begun, Submit fails with ErrStopping. If the wake-up cannot be
// posted, t is removed again and Submit fails with ErrSubmission; the queue is
// then exactly as it was before the call.
func (p *Pool) Submit(t Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopping {
		p.instruments.rejected.Add(1)
		return p.wrap(ErrStopping, "submit")
	}

	p.queue.pushBack(t)

	if p.running.Load() {
		if err := p.signal.post(); err != nil {
			p.queue.popBack()
			p.instruments.rejected.Add(1)
			return p.wrap(fmt.Errorf("%w: %w", ErrSubmission, err), "submit")
		}
	}

	p.instruments.submitted.Add(1)
	p.instruments.queueDepth.Add(1)
	return nil
}

// Stop shuts the running pool down and joins every worker.
//
// Submissions are refused from the moment Stop begins. Unless force is set, Stop
// first waits until the queue is empty (or no worker is left to empty it).
// With force, unclaimed tasks stay queued (see Pending) and are discarded by Reset
// or run by the next Start; tasks already claimed always run to completion.
//
// Stop fails with ErrNotRunning when the pool is not running and with ErrShutdown
// when waking or tearing down the workers fails.
func (p *Pool) Stop(force bool) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if !p.running.Load() {
		return p.wrap(ErrNotRunning, "stop")
	}

	p.mu.Lock()
	p.stopping = true
	if !force {
		for p.queue.len() > 0 && p.active.Load() > 0 {
			p.changed.Wait()
		}
	}
	p.running.Store(false)
	workers := p.workers
	signal := p.signal
	p.mu.Unlock()

	seq := &shutdownSequence{
		wake: func() error {
			for range workers {
				if err := signal.post(); err != nil {
					return err
				}
			}
			return nil
		},
		join: func() {
			for _, w := range workers {
				w.join()
			}
		},
		teardown: signal.close,
		release:  p.cancel,
	}
	err := seq.run()

	p.mu.Lock()
	p.stopping = false
	p.signal = nil
	pending := p.queue.len()
	p.mu.Unlock()

	if err != nil {
		return p.wrap(fmt.Errorf("%w: %w", ErrShutdown, err), "stop")
	}

	p.log.Info("pool stopped", "force", force, "pending", pending)
	return nil
}

// Reset clears the stopped pool: workers (size becomes zero), queued tasks
// (discarded, never run), the wake signal and recorded worker failures.
// It fails with ErrRunning, leaving the pool untouched, while the pool is running.
func (p *Pool) Reset() error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if p.running.Load() {
		return p.wrap(ErrRunning, "reset")
	}

	p.mu.Lock()
	if prev := p.active.Swap(0); prev != 0 {
		p.instruments.active.Add(-prev)
	}
	p.workers = nil
	discarded := p.queue.clear()
	p.signal = nil
	p.ready = 0
	p.mu.Unlock()

	p.instruments.queueDepth.Add(-int64(discarded))
	p.log.Debug("pool reset", "discarded", discarded)
	return nil
}

// wrap attaches the pool name and operation to err.
func (p *Pool) wrap(err error, op string) error {
	return errorc.With(err, errorc.String("pool", p.config.Name), errorc.String("op", op))
}

// String implements fmt.Stringer.
func (p *Pool) String() string {
	return p.config.Name + "(" + strconv.Itoa(p.Size()) + " workers, running=" + strconv.FormatBool(p.IsRunning()) + ")"
}
