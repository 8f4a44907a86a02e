// Package threadpool provides a fixed-size pool of long-lived workers that execute
// fire-and-forget tasks from a shared, unbounded FIFO queue.
//
// Lifecycle
//   - New(size, opts...): a stopped pool with size unstarted workers.
//   - Start(ctx): spawns the workers and returns once all of them are ready.
//   - Submit(task): appends the task and wakes exactly one worker for it.
//   - Stop(force): refuses new submissions, drains the queue unless force is set,
//     then wakes and joins every worker.
//   - Resize(size) / Reset(): reconfigure a stopped pool.
//
// Hand-off
// Every accepted submission posts one permit to a counting wake signal; a worker
// blocks on that signal with no busy-waiting, claims the oldest task under the
// queue lock and runs it. Stop posts one extra permit per worker so that each
// observes the shutdown and leaves its loop.
//
// Failures
// Precondition failures (ErrRunning, ErrNotRunning, ErrStopping) and synchronization
// failures (ErrInitialization, ErrSubmission, ErrShutdown) are returned to the caller.
// A worker whose wait fails records ErrWorkerSynchronization, retrievable through
// Pool.Err, instead of taking the process down. A panicking task is recovered and
// handed to the PanicHandler; the worker moves on to the next task.
//
// Defaults
//   - Name: "threadpool-" plus a random suffix
//   - Logger: slog.Default()
//   - Metrics: metrics.NoopProvider
//   - PanicHandler: log at error level
//   - LockOSThread: false
package threadpool
