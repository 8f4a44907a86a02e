package threadpool

import "errors"

const Namespace = "threadpool"

var (
	// ErrInitialization is returned by Start when the wake signal cannot be created.
	// The pool stays stopped and Start may be retried.
	ErrInitialization = errors.New(Namespace + ": failed to initialize worker wake signal")

	// ErrSubmission is returned by Submit when the wake signal cannot be posted.
	// The task is not enqueued.
	ErrSubmission = errors.New(Namespace + ": failed to add task to the task queue")

	// ErrShutdown is returned by Stop when waking or tearing down workers fails.
	// Workers may be left unjoined; the caller must escalate.
	ErrShutdown = errors.New(Namespace + ": failed to shut down workers")

	// ErrWorkerSynchronization is recorded by a worker whose wait on the wake signal failed.
	ErrWorkerSynchronization = errors.New(Namespace + ": worker synchronization failed")

	ErrRunning       = errors.New(Namespace + ": pool is running")
	ErrNotRunning    = errors.New(Namespace + ": pool is not running")
	ErrStopping      = errors.New(Namespace + ": pool is stopping")
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
)
