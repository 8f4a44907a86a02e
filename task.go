package threadpool

// Task is an opaque unit of deferred work. The pool never inspects it; it is
// executed exactly once by whichever worker claims it.
// A nil Task is accepted and silently skipped on execution.
type Task func()

// PanicHandler receives the value recovered from a panicking Task together with
// the id of the worker that ran it. The worker keeps serving the queue afterwards.
type PanicHandler func(workerID int, recovered any)
