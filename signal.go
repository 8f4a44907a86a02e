package threadpool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/semaphore"
)

var errSignalClosed = errors.New("wake signal is closed")

// maxPermits bounds the number of wake permits that may be outstanding at once.
const maxPermits = math.MaxInt64

// signalCounter is a counting wake primitive. Its count is the number of
// claimable wake-ups outstanding: post adds one and releases at most one blocked
// waiter, wait blocks until the count is positive and takes one.
//
// It is built on a weighted semaphore that starts fully held: every released
// unit is one permit, every acquired unit consumes one.
type signalCounter struct {
	sem *semaphore.Weighted

	mu     sync.RWMutex
	closed bool
}

// newSignalCounter returns a counter holding no permits.
func newSignalCounter() *signalCounter {
	sem := semaphore.NewWeighted(maxPermits)
	// Every unit of a fresh semaphore is free, so the initial hold cannot fail.
	sem.TryAcquire(maxPermits)
	return &signalCounter{sem: sem}
}

// post adds one wake permit.
func (s *signalCounter) post() (err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return errSignalClosed
	}

	// Release panics when more permits are outstanding than the semaphore can hold.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("post wake permit: %v", r)
		}
	}()

	s.sem.Release(1)
	return nil
}

// wait blocks until a permit is available and consumes it.
// It fails when ctx is done or the counter has been closed.
func (s *signalCounter) wait(ctx context.Context) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()

	if closed {
		return errSignalClosed
	}
	return s.sem.Acquire(ctx, 1)
}

// close tears the counter down. Waiters must have been released beforehand.
func (s *signalCounter) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errSignalClosed
	}
	s.closed = true
	return nil
}
