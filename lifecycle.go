package threadpool

import "errors"

// shutdownSequence encapsulates the ordered teardown of a running pool.
// It is a wiring helper: it owns no state, it only orders the steps.
//
// Steps:
// 1) wake every worker with one extra permit
// 2) join every worker
// 3) tear the wake signal down
// 4) release the run context
//
// When waking fails, the run context is released before joining so that workers
// still blocked on the signal fail their wait and exit instead of hanging the join.
type shutdownSequence struct {
	wake     func() error
	join     func()
	teardown func() error
	release  func()
}

func (s *shutdownSequence) run() error {
	var errs []error

	if s.wake != nil {
		if err := s.wake(); err != nil {
			errs = append(errs, err)
			if s.release != nil {
				s.release()
			}
		}
	}
	if s.join != nil {
		s.join()
	}
	if s.teardown != nil {
		if err := s.teardown(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.release != nil {
		s.release()
	}

	return errors.Join(errs...)
}
