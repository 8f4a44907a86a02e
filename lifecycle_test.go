package threadpool

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// helper to read a string from a channel with timeout
func recvStep(t *testing.T, ch <-chan string, d time.Duration) (string, bool) {
	t.Helper()
	select {
	case s := <-ch:
		return s, true
	case <-time.After(d):
		return "", false
	}
}

func TestShutdownSequence_Order(t *testing.T) {
	steps := make(chan string, 10)
	joinGate := make(chan struct{})

	seq := &shutdownSequence{
		wake:     func() error { steps <- "wake"; return nil },
		join:     func() { <-joinGate; steps <- "join" },
		teardown: func() error { steps <- "teardown"; return nil },
		release:  func() { steps <- "release" },
	}

	done := make(chan error, 1)
	go func() { done <- seq.run() }()

	if s, ok := recvStep(t, steps, 200*time.Millisecond); !ok || s != "wake" {
		t.Fatalf("expected first step 'wake', got=%q ok=%v", s, ok)
	}
	// teardown must not run while join is blocked
	if s, ok := recvStep(t, steps, 50*time.Millisecond); ok {
		t.Fatalf("unexpected step %q before join completed", s)
	}

	close(joinGate)
	for _, want := range []string{"join", "teardown", "release"} {
		s, ok := recvStep(t, steps, 200*time.Millisecond)
		require.True(t, ok, "timed out waiting for %q", want)
		require.Equal(t, want, s)
	}
	require.NoError(t, <-done)
}

func TestShutdownSequence_WakeFailureReleasesBeforeJoin(t *testing.T) {
	errWake := errors.New("wake failed")
	errTeardown := errors.New("teardown failed")
	var steps []string

	seq := &shutdownSequence{
		wake:     func() error { steps = append(steps, "wake"); return errWake },
		join:     func() { steps = append(steps, "join") },
		teardown: func() error { steps = append(steps, "teardown"); return errTeardown },
		release:  func() { steps = append(steps, "release") },
	}

	err := seq.run()
	require.ErrorIs(t, err, errWake)
	require.ErrorIs(t, err, errTeardown)
	require.Equal(t, []string{"wake", "release", "join", "teardown", "release"}, steps)
}

func TestShutdownSequence_NilSteps(t *testing.T) {
	require.NoError(t, (&shutdownSequence{}).run())
}
