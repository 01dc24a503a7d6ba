package sched_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/sched"
	"github.com/roach88/reelsync/internal/testutil"
)

func counting(calls *atomic.Int32, err error) action.Action[int] {
	return action.Func[int]{
		KeyFunc: func(id int) string { return fmt.Sprintf("SyncMovie&traktId=%d", id) },
		InvokeFunc: func(context.Context, int) error {
			calls.Add(1)
			return err
		},
	}
}

func newManager(t *testing.T) *action.Manager {
	t.Helper()
	m := action.New(action.WithIDGenerator(testutil.NewFixedGenerator()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, m.Shutdown(ctx))
	})
	return m
}

func TestQueue_FIFO(t *testing.T) {
	q := sched.NewQueue()
	for _, name := range []string{"a", "b", "c"} {
		require.True(t, q.Enqueue(sched.Job{Name: name}))
	}
	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		j, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, j.Name)
	}
	_, ok := q.TryDequeue()
	assert.False(t, ok)
}

func TestQueue_ClosedRejectsJobs(t *testing.T) {
	q := sched.NewQueue()
	q.Close()
	q.Close()

	assert.False(t, q.Enqueue(sched.Job{Name: "late"}))
	select {
	case <-q.Wait():
	default:
		t.Fatal("Wait should fire after Close")
	}
}

func TestRunner_StartsJobsAndKeepsGoingAfterFailures(t *testing.T) {
	m := newManager(t)
	var ok, bad atomic.Int32

	q := sched.NewQueue()
	q.Enqueue(sched.ActionJob(m, counting(&bad, errors.New("boom")), 1))
	q.Enqueue(sched.ActionJob(m, counting(&ok, nil), 2))
	q.Close()

	r := sched.NewRunner(q, nil)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, int32(1), bad.Load())
	assert.Equal(t, int32(1), ok.Load())
}

func TestRunner_StopsOnCancel(t *testing.T) {
	q := sched.NewQueue()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sched.NewRunner(q, nil).Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.False(t, q.Enqueue(sched.Job{Name: "late"}), "runner closes the queue")
}

func TestTicker_EnqueuesImmediatelyAndOnEveryTick(t *testing.T) {
	m := newManager(t)
	var calls atomic.Int32
	a := counting(&calls, nil)

	q := sched.NewQueue()
	tk := &sched.Ticker{
		Queue:    q,
		Interval: 10 * time.Millisecond,
		Jobs:     func() []sched.Job { return []sched.Job{sched.ActionJob(m, a, 1)} },
	}

	ctx, cancel := context.WithCancel(context.Background())
	tickDone, runDone := make(chan struct{}), make(chan struct{})
	go func() { _ = tk.Run(ctx); close(tickDone) }()
	go func() { _ = sched.NewRunner(q, nil).Run(ctx); close(runDone) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-tickDone
	<-runDone
}

func TestTicker_StopsWhenQueueCloses(t *testing.T) {
	q := sched.NewQueue()
	q.Close()
	tk := &sched.Ticker{
		Queue:    q,
		Interval: time.Hour,
		Jobs:     func() []sched.Job { return []sched.Job{{Name: "activity"}} },
	}
	assert.NoError(t, tk.Run(context.Background()))
}
