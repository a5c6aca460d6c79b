package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docdiff/internal/config"
	"docdiff/internal/service"
)

func TestDispatcher_RunsSubmittedJobs(t *testing.T) {
	var mu sync.Mutex
	results := make(map[string]error)
	dispatcher := service.NewDispatcherWithObserver(config.JobsConfig{Concurrency: 2, TimeoutSecs: 5}, func(name string, err error) {
		mu.Lock()
		results[name] = err
		mu.Unlock()
	})

	jobErr := errors.New("boom")
	dispatcher.Submit("good", func(_ context.Context) error { return nil })
	dispatcher.Submit("bad", func(_ context.Context) error { return jobErr })

	dispatcher.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.NoError(t, results["good"])
	assert.ErrorIs(t, results["bad"], jobErr)
}

func TestDispatcher_BoundsConcurrency(t *testing.T) {
	dispatcher := service.NewDispatcher(config.JobsConfig{Concurrency: 1, TimeoutSecs: 5})

	var running, maxRunning int32
	for i := 0; i < 4; i++ {
		dispatcher.Submit("job", func(_ context.Context) error {
			now := atomic.AddInt32(&running, 1)
			for {
				seen := atomic.LoadInt32(&maxRunning)
				if now <= seen || atomic.CompareAndSwapInt32(&maxRunning, seen, now) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		})
	}

	dispatcher.Shutdown()
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning))
}

func TestDispatcher_JobContextHasDeadline(t *testing.T) {
	dispatcher := service.NewDispatcher(config.JobsConfig{Concurrency: 1, TimeoutSecs: 30})

	deadlines := make(chan bool, 1)
	dispatcher.Submit("deadline-check", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		deadlines <- ok
		return nil
	})

	dispatcher.Shutdown()
	assert.True(t, <-deadlines)
}
