package service

import (
	"context"
	"log"
	"sync"
	"time"

	"docdiff/internal/config"
)

// Job is a unit of background work. It must drive its entity to a terminal
// state itself; the returned error is for observability only.
type Job func(ctx context.Context) error

// Dispatcher runs jobs on detached goroutines behind a bounded semaphore, so
// triggering requests return immediately while the number of concurrent
// provider calls stays capped. Shutdown drains in-flight jobs.
type Dispatcher struct {
	sem     chan struct{}
	wg      sync.WaitGroup
	timeout time.Duration

	// onDone, when set, observes job completion. Used by tests.
	onDone func(name string, err error)
}

// NewDispatcher creates a Dispatcher from the jobs config.
func NewDispatcher(cfg config.JobsConfig) *Dispatcher {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &Dispatcher{
		sem:     make(chan struct{}, concurrency),
		timeout: timeout,
	}
}

// NewDispatcherWithObserver creates a Dispatcher that reports each job
// completion to onDone (for testing).
func NewDispatcherWithObserver(cfg config.JobsConfig, onDone func(name string, err error)) *Dispatcher {
	d := NewDispatcher(cfg)
	d.onDone = onDone
	return d
}

// Submit schedules a job and returns immediately. The job runs with a fresh
// context independent of the triggering request, so it completes even if the
// caller disconnects.
func (d *Dispatcher) Submit(name string, job Job) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		d.sem <- struct{}{} // acquire
		defer func() { <-d.sem }()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		log.Printf("dispatcher: running %s", name)
		err := job(ctx)
		if err != nil {
			log.Printf("dispatcher: %s failed: %v", name, err)
		} else {
			log.Printf("dispatcher: %s done", name)
		}
		if d.onDone != nil {
			d.onDone(name, err)
		}
	}()
}

// Shutdown blocks until all in-flight jobs have finished.
func (d *Dispatcher) Shutdown() {
	log.Printf("dispatcher: waiting for in-flight jobs...")
	d.wg.Wait()
	log.Printf("dispatcher: shutdown complete")
}
