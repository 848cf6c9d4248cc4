package service

import (
	"sync"
)

// Dispatcher runs jobs on a bounded pool of goroutines so a slow media
// upload for one event cannot stall ingestion of others.
type Dispatcher struct {
	semaphore chan struct{}
	wg        sync.WaitGroup
}

func NewDispatcher(workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		semaphore: make(chan struct{}, workers),
	}
}

// Dispatch schedules fn on the pool. It blocks only when all workers are
// busy, which backpressures ingestion instead of growing an unbounded
// queue.
func (d *Dispatcher) Dispatch(fn func()) {
	d.wg.Add(1)
	d.semaphore <- struct{}{}
	go func() {
		defer d.wg.Done()
		defer func() { <-d.semaphore }()
		fn()
	}()
}

// Wait blocks until all dispatched jobs have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
