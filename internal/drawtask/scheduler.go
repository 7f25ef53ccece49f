// Package drawtask runs long drawing jobs a bounded batch at a time so the
// host loop keeps control between batches.
package drawtask

import (
	"context"
	"sync"
	"time"
)

// Task draws one item per call
type Task func(item int)

// Scheduler holds at most one drawing job. Starting a job supersedes the one
// in flight; the old job's remaining items are dropped.
type Scheduler struct {
	mu    sync.Mutex
	batch int
	tick  time.Duration

	items      []int
	next       int
	task       Task
	generation uint64
}

// New creates a scheduler processing batch items per tick
func New(batch int, tick time.Duration) *Scheduler {
	if batch < 1 {
		batch = 1
	}
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}
	return &Scheduler{batch: batch, tick: tick}
}

// Start replaces the running job with one that calls task for every item
func (s *Scheduler) Start(items []int, task Task) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.items = append([]int(nil), items...)
	s.next = 0
	s.task = task
	return s.generation
}

// Cancel drops the running job
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.items, s.task, s.next = nil, nil, 0
}

// Pending returns how many items are left
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) - s.next
}

// Generation identifies the current job
func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Tick draws the next batch and reports whether items remain. The task runs
// without the scheduler lock held, so it may call Start.
func (s *Scheduler) Tick() bool {
	s.mu.Lock()
	if s.task == nil || s.next >= len(s.items) {
		s.mu.Unlock()
		return false
	}
	gen := s.generation
	end := s.next + s.batch
	if end > len(s.items) {
		end = len(s.items)
	}
	batch := s.items[s.next:end]
	s.next = end
	task := s.task
	s.mu.Unlock()

	for _, item := range batch {
		if s.Generation() != gen {
			break
		}
		task(item)
	}
	return s.Pending() > 0
}

// Flush runs the current job to completion
func (s *Scheduler) Flush() {
	for s.Tick() {
	}
}

// Run ticks until ctx is done
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}
