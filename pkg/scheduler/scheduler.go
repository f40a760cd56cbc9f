// Package scheduler runs the ingestion pipeline and the batch dispatcher on their intervals
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/domain"
)

// Task is a unit of work the scheduler runs
type Task string

// tasks
const (
	TaskIngest   Task = "ingest"
	TaskDispatch Task = "dispatch"
)

// IngestRunner runs one ingestion cycle
type IngestRunner interface {
	Run(ctx context.Context) domain.IngestStats
}

// DispatchRunner runs one dispatch cycle
type DispatchRunner interface {
	DispatchPending(ctx context.Context) domain.DispatchStats
}

// Scheduler runs ingestion and dispatch from a single goroutine, so the two never overlap.
// Both run once right after Start, then on their own tickers. Triggered tasks are queued
// into the same loop.
type Scheduler struct {
	ingester         IngestRunner
	dispatcher       DispatchRunner
	ingestInterval   time.Duration
	dispatchInterval time.Duration
	triggers         chan Task

	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu     sync.RWMutex
	status Status
}

// Status is a snapshot of the last runs
type Status struct {
	Running      Task // empty when idle
	LastIngest   domain.IngestStats
	LastDispatch domain.DispatchStats
	Ingests      int
	Dispatches   int
}

// Params groups scheduler dependencies and intervals
type Params struct {
	Ingester         IngestRunner
	Dispatcher       DispatchRunner
	IngestInterval   time.Duration
	DispatchInterval time.Duration
}

// NewScheduler creates a new scheduler instance
func NewScheduler(p Params) *Scheduler {
	if p.IngestInterval <= 0 {
		p.IngestInterval = time.Hour
	}
	if p.DispatchInterval <= 0 {
		p.DispatchInterval = time.Hour
	}
	return &Scheduler{
		ingester:         p.Ingester,
		dispatcher:       p.Dispatcher,
		ingestInterval:   p.IngestInterval,
		dispatchInterval: p.DispatchInterval,
		triggers:         make(chan Task, 2),
	}
}

// Start begins the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)
	log.Printf("[INFO] scheduler started with ingest interval %v, dispatch interval %v", s.ingestInterval, s.dispatchInterval)
}

// Stop gracefully stops the scheduler, a running task is interrupted via its context
func (s *Scheduler) Stop() {
	log.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	log.Printf("[INFO] scheduler stopped")
}

// Trigger queues a task to run as soon as the loop is free.
// Returns an error if the task is unknown or the queue is full.
func (s *Scheduler) Trigger(task Task) error {
	if task != TaskIngest && task != TaskDispatch {
		return fmt.Errorf("unknown task %q", task)
	}
	select {
	case s.triggers <- task:
		log.Printf("[INFO] %s triggered", task)
		return nil
	default:
		return fmt.Errorf("task queue is full, %s not queued", task)
	}
}

// Status returns a snapshot of the last runs
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	// immediate first run of both tasks
	s.run(ctx, TaskIngest)
	s.run(ctx, TaskDispatch)

	ingestTicker := time.NewTicker(s.ingestInterval)
	defer ingestTicker.Stop()
	dispatchTicker := time.NewTicker(s.dispatchInterval)
	defer dispatchTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ingestTicker.C:
			s.run(ctx, TaskIngest)
		case <-dispatchTicker.C:
			s.run(ctx, TaskDispatch)
		case task := <-s.triggers:
			s.run(ctx, task)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, task Task) {
	if ctx.Err() != nil {
		return
	}
	s.setRunning(task)
	defer s.setRunning("")

	switch task {
	case TaskIngest:
		stats := s.ingester.Run(ctx)
		s.mu.Lock()
		s.status.LastIngest = stats
		s.status.Ingests++
		s.mu.Unlock()
	case TaskDispatch:
		stats := s.dispatcher.DispatchPending(ctx)
		s.mu.Lock()
		s.status.LastDispatch = stats
		s.status.Dispatches++
		s.mu.Unlock()
	}
}

func (s *Scheduler) setRunning(task Task) {
	s.mu.Lock()
	s.status.Running = task
	s.mu.Unlock()
}
