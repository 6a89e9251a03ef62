// Package scheduler runs snapshot builds in the background and delivers each
// completed tree to its sink exactly once.
package scheduler

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/treesnap/internal/types"
)

var (
	// ErrSchedulerClosed is returned when a request arrives after Close.
	ErrSchedulerClosed = errors.New("scheduler: closed")
	// ErrTooManyBuilds is returned when the concurrent build limit is reached.
	ErrTooManyBuilds = errors.New("scheduler: concurrent build limit reached")
)

// Builder produces a Snapshot for a root path.
type Builder interface {
	Snapshot(rootPath string) (*types.Snapshot, error)
}

// Sink receives a completed Snapshot exactly once per accepted request and
// owns the delivered tree thereafter.
type Sink interface {
	OnSnapshot(snapshot *types.Snapshot)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(snapshot *types.Snapshot)

// OnSnapshot invokes the wrapped function.
func (sinkFunction SinkFunc) OnSnapshot(snapshot *types.Snapshot) {
	sinkFunction(snapshot)
}

// Options configures a Scheduler.
type Options struct {
	// MaxConcurrentBuilds bounds the number of builds running at once. When
	// positive, a request that would exceed the bound fails with
	// ErrTooManyBuilds instead of blocking the caller. Zero means unbounded.
	MaxConcurrentBuilds int
	// Warn receives non-fatal scheduling diagnostics. A nil Warn discards them.
	Warn func(message string)
}

type delivery struct {
	sink     Sink
	snapshot *types.Snapshot
}

// Scheduler owns a pool of background build goroutines and a single dispatch
// goroutine. Builds run concurrently; deliveries are serialized through the
// dispatcher so a sink never observes two callbacks at the same time.
type Scheduler struct {
	builder    Builder
	options    Options
	group      *errgroup.Group
	deliveries chan delivery
	dispatched chan struct{}

	mutex  sync.Mutex
	closed bool

	pending sync.WaitGroup
}

// NewScheduler constructs a Scheduler around builder and starts its dispatcher.
// Callers must Close the scheduler to drain in-flight builds.
func NewScheduler(builder Builder, options Options) *Scheduler {
	snapshotScheduler := &Scheduler{
		builder:    builder,
		options:    options,
		group:      &errgroup.Group{},
		deliveries: make(chan delivery),
		dispatched: make(chan struct{}),
	}
	if options.MaxConcurrentBuilds > 0 {
		snapshotScheduler.group.SetLimit(options.MaxConcurrentBuilds)
	}
	go snapshotScheduler.dispatch()
	return snapshotScheduler
}

// RequestSnapshot schedules exactly one background build of rootPath and, on
// completion, invokes sink.OnSnapshot exactly once with the resulting
// Snapshot. Requests are independent: a second request does not cancel the
// first, and whichever build finishes first delivers first.
func (snapshotScheduler *Scheduler) RequestSnapshot(rootPath string, sink Sink) error {
	if sink == nil {
		return errors.New("scheduler: nil sink")
	}

	snapshotScheduler.mutex.Lock()
	if snapshotScheduler.closed {
		snapshotScheduler.mutex.Unlock()
		return ErrSchedulerClosed
	}
	snapshotScheduler.pending.Add(1)
	snapshotScheduler.mutex.Unlock()

	scheduled := snapshotScheduler.group.TryGo(func() error {
		defer snapshotScheduler.pending.Done()
		snapshot, buildError := snapshotScheduler.builder.Snapshot(rootPath)
		if buildError != nil {
			snapshotScheduler.warn(fmt.Sprintf("build of %s failed: %v", rootPath, buildError))
			return nil
		}
		snapshotScheduler.deliveries <- delivery{sink: sink, snapshot: snapshot}
		return nil
	})
	if !scheduled {
		snapshotScheduler.pending.Done()
		return ErrTooManyBuilds
	}
	return nil
}

// Close rejects further requests, waits for in-flight builds to deliver, and
// stops the dispatcher.
func (snapshotScheduler *Scheduler) Close() {
	snapshotScheduler.mutex.Lock()
	if snapshotScheduler.closed {
		snapshotScheduler.mutex.Unlock()
		<-snapshotScheduler.dispatched
		return
	}
	snapshotScheduler.closed = true
	snapshotScheduler.mutex.Unlock()

	snapshotScheduler.pending.Wait()
	close(snapshotScheduler.deliveries)
	<-snapshotScheduler.dispatched
}

// dispatch serializes deliveries onto a single goroutine. Sinks therefore
// receive callbacks from one stable execution context.
func (snapshotScheduler *Scheduler) dispatch() {
	defer close(snapshotScheduler.dispatched)
	for pendingDelivery := range snapshotScheduler.deliveries {
		pendingDelivery.sink.OnSnapshot(pendingDelivery.snapshot)
	}
}

func (snapshotScheduler *Scheduler) warn(message string) {
	if snapshotScheduler.options.Warn == nil {
		return
	}
	snapshotScheduler.options.Warn(message)
}
