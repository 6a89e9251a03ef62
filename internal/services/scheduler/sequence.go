package scheduler

import (
	"sync"

	"github.com/temirov/treesnap/internal/types"
)

// SequenceSink forwards only the delivery belonging to the most recently begun
// request to the wrapped sink. Consumers that re-request snapshots of a
// changing root use it to discard stale builds: there is no cancellation of an
// in-flight build, so superseded requests still complete, and their deliveries
// are dropped here instead.
type SequenceSink struct {
	target Sink

	mutex          sync.Mutex
	latestSequence uint64
}

// NewSequenceSink wraps target with latest-wins delivery semantics.
func NewSequenceSink(target Sink) *SequenceSink {
	return &SequenceSink{target: target}
}

// Begin registers a new request generation and returns the Sink to hand to
// RequestSnapshot for that request. Any earlier generation still in flight
// becomes stale immediately.
func (sequenceSink *SequenceSink) Begin() Sink {
	sequenceSink.mutex.Lock()
	defer sequenceSink.mutex.Unlock()
	sequenceSink.latestSequence++
	return &sequencedDelivery{parent: sequenceSink, sequence: sequenceSink.latestSequence}
}

type sequencedDelivery struct {
	parent   *SequenceSink
	sequence uint64
}

// OnSnapshot forwards the snapshot when this delivery still belongs to the
// latest generation and silently discards it otherwise.
func (deliveryHandle *sequencedDelivery) OnSnapshot(snapshot *types.Snapshot) {
	deliveryHandle.parent.mutex.Lock()
	isLatest := deliveryHandle.sequence == deliveryHandle.parent.latestSequence
	deliveryHandle.parent.mutex.Unlock()
	if isLatest {
		deliveryHandle.parent.target.OnSnapshot(snapshot)
	}
}
