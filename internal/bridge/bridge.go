// Package bridge pushes completed profiles to the native side (the keyboard
// extension) over a one-way channel.
//
// Delivery is at-most-once with no acknowledgement: events are queued on a
// bounded buffer, a full buffer drops the event, and sink failures are logged
// and counted but never reach the caller. The assessment flow must not block
// or fail because the keyboard side is slow or missing.
package bridge

import (
	"context"
	"sync"

	"github.com/HendryAvila/tether/internal/metrics"
	"github.com/HendryAvila/tether/internal/profile"
	"go.uber.org/zap"
)

// ProfileEvent is the payload sent across the bridge.
type ProfileEvent struct {
	UserID        string `json:"user_id"`
	DominantType  string `json:"dominant_type"`
	Attachment    string `json:"attachment_style"`
	Communication string `json:"communication_style"`
	CompletedAt   string `json:"completed_at"`
}

// EventFromProfile builds the bridge payload for a stored profile.
func EventFromProfile(p *profile.PersistedProfile) ProfileEvent {
	return ProfileEvent{
		UserID:        p.UserID,
		DominantType:  p.DominantType,
		Attachment:    string(p.Attachment),
		Communication: string(p.Communication),
		CompletedAt:   p.CompletedAt,
	}
}

// Channel is the one-way native channel. Publish reports whether the event
// was queued; it never blocks.
type Channel interface {
	Publish(ev ProfileEvent) bool
}

// Sink receives events on the worker goroutine.
type Sink interface {
	Deliver(ctx context.Context, ev ProfileEvent) error
}

// DefaultBuffer is the queue size used when none is configured.
const DefaultBuffer = 16

// Dispatcher is a Channel backed by a bounded queue and a single delivery
// worker.
type Dispatcher struct {
	sink    Sink
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	queue  chan ProfileEvent

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher starts the delivery worker. Close must be called to stop it.
func NewDispatcher(sink Sink, buffer int, logger *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		sink:    sink,
		logger:  logger.Named("bridge"),
		metrics: m,
		queue:   make(chan ProfileEvent, buffer),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish queues ev for delivery. It returns false when the queue is full or
// the dispatcher is closed; the event is then dropped.
func (d *Dispatcher) Publish(ev ProfileEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(ev, "closed")
		return false
	}
	select {
	case d.queue <- ev:
		return true
	default:
		d.drop(ev, "queue full")
		return false
	}
}

func (d *Dispatcher) drop(ev ProfileEvent, reason string) {
	d.logger.Warn("dropping profile event", zap.String("user_id", ev.UserID), zap.String("reason", reason))
	d.metrics.ObserveBridge(metrics.OutcomeDropped)
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Deliver(d.ctx, ev); err != nil {
			d.logger.Warn("profile delivery failed", zap.String("user_id", ev.UserID), zap.Error(err))
			d.metrics.ObserveBridge(metrics.OutcomeFailed)
			continue
		}
		d.metrics.ObserveBridge(metrics.OutcomeDelivered)
	}
}

// Close stops accepting events, drains what is queued and waits for the
// worker to exit. If ctx expires first, in-flight delivery is cancelled.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-d.done
		return ctx.Err()
	}
}
