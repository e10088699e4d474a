// Package queue carries committed HR request mutations to the audit sinks
// off the request path.
package queue

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/protorh/protorh-api/internal/api/metrics"
	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the request id, so the events of one request reach every sink
// in commit order.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	sinks   []ports.AuditSink
	log     zerolog.Logger
	wg      sync.WaitGroup

	// mu guards stopped. Publish sends under the read lock, so once stopped
	// is set no event can reach a buffer that has already been drained.
	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

var _ ports.AuditPublisher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sinks []ports.AuditSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		sinks:   sinks,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled the
// dispatcher stops accepting events, then each worker flushes what is
// already buffered and exits.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()
		close(d.done)
	}()
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands event to the worker responsible for its request. It never
// blocks: when that worker's buffer is full, or the dispatcher has stopped,
// the event is dropped and logged.
func (d *Dispatcher) Publish(event domain.AuditEvent) {
	idx := d.shardIndex(event.RequestID)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		metrics.AuditEventsTotal.WithLabelValues("dispatcher", "dropped").Inc()
		d.log.Warn().
			Str("event_id", event.EventID).
			Int64("request_id", event.RequestID).
			Msg("audit dispatcher stopped, event dropped")
		return
	}

	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsTotal.WithLabelValues("dispatcher", "dropped").Inc()
		d.log.Warn().
			Str("event_id", event.EventID).
			Int64("request_id", event.RequestID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a request id deterministically to a worker index.
func (d *Dispatcher) shardIndex(requestID int64) int {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(requestID))
	h := fnv.New32a()
	_, _ = h.Write(b[:])
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-d.done:
			d.drain(context.WithoutCancel(ctx), id, ch)
			return
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, event)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	for {
		select {
		case event := <-ch:
			d.deliver(ctx, id, event)
		default:
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			return
		}
	}
}

// deliver writes event to every sink. A failing sink does not stop the
// others.
func (d *Dispatcher) deliver(ctx context.Context, id int, event domain.AuditEvent) {
	for _, sink := range d.sinks {
		start := time.Now()
		err := sink.Write(ctx, event)
		metrics.AuditWriteDuration.WithLabelValues(sink.Name()).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.AuditEventsTotal.WithLabelValues(sink.Name(), "error").Inc()
			d.log.Error().Err(err).
				Str("sink", sink.Name()).
				Str("event_id", event.EventID).
				Int64("request_id", event.RequestID).
				Int("worker_id", id).
				Msg("audit write failed")
			continue
		}
		metrics.AuditEventsTotal.WithLabelValues(sink.Name(), "ok").Inc()
	}
}
