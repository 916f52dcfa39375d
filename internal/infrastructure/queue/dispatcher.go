// Package queue delivers outbound email on a fixed pool of background
// workers so no request waits on the mail relay.
package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/api/metrics"
	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

const (
	defaultWorkers       = 2
	defaultChannelBuffer = 100
	deliveryTimeout      = 30 * time.Second
)

// ErrQueueFull is returned by Enqueue when the target worker's buffer is full.
var ErrQueueFull = &domain.Error{Kind: domain.KindUnavailable, Code: "EMAIL_QUEUE_FULL", Message: "email queue is full, try again later"}

// ErrQueueClosed is returned by Enqueue after Stop.
var ErrQueueClosed = &domain.Error{Kind: domain.KindUnavailable, Code: "EMAIL_QUEUE_CLOSED", Message: "email queue is shutting down"}

// Dispatcher routes messages to a fixed set of workers by hashing the
// recipient, so mail to one address is delivered in order.
type Dispatcher struct {
	workers []chan domain.EmailMessage
	service ports.EmailService
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer messages. Non-positive values select the defaults.
func NewDispatcher(numWorkers, buffer int, service ports.EmailService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultChannelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan domain.EmailMessage, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.EmailMessage, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled or
// after Stop has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands msg to the worker responsible for its recipient. It never
// blocks: a full buffer yields ErrQueueFull.
func (d *Dispatcher) Enqueue(msg domain.EmailMessage) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrQueueClosed
	}

	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		metrics.EmailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	default:
		metrics.EmailsTotal.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

// Stop refuses new messages, lets the workers drain what is queued and waits
// for them to finish or for ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.New("email dispatcher: shutdown timed out with messages pending")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(recipient)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.EmailMessage) {
	defer d.wg.Done()
	depth := metrics.EmailQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, msg domain.EmailMessage) {
	start := time.Now()
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()

	result := "sent"
	if err := d.service.Deliver(dctx, msg); err != nil {
		result = "failed"
		d.log.Error().Err(err).
			Str("to", msg.To).
			Int("worker_id", id).
			Msg("email delivery failed")
	}
	metrics.EmailsTotal.WithLabelValues(result).Inc()
	metrics.EmailDeliveryDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
