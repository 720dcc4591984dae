package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookline/booking-system/internal/api/metrics"
	"github.com/bookline/booking-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	opTimeout      = 2 * time.Second
)

// InvalidationDispatcher applies cache invalidations off the request path.
// Dates are routed to a fixed set of workers by consistent hashing, so
// invalidations for the same date are applied in order.
type InvalidationDispatcher struct {
	workers []chan string
	cache   ports.AvailabilityCache
	log     zerolog.Logger
}

// NewInvalidationDispatcher creates a dispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewInvalidationDispatcher(numWorkers int, cache ports.AvailabilityCache, log zerolog.Logger) *InvalidationDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &InvalidationDispatcher{
		workers: make([]chan string, numWorkers),
		cache:   cache,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *InvalidationDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Invalidate enqueues an invalidation for date. The signal is fire-and-forget:
// when the responsible worker's buffer is full the signal is dropped and the
// cache entry expires by TTL instead.
func (d *InvalidationDispatcher) Invalidate(date string) {
	ch := d.workers[d.shardIndex(date)]
	select {
	case ch <- date:
	default:
		d.log.Warn().Str("date", date).Msg("invalidation queue full, dropping signal")
	}
}

// shardIndex maps a date deterministically to a worker index.
func (d *InvalidationDispatcher) shardIndex(date string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(date))
	return int(h.Sum32()) % len(d.workers)
}

func (d *InvalidationDispatcher) runWorker(ctx context.Context, id int, ch chan string) {
	gauge := metrics.InvalidationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case date := <-ch:
			gauge.Set(float64(len(ch)))
			opCtx, cancel := context.WithTimeout(context.Background(), opTimeout)
			if err := d.cache.InvalidateDate(opCtx, date); err != nil {
				d.log.Warn().Err(err).Str("date", date).Int("worker", id).Msg("invalidation failed")
			}
			cancel()
		}
	}
}
