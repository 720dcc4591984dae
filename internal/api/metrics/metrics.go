// Package metrics defines and registers all custom Prometheus metrics for the
// booking API. It is the single source of truth for metric names, labels, and
// help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// BookingsCreatedTotal counts successfully reserved bookings.
var BookingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings successfully reserved.",
	},
)

// BookingConflictsTotal counts reserve attempts rejected because the slot was
// already taken. These reflect real contention, not errors.
var BookingConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Total number of reserve attempts rejected as already booked.",
	},
)

// BookingsCancelledTotal counts completed cancellations (idempotent repeats
// of an already-gone id are not counted).
var BookingsCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_cancelled_total",
		Help:      "Total number of bookings cancelled.",
	},
)

// SlotParseErrorsTotal counts slot values rejected by the codec.
// Label:
//   - source: "request" (caller input) or "stored" (legacy persisted record)
var SlotParseErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_parse_errors_total",
		Help:      "Total number of slot values the codec could not canonicalize.",
	},
	[]string{"source"},
)

// AvailabilityCacheTotal counts availability cache lookups.
// Label:
//   - result: "hit", "miss", or "error"
var AvailabilityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "availability_cache_total",
		Help:      "Total number of availability cache lookups, by result.",
	},
	[]string{"result"},
)

// InvalidationQueueDepth tracks the number of pending invalidations per
// dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var InvalidationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "invalidation_queue_depth",
		Help:      "Current number of invalidations pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ReserveDuration measures how long a reserve takes in the service, including
// canonicalization and the conditional write.
// Label:
//   - outcome: "created", "conflict", or "error"
var ReserveDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reserve_duration_seconds",
		Help:      "Duration of booking reserve operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)
