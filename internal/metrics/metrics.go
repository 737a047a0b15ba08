package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "travelbooking"

// Collector is a prometheus.Collector for the booking core. A nil
// *Collector is valid and records nothing.
type Collector struct {
	bookingsCreated   prometheus.Counter
	bookingsCancelled prometheus.Counter
	bookingFailures   *prometheus.CounterVec
	seatsReserved     prometheus.Counter
	seatsReleased     prometheus.Counter
	txDuration        *prometheus.HistogramVec
	inventoryDrift    prometheus.Gauge
}

func NewCollector() *Collector {
	return &Collector{
		bookingsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "bookings_created_total",
				Help:      "The number of bookings confirmed.",
			},
		),
		bookingsCancelled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "bookings_cancelled_total",
				Help:      "The number of bookings cancelled.",
			},
		),
		bookingFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "booking_failures_total",
				Help:      "Failed booking operations by operation and error code.",
			}, []string{"operation", "code"},
		),
		seatsReserved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "seats_reserved_total",
				Help:      "Seats taken out of inventory by committed bookings.",
			},
		),
		seatsReleased: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "seats_released_total",
				Help:      "Seats returned to inventory by committed cancellations.",
			},
		),
		txDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "transaction_seconds",
				Help:      "Time spent in booking transactions, retries included.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			}, []string{"operation"},
		),
		inventoryDrift: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "inventory_drift_options",
				Help:      "Travel options whose seat accounting failed the last audit.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.bookingsCreated.Describe(ch)
	c.bookingsCancelled.Describe(ch)
	c.bookingFailures.Describe(ch)
	c.seatsReserved.Describe(ch)
	c.seatsReleased.Describe(ch)
	c.txDuration.Describe(ch)
	c.inventoryDrift.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.bookingsCreated.Collect(ch)
	c.bookingsCancelled.Collect(ch)
	c.bookingFailures.Collect(ch)
	c.seatsReserved.Collect(ch)
	c.seatsReleased.Collect(ch)
	c.txDuration.Collect(ch)
	c.inventoryDrift.Collect(ch)
}

func (c *Collector) BookingCreated(seats int) {
	if c == nil {
		return
	}
	c.bookingsCreated.Inc()
	c.seatsReserved.Add(float64(seats))
}

func (c *Collector) BookingCancelled(seats int) {
	if c == nil {
		return
	}
	c.bookingsCancelled.Inc()
	c.seatsReleased.Add(float64(seats))
}

func (c *Collector) BookingFailed(operation, code string) {
	if c == nil {
		return
	}
	if code == "" {
		code = "INTERNAL"
	}
	c.bookingFailures.WithLabelValues(operation, code).Inc()
}

func (c *Collector) ObserveTx(operation string, started time.Time) {
	if c == nil {
		return
	}
	c.txDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (c *Collector) SetInventoryDrift(n int) {
	if c == nil {
		return
	}
	c.inventoryDrift.Set(float64(n))
}
