// Package metrics exports ledger state as Prometheus metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"calories/internal/app"
	"calories/internal/domain"
)

const namespace = "calories"

// Collector mirrors tracker snapshots into gauges and counts events.
type Collector struct {
	limit     prometheus.Gauge
	total     prometheus.Gauge
	consumed  prometheus.Gauge
	burned    prometheus.Gauge
	remaining prometheus.Gauge
	progress  prometheus.Gauge
	overLimit prometheus.Gauge
	records   *prometheus.GaugeVec
	events    *prometheus.CounterVec

	mu sync.Mutex
	// seq is the Seq of the newest snapshot applied to the gauges.
	seq uint64
}

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) *Collector {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	c := &Collector{
		limit:     gauge("limit", "Daily calorie limit."),
		total:     gauge("total", "Running calorie total (consumed minus burned)."),
		consumed:  gauge("consumed", "Calories consumed by meals."),
		burned:    gauge("burned", "Calories burned by workouts."),
		remaining: gauge("remaining", "Calories remaining before the limit."),
		progress:  gauge("progress_percent", "Running total as a percentage of the limit, clamped to 0-100."),
		overLimit: gauge("over_limit", "1 when nothing remains of the limit."),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "records", Help: "Records in the ledger by kind.",
		}, []string{"kind"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_total", Help: "Ledger changes by event type and record kind.",
		}, []string{"type", "kind"}),
	}
	reg.MustRegister(c.limit, c.total, c.consumed, c.burned, c.remaining, c.progress, c.overLimit, c.records, c.events)
	return c
}

// Set copies s into the gauges.
func (c *Collector) Set(s domain.Snapshot) {
	c.limit.Set(float64(s.CalorieLimit))
	c.total.Set(float64(s.TotalCalories))
	c.consumed.Set(float64(s.Consumed))
	c.burned.Set(float64(s.Burned))
	c.remaining.Set(float64(s.Remaining))
	c.progress.Set(s.ProgressPercentage)
	if s.OverLimit {
		c.overLimit.Set(1)
	} else {
		c.overLimit.Set(0)
	}
	c.records.WithLabelValues(string(domain.KindMeal)).Set(float64(s.MealCount))
	c.records.WithLabelValues(string(domain.KindWorkout)).Set(float64(s.WorkoutCount))
}

// Observe is a tracker listener. Every non-replayed event is counted, but
// the gauges only move forward: an event older than the snapshot already
// applied is not allowed to overwrite it.
func (c *Collector) Observe(ev app.Event) {
	if !ev.Replay {
		c.events.WithLabelValues(string(ev.Type), string(ev.Kind)).Inc()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ev.Seq < c.seq {
		return
	}
	c.seq = ev.Seq
	c.Set(ev.Snapshot)
}

// Attach subscribes to t and then primes the gauges from its current state.
func (c *Collector) Attach(t *app.CalorieTracker) (detach func()) {
	detach = t.Subscribe(c.Observe)

	snap, seq := t.SnapshotSeq()
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq >= c.seq {
		c.seq = seq
		c.Set(snap)
	}
	return detach
}
