package process

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

// Metrics tracks processing progress. A nil *Metrics is a no-op.
type Metrics struct {
	eventsProcessed *prometheus.CounterVec
	eventsFailed    *prometheus.CounterVec
	entityWrites    *prometheus.CounterVec
	badgesAwarded   *prometheus.CounterVec
	lastBlock       prometheus.Gauge
}

var (
	metricsOnce     sync.Once
	metricsRegistry *Metrics
)

// DefaultMetrics returns the process-wide metrics registered with the default registry.
func DefaultMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsRegistry = &Metrics{
			eventsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stakescope_events_processed_total",
				Help: "Count of typed events applied to the ledger by event name.",
			}, []string{"event"}),
			eventsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stakescope_events_failed_total",
				Help: "Count of typed events that could not be applied by event name.",
			}, []string{"event"}),
			entityWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stakescope_entity_writes_total",
				Help: "Count of entity upserts by kind.",
			}, []string{"kind"}),
			badgesAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stakescope_badges_awarded_total",
				Help: "Count of awarded badges by type.",
			}, []string{"badge"}),
			lastBlock: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "stakescope_last_processed_block",
				Help: "Block number of the last fully processed event.",
			}),
		}
		prometheus.MustRegister(
			metricsRegistry.eventsProcessed,
			metricsRegistry.eventsFailed,
			metricsRegistry.entityWrites,
			metricsRegistry.badgesAwarded,
			metricsRegistry.lastBlock,
		)
	})
	return metricsRegistry
}

func (m *Metrics) ObserveProcessed(event string) {
	if m == nil {
		return
	}
	m.eventsProcessed.WithLabelValues(labelOrUnknown(event)).Inc()
}

func (m *Metrics) ObserveFailed(event string) {
	if m == nil {
		return
	}
	m.eventsFailed.WithLabelValues(labelOrUnknown(event)).Inc()
}

func (m *Metrics) ObserveWrite(kind model.Kind) {
	if m == nil {
		return
	}
	m.entityWrites.WithLabelValues(labelOrUnknown(string(kind))).Inc()
}

func (m *Metrics) ObserveBadge(badgeType model.BadgeType) {
	if m == nil {
		return
	}
	m.badgesAwarded.WithLabelValues(labelOrUnknown(string(badgeType))).Inc()
}

func (m *Metrics) SetLastBlock(block uint64) {
	if m == nil {
		return
	}
	m.lastBlock.Set(float64(block))
}

func labelOrUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

// meteredStore counts successful writes per entity kind.
type meteredStore struct {
	storage.EntityStore
	metrics *Metrics
}

// WithWriteMetrics wraps store so every successful Put is counted.
func WithWriteMetrics(store storage.EntityStore, metrics *Metrics) storage.EntityStore {
	if metrics == nil {
		return store
	}
	return &meteredStore{EntityStore: store, metrics: metrics}
}

func (s *meteredStore) Put(ctx context.Context, kind model.Kind, id string, value interface{}) error {
	if err := s.EntityStore.Put(ctx, kind, id, value); err != nil {
		return err
	}
	s.metrics.ObserveWrite(kind)
	return nil
}
