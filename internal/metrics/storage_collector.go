package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/osvaldoandrade/storeq/pkg/persistence"
	"github.com/prometheus/client_golang/prometheus"
)

type storageCollector struct {
	store  persistence.PluginPersistence
	logger *slog.Logger

	entitiesDesc *prometheus.Desc
}

func newStorageCollector(store persistence.PluginPersistence, logger *slog.Logger) *storageCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &storageCollector{
		store:  store,
		logger: logger,
		entitiesDesc: prometheus.NewDesc(
			"storeq_entities",
			"Current number of stored entities by type.",
			[]string{"entity"},
			nil,
		),
	}
}

func (c *storageCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entitiesDesc
}

func (c *storageCollector) Collect(ch chan<- prometheus.Metric) {
	if c.store == nil {
		return
	}

	// Keep storage reads bounded so scrapes do not hang.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	counts := []struct {
		entity string
		count  func(context.Context) (int64, error)
	}{
		{"users", c.store.UserStorage().Count},
		{"products", c.store.ProductStorage().Count},
		{"categories", c.store.CategoryStorage().Count},
	}

	for _, e := range counts {
		n, err := e.count(ctx)
		if err != nil {
			c.logger.Warn("prometheus storage collector failed", "entity", e.entity, "err", err)
			continue
		}
		emitGauge(ch, c.entitiesDesc, float64(n), e.entity)
	}
}

func emitGauge(ch chan<- prometheus.Metric, desc *prometheus.Desc, v float64, labelValues ...string) {
	m, err := prometheus.NewConstMetric(desc, prometheus.GaugeValue, v, labelValues...)
	if err != nil {
		return
	}
	ch <- m
}

var registerStorageCollectorOnce sync.Once

func RegisterStorageCollector(store persistence.PluginPersistence, logger *slog.Logger) {
	registerStorageCollectorOnce.Do(func() {
		prometheus.MustRegister(newStorageCollector(store, logger))
	})
}
