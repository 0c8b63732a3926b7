package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ArticleWrites counts successful article mutations by operation.
	ArticleWrites *prometheus.CounterVec
	// ValidationFailures counts rejected article writes and filter requests by reason.
	ValidationFailures *prometheus.CounterVec
	// CacheEvents counts read-cache hits, misses and invalidations.
	CacheEvents *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ArticleWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_writes_total",
			Help:      "Count of persisted article mutations by operation.",
		}, []string{"op"})
		ValidationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Count of rejected requests by validation reason.",
		}, []string{"reason"})
		CacheEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Count of article list cache events.",
		}, []string{"event"})

		mustRegisterCollector(reg, ArticleWrites, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ArticleWrites = v
			}
		})
		mustRegisterCollector(reg, ValidationFailures, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ValidationFailures = v
			}
		})
		mustRegisterCollector(reg, CacheEvents, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CacheEvents = v
			}
		})
	})
}
