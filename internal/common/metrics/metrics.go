package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeMounted       = "mounted"
	OutcomeTargetMissing = "target_missing"
	OutcomeRenderFailed  = "render_failed"

	StageReady = "ready"
	StageUser  = "user"
)

var (
	once sync.Once

	bootstrapTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webapp_bootstrap_total",
			Help: "Welcome screen bootstraps by outcome.",
		},
		[]string{"outcome", "authorized"},
	)

	bridgeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webapp_bridge_failures_total",
			Help: "Telegram bridge read failures by stage.",
		},
		[]string{"stage"},
	)

	pageCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webapp_page_cache_total",
			Help: "Anonymous page cache lookups by result.",
		},
		[]string{"result"},
	)
)

// MustRegister registers the collectors with the default registry exactly once.
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(bootstrapTotal, bridgeFailures, pageCache)
	})
}

func ObserveBootstrap(outcome string, authorized bool) {
	a := "false"
	if authorized {
		a = "true"
	}
	bootstrapTotal.WithLabelValues(outcome, a).Inc()
}

func ObserveBridgeFailure(stage string) {
	bridgeFailures.WithLabelValues(stage).Inc()
}

func ObservePageCache(hit bool) {
	if hit {
		pageCache.WithLabelValues("hit").Inc()
		return
	}
	pageCache.WithLabelValues("miss").Inc()
}
