package node

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusNodeLocalHeight prometheus.Gauge
	prometheusNodeKnownHeight prometheus.Gauge
	prometheusNodePeerCount   prometheus.Gauge
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusNodeLocalHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "walletnode",
			Subsystem: "node",
			Name:      "local_height",
			Help:      "Last local block height",
		},
	)
	prometheusNodeKnownHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "walletnode",
			Subsystem: "node",
			Name:      "known_height",
			Help:      "Last known network block height",
		},
	)
	prometheusNodePeerCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "walletnode",
			Subsystem: "node",
			Name:      "peer_count",
			Help:      "Current number of connected peers",
		},
	)
}
