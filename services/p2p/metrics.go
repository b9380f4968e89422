package p2p

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusP2PConnections      prometheus.Gauge
	prometheusP2PMessagesReceived *prometheus.CounterVec
	prometheusP2PMessagesSent     *prometheus.CounterVec
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusP2PConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "walletnode",
			Subsystem: "p2p",
			Name:      "connections",
			Help:      "Current number of peer connections",
		},
	)
	prometheusP2PMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walletnode",
			Subsystem: "p2p",
			Name:      "messages_received",
			Help:      "Number of gossip messages received, by topic",
		},
		[]string{"topic"},
	)
	prometheusP2PMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walletnode",
			Subsystem: "p2p",
			Name:      "messages_sent",
			Help:      "Number of gossip messages published, by topic",
		},
		[]string{"topic"},
	)
}
