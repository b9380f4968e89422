package rpc

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusRPCCalls  *prometheus.CounterVec
	prometheusRPCErrors *prometheus.CounterVec
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusRPCCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walletnode",
			Subsystem: "rpc",
			Name:      "calls",
			Help:      "Number of daemon RPC calls, by method",
		},
		[]string{"method"},
	)
	prometheusRPCErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walletnode",
			Subsystem: "rpc",
			Name:      "errors",
			Help:      "Number of failed daemon RPC calls, by method",
		},
		[]string{"method"},
	)
}
