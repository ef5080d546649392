package config

import (
	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/metrics"
	prometheusmetrics "github.com/prebid/prebid-huaweiads/metrics/prometheus"
)

// DetailedMetricsEngine bundles the engine handed to the request path with the
// Prometheus backend, if one was configured.
type DetailedMetricsEngine struct {
	metrics.MetricsEngine
	PrometheusMetrics *prometheusmetrics.Metrics
}

// NewMetricsEngine reads the configuration and returns the appropriate metrics engine.
func NewMetricsEngine(cfg *config.Configuration) *DetailedMetricsEngine {
	if cfg.Metrics.Prometheus.Port == 0 {
		return &DetailedMetricsEngine{
			MetricsEngine: &metrics.NilMetricsEngine{},
		}
	}

	promMetrics := prometheusmetrics.NewMetrics(cfg.Metrics.Prometheus)
	return &DetailedMetricsEngine{
		MetricsEngine:     promMetrics,
		PrometheusMetrics: promMetrics,
	}
}
