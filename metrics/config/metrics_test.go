package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/metrics"
)

func TestNilMetricsEngineWithoutPrometheusPort(t *testing.T) {
	cfg := &config.Configuration{}

	engine := NewMetricsEngine(cfg)

	assert.IsType(t, &metrics.NilMetricsEngine{}, engine.MetricsEngine)
	assert.Nil(t, engine.PrometheusMetrics)
}

func TestPrometheusEngine(t *testing.T) {
	cfg := &config.Configuration{}
	cfg.Metrics.Prometheus.Port = 9090
	cfg.Metrics.Prometheus.Namespace = "prebid"

	engine := NewMetricsEngine(cfg)

	if assert.NotNil(t, engine.PrometheusMetrics) {
		assert.Same(t, engine.PrometheusMetrics, engine.MetricsEngine)
	}
}
