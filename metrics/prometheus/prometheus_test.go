package prometheusmetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"

	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/metrics"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

func createMetricsForTesting() *Metrics {
	return NewMetrics(config.PrometheusMetrics{
		Port:      8080,
		Namespace: "prebid",
		Subsystem: "server",
	})
}

func TestMetricCountGatekeeping(t *testing.T) {
	m := createMetricsForTesting()

	metricFamilies, err := m.Registry.Gather()
	assert.NoError(t, err, "gather metics")

	var series int
	for _, family := range metricFamilies {
		series += len(family.GetMetric())
	}
	assert.Greater(t, series, 0)
	assert.LessOrEqual(t, series, 300)
}

func TestConnectionMetrics(t *testing.T) {
	m := createMetricsForTesting()

	m.RecordConnectionAccept(true)
	m.RecordConnectionAccept(false)
	m.RecordConnectionClose(true)
	m.RecordConnectionClose(false)
	m.RecordConnectionClose(false)

	assertCounterValue(t, "opened", m.connectionsOpened, 1)
	assertCounterValue(t, "closed", m.connectionsClosed, 1)
	assertCounterVecValue(t, "accept error", m.connectionsError, 1, prometheus.Labels{
		connectionErrorLabel: connectionAcceptError,
	})
	assertCounterVecValue(t, "close error", m.connectionsError, 2, prometheus.Labels{
		connectionErrorLabel: connectionCloseError,
	})
}

func TestRecordRequest(t *testing.T) {
	m := createMetricsForTesting()

	m.RecordRequest(metrics.Labels{RType: metrics.ReqTypeAdaptation, RequestStatus: metrics.RequestStatusBadInput})
	m.RecordRequest(metrics.Labels{RType: metrics.ReqTypeAdaptation, RequestStatus: metrics.RequestStatusBadInput})
	m.RecordRequest(metrics.Labels{RType: metrics.ReqTypeAuction, RequestStatus: metrics.RequestStatusOK})

	assertCounterVecValue(t, "adaptation badinput", m.requests, 2, prometheus.Labels{
		requestTypeLabel:   string(metrics.ReqTypeAdaptation),
		requestStatusLabel: string(metrics.RequestStatusBadInput),
	})
	assertCounterVecValue(t, "auction ok", m.requests, 1, prometheus.Labels{
		requestTypeLabel:   string(metrics.ReqTypeAuction),
		requestStatusLabel: string(metrics.RequestStatusOK),
	})
}

func TestRecordRequestTime(t *testing.T) {
	testCases := []struct {
		description   string
		status        metrics.RequestStatus
		expectedCount uint64
		expectedSum   float64
	}{
		{
			description:   "Success",
			status:        metrics.RequestStatusOK,
			expectedCount: 1,
			expectedSum:   0.5,
		},
		{
			description:   "Failure is not timed",
			status:        metrics.RequestStatusErr,
			expectedCount: 0,
			expectedSum:   0,
		},
	}

	for _, test := range testCases {
		m := createMetricsForTesting()
		labels := metrics.Labels{RType: metrics.ReqTypeAuction, RequestStatus: test.status}

		m.RecordRequestTime(labels, 500*time.Millisecond)

		result := getHistogramFromHistogramVec(m.requestsTimer, requestTypeLabel, string(metrics.ReqTypeAuction))
		assert.Equal(t, test.expectedCount, result.GetSampleCount(), test.description)
		assert.Equal(t, test.expectedSum, result.GetSampleSum(), test.description)
	}
}

func TestRecordImps(t *testing.T) {
	m := createMetricsForTesting()

	m.RecordImps(metrics.ImpLabels{BannerImps: true, VideoImps: true})

	assertCounterVecValue(t, "banner and video", m.impressions, 1, prometheus.Labels{
		isBannerLabel: "true",
		isVideoLabel:  "true",
		isAudioLabel:  "false",
		isNativeLabel: "false",
	})
}

func TestRecordAdaptationFailure(t *testing.T) {
	m := createMetricsForTesting()

	m.RecordAdaptationFailure(metrics.AdaptationMissingDeviceIdentifier)
	m.RecordAdaptationFailure(metrics.AdaptationMissingDeviceIdentifier)
	m.RecordAdaptationFailure(metrics.AdaptationUnsupportedMediaType)

	assertCounterVecValue(t, "missing device id", m.adaptationFailures, 2, prometheus.Labels{
		adaptationFailureLabel: string(metrics.AdaptationMissingDeviceIdentifier),
	})
	assertCounterVecValue(t, "unsupported media", m.adaptationFailures, 1, prometheus.Labels{
		adaptationFailureLabel: string(metrics.AdaptationUnsupportedMediaType),
	})
}

func TestRecordSkippedImps(t *testing.T) {
	m := createMetricsForTesting()

	m.RecordSkippedImps(openrtb_ext.BidderHuaweiAds, 3)
	m.RecordSkippedImps(openrtb_ext.BidderHuaweiAds, 0)

	assertCounterVecValue(t, "skipped", m.skippedImps, 3, prometheus.Labels{
		adapterLabel: string(openrtb_ext.BidderHuaweiAds),
	})
}

func TestRecordAdapterRequest(t *testing.T) {
	m := createMetricsForTesting()
	adapterName := openrtb_ext.BidderHuaweiAds

	m.RecordAdapterRequest(metrics.AdapterLabels{
		Adapter:     adapterName,
		AdapterBids: metrics.AdapterBidNone,
		AdapterErrors: map[metrics.AdapterError]struct{}{
			metrics.AdapterErrorBadServerResponse: {},
			metrics.AdapterErrorAdaptation:        {},
		},
	})
	m.RecordAdapterRequest(metrics.AdapterLabels{
		Adapter:     adapterName,
		AdapterBids: metrics.AdapterBidPresent,
	})

	assertCounterVecValue(t, "no bids", m.adapterRequests, 1, prometheus.Labels{
		adapterLabel: string(adapterName),
		hasBidsLabel: "false",
	})
	assertCounterVecValue(t, "has bids", m.adapterRequests, 1, prometheus.Labels{
		adapterLabel: string(adapterName),
		hasBidsLabel: "true",
	})
	assertCounterVecValue(t, "bad server response", m.adapterErrors, 1, prometheus.Labels{
		adapterLabel:      string(adapterName),
		adapterErrorLabel: string(metrics.AdapterErrorBadServerResponse),
	})
	assertCounterVecValue(t, "adaptation", m.adapterErrors, 1, prometheus.Labels{
		adapterLabel:      string(adapterName),
		adapterErrorLabel: string(metrics.AdapterErrorAdaptation),
	})
	assertCounterVecValue(t, "timeout", m.adapterErrors, 0, prometheus.Labels{
		adapterLabel:      string(adapterName),
		adapterErrorLabel: string(metrics.AdapterErrorTimeout),
	})
}

func TestRecordAdapterBidReceived(t *testing.T) {
	m := createMetricsForTesting()
	labels := metrics.AdapterLabels{Adapter: openrtb_ext.BidderHuaweiAds}

	m.RecordAdapterBidReceived(labels, openrtb_ext.BidTypeVideo, true)
	m.RecordAdapterBidReceived(labels, openrtb_ext.BidTypeBanner, false)

	assertCounterVecValue(t, "video adm", m.adapterBids, 1, prometheus.Labels{
		adapterLabel:        string(openrtb_ext.BidderHuaweiAds),
		bidTypeLabel:        string(openrtb_ext.BidTypeVideo),
		markupDeliveryLabel: markupDeliveryAdm,
	})
	assertCounterVecValue(t, "banner nurl", m.adapterBids, 1, prometheus.Labels{
		adapterLabel:        string(openrtb_ext.BidderHuaweiAds),
		bidTypeLabel:        string(openrtb_ext.BidTypeBanner),
		markupDeliveryLabel: markupDeliveryNurl,
	})
}

func TestRecordAdapterPriceAndTime(t *testing.T) {
	m := createMetricsForTesting()
	adapterName := string(openrtb_ext.BidderHuaweiAds)

	m.RecordAdapterPrice(metrics.AdapterLabels{Adapter: openrtb_ext.BidderHuaweiAds}, 1000)
	m.RecordAdapterTime(metrics.AdapterLabels{Adapter: openrtb_ext.BidderHuaweiAds}, 250*time.Millisecond)
	m.RecordAdapterTime(metrics.AdapterLabels{
		Adapter:       openrtb_ext.BidderHuaweiAds,
		AdapterErrors: map[metrics.AdapterError]struct{}{metrics.AdapterErrorTimeout: {}},
	}, time.Second)

	prices := getHistogramFromHistogramVec(m.adapterPrices, adapterLabel, adapterName)
	assert.Equal(t, uint64(1), prices.GetSampleCount())
	assert.Equal(t, float64(1000), prices.GetSampleSum())

	timer := getHistogramFromHistogramVec(m.adapterRequestsTimer, adapterLabel, adapterName)
	assert.Equal(t, uint64(1), timer.GetSampleCount())
	assert.Equal(t, 0.25, timer.GetSampleSum())
}

func assertCounterValue(t *testing.T, description string, counter prometheus.Counter, expected float64) {
	m := dto.Metric{}
	counter.Write(&m)
	actual := *m.GetCounter().Value

	assert.Equal(t, expected, actual, description)
}

func assertCounterVecValue(t *testing.T, description string, counterVec *prometheus.CounterVec, expected float64, labels prometheus.Labels) {
	counter := counterVec.With(labels)
	assertCounterValue(t, description, counter, expected)
}

func getHistogramFromHistogramVec(histogram *prometheus.HistogramVec, labelKey, labelValue string) *dto.Histogram {
	var result *dto.Histogram
	processMetrics(histogram, func(m *dto.Metric) {
		for _, label := range m.GetLabel() {
			if label.GetName() == labelKey && label.GetValue() == labelValue {
				result = m.GetHistogram()
			}
		}
	})
	return result
}

func processMetrics(collector prometheus.Collector, handler func(m *dto.Metric)) {
	collectorChan := make(chan prometheus.Metric)
	go func() {
		collector.Collect(collectorChan)
		close(collectorChan)
	}()

	for metric := range collectorChan {
		dtoMetric := &dto.Metric{}
		metric.Write(dtoMetric)
		handler(dtoMetric)
	}
}
