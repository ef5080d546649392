package prometheusmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func preloadLabelValues(m *Metrics) {
	var (
		adaptationFailureValues = adaptationFailuresAsString()
		adapterErrorValues      = adapterErrorsAsString()
		adapterValues           = adaptersAsString()
		bidTypeValues           = bidTypesAsString()
		boolValues              = boolValuesAsString()
		connectionErrorValues   = []string{connectionAcceptError, connectionCloseError}
		markupDeliveryValues    = []string{markupDeliveryAdm, markupDeliveryNurl}
		requestStatusValues     = requestStatusesAsString()
		requestTypeValues       = requestTypesAsString()
	)

	preloadLabelValuesForCounter(m.connectionsError, map[string][]string{
		connectionErrorLabel: connectionErrorValues,
	})

	preloadLabelValuesForCounter(m.impressions, map[string][]string{
		isBannerLabel: boolValues,
		isVideoLabel:  boolValues,
		isAudioLabel:  boolValues,
		isNativeLabel: boolValues,
	})

	preloadLabelValuesForCounter(m.requests, map[string][]string{
		requestTypeLabel:   requestTypeValues,
		requestStatusLabel: requestStatusValues,
	})

	preloadLabelValuesForHistogram(m.requestsTimer, map[string][]string{
		requestTypeLabel: requestTypeValues,
	})

	preloadLabelValuesForCounter(m.adaptationFailures, map[string][]string{
		adaptationFailureLabel: adaptationFailureValues,
	})

	preloadLabelValuesForCounter(m.skippedImps, map[string][]string{
		adapterLabel: adapterValues,
	})

	preloadLabelValuesForCounter(m.adapterBids, map[string][]string{
		adapterLabel:        adapterValues,
		bidTypeLabel:        bidTypeValues,
		markupDeliveryLabel: markupDeliveryValues,
	})

	preloadLabelValuesForCounter(m.adapterErrors, map[string][]string{
		adapterLabel:      adapterValues,
		adapterErrorLabel: adapterErrorValues,
	})

	preloadLabelValuesForHistogram(m.adapterPrices, map[string][]string{
		adapterLabel: adapterValues,
	})

	preloadLabelValuesForCounter(m.adapterRequests, map[string][]string{
		adapterLabel: adapterValues,
		hasBidsLabel: boolValues,
	})

	preloadLabelValuesForHistogram(m.adapterRequestsTimer, map[string][]string{
		adapterLabel: adapterValues,
	})
}

func preloadLabelValuesForCounter(counter *prometheus.CounterVec, labelsWithValues map[string][]string) {
	registerLabelPermutations(labelsWithValues, func(labels prometheus.Labels) {
		counter.With(labels)
	})
}

func preloadLabelValuesForHistogram(histogram *prometheus.HistogramVec, labelsWithValues map[string][]string) {
	registerLabelPermutations(labelsWithValues, func(labels prometheus.Labels) {
		histogram.With(labels)
	})
}

func registerLabelPermutations(labelsWithValues map[string][]string, register func(prometheus.Labels)) {
	if len(labelsWithValues) == 0 {
		return
	}

	keys := make([]string, 0, len(labelsWithValues))
	values := make([][]string, 0, len(labelsWithValues))
	for k, v := range labelsWithValues {
		keys = append(keys, k)
		values = append(values, v)
	}

	labelPermutations := generateLabelPermutations(keys, values, prometheus.Labels{})
	for _, labels := range labelPermutations {
		register(labels)
	}
}

func generateLabelPermutations(keys []string, values [][]string, labels prometheus.Labels) []prometheus.Labels {
	if len(keys) == 0 {
		return []prometheus.Labels{labels}
	}

	var permutations []prometheus.Labels
	for _, value := range values[0] {
		next := prometheus.Labels{}
		for k, v := range labels {
			next[k] = v
		}
		next[keys[0]] = value
		permutations = append(permutations, generateLabelPermutations(keys[1:], values[1:], next)...)
	}
	return permutations
}
