package metrics

import (
	"time"

	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

// NilMetricsEngine implements MetricsEngine and discards everything.
// The server code can use this if it doesn't want to export metrics anywhere.
type NilMetricsEngine struct{}

func (me *NilMetricsEngine) RecordConnectionAccept(success bool) {}

func (me *NilMetricsEngine) RecordConnectionClose(success bool) {}

func (me *NilMetricsEngine) RecordRequest(labels Labels) {}

func (me *NilMetricsEngine) RecordRequestTime(labels Labels, length time.Duration) {}

func (me *NilMetricsEngine) RecordImps(labels ImpLabels) {}

func (me *NilMetricsEngine) RecordAdaptationFailure(failure AdaptationFailure) {}

func (me *NilMetricsEngine) RecordSkippedImps(adapter openrtb_ext.BidderName, count int) {}

func (me *NilMetricsEngine) RecordAdapterRequest(labels AdapterLabels) {}

func (me *NilMetricsEngine) RecordAdapterTime(labels AdapterLabels, length time.Duration) {}

func (me *NilMetricsEngine) RecordAdapterBidReceived(labels AdapterLabels, bidType openrtb_ext.BidType, hasAdm bool) {
}

func (me *NilMetricsEngine) RecordAdapterPrice(labels AdapterLabels, cpm float64) {}
