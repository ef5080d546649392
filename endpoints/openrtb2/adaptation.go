package openrtb2

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/prebid/prebid-huaweiads/adapters"
	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/logger"
	"github.com/prebid/prebid-huaweiads/metrics"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

// NewAdaptationEndpoint serves POST /huaweiads/request. It runs request adaptation and returns
// the outbound call that would be sent to the HuaweiAds server, without sending it.
func NewAdaptationEndpoint(bidder adapters.Bidder, bidderName openrtb_ext.BidderName, validator openrtb_ext.BidderParamValidator, cfg *config.Configuration, metricsEngine metrics.MetricsEngine, uuidGenerator UUIDGenerator) (httprouter.Handle, error) {
	if bidder == nil || validator == nil || cfg == nil || metricsEngine == nil || uuidGenerator == nil {
		return nil, errors.New("NewAdaptationEndpoint requires non-nil arguments.")
	}

	endpoint := &adaptationEndpoint{
		endpointDeps: endpointDeps{
			bidderName:      bidderName,
			paramsValidator: validator,
			cfg:             cfg,
			metricsEngine:   metricsEngine,
			uuidGenerator:   uuidGenerator,
		},
		bidder: bidder,
	}
	return endpoint.Adapt, nil
}

type adaptationEndpoint struct {
	endpointDeps
	bidder adapters.Bidder
}

// adaptationResponse is the body of a successful preview.
type adaptationResponse struct {
	Method   string          `json:"method"`
	Uri      string          `json:"uri"`
	Headers  http.Header     `json:"headers"`
	Body     json.RawMessage `json:"body"`
	Warnings []errorMessage  `json:"warnings,omitempty"`
}

func (deps *adaptationEndpoint) Adapt(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start := time.Now()
	labels := metrics.Labels{
		RType:         metrics.ReqTypeAdaptation,
		RequestStatus: metrics.RequestStatusOK,
	}
	defer func() {
		deps.metricsEngine.RecordRequest(labels)
		deps.metricsEngine.RecordRequestTime(labels, time.Since(start))
	}()

	req, errs := deps.parseRequest(r)
	if len(errs) > 0 {
		labels.RequestStatus = metrics.RequestStatusBadInput
		writeBadRequest(w, errs)
		return
	}
	deps.recordImps(req)

	reqInfo := deps.newExtraRequestInfo()
	reqData, errs := deps.bidder.MakeRequests(req, &reqInfo)
	deps.recordAdaptationErrors(errs)

	if len(reqData) == 0 {
		labels.RequestStatus = metrics.RequestStatusBadInput
		fatal := errortypes.FatalOnly(errs)
		if len(fatal) == 0 {
			fatal = []error{&errortypes.FailedToRequestBids{Message: "request adaptation produced no outbound request"}}
		}
		logger.Debugf("request %s failed adaptation: %v", req.ID, fatal)
		writeBadRequest(w, fatal)
		return
	}

	outbound := reqData[0]
	writeJSON(w, http.StatusOK, adaptationResponse{
		Method:   outbound.Method,
		Uri:      outbound.Uri,
		Headers:  outbound.Headers,
		Body:     json.RawMessage(outbound.Body),
		Warnings: newErrorMessages(errortypes.WarningOnly(errs)),
	})
}
