package openrtb2

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/mxmCherry/openrtb/v15/openrtb2"

	"github.com/prebid/prebid-huaweiads/adapters"
	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/logger"
	"github.com/prebid/prebid-huaweiads/metrics"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

// NewEndpoint serves POST /openrtb2/auction against a single adapted bidder.
func NewEndpoint(bidder adapters.AdaptedBidder, bidderName openrtb_ext.BidderName, validator openrtb_ext.BidderParamValidator, cfg *config.Configuration, metricsEngine metrics.MetricsEngine, uuidGenerator UUIDGenerator) (httprouter.Handle, error) {
	if bidder == nil || validator == nil || cfg == nil || metricsEngine == nil || uuidGenerator == nil {
		return nil, errors.New("NewEndpoint requires non-nil arguments.")
	}

	endpoint := &auctionEndpoint{
		endpointDeps: endpointDeps{
			bidderName:      bidderName,
			paramsValidator: validator,
			cfg:             cfg,
			metricsEngine:   metricsEngine,
			uuidGenerator:   uuidGenerator,
		},
		bidder: bidder,
	}
	return endpoint.Auction, nil
}

type auctionEndpoint struct {
	endpointDeps
	bidder adapters.AdaptedBidder
}

type extBidResponse struct {
	Errors   map[openrtb_ext.BidderName][]errorMessage `json:"errors,omitempty"`
	Warnings map[openrtb_ext.BidderName][]errorMessage `json:"warnings,omitempty"`
	Debug    *extResponseDebug                         `json:"debug,omitempty"`
}

type extResponseDebug struct {
	HttpCalls map[openrtb_ext.BidderName][]*adapters.HttpCall `json:"httpcalls,omitempty"`
}

func (deps *auctionEndpoint) Auction(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start := time.Now()
	labels := metrics.Labels{
		RType:         metrics.ReqTypeAuction,
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

	ctx, cancel := deps.auctionContext(r.Context(), req)
	defer cancel()

	reqInfo := deps.newExtraRequestInfo()
	debug := req.Test == 1
	bidderStart := time.Now()
	seatBid, errs := deps.bidder.RequestBid(ctx, req, &reqInfo, debug)
	deps.recordAdaptationErrors(errs)
	deps.recordAdapter(seatBid, errs, time.Since(bidderStart))

	fatal := errortypes.FatalOnly(errs)
	if !hasBids(seatBid) && containsInputError(fatal) {
		labels.RequestStatus = metrics.RequestStatusBadInput
		logger.Debugf("request %s rejected by %s: %v", req.ID, deps.bidderName, fatal)
		writeBadRequest(w, fatal)
		return
	}

	response, err := deps.buildBidResponse(req, seatBid, errs, debug)
	if err != nil {
		labels.RequestStatus = metrics.RequestStatusErr
		logger.Errorf("Failed to build the auction response for request %s: %v", req.ID, err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Critical error while running the auction: " + err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// auctionContext bounds the outbound call by request.tmax, or the configured default when tmax is unset.
func (deps *auctionEndpoint) auctionContext(parent context.Context, req *openrtb2.BidRequest) (context.Context, context.CancelFunc) {
	timeout := deps.cfg.AuctionTimeout()
	if req.TMax > 0 {
		timeout = time.Duration(req.TMax) * time.Millisecond
	}
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func (deps *auctionEndpoint) recordAdapter(seatBid *adapters.SeatBid, errs []error, length time.Duration) {
	adapterLabels := metrics.AdapterLabels{
		Adapter:     deps.bidderName,
		AdapterBids: metrics.AdapterBidNone,
	}
	if hasBids(seatBid) {
		adapterLabels.AdapterBids = metrics.AdapterBidPresent
	}

	fatal := errortypes.FatalOnly(errs)
	if len(fatal) > 0 {
		adapterLabels.AdapterErrors = make(map[metrics.AdapterError]struct{}, len(fatal))
		for _, err := range fatal {
			adapterLabels.AdapterErrors[metrics.AdapterErrorOf(err)] = struct{}{}
		}
	}

	deps.metricsEngine.RecordAdapterRequest(adapterLabels)
	deps.metricsEngine.RecordAdapterTime(adapterLabels, length)

	if seatBid == nil {
		return
	}
	for _, typedBid := range seatBid.Bids {
		deps.metricsEngine.RecordAdapterBidReceived(adapterLabels, typedBid.BidType, typedBid.Bid.AdM != "")
		deps.metricsEngine.RecordAdapterPrice(adapterLabels, typedBid.Bid.Price)
	}
}

func (deps *auctionEndpoint) buildBidResponse(req *openrtb2.BidRequest, seatBid *adapters.SeatBid, errs []error, debug bool) (*openrtb2.BidResponse, error) {
	response := &openrtb2.BidResponse{
		ID: req.ID,
	}

	if hasBids(seatBid) {
		bids := make([]openrtb2.Bid, 0, len(seatBid.Bids))
		for _, typedBid := range seatBid.Bids {
			bid := *typedBid.Bid
			bidExt, err := json.Marshal(openrtb_ext.ExtBid{
				Prebid: &openrtb_ext.ExtBidPrebid{Type: typedBid.BidType},
			})
			if err != nil {
				return nil, err
			}
			bid.Ext = bidExt
			bids = append(bids, bid)
		}
		response.Cur = seatBid.Currency
		response.SeatBid = []openrtb2.SeatBid{{
			Seat: string(deps.bidderName),
			Bid:  bids,
		}}
	}

	ext := extBidResponse{}
	if fatal := newErrorMessages(errortypes.FatalOnly(errs)); len(fatal) > 0 {
		ext.Errors = map[openrtb_ext.BidderName][]errorMessage{deps.bidderName: fatal}
	}
	if warnings := newErrorMessages(errortypes.WarningOnly(errs)); len(warnings) > 0 {
		ext.Warnings = map[openrtb_ext.BidderName][]errorMessage{deps.bidderName: warnings}
	}
	if debug && seatBid != nil && len(seatBid.HttpCalls) > 0 {
		ext.Debug = &extResponseDebug{
			HttpCalls: map[openrtb_ext.BidderName][]*adapters.HttpCall{deps.bidderName: seatBid.HttpCalls},
		}
	}

	if ext.Errors != nil || ext.Warnings != nil || ext.Debug != nil {
		extJson, err := json.Marshal(ext)
		if err != nil {
			return nil, err
		}
		response.Ext = extJson
	}
	return response, nil
}

func hasBids(seatBid *adapters.SeatBid) bool {
	return seatBid != nil && len(seatBid.Bids) > 0
}

func containsInputError(errs []error) bool {
	for _, err := range errs {
		if isInputError(err) {
			return true
		}
	}
	return false
}
