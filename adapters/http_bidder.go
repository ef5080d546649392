package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/golang/glog"
	"github.com/mxmCherry/openrtb/v15/openrtb2"
	"golang.org/x/net/context/ctxhttp"

	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

// HttpCall captures one round trip with the bidder's server, for debug output.
type HttpCall struct {
	Uri          string `json:"uri"`
	RequestBody  string `json:"requestbody"`
	ResponseBody string `json:"responsebody,omitempty"`
	Status       int    `json:"status,omitempty"`
}

// SeatBid is the result of running a Bidder end to end.
type SeatBid struct {
	Bids      []*TypedBid
	Currency  string
	HttpCalls []*HttpCall
}

// AdaptedBidder runs a Bidder's requests over HTTP and feeds the responses back into MakeBids.
type AdaptedBidder interface {
	RequestBid(ctx context.Context, request *openrtb2.BidRequest, reqInfo *ExtraRequestInfo, debug bool) (*SeatBid, []error)
}

// AdaptBidder bridges the APIs between a Bidder and an AdaptedBidder.
func AdaptBidder(bidder Bidder, client *http.Client, name openrtb_ext.BidderName) AdaptedBidder {
	return &bidderAdapter{
		Bidder:     bidder,
		BidderName: name,
		Client:     client,
	}
}

type bidderAdapter struct {
	Bidder     Bidder
	BidderName openrtb_ext.BidderName
	Client     *http.Client
}

func (bidder *bidderAdapter) RequestBid(ctx context.Context, request *openrtb2.BidRequest, reqInfo *ExtraRequestInfo, debug bool) (*SeatBid, []error) {
	reqData, errs := bidder.Bidder.MakeRequests(request, reqInfo)

	if len(reqData) == 0 {
		// If the adapter failed to generate both requests and errors, this is an error.
		if len(errs) == 0 {
			errs = append(errs, &errortypes.FailedToRequestBids{Message: "The adapter failed to generate any bid requests, but also failed to generate an error explaining why"})
		}
		return nil, errs
	}

	// Make any HTTP requests in parallel.
	// If the bidder only needs to make one, save some cycles by just using the current one.
	responseChannel := make(chan *httpCallInfo, len(reqData))
	if len(reqData) == 1 {
		responseChannel <- bidder.doRequest(ctx, reqData[0])
	} else {
		for _, oneReqData := range reqData {
			go func(data *RequestData) {
				responseChannel <- bidder.doRequest(ctx, data)
			}(oneReqData)
		}
	}

	seatBid := &SeatBid{
		Bids:      make([]*TypedBid, 0, len(reqData)),
		Currency:  "USD",
		HttpCalls: make([]*HttpCall, 0, len(reqData)),
	}

	// If the bidder made multiple requests, we still want them to enter as many bids as possible...
	// even if the timeout occurs sometime halfway through.
	for i := 0; i < len(reqData); i++ {
		httpInfo := <-responseChannel
		if debug {
			seatBid.HttpCalls = append(seatBid.HttpCalls, makeExt(httpInfo))
		}

		if httpInfo.err != nil {
			errs = append(errs, httpInfo.err)
			continue
		}

		bidResponse, moreErrs := bidder.Bidder.MakeBids(request, httpInfo.request, httpInfo.response)
		errs = append(errs, moreErrs...)
		if bidResponse == nil {
			continue
		}
		if bidResponse.Currency != "" {
			seatBid.Currency = bidResponse.Currency
		}
		for _, bid := range bidResponse.Bids {
			if bid != nil && bid.Bid != nil {
				seatBid.Bids = append(seatBid.Bids, bid)
			}
		}
	}

	return seatBid, errs
}

// makeExt transforms information about the HTTP call into the contract class for the debug response.
func makeExt(httpInfo *httpCallInfo) *HttpCall {
	ext := &HttpCall{}
	if httpInfo.request != nil {
		ext.Uri = httpInfo.request.Uri
		ext.RequestBody = string(httpInfo.request.Body)
	}
	if httpInfo.err == nil && httpInfo.response != nil {
		ext.ResponseBody = string(httpInfo.response.Body)
		ext.Status = httpInfo.response.StatusCode
	}
	return ext
}

// doRequest makes a request, handles the response, and returns the data needed by the
// Bidder interface.
func (bidder *bidderAdapter) doRequest(ctx context.Context, req *RequestData) *httpCallInfo {
	httpReq, err := http.NewRequest(req.Method, req.Uri, bytes.NewBuffer(req.Body))
	if err != nil {
		return &httpCallInfo{
			request: req,
			err:     err,
		}
	}
	httpReq.Header = req.Headers

	httpResp, err := ctxhttp.Do(ctx, bidder.Client, httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = &errortypes.Timeout{Message: err.Error()}
		}
		return &httpCallInfo{
			request: req,
			err:     err,
		}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &httpCallInfo{
			request: req,
			err:     err,
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 400 {
		glog.V(2).Infof("%s responded with status %d", bidder.BidderName, httpResp.StatusCode)
		err = &errortypes.BadServerResponse{
			Message: fmt.Sprintf("Server responded with failure status: %d. Set request.test = 1 for debugging info.", httpResp.StatusCode),
		}
	}

	return &httpCallInfo{
		request: req,
		response: &ResponseData{
			StatusCode: httpResp.StatusCode,
			Body:       respBody,
			Headers:    httpResp.Header,
		},
		err: err,
	}
}

type httpCallInfo struct {
	request  *RequestData
	response *ResponseData
	err      error
}
