package adapters

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mxmCherry/openrtb/v15/openrtb2"

	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

// Bidder describes how to connect to external demand.
type Bidder interface {
	// MakeRequests makes the HTTP requests which should be made to fetch bids.
	//
	// Bidder implementations can assume that the incoming BidRequest has Imp.Ext of the form
	// {"bidder": params}, where params have been validated against the static/bidder-params/{bidder}.json JSON Schema.
	//
	// nil return values are acceptable, but nil elements *inside* those slices are not.
	//
	// The errors should contain a list of errors which explain why this bidder's bids will be
	// "subpar" in some way. For example: the request contained ad types which this bidder doesn't support.
	//
	// If the error is caused by bad user input, return an errortypes.BadInput (or one of the
	// adaptation errors in errortypes).
	MakeRequests(request *openrtb2.BidRequest, reqInfo *ExtraRequestInfo) ([]*RequestData, []error)

	// MakeBids unpacks the server's response into Bids.
	//
	// The bids can be nil (for no bids), but should not contain nil elements.
	//
	// The errors should contain a list of errors which explain why this bidder's bids will be
	// "subpar" in some way. For example: the server response didn't have the expected format.
	//
	// If the error was caused by bad user input, return a errortypes.BadInput.
	// If the error was caused by a bad server response, return a errortypes.BadServerResponse
	MakeBids(internalRequest *openrtb2.BidRequest, externalRequest *RequestData, response *ResponseData) (*BidderResponse, []error)
}

// TypedBid packages the openrtb2.Bid with any bidder-specific information that PBS needs to populate an
// openrtb_ext.ExtBidPrebid.
//
// TypedBid.BidType will become "response.seatbid[i].bid.ext.prebid.type" in the final auction response.
type TypedBid struct {
	Bid     *openrtb2.Bid
	BidType openrtb_ext.BidType
}

// BidderResponse wraps the server's response with the list of bids and the currency used by the bidder.
//
// Currency declaration is not mandatory but helps to detect an eventual currency mismatch issue.
// From the bid response, the bidder accepts a list of valid currencies for the bid.
// The currency is the same across all bids.
type BidderResponse struct {
	Currency string
	Bids     []*TypedBid
}

// NewBidderResponseWithBidsCapacity create a new BidderResponse initialising the bids array capacity and the default currency value
// to "USD".
//
// bidsCapacity allows to set initial Bids array capacity.
// By default, currency is USD but this behavior might be subject to change.
func NewBidderResponseWithBidsCapacity(bidsCapacity int) *BidderResponse {
	return &BidderResponse{
		Currency: "USD",
		Bids:     make([]*TypedBid, 0, bidsCapacity),
	}
}

// NewBidderResponse create a new BidderResponse initialising the bids array and the default currency value
// to "USD".
//
// By default, Bids capacity will be set to 0.
// By default, currency is USD but this behavior might be subject to change.
func NewBidderResponse() *BidderResponse {
	return NewBidderResponseWithBidsCapacity(0)
}

// RequestData is one outbound call. The adaptation preview endpoint returns it as is.
type RequestData struct {
	Method  string
	Uri     string
	Body    []byte
	Headers http.Header
}

// ResponseData packages together information from the server's http.Response.
type ResponseData struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// ExtImpBidder can be used by Bidders to unmarshal any request.imp[i].ext.
type ExtImpBidder struct {
	// Bidder contains the bidder-specific extension.
	// Bidders should unmarshal this using their corresponding openrtb_ext.ExtImp{Bidder} struct.
	Bidder json.RawMessage `json:"bidder"`
}

// ExtraRequestInfo carries call-scoped values which do not belong on the bid request.
type ExtraRequestInfo struct {
	// RequestTime is the moment the auction started. Bidders which need a clock
	// (for example to sign a request) should use it instead of time.Now.
	RequestTime time.Time
}

// NewExtraRequestInfo builds an ExtraRequestInfo stamped with the given time.
func NewExtraRequestInfo(requestTime time.Time) ExtraRequestInfo {
	return ExtraRequestInfo{
		RequestTime: requestTime,
	}
}

// Now returns RequestTime, or the wall clock when RequestTime was never set.
func (info *ExtraRequestInfo) Now() time.Time {
	if info == nil || info.RequestTime.IsZero() {
		return time.Now()
	}
	return info.RequestTime
}
