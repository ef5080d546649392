package metrics

import (
	"errors"
	"time"

	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

// Labels defines the labels that can be attached to the inbound request metrics.
type Labels struct {
	RType         RequestType
	RequestStatus RequestStatus
}

// AdapterLabels defines the labels that can be attached to the adapter metrics.
type AdapterLabels struct {
	Adapter       openrtb_ext.BidderName
	AdapterBids   AdapterBid
	AdapterErrors map[AdapterError]struct{}
}

// ImpLabels defines metric labels describing the impression type.
type ImpLabels struct {
	BannerImps bool
	VideoImps  bool
	AudioImps  bool
	NativeImps bool
}

// RequestType : Request type enumeration
type RequestType string

const (
	ReqTypeAdaptation RequestType = "adaptation"
	ReqTypeAuction    RequestType = "auction"
)

func RequestTypes() []RequestType {
	return []RequestType{
		ReqTypeAdaptation,
		ReqTypeAuction,
	}
}

// RequestStatus : The request return status
type RequestStatus string

const (
	RequestStatusOK       RequestStatus = "ok"
	RequestStatusBadInput RequestStatus = "badinput"
	RequestStatusErr      RequestStatus = "err"
)

func RequestStatuses() []RequestStatus {
	return []RequestStatus{
		RequestStatusOK,
		RequestStatusBadInput,
		RequestStatusErr,
	}
}

// AdapterBid : Whether or not the adapter returned bids
type AdapterBid string

const (
	AdapterBidPresent AdapterBid = "bid"
	AdapterBidNone    AdapterBid = "nobid"
)

func AdapterBids() []AdapterBid {
	return []AdapterBid{
		AdapterBidPresent,
		AdapterBidNone,
	}
}

// AdapterError : Errors which may have occurred during the adapter's execution
type AdapterError string

const (
	AdapterErrorBadInput            AdapterError = "badinput"
	AdapterErrorBadServerResponse   AdapterError = "badserverresponse"
	AdapterErrorTimeout             AdapterError = "timeout"
	AdapterErrorFailedToRequestBids AdapterError = "failedtorequestbid"
	AdapterErrorAdaptation          AdapterError = "adaptation"
	AdapterErrorUnknown             AdapterError = "unknown_error"
)

func AdapterErrors() []AdapterError {
	return []AdapterError{
		AdapterErrorBadInput,
		AdapterErrorBadServerResponse,
		AdapterErrorTimeout,
		AdapterErrorFailedToRequestBids,
		AdapterErrorAdaptation,
		AdapterErrorUnknown,
	}
}

// AdaptationFailure names the kind of a failed request adaptation.
type AdaptationFailure string

const (
	AdaptationMalformedExtension      AdaptationFailure = "malformed_extension"
	AdaptationMissingRequiredField    AdaptationFailure = "missing_required_field"
	AdaptationUnsupportedMediaType    AdaptationFailure = "unsupported_media_type"
	AdaptationInconsistentMediaType   AdaptationFailure = "inconsistent_media_type"
	AdaptationMalformedNativePayload  AdaptationFailure = "malformed_native_payload"
	AdaptationMissingDeviceIdentifier AdaptationFailure = "missing_device_identifier"
	AdaptationOther                   AdaptationFailure = "other"
)

func AdaptationFailures() []AdaptationFailure {
	return []AdaptationFailure{
		AdaptationMalformedExtension,
		AdaptationMissingRequiredField,
		AdaptationUnsupportedMediaType,
		AdaptationInconsistentMediaType,
		AdaptationMalformedNativePayload,
		AdaptationMissingDeviceIdentifier,
		AdaptationOther,
	}
}

var adaptationFailureByCode = map[int]AdaptationFailure{
	errortypes.MalformedExtensionErrorCode:      AdaptationMalformedExtension,
	errortypes.MissingRequiredFieldErrorCode:    AdaptationMissingRequiredField,
	errortypes.UnsupportedMediaTypeErrorCode:    AdaptationUnsupportedMediaType,
	errortypes.InconsistentMediaTypeErrorCode:   AdaptationInconsistentMediaType,
	errortypes.MalformedNativePayloadErrorCode:  AdaptationMalformedNativePayload,
	errortypes.MissingDeviceIdentifierErrorCode: AdaptationMissingDeviceIdentifier,
}

// AdaptationFailureOf classifies err. The second result is false when err isn't an adaptation failure.
func AdaptationFailureOf(err error) (AdaptationFailure, bool) {
	var coder errortypes.Coder
	if !errors.As(err, &coder) {
		return AdaptationOther, false
	}
	failure, ok := adaptationFailureByCode[coder.Code()]
	if !ok {
		return AdaptationOther, false
	}
	return failure, true
}

// AdapterErrorOf maps an error returned by a bidder to its metric label.
func AdapterErrorOf(err error) AdapterError {
	if _, ok := AdaptationFailureOf(err); ok {
		return AdapterErrorAdaptation
	}
	var coder errortypes.Coder
	if !errors.As(err, &coder) {
		return AdapterErrorUnknown
	}
	switch coder.Code() {
	case errortypes.BadInputErrorCode:
		return AdapterErrorBadInput
	case errortypes.BadServerResponseErrorCode:
		return AdapterErrorBadServerResponse
	case errortypes.TimeoutErrorCode:
		return AdapterErrorTimeout
	case errortypes.FailedToRequestBidsErrorCode:
		return AdapterErrorFailedToRequestBids
	default:
		return AdapterErrorUnknown
	}
}

// MetricsEngine is a generic interface to record metrics into the desired backend
// The first three metrics function fire off once per incoming request, so it is up to the caller
// to ensure that the request type is unique per request.
type MetricsEngine interface {
	RecordConnectionAccept(success bool)
	RecordConnectionClose(success bool)
	RecordRequest(labels Labels)
	RecordRequestTime(labels Labels, length time.Duration)
	RecordImps(labels ImpLabels)
	RecordAdaptationFailure(failure AdaptationFailure)
	RecordSkippedImps(adapter openrtb_ext.BidderName, count int)
	RecordAdapterRequest(labels AdapterLabels)
	RecordAdapterTime(labels AdapterLabels, length time.Duration)
	RecordAdapterBidReceived(labels AdapterLabels, bidType openrtb_ext.BidType, hasAdm bool)
	RecordAdapterPrice(labels AdapterLabels, cpm float64)
}
