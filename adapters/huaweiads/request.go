package huaweiads

import (
	"encoding/json"
	"fmt"

	"github.com/mxmCherry/openrtb/v15/openrtb2"

	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

const huaweiAdxApiVersion = "3.4"

// adaptedRequest is the outcome of one adaptation call.
type adaptedRequest struct {
	body *huaweiAdsRequest
	// signingExt is the extension of the last valid imp. It supplies the credentials for the call.
	signingExt  *openrtb_ext.ExtImpHuaweiAds
	countryCode string
}

// buildHuaweiAdsRequest turns an openrtb request into the getResult payload. It returns a nil
// result together with the errors that caused it, or a result and any warnings.
func buildHuaweiAdsRequest(request *openrtb2.BidRequest, policy config.ImpFailurePolicy,
	pkgNameConverts []openrtb_ext.PkgNameConvert) (*adaptedRequest, []error) {
	if request == nil {
		return nil, []error{&errortypes.BadInput{Message: "MakeRequests: openRTBRequest is nil"}}
	}
	if len(request.Imp) == 0 {
		return nil, []error{&errortypes.BadInput{Message: "MakeRequests: No impression in the bid request"}}
	}

	var (
		warnings   []error
		impErrs    []error
		signingExt *openrtb_ext.ExtImpHuaweiAds
		multislot  = make([]adslot30, 0, len(request.Imp))
	)
	for i := range request.Imp {
		imp := &request.Imp[i]
		huaweiAdsImpExt, slot, err := adaptImp(imp, request)
		if err != nil {
			if policy != config.ImpFailurePolicySkipInvalid {
				return nil, []error{err}
			}
			impErrs = append(impErrs, err)
			warnings = append(warnings, &errortypes.Warning{
				Message:     fmt.Sprintf("imp[%s] skipped: %v", imp.ID, err),
				WarningCode: errortypes.SkippedImpressionWarningCode,
			})
			continue
		}
		signingExt = huaweiAdsImpExt
		multislot = append(multislot, slot)
	}
	if len(multislot) == 0 {
		return nil, impErrs
	}

	countryCode := resolveCountryCode(request)
	dev, err := getReqDeviceInfo(request, countryCode)
	if err != nil {
		return nil, []error{err}
	}

	body := &huaweiAdsRequest{
		Version:           huaweiAdxApiVersion,
		Multislot:         multislot,
		App:               getReqAppInfo(request, countryCode, pkgNameConverts),
		Device:            dev,
		Network:           getReqNetworkInfo(request),
		ClientAdRequestId: request.ID,
		Regs:              getReqRegsInfo(request),
		Geo:               getReqGeoInfo(request),
		Consent:           getReqConsentInfo(request),
	}
	return &adaptedRequest{
		body:        body,
		signingExt:  signingExt,
		countryCode: countryCode,
	}, warnings
}

func adaptImp(imp *openrtb2.Imp, request *openrtb2.BidRequest) (*openrtb_ext.ExtImpHuaweiAds, adslot30, error) {
	huaweiAdsImpExt, err := parseImpExt(imp)
	if err != nil {
		return nil, adslot30{}, err
	}
	slot, err := getReqAdslot30(huaweiAdsImpExt, imp, request)
	if err != nil {
		return nil, adslot30{}, err
	}
	return huaweiAdsImpExt, slot, nil
}

func getReqRegsInfo(request *openrtb2.BidRequest) *regs {
	if request.Regs == nil || request.Regs.COPPA < 0 {
		return nil
	}
	return &regs{Coppa: int32(request.Regs.COPPA)}
}

func getReqGeoInfo(request *openrtb2.BidRequest) *geo {
	if request.Device == nil || request.Device.Geo == nil {
		return nil
	}
	return &geo{
		Lon:      request.Device.Geo.Lon,
		Lat:      request.Device.Geo.Lat,
		Accuracy: request.Device.Geo.Accuracy,
		Lastfix:  request.Device.Geo.LastFix,
	}
}

// getReqConsentInfo reads user.ext.consent, "" when absent or not a string.
func getReqConsentInfo(request *openrtb2.BidRequest) string {
	if request.User == nil || len(request.User.Ext) == 0 {
		return ""
	}
	var userExt openrtb_ext.ExtUser
	if err := json.Unmarshal(request.User.Ext, &userExt); err != nil {
		return ""
	}
	return userExt.Consent
}
