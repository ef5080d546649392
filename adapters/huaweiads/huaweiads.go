package huaweiads

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mxmCherry/openrtb/v15/openrtb2"

	"github.com/prebid/prebid-huaweiads/adapters"
	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

const (
	digestRealm      = "ppsadx/getResult"
	digestMethodPath = ":POST:/ppsadx/getResult"
)

type adapter struct {
	endpoint  string
	extraInfo openrtb_ext.ExtraInfoHuaweiAds
	policy    config.ImpFailurePolicy
}

// Builder builds a new instance of the HuaweiAds adapter for the given bidder with the given config.
func Builder(bidderName openrtb_ext.BidderName, cfg config.Adapter) (adapters.Bidder, error) {
	extraInfo, err := getExtraInfo(cfg.ExtraAdapterInfo)
	if err != nil {
		return nil, err
	}
	policy := cfg.ImpFailurePolicy
	if policy == "" {
		policy = config.ImpFailurePolicyFailFast
	}
	return &adapter{
		endpoint:  cfg.Endpoint,
		extraInfo: extraInfo,
		policy:    policy,
	}, nil
}

func getExtraInfo(v string) (openrtb_ext.ExtraInfoHuaweiAds, error) {
	var extraInfo openrtb_ext.ExtraInfoHuaweiAds
	if len(v) == 0 {
		return extraInfo, nil
	}
	if err := json.Unmarshal([]byte(v), &extraInfo); err != nil {
		return extraInfo, fmt.Errorf("invalid extra info: %v", err)
	}
	return extraInfo, nil
}

func (a *adapter) MakeRequests(request *openrtb2.BidRequest, reqInfo *adapters.ExtraRequestInfo) ([]*adapters.RequestData, []error) {
	adapted, errs := buildHuaweiAdsRequest(request, a.policy, a.extraInfo.PkgNameConvert)
	if adapted == nil {
		return nil, errs
	}

	reqJSON, err := json.Marshal(adapted.body)
	if err != nil {
		return nil, append(errs, err)
	}

	// The digest changes with time, so fixtures turn it off with isAddAuthorization = "false".
	isAddAuthorization := adapted.signingExt.IsAddAuthorization != "false"
	return []*adapters.RequestData{{
		Method:  http.MethodPost,
		Uri:     a.selectEndpoint(adapted.countryCode),
		Body:    reqJSON,
		Headers: getHeaders(adapted.signingExt, request, isAddAuthorization, reqInfo.Now()),
	}}, errs
}

func (a *adapter) MakeBids(internalRequest *openrtb2.BidRequest, externalRequest *adapters.RequestData,
	response *adapters.ResponseData) (*adapters.BidderResponse, []error) {
	if response.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if err := checkRespStatusCode(response); err != nil {
		return nil, []error{err}
	}

	var huaweiAdsResp huaweiAdsResponse
	if err := json.Unmarshal(response.Body, &huaweiAdsResp); err != nil {
		return nil, []error{&errortypes.BadServerResponse{
			Message: "Bad Server Response",
		}}
	}
	if err := checkHuaweiAdsResponseRetcode(&huaweiAdsResp); err != nil {
		return nil, []error{err}
	}
	if huaweiAdsResp.Retcode == http.StatusNoContent && len(huaweiAdsResp.Multiad) == 0 {
		return nil, nil
	}

	bidderResponse, err := convertHuaweiAdsResp2BidderResp(&huaweiAdsResp, internalRequest)
	if err != nil {
		return nil, []error{err}
	}
	return bidderResponse, nil
}

// selectEndpoint picks the site serving the resolved country, unless site selection is
// closed or that site isn't configured.
func (a *adapter) selectEndpoint(countryCode string) string {
	switch a.extraInfo.CloseSiteSelectionByCountry {
	case "1", "true":
		return a.endpoint
	}

	var site string
	switch regionOf(countryCode) {
	case regionChina:
		site = a.extraInfo.ChineseSiteEndpoint
	case regionRussia:
		site = a.extraInfo.RussianSiteEndpoint
	case regionEurope:
		site = a.extraInfo.EuropeanSiteEndpoint
	default:
		site = a.extraInfo.AsianSiteEndpoint
	}
	if site == "" {
		return a.endpoint
	}
	return site
}

func getHeaders(huaweiAdsImpExt *openrtb_ext.ExtImpHuaweiAds, request *openrtb2.BidRequest, isAddAuthorization bool, now time.Time) http.Header {
	headers := http.Header{}
	headers.Add("Content-Type", "application/json;charset=utf-8")
	headers.Add("Accept", "application/json")
	if isAddAuthorization {
		headers.Add("Authorization", getDigestAuthorization(huaweiAdsImpExt, now))
	}
	if request.Device != nil && len(request.Device.UA) > 0 {
		headers.Add("User-Agent", request.Device.UA)
	}
	return headers
}

func computeHmacSha256(message string, signKey string) string {
	h := hmac.New(sha256.New, []byte(signKey))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// getDigestAuthorization signs the call for the ppsadx API. The nonce is the call time in milliseconds.
func getDigestAuthorization(huaweiAdsImpExt *openrtb_ext.ExtImpHuaweiAds, now time.Time) string {
	nonce := strconv.FormatInt(now.UnixNano()/int64(time.Millisecond), 10)
	apiKey := huaweiAdsImpExt.PublisherId + ":" + digestRealm + ":" + huaweiAdsImpExt.SignKey
	return "Digest username=" + huaweiAdsImpExt.PublisherId + "," +
		"realm=" + digestRealm + "," +
		"nonce=" + nonce + "," +
		"response=" + computeHmacSha256(nonce+digestMethodPath, apiKey) + "," +
		"algorithm=HmacSHA256,usertype=1,keyid=" + huaweiAdsImpExt.KeyId
}
