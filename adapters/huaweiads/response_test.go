package huaweiads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/mxmCherry/openrtb/v15/native1"
	nativeResponse "github.com/mxmCherry/openrtb/v15/native1/response"
	"github.com/mxmCherry/openrtb/v15/openrtb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prebid/prebid-huaweiads/adapters"
	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

func TestGetDuration(t *testing.T) {
	testCases := []struct {
		millis   int64
		expected string
	}{
		{0, "00:00:00.000"},
		{5, "00:00:00.005"},
		{6040, "00:00:06.040"},
		{30000, "00:00:30.000"},
		{3723456, "01:02:03.456"},
		{-1, "00:00:00.000"},
	}
	for _, test := range testCases {
		assert.Equal(t, test.expected, getDuration(test.millis))
	}
}

func TestGetImpClickTrackingByRegion(t *testing.T) {
	c := &content{Paramfromserver: paramfromserver{A: "kn-value||pfsa-value"}}

	imp, click := getImpClickTracking(c, regionEurope)
	assert.Equal(t, "https://events-dre.op.hicloud.com/contserver/tracker/action?ch=200002&etype=imp&kn=kn-value&pfsa=pfsa-value", imp)
	assert.Equal(t, "https://events-dre.op.hicloud.com/contserver/tracker/action?ch=200002&etype=click&kn=kn-value&pfsa=pfsa-value", click)

	imp, _ = getImpClickTracking(c, regionRussia)
	assert.Contains(t, imp, "https://events-drru.op.hicloud.com/")

	imp, _ = getImpClickTracking(c, regionChina)
	assert.Contains(t, imp, "https://events-dra.op.hicloud.com/")

	imp, _ = getImpClickTracking(&content{}, regionAsia)
	assert.Equal(t, "https://events-dra.op.hicloud.com/contserver/tracker/action?ch=200002&etype=imp&kn=&pfsa=", imp)
}

func TestRegionOf(t *testing.T) {
	assert.Equal(t, regionChina, regionOf("CN"))
	assert.Equal(t, regionRussia, regionOf("RU"))
	assert.Equal(t, regionEurope, regionOf("DE"))
	assert.Equal(t, regionEurope, regionOf("GB"))
	assert.Equal(t, regionAsia, regionOf("ZA"))
	assert.Equal(t, regionAsia, regionOf("JP"))
}

func TestCheckRespStatusCode(t *testing.T) {
	var badInput *errortypes.BadInput
	var badServer *errortypes.BadServerResponse

	assert.NoError(t, checkRespStatusCode(&adapters.ResponseData{StatusCode: http.StatusOK, Body: []byte(`{}`)}))
	assert.True(t, errors.As(checkRespStatusCode(&adapters.ResponseData{StatusCode: http.StatusBadRequest}), &badInput))
	assert.True(t, errors.As(checkRespStatusCode(&adapters.ResponseData{StatusCode: http.StatusServiceUnavailable}), &badServer))
	assert.True(t, errors.As(checkRespStatusCode(&adapters.ResponseData{StatusCode: http.StatusInternalServerError}), &badServer))
	assert.True(t, errors.As(checkRespStatusCode(&adapters.ResponseData{StatusCode: http.StatusOK}), &badServer))
}

func TestCheckHuaweiAdsResponseRetcode(t *testing.T) {
	for _, ok := range []int32{200, 204, 206, 300, 302, 600, 0} {
		assert.NoError(t, checkHuaweiAdsResponseRetcode(&huaweiAdsResponse{Retcode: ok}), ok)
	}
	for _, bad := range []int32{201, 299, 400, 404, 599} {
		err := checkHuaweiAdsResponseRetcode(&huaweiAdsResponse{Retcode: bad, Reason: "reason"})
		assert.Error(t, err, bad)
	}
	assert.EqualError(t, checkHuaweiAdsResponseRetcode(&huaweiAdsResponse{Retcode: 400, Reason: "bad slot"}),
		"HuaweiAdsResponse retcode: 400 , reason: bad slot")
}

func TestGetNurl(t *testing.T) {
	c := &content{Monitor: []monitor{
		{EventType: "imp", Url: []string{"https://imp.example.com"}},
		{EventType: "win", Url: []string{}},
		{EventType: "win", Url: []string{"https://win.example.com/1", "https://win.example.com/2"}},
	}}
	assert.Equal(t, "https://win.example.com/1", getNurl(c))
	assert.Equal(t, "", getNurl(&content{}))
}

const testNativeRequest = `{"ver":"1.2","assets":[` +
	`{"id":100,"title":{"len":90}},` +
	`{"id":101,"img":{"type":3,"w":720,"h":1280}},` +
	`{"id":102,"img":{"type":1,"w":160,"h":160}},` +
	`{"id":105,"data":{"type":2,"len":90}}]}`

func TestConvertNativeResponse(t *testing.T) {
	request := &openrtb2.BidRequest{
		ID: "test-req-id",
		Imp: []openrtb2.Imp{{
			ID:     "test-imp-id",
			Native: &openrtb2.Native{Request: testNativeRequest},
			Ext:    json.RawMessage(`{"bidder":{"slotid":"u42ohmaufh","adtype":"native","publisherid":"123","signkey":"sign","keyid":"41"}}`),
		}},
	}
	response := &huaweiAdsResponse{
		Retcode: 200,
		Multiad: []ad30{{
			AdType:    native,
			Slotid:    "u42ohmaufh",
			Retcode30: 200,
			Content: []content{{
				Contentid: "58025103",
				Price:     2.8,
				MetaData: metaData{
					Title:       "%E6%A0%87%E9%A2%98",
					Description: "an+ad&more",
					ClickUrl:    "https://ads.example.com/landing",
					ImageInfo:   []imageInfo{{Url: "https://img.example.com/main.jpg", Width: 720, Height: 1280}},
					Icon:        []icon{{Url: "https://img.example.com/icon.png", Width: 160, Height: 160}},
				},
				Monitor: []monitor{
					{EventType: "click", Url: []string{"https://trk.example.com/click?a=1&b=2"}},
					{EventType: "imp", Url: []string{"https://trk.example.com/imp"}},
				},
			}},
		}},
	}

	bidderResponse, err := convertHuaweiAdsResp2BidderResp(response, request)
	require.NoError(t, err)
	require.Len(t, bidderResponse.Bids, 1)
	assert.Equal(t, defaultCurrency, bidderResponse.Currency)

	bid := bidderResponse.Bids[0]
	assert.Equal(t, openrtb_ext.BidTypeNative, bid.BidType)
	assert.Equal(t, int64(720), bid.Bid.W)
	assert.Equal(t, int64(1280), bid.Bid.H)
	assert.Equal(t, "58025103", bid.Bid.CrID)
	assert.Equal(t, []string{defaultAdDomain}, bid.Bid.ADomain)
	assert.False(t, strings.Contains(bid.Bid.AdM, "\\u0026"), "trackers must not be html escaped")

	var adm nativeResponse.Response
	require.NoError(t, json.Unmarshal([]byte(bid.Bid.AdM), &adm))
	assert.Equal(t, "1.2", adm.Ver)
	require.Len(t, adm.Assets, 4)
	assert.Equal(t, "标题", adm.Assets[0].Title.Text)
	assert.Equal(t, native1.ImageAssetTypeMain, adm.Assets[1].Img.Type)
	assert.Equal(t, "https://img.example.com/main.jpg", adm.Assets[1].Img.URL)
	assert.Equal(t, "https://img.example.com/icon.png", adm.Assets[2].Img.URL)
	assert.Equal(t, "desc", adm.Assets[3].Data.Label)
	assert.Equal(t, "an ad&more", adm.Assets[3].Data.Value)
	assert.Equal(t, int64(105), *adm.Assets[3].ID)
	assert.Equal(t, "https://ads.example.com/landing", adm.Link.URL)
	assert.Equal(t, []string{"https://trk.example.com/click?a=1&b=2"}, adm.Link.ClickTrackers)
	assert.Equal(t, []string{"https://trk.example.com/imp"}, adm.ImpTrackers)
}

func TestConvertNativeResponseWithoutClickUrl(t *testing.T) {
	request := &openrtb2.BidRequest{
		Imp: []openrtb2.Imp{{
			ID:     "test-imp-id",
			Native: &openrtb2.Native{Request: testNativeRequest},
			Ext:    json.RawMessage(`{"bidder":{"slotid":"u42ohmaufh","adtype":"native","publisherid":"123","signkey":"sign","keyid":"41"}}`),
		}},
	}
	response := &huaweiAdsResponse{
		Retcode: 200,
		Multiad: []ad30{{AdType: native, Slotid: "u42ohmaufh", Retcode30: 200, Content: []content{{Contentid: "1"}}}},
	}

	_, err := convertHuaweiAdsResp2BidderResp(response, request)
	var target *errortypes.BadServerResponse
	assert.True(t, errors.As(err, &target))
}
