package huaweiads

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mxmCherry/openrtb/v15/native1"
	nativeRequests "github.com/mxmCherry/openrtb/v15/native1/request"
	nativeResponse "github.com/mxmCherry/openrtb/v15/native1/response"
	"github.com/mxmCherry/openrtb/v15/openrtb2"

	"github.com/prebid/prebid-huaweiads/adapters"
	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

const (
	defaultCurrency   = "CNY"
	defaultAdDomain   = "huaweiads"
	defaultVideoMime  = "video/mp4"
	nativeResponseVer = "1.1"
)

// creative types returned in content.creativetype. Values above 100 carry the same type plus 100.
const (
	creativeText                   int32 = 1
	creativeBigPicture             int32 = 2
	creativeBigPicture2            int32 = 3
	creativeGif                    int32 = 4
	creativeVideoText              int32 = 6
	creativeSmallPicture           int32 = 7
	creativeThreeSmallPicturesText int32 = 8
	creativeVideo                  int32 = 9
	creativeIconText               int32 = 10
	creativeVideoWithPicturesText  int32 = 11
)

var trackingPrefixByRegion = map[string]string{
	regionAsia:   "https://events-dra.op.hicloud.com/contserver/tracker/action?ch=200002",
	regionEurope: "https://events-dre.op.hicloud.com/contserver/tracker/action?ch=200002",
	regionRussia: "https://events-drru.op.hicloud.com/contserver/tracker/action?ch=200002",
}

// checkRespStatusCode is called after 204 has been handled.
func checkRespStatusCode(response *adapters.ResponseData) error {
	switch {
	case response.StatusCode == http.StatusBadRequest:
		return &errortypes.BadInput{
			Message: fmt.Sprintf("Unexpected status code: [ %d ]", response.StatusCode),
		}
	case response.StatusCode == http.StatusServiceUnavailable:
		return &errortypes.BadServerResponse{
			Message: fmt.Sprintf("Something went wrong, please contact your Account Manager. Status Code: [ %d ] ", response.StatusCode),
		}
	case response.StatusCode != http.StatusOK:
		return &errortypes.BadServerResponse{
			Message: fmt.Sprintf("Unexpected status code: [ %d ]. Run with request.debug = 1 for more info", response.StatusCode),
		}
	case len(response.Body) == 0:
		return &errortypes.BadServerResponse{
			Message: "bidderRawResponse body is empty",
		}
	}
	return nil
}

func checkHuaweiAdsResponseRetcode(response *huaweiAdsResponse) error {
	switch response.Retcode {
	case 200, 204, 206:
		return nil
	}
	if (response.Retcode < 600 && response.Retcode >= 400) || (response.Retcode < 300 && response.Retcode > 200) {
		return &errortypes.BadInput{
			Message: fmt.Sprintf("HuaweiAdsResponse retcode: %d , reason: %s", response.Retcode, response.Reason),
		}
	}
	return nil
}

type slotTarget struct {
	imp     *openrtb2.Imp
	bidType openrtb_ext.BidType
}

// convertHuaweiAdsResp2BidderResp builds one bid per content of every ad whose slot was requested.
func convertHuaweiAdsResp2BidderResp(response *huaweiAdsResponse, request *openrtb2.BidRequest) (*adapters.BidderResponse, error) {
	if len(response.Multiad) == 0 {
		return nil, &errortypes.BadServerResponse{
			Message: "convertHuaweiAdsResp2BidderResp: multiad length is 0, get no ads from huawei side.",
		}
	}

	targets := make(map[string]slotTarget, len(request.Imp))
	for i := range request.Imp {
		imp := &request.Imp[i]
		huaweiAdsImpExt, err := parseImpExt(imp)
		if err != nil {
			continue
		}
		targets[huaweiAdsImpExt.SlotId] = slotTarget{imp: imp, bidType: bidTypeOf(imp)}
	}
	if len(targets) == 0 {
		return nil, &errortypes.BadInput{
			Message: "convertHuaweiAdsResp2BidderResp: openRTBRequest.imp is nil",
		}
	}

	trackingRegion := regionOf(resolveCountryCode(request))
	bidderResponse := adapters.NewBidderResponseWithBidsCapacity(len(response.Multiad))
	bidderResponse.Currency = defaultCurrency
	for _, ad := range response.Multiad {
		target, ok := targets[ad.Slotid]
		if !ok || ad.Retcode30 != 200 {
			continue
		}

		for i := range ad.Content {
			content := &ad.Content[i]
			adm, w, h, err := handleHuaweiAdsContent(ad.AdType, content, target, trackingRegion)
			if err != nil {
				return nil, err
			}
			if content.Cur != "" {
				bidderResponse.Currency = content.Cur
			}
			bidderResponse.Bids = append(bidderResponse.Bids, &adapters.TypedBid{
				Bid: &openrtb2.Bid{
					ID:      target.imp.ID,
					ImpID:   target.imp.ID,
					Price:   content.Price,
					CrID:    content.Contentid,
					AdM:     adm,
					W:       w,
					H:       h,
					ADomain: []string{defaultAdDomain},
					NURL:    getNurl(content),
				},
				BidType: target.bidType,
			})
		}
	}
	return bidderResponse, nil
}

// bidTypeOf follows the media precedence used when the slot was built.
func bidTypeOf(imp *openrtb2.Imp) openrtb_ext.BidType {
	switch impMediaKind(imp) {
	case mediaNative:
		return openrtb_ext.BidTypeNative
	case mediaVideo:
		return openrtb_ext.BidTypeVideo
	case mediaAudio:
		return openrtb_ext.BidTypeAudio
	default:
		return openrtb_ext.BidTypeBanner
	}
}

// getNurl returns the first url of the win monitor.
func getNurl(content *content) string {
	for _, m := range content.Monitor {
		if m.EventType == "win" && len(m.Url) != 0 {
			return m.Url[0]
		}
	}
	return ""
}

func handleHuaweiAdsContent(adType int32, content *content, target slotTarget, region string) (adm string, w int64, h int64, err error) {
	switch target.bidType {
	case openrtb_ext.BidTypeBanner:
		adm, w, h, err = extractAdmBanner(adType, content, target, region)
	case openrtb_ext.BidTypeNative:
		adm, w, h, err = extractAdmNative(adType, content, target, region)
	case openrtb_ext.BidTypeVideo:
		adm, w, h, err = extractAdmVideo(adType, content, target, region)
	default:
		return "", 0, 0, &errortypes.BadServerResponse{Message: "no support bidtype: " + string(target.bidType)}
	}
	if err != nil {
		return "", 0, 0, &errortypes.BadServerResponse{Message: fmt.Sprintf("getAdmFromHuaweiAdsContent failed: %s", err)}
	}
	return adm, w, h, nil
}

func extractAdmBanner(adType int32, content *content, target slotTarget, region string) (string, int64, int64, error) {
	if adType != banner && adType != interstitial {
		return "", 0, 0, fmt.Errorf("extractAdmBanner: huaweiads response is not a banner ad")
	}
	creativeType := content.Creativetype
	if creativeType > 100 {
		creativeType -= 100
	}
	switch creativeType {
	case creativeText, creativeBigPicture, creativeBigPicture2, creativeSmallPicture,
		creativeThreeSmallPicturesText, creativeIconText, creativeGif:
		return extractAdmPicture(content, region)
	case creativeVideoText, creativeVideo, creativeVideoWithPicturesText:
		return extractAdmVideo(adType, content, target, region)
	default:
		return "", 0, 0, fmt.Errorf("no banner support creativetype")
	}
}

func extractAdmNative(adType int32, content *content, target slotTarget, region string) (adm string, w int64, h int64, err error) {
	if adType != native {
		return "", 0, 0, fmt.Errorf("extractAdmNative: response is not a native ad")
	}
	if target.imp.Native == nil || target.imp.Native.Request == "" {
		return "", 0, 0, fmt.Errorf("extractAdmNative: imp.Native.Request is empty")
	}
	var nativePayload nativeRequests.Request
	if err := json.Unmarshal([]byte(target.imp.Native.Request), &nativePayload); err != nil {
		return "", 0, 0, err
	}
	if content.MetaData.ClickUrl == "" {
		return "", 0, 0, fmt.Errorf("extractAdmNative: content.MetaData.ClickUrl is empty")
	}

	nativeResult := nativeResponse.Response{
		Ver:    nativeResponseVer,
		Assets: make([]nativeResponse.Asset, 0, len(nativePayload.Assets)),
		Link:   nativeResponse.Link{URL: content.MetaData.ClickUrl},
	}
	if nativePayload.Ver != "" {
		nativeResult.Ver = nativePayload.Ver
	}

	var imgIndex, iconIndex int
	for _, asset := range nativePayload.Assets {
		var responseAsset nativeResponse.Asset
		switch {
		case asset.Title != nil:
			text, _ := getDecodeValue(content.MetaData.Title)
			responseAsset.Title = &nativeResponse.Title{Text: text}
		case asset.Video != nil:
			var vastXML string
			if vastXML, w, h, err = extractAdmVideo(adType, content, target, region); err != nil {
				return "", 0, 0, err
			}
			responseAsset.Video = &nativeResponse.Video{VASTTag: vastXML}
		case asset.Img != nil:
			img := nativeResponse.Image{Type: asset.Img.Type}
			switch asset.Img.Type {
			case native1.ImageAssetTypeIcon:
				if len(content.MetaData.Icon) > iconIndex {
					img.URL = content.MetaData.Icon[iconIndex].Url
					img.W = content.MetaData.Icon[iconIndex].Width
					img.H = content.MetaData.Icon[iconIndex].Height
					iconIndex++
				}
			case native1.ImageAssetTypeMain:
				if len(content.MetaData.ImageInfo) > imgIndex {
					img.URL = content.MetaData.ImageInfo[imgIndex].Url
					img.W = content.MetaData.ImageInfo[imgIndex].Width
					img.H = content.MetaData.ImageInfo[imgIndex].Height
					imgIndex++
				}
			}
			if w == 0 && h == 0 {
				w, h = img.W, img.H
			}
			responseAsset.Img = &img
		case asset.Data != nil:
			var data nativeResponse.Data
			if asset.Data.Type == native1.DataAssetTypeDesc || asset.Data.Type == native1.DataAssetTypeDesc2 {
				data.Label = "desc"
				data.Value, _ = getDecodeValue(content.MetaData.Description)
			}
			responseAsset.Data = &data
		}
		id := asset.ID
		responseAsset.ID = &id
		nativeResult.Assets = append(nativeResult.Assets, responseAsset)
	}

	for _, m := range content.Monitor {
		switch m.EventType {
		case "click":
			nativeResult.Link.ClickTrackers = append(nativeResult.Link.ClickTrackers, m.Url...)
		case "imp":
			nativeResult.ImpTrackers = append(nativeResult.ImpTrackers, m.Url...)
		}
	}

	result, err := marshalNoEscape(nativeResult)
	if err != nil {
		return "", 0, 0, err
	}
	return strings.ReplaceAll(string(result), "\n", ""), w, h, nil
}

func getDecodeValue(str string) (string, error) {
	if str == "" {
		return "", nil
	}
	return url.QueryUnescape(str)
}

// marshalNoEscape keeps tracker urls readable inside the native adm.
func marshalNoEscape(v interface{}) ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(v)
	return buffer.Bytes(), err
}

// extractAdmPicture renders a single-picture banner.
func extractAdmPicture(content *content, region string) (string, int64, int64, error) {
	clickUrl := content.MetaData.ClickUrl
	if clickUrl == "" {
		clickUrl = content.MetaData.Intent
	}
	if len(content.MetaData.ImageInfo) == 0 {
		return "", 0, 0, fmt.Errorf("content.MetaData.ImageInfo is empty")
	}
	image := content.MetaData.ImageInfo[0]

	imageTitle, _ := getDecodeValue(content.MetaData.Title)
	impTracking, clickTracking := getImpClickTracking(content, region)
	dspImpTracking, dspClickTracking := getDspImpClickTracking(content)

	adm := "<style> html, body  " +
		"{ margin: 0; padding: 0; width: 100%; height: 100%; vertical-align: middle; }  " +
		"html  " +
		"{ display: table; }  " +
		"body { display: table-cell; vertical-align: middle; text-align: center; -webkit-text-size-adjust: none; }  " +
		"</style> " +
		"<span class=\"title-link advertiser_label\">" + imageTitle + "</span> " +
		"<a href='" + clickUrl + "' style=\"text-decoration:none\" " +
		"onclick=sendGetReq('" + clickTracking + "','" + dspClickTracking + "')> " +
		"<img src='" + image.Url + "' width='" + strconv.FormatInt(image.Width, 10) + "' height='" + strconv.FormatInt(image.Height, 10) + "'/> " +
		"</a> " +
		"<img height=\"1\" width=\"1\" src='" + impTracking + "' > " +
		"<img height=\"1\" width=\"1\" src='" + dspImpTracking + "' >  " +
		"<script type=\"text/javascript\"> " +
		"function sendGetReq(param1, param2){ " +
		"var req1 = new XMLHttpRequest(); " +
		"req1.open('GET', param1, true);  " +
		"req1.send(null);  " +
		"var req2 = new XMLHttpRequest(); " +
		"req2.open('GET', param2, true);  " +
		"req2.send(null);  } " +
		"</script>"
	return adm, image.Width, image.Height, nil
}

// getImpClickTracking builds the ad server's own trackers. paramfromserver.a is "kn||pfsa".
func getImpClickTracking(content *content, region string) (impTracking string, clickTracking string) {
	prefix, ok := trackingPrefixByRegion[region]
	if !ok {
		prefix = trackingPrefixByRegion[regionAsia]
	}

	kn := "&kn="
	pfsa := "&pfsa="
	if a := content.Paramfromserver.A; a != "" {
		if index := strings.Index(a, "||"); index >= 0 {
			kn += a[:index]
			pfsa += a[index+2:]
		}
	}
	return prefix + "&etype=imp" + kn + pfsa, prefix + "&etype=click" + kn + pfsa
}

func getDspImpClickTracking(content *content) (dspImpTracking string, dspClickTracking string) {
	for _, m := range content.Monitor {
		if len(m.Url) == 0 {
			continue
		}
		switch m.EventType {
		case "imp":
			dspImpTracking = m.Url[0]
		case "click":
			dspClickTracking = m.Url[0]
		}
	}
	return dspImpTracking, dspClickTracking
}

// getDuration formats milliseconds as 00:00:00.000
func getDuration(durationMillis int64) string {
	if durationMillis < 0 {
		durationMillis = 0
	}
	totalSec := durationMillis / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", totalSec/3600, totalSec%3600/60, totalSec%60, durationMillis%1000)
}

// vastEventByMonitor maps monitor event types to VAST tracking events.
var vastEventByMonitor = map[string]string{
	"userClose":     "skip",
	"playStart":     "start",
	"playEnd":       "complete",
	"playResume":    "resume",
	"playPause":     "pause",
	"soundClickOff": "mute",
	"soundClickOn":  "unmute",
}

// extractAdmVideo renders a VAST 3.0 inline ad. Roll ads take the media file, the rest videoInfo.
func extractAdmVideo(adType int32, content *content, target slotTarget, region string) (string, int64, int64, error) {
	clickUrl := content.MetaData.ClickUrl
	if clickUrl == "" {
		return "", 0, 0, fmt.Errorf("extractAdmVideo: Content.MetaData.Clickurl is empty")
	}

	var (
		w, h        int64
		mime        = defaultVideoMime
		resourceUrl string
	)
	if adType == roll {
		if content.MetaData.MediaFile.Mime != "" {
			mime = content.MetaData.MediaFile.Mime
		}
		w = content.MetaData.MediaFile.Width
		h = content.MetaData.MediaFile.Height
		resourceUrl = content.MetaData.MediaFile.Url
		if resourceUrl == "" {
			return "", 0, 0, fmt.Errorf("extractAdmVideo: Content.MetaData.MediaFile.Url is empty")
		}
	} else {
		resourceUrl = content.MetaData.VideoInfo.VideoDownloadUrl
		if resourceUrl == "" {
			return "", 0, 0, fmt.Errorf("extractAdmVideo: content.MetaData.VideoInfo.VideoDownloadUrl is empty")
		}
		switch {
		case content.MetaData.VideoInfo.Width != 0 && content.MetaData.VideoInfo.Height != 0:
			w = int64(content.MetaData.VideoInfo.Width)
			h = int64(content.MetaData.VideoInfo.Height)
		case target.bidType == openrtb_ext.BidTypeVideo:
			if target.imp.Video != nil && target.imp.Video.W != 0 && target.imp.Video.H != 0 {
				w = target.imp.Video.W
				h = target.imp.Video.H
			}
		default:
			return "", 0, 0, fmt.Errorf("extractAdmVideo: cannot get width, height")
		}
	}

	adTitle, _ := getDecodeValue(content.MetaData.Title)
	impTracking, clickTracking := getImpClickTracking(content, region)

	var trackingEvents strings.Builder
	var dspImpTracking, dspClickTracking, errorTracking string
	for _, m := range content.Monitor {
		if len(m.Url) == 0 {
			continue
		}
		urls := strings.Join(m.Url, ";")
		switch m.EventType {
		case "vastError":
			errorTracking = urls
		case "imp":
			dspImpTracking = urls
		case "click":
			dspClickTracking = urls
		default:
			if event, ok := vastEventByMonitor[m.EventType]; ok {
				trackingEvents.WriteString("<Tracking event=\"" + event + "\"><![CDATA[" + urls + "]]></Tracking>")
			}
		}
	}

	adm := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>" +
		"<VAST version=\"3.0\">" +
		"<Ad id=\"" + content.Contentid + "\"><InLine>" +
		"<AdSystem>HuaweiAds</AdSystem>" +
		"<AdTitle>" + adTitle + "</AdTitle>" +
		"<Error><![CDATA[" + errorTracking + "]]></Error>" +
		"<Impression><![CDATA[" + impTracking + "]]></Impression>" +
		"<Impression><![CDATA[" + dspImpTracking + "]]></Impression>" +
		"<Creatives>" +
		"<Creative adId=\"" + content.Contentid + "\" id=\"${CREATIVE_ID}$\">" +
		"<Linear>" +
		"<Duration>" + getDuration(content.MetaData.Duration) + "</Duration>" +
		"<TrackingEvents>" + trackingEvents.String() + "</TrackingEvents>" +
		"<VideoClicks>" +
		"<ClickThrough><![CDATA[" + clickUrl + "]]></ClickThrough>" +
		"<ClickTracking><![CDATA[" + clickTracking + "]]></ClickTracking>" +
		"<ClickTracking><![CDATA[" + dspClickTracking + "]]></ClickTracking>" +
		"</VideoClicks>" +
		"<MediaFiles>" +
		"<MediaFile delivery=\"progressive\" type=\"" + mime + "\" width=\"" + strconv.FormatInt(w, 10) + "\" " +
		"height=\"" + strconv.FormatInt(h, 10) + "\" scalable=\"true\" maintainAspectRatio=\"true\"> " +
		"<![CDATA[" + resourceUrl + "]]>" +
		"</MediaFile>" +
		"</MediaFiles>" +
		"</Linear>" +
		"</Creative>" +
		"</Creatives>" +
		"</InLine>" +
		"</Ad>" +
		"</VAST>"
	return adm, w, h, nil
}
