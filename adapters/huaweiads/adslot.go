package huaweiads

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/mxmCherry/openrtb/v15/native1"
	nativeRequests "github.com/mxmCherry/openrtb/v15/native1/request"
	"github.com/mxmCherry/openrtb/v15/openrtb2"

	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

// ads type
const (
	splash       int32 = 1
	magazinelock int32 = 2
	native       int32 = 3
	rewarded     int32 = 7
	banner       int32 = 8
	interstitial int32 = 12
	audio        int32 = 17
	roll         int32 = 60
)

// detailed creative types requested for native slots
const (
	creativeTypeSingleImage = "901"
	creativeTypeVideo       = "903"
	creativeTypeMultiImage  = "904"
	creativeTypeFallback1   = "913"
	creativeTypeFallback2   = "914"
)

var adtypeByToken = map[string]int32{
	"native":       native,
	"rewarded":     rewarded,
	"interstitial": interstitial,
	"roll":         roll,
	"splash":       splash,
	"magazinelock": magazinelock,
	"audio":        audio,
}

// convertAdtypeString2Integer maps the adtype configured on the imp to the vendor code.
// Unknown tokens fall back to banner.
func convertAdtypeString2Integer(adtype string) int32 {
	if code, ok := adtypeByToken[strings.ToLower(adtype)]; ok {
		return code
	}
	return banner
}

type mediaKind int

const (
	mediaNone mediaKind = iota
	mediaBanner
	mediaNative
	mediaVideo
	mediaAudio
)

// impMediaKind picks the media object the slot is derived from. When several are
// populated the first of banner, native, video, audio wins.
func impMediaKind(imp *openrtb2.Imp) mediaKind {
	switch {
	case imp.Banner != nil:
		return mediaBanner
	case imp.Native != nil:
		return mediaNative
	case imp.Video != nil:
		return mediaVideo
	case imp.Audio != nil:
		return mediaAudio
	default:
		return mediaNone
	}
}

// getReqAdslot30 builds the slot for one imp.
func getReqAdslot30(huaweiAdsImpExt *openrtb_ext.ExtImpHuaweiAds, imp *openrtb2.Imp, request *openrtb2.BidRequest) (adslot30, error) {
	adtype := convertAdtypeString2Integer(huaweiAdsImpExt.Adtype)
	slot := adslot30{
		Slotid: huaweiAdsImpExt.SlotId,
		Adtype: adtype,
		Test:   int32(request.Test),
	}
	if huaweiAdsImpExt.IsTestAuthorization == "true" {
		slot.Test = 1
	}

	if err := checkAndExtractOpenrtbFormat(&slot, adtype, huaweiAdsImpExt.Adtype, imp); err != nil {
		return adslot30{}, err
	}
	return slot, nil
}

func checkAndExtractOpenrtbFormat(slot *adslot30, adtype int32, impExtAdType string, imp *openrtb2.Imp) error {
	switch impMediaKind(imp) {
	case mediaBanner:
		if adtype != banner && adtype != interstitial {
			return &errortypes.InconsistentMediaType{
				Message: "check openrtb format: request has banner, doesn't correspond to huawei adtype " + impExtAdType,
			}
		}
		getBannerFormat(slot, imp.Banner)
		return nil
	case mediaNative:
		if adtype != native {
			return &errortypes.InconsistentMediaType{
				Message: "check openrtb format: request has native, doesn't correspond to huawei adtype " + impExtAdType,
			}
		}
		return getNativeFormat(slot, imp.Native)
	case mediaVideo:
		if adtype != banner && adtype != interstitial && adtype != rewarded && adtype != roll {
			return &errortypes.InconsistentMediaType{
				Message: "check openrtb format: request has video, doesn't correspond to huawei adtype " + impExtAdType,
			}
		}
		return getVideoFormat(slot, adtype, imp.Video)
	case mediaAudio:
		return &errortypes.UnsupportedMediaType{
			Message: "check openrtb format: request has audio, not currently supported",
		}
	default:
		return &errortypes.UnsupportedMediaType{
			Message: "check openrtb format: please choose one of our supported type banner, native, or video",
		}
	}
}

func getBannerFormat(slot *adslot30, bannerImp *openrtb2.Banner) {
	if bannerImp.W != nil && bannerImp.H != nil {
		slot.W = *bannerImp.W
		slot.H = *bannerImp.H
	}
	if len(bannerImp.Format) != 0 {
		formats := make([]format, 0, len(bannerImp.Format))
		for _, f := range bannerImp.Format {
			if f.H != 0 && f.W != 0 {
				formats = append(formats, format{W: f.W, H: f.H})
			}
		}
		slot.Format = formats
	}
}

func getNativeFormat(slot *adslot30, nativeImp *openrtb2.Native) error {
	if strings.TrimSpace(nativeImp.Request) == "" {
		return &errortypes.MalformedNativePayload{
			Message: "extract openrtb native failed: imp.Native.Request is empty",
		}
	}

	if _, dataType, _, err := jsonparser.Get([]byte(nativeImp.Request)); err != nil || dataType != jsonparser.Object {
		return &errortypes.MalformedNativePayload{
			Message: "extract openrtb native failed: imp.Native.Request is not a JSON object",
		}
	}

	var nativePayload nativeRequests.Request
	if err := json.Unmarshal(json.RawMessage(nativeImp.Request), &nativePayload); err != nil {
		return &errortypes.MalformedNativePayload{
			Message: fmt.Sprintf("extract openrtb native failed: %v", err),
		}
	}

	var numMainImage, numVideo int
	var width, height int64
	for _, asset := range nativePayload.Assets {
		if asset.Video != nil {
			numVideo++
			continue
		}
		if asset.Img != nil && asset.Img.Type == native1.ImageAssetTypeMain {
			numMainImage++
			if asset.Img.H != 0 && asset.Img.W != 0 {
				width = asset.Img.W
				height = asset.Img.H
			} else if asset.Img.WMin != 0 && asset.Img.HMin != 0 {
				width = asset.Img.WMin
				height = asset.Img.HMin
			}
		}
	}
	slot.W = width
	slot.H = height

	switch {
	case numVideo >= 1:
		slot.DetailedCreativeTypeList = []string{creativeTypeVideo}
	case numMainImage > 1:
		slot.DetailedCreativeTypeList = []string{creativeTypeMultiImage}
	case numMainImage == 1:
		slot.DetailedCreativeTypeList = []string{creativeTypeSingleImage}
	default:
		slot.DetailedCreativeTypeList = []string{creativeTypeFallback1, creativeTypeFallback2}
	}
	return nil
}

func getVideoFormat(slot *adslot30, adtype int32, video *openrtb2.Video) error {
	slot.W = video.W
	slot.H = video.H

	if adtype == roll {
		if video.MaxDuration == 0 {
			return &errortypes.MissingRequiredField{
				Field:   "video.maxduration",
				Message: "extract openrtb video failed: MaxDuration is empty when huaweiads adtype is roll.",
			}
		}
		slot.TotalDuration = video.MaxDuration
	}
	return nil
}
