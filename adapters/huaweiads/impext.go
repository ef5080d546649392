package huaweiads

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mxmCherry/openrtb/v15/openrtb2"

	"github.com/prebid/prebid-huaweiads/adapters"
	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

// parseImpExt decodes imp.ext.bidder and checks that every field needed to
// address and sign the call is present.
func parseImpExt(imp *openrtb2.Imp) (*openrtb_ext.ExtImpHuaweiAds, error) {
	var bidderExt adapters.ExtImpBidder
	if err := json.Unmarshal(imp.Ext, &bidderExt); err != nil {
		return nil, &errortypes.MalformedExtension{
			Message: fmt.Sprintf("Unmarshal: imp[%s].ext -> bidderExt failed: %v", imp.ID, err),
		}
	}

	var huaweiAdsImpExt openrtb_ext.ExtImpHuaweiAds
	if err := json.Unmarshal(bidderExt.Bidder, &huaweiAdsImpExt); err != nil {
		return nil, &errortypes.MalformedExtension{
			Message: fmt.Sprintf("Unmarshal: imp[%s].ext.bidder -> ExtImpHuaweiAds failed: %v", imp.ID, err),
		}
	}

	required := []struct {
		field string
		value string
	}{
		{"slotid", huaweiAdsImpExt.SlotId},
		{"adtype", huaweiAdsImpExt.Adtype},
		{"publisherid", huaweiAdsImpExt.PublisherId},
		{"signkey", huaweiAdsImpExt.SignKey},
		{"keyid", huaweiAdsImpExt.KeyId},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &errortypes.MissingRequiredField{
				Field:   r.field,
				Message: fmt.Sprintf("ExtImpHuaweiAds: %s is empty.", r.field),
			}
		}
	}

	return &huaweiAdsImpExt, nil
}
