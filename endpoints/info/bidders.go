package info

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"

	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/logger"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

// NewBiddersEndpoint implements /info/bidders. Bidders disabled in the adapter config are left out.
func NewBiddersEndpoint(adapters map[string]config.Adapter) httprouter.Handle {
	bidderNames := make([]string, 0, len(openrtb_ext.CoreBidderNames()))
	for _, bidderName := range openrtb_ext.CoreBidderNames() {
		if adapter, ok := adapters[string(bidderName)]; ok && adapter.Disabled {
			continue
		}
		bidderNames = append(bidderNames, string(bidderName))
	}
	sort.Strings(bidderNames)

	biddersJson, err := json.Marshal(bidderNames)
	if err != nil {
		logger.Fatalf("error creating /info/bidders endpoint response: %v", err)
	}

	return httprouter.Handle(func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(biddersJson); err != nil {
			logger.Errorf("error writing response to /info/bidders: %v", err)
		}
	})
}
