package huaweiads

import (
	"strings"

	"github.com/mxmCherry/openrtb/v15/openrtb2"
)

const defaultUnknownNetworkType int32 = 0

// carrier codes understood by the ad server
const (
	carrierChinaUnicom  int32 = 1
	carrierChinaMobile  int32 = 2
	carrierChinaTelecom int32 = 3
	carrierOther        int32 = 99
)

// carrierByMccMnc is keyed by the MCC and MNC concatenated, e.g. "46000".
var carrierByMccMnc = map[string]int32{
	"46000": carrierChinaMobile,
	"46002": carrierChinaMobile,
	"46007": carrierChinaMobile,
	"46001": carrierChinaUnicom,
	"46006": carrierChinaUnicom,
	"46003": carrierChinaTelecom,
	"46005": carrierChinaTelecom,
	"46011": carrierChinaTelecom,
}

// getReqNetworkInfo never fails. cellInfo is always emitted, empty when device.mccmnc is blank.
func getReqNetworkInfo(request *openrtb2.BidRequest) network {
	net := network{
		Type:     defaultUnknownNetworkType,
		Carrier:  carrierOther,
		CellInfo: []cellInfo{},
	}
	if request.Device == nil {
		return net
	}
	if request.Device.ConnectionType != nil {
		net.Type = int32(*request.Device.ConnectionType)
	}

	mccmnc := strings.TrimSpace(request.Device.MCCMNC)
	if mccmnc == "" {
		return net
	}
	mcc, mnc := splitMccMnc(mccmnc)
	if carrier, ok := carrierByMccMnc[mcc+mnc]; ok {
		net.Carrier = carrier
	}
	net.CellInfo = append(net.CellInfo, cellInfo{Mcc: mcc, Mnc: mnc})
	return net
}

// splitMccMnc splits "460-00" into "460" and "00". A value without a separator is all MCC.
func splitMccMnc(mccmnc string) (mcc, mnc string) {
	parts := strings.SplitN(mccmnc, "-", 2)
	mcc = parts[0]
	if len(parts) == 2 {
		mnc = parts[1]
	}
	return mcc, mnc
}
