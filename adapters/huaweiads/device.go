package huaweiads

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/mxmCherry/openrtb/v15/openrtb2"

	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

const defaultModelName = "HUAWEI"

// getReqDeviceInfo copies the device profile and resolves the device identifiers.
func getReqDeviceInfo(request *openrtb2.BidRequest, countryCode string) (device, error) {
	var dev device
	if request.Device != nil {
		dev.Type = int32(request.Device.DeviceType)
		dev.Useragent = request.Device.UA
		dev.Os = request.Device.OS
		dev.Version = request.Device.OSV
		dev.Maker = request.Device.Make
		dev.Model = request.Device.Model
		if dev.Model == "" {
			dev.Model = defaultModelName
		}
		dev.Height = int32(request.Device.H)
		dev.Width = int32(request.Device.W)
		dev.Language = request.Device.Language
		dev.Pxratio = float32(request.Device.PxRatio)
		dev.Ip = request.Device.IP
		dev.Gaid = request.Device.IFA
	}
	dev.BelongCountry = countryCode
	dev.LocaleCountry = countryCode

	if err := getDeviceID(&dev, request); err != nil {
		return device{}, err
	}
	setTrackingEnabled(&dev, request.Device)
	return dev, nil
}

// getDeviceID reads oaid, gaid and imei from user.ext.data. Without that object the
// device advertising id must be present.
func getDeviceID(dev *device, request *openrtb2.BidRequest) error {
	deviceID, found, err := getUserExtDeviceID(request.User)
	if err != nil {
		return err
	}

	if !found {
		if dev.Gaid == "" {
			return &errortypes.MissingDeviceIdentifier{
				Message: "getDeviceID: openRTBRequest.User.Ext.Data is null and device.Gaid is not specified.",
			}
		}
		return nil
	}

	isValidDeviceID := false
	if len(deviceID.Oaid) > 0 && deviceID.Oaid[0] != "" {
		dev.Oaid = deviceID.Oaid[0]
		isValidDeviceID = true
	}
	if len(deviceID.Gaid) > 0 && deviceID.Gaid[0] != "" {
		dev.Gaid = deviceID.Gaid[0]
		isValidDeviceID = true
	}
	if len(deviceID.Imei) > 0 && deviceID.Imei[0] != "" {
		dev.Imei = deviceID.Imei[0]
		isValidDeviceID = true
	}
	if !isValidDeviceID {
		return &errortypes.MissingDeviceIdentifier{
			Message: "getDeviceID: Imei, Oaid, Gaid are all empty.",
		}
	}

	if len(deviceID.ClientTime) > 0 {
		dev.ClientTime = convertClientTime(deviceID.ClientTime[0])
	}
	return nil
}

// getUserExtDeviceID decodes user.ext.data. found is false when the request carries no such object.
func getUserExtDeviceID(user *openrtb2.User) (deviceID openrtb_ext.ExtUserDataDeviceIdHuaweiAds, found bool, err error) {
	if user == nil || len(user.Ext) == 0 {
		return deviceID, false, nil
	}

	data, dataType, _, err := jsonparser.Get(user.Ext, "data")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || dataType == jsonparser.Null {
		return deviceID, false, nil
	}
	if err != nil {
		return deviceID, false, &errortypes.MalformedExtension{
			Message: fmt.Sprintf("Unmarshal: openRTBRequest.User.Ext -> extUserDataHuaweiAds failed: %v", err),
		}
	}
	if dataType != jsonparser.Object {
		return deviceID, false, &errortypes.MalformedExtension{
			Message: "Unmarshal: openRTBRequest.User.Ext.Data is not an object",
		}
	}

	if err := json.Unmarshal(data, &deviceID); err != nil {
		return deviceID, false, &errortypes.MalformedExtension{
			Message: fmt.Sprintf("Unmarshal: openRTBRequest.User.Ext.Data -> ExtUserDataDeviceIdHuaweiAds failed: %v", err),
		}
	}
	return deviceID, true, nil
}

// setTrackingEnabled derives the tracking flags from dnt, for the identifiers that were resolved.
func setTrackingEnabled(dev *device, ortbDevice *openrtb2.Device) {
	if ortbDevice == nil || ortbDevice.DNT == nil {
		return
	}
	trackingEnabled := "1"
	if *ortbDevice.DNT == 1 {
		trackingEnabled = "0"
	}
	if dev.Oaid != "" {
		dev.IsTrackingEnabled = trackingEnabled
	}
	if dev.Gaid != "" {
		dev.GaidTrackingEnabled = trackingEnabled
	}
}
