package openrtb_ext

// ExtImpHuaweiAds defines the contract for bidrequest.imp[i].ext.bidder when the bidder is huaweiads
type ExtImpHuaweiAds struct {
	SlotId              string `json:"slotid"`
	Adtype              string `json:"adtype"`
	PublisherId         string `json:"publisherid"`
	SignKey             string `json:"signkey"`
	KeyId               string `json:"keyid"`
	IsTestAuthorization string `json:"isTestAuthorization,omitempty"`
	// IsAddAuthorization is "false" only for fixture runs, where a time-based digest can't be compared.
	IsAddAuthorization string `json:"isAddAuthorization,omitempty"`
}

// ExtUserDataHuaweiAds defines the contract for bidrequest.user.ext when device identifiers are
// passed through for huaweiads
type ExtUserDataHuaweiAds struct {
	Data ExtUserDataDeviceIdHuaweiAds `json:"data,omitempty"`
}

type ExtUserDataDeviceIdHuaweiAds struct {
	Imei       []string `json:"imei,omitempty"`
	Oaid       []string `json:"oaid,omitempty"`
	Gaid       []string `json:"gaid,omitempty"`
	ClientTime []string `json:"clientTime,omitempty"`
}

// ExtraInfoHuaweiAds is the JSON carried by config.Adapter.ExtraAdapterInfo for huaweiads.
type ExtraInfoHuaweiAds struct {
	PkgNameConvert              []PkgNameConvert `json:"pkgNameConvert"`
	CloseSiteSelectionByCountry string           `json:"closeSiteSelectionByCountry"`
	ChineseSiteEndpoint         string           `json:"chineseSiteEndpoint"`
	EuropeanSiteEndpoint        string           `json:"europeanSiteEndpoint"`
	RussianSiteEndpoint         string           `json:"russianSiteEndpoint"`
	AsianSiteEndpoint           string           `json:"asianSiteEndpoint"`
}

// PkgNameConvert rewrites an app bundle to ConvertedPkgName when it matches one of the
// unconverted rules and none of the exceptions.
type PkgNameConvert struct {
	ConvertedPkgName           string   `json:"convertedPkgName"`
	UnconvertedPkgNames        []string `json:"unconvertedPkgNames"`
	UnconvertedPkgNameKeyWords []string `json:"unconvertedPkgNameKeyWords"`
	UnconvertedPkgNamePrefixs  []string `json:"unconvertedPkgNamePrefixs"`
	ExceptionPkgNames          []string `json:"exceptionPkgNames"`
}
