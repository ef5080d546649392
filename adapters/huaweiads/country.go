package huaweiads

import (
	"strconv"
	"strings"

	"github.com/mxmCherry/openrtb/v15/openrtb2"
)

const defaultCountryName = "ZA"

// countryCodeAlpha3ToAlpha2 lists the ISO 3166 alpha-3 codes whose alpha-2 code is not
// simply their first two letters.
var countryCodeAlpha3ToAlpha2 = map[string]string{
	"AND": "AD", "AGO": "AO", "AUT": "AT", "BGD": "BD", "BLR": "BY", "CAF": "CF", "CHD": "TD", "TCD": "TD",
	"CHL": "CL", "CHN": "CN", "COG": "CG", "COD": "CD", "DNK": "DK", "GNQ": "GQ", "EST": "EE",
	"GIN": "GN", "GNB": "GW", "GUY": "GY", "IRQ": "IQ", "IRL": "IE", "ISR": "IL", "KAZ": "KZ",
	"LBY": "LY", "MDG": "MG", "MDV": "MV", "MEX": "MX", "MNE": "ME", "MOZ": "MZ", "PAK": "PK",
	"PNG": "PG", "PRY": "PY", "POL": "PL", "PRT": "PT", "SRB": "RS", "SVK": "SK", "SVN": "SI",
	"SWE": "SE", "TUN": "TN", "TUR": "TR", "TKM": "TM", "UKR": "UA", "ARE": "AE", "URY": "UY",
}

// resolveCountryCode returns the two-letter country of the device. Sources are tried
// in order: device.geo.country, user.geo.country, the MCC of device.mccmnc.
func resolveCountryCode(request *openrtb2.BidRequest) string {
	if request.Device != nil && request.Device.Geo != nil && strings.TrimSpace(request.Device.Geo.Country) != "" {
		return convertCountryCode(request.Device.Geo.Country)
	}
	if request.User != nil && request.User.Geo != nil && strings.TrimSpace(request.User.Geo.Country) != "" {
		return convertCountryCode(request.User.Geo.Country)
	}
	if request.Device != nil && strings.TrimSpace(request.Device.MCCMNC) != "" {
		return getCountryCodeFromMCC(request.Device.MCCMNC)
	}
	return defaultCountryName
}

// convertCountryCode normalizes an alpha-3 or alpha-2 country to alpha-2.
func convertCountryCode(country string) string {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return defaultCountryName
	}
	if alpha2, ok := countryCodeAlpha3ToAlpha2[country]; ok {
		return alpha2
	}
	if len(country) >= 2 && isUpperASCII(country[0]) && isUpperASCII(country[1]) {
		return country[0:2]
	}
	return defaultCountryName
}

func isUpperASCII(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// getCountryCodeFromMCC maps the MCC part of an "MCC-MNC" string to its country.
func getCountryCodeFromMCC(mccmnc string) string {
	mcc := strings.TrimSpace(strings.SplitN(mccmnc, "-", 2)[0])
	code, err := strconv.Atoi(mcc)
	if err != nil {
		return defaultCountryName
	}
	if country, ok := mccList[code]; ok {
		return strings.ToUpper(country)
	}
	return defaultCountryName
}
