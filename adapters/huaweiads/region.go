package huaweiads

// service regions of the ad server, used for endpoint selection and tracking hosts
const (
	regionChina  = "CN"
	regionRussia = "RUS"
	regionEurope = "EU"
	regionAsia   = "AP"
)

var europeanCountries = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {}, "EE": {}, "FI": {}, "FR": {},
	"DE": {}, "GR": {}, "HU": {}, "IE": {}, "IT": {}, "LV": {}, "LT": {}, "LU": {}, "MT": {}, "NL": {},
	"PL": {}, "PT": {}, "RO": {}, "SK": {}, "SI": {}, "ES": {}, "SE": {}, "IS": {}, "LI": {}, "NO": {},
	"GB": {}, "CH": {},
}

// regionOf expects a normalized alpha-2 country code.
func regionOf(countryCode string) string {
	switch countryCode {
	case "CN":
		return regionChina
	case "RU":
		return regionRussia
	}
	if _, ok := europeanCountries[countryCode]; ok {
		return regionEurope
	}
	return regionAsia
}
