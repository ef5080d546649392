package huaweiads

import (
	"strings"

	"github.com/mxmCherry/openrtb/v15/openrtb2"

	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

const defaultAppLanguage = "en"

// getReqAppInfo returns nil when the request has no app object.
func getReqAppInfo(request *openrtb2.BidRequest, countryCode string, pkgNameConverts []openrtb_ext.PkgNameConvert) *app {
	if request.App == nil {
		return nil
	}
	a := &app{
		Version: request.App.Ver,
		Name:    request.App.Name,
		Pkgname: getFinalPkgName(request.App.Bundle, pkgNameConverts),
		Lang:    defaultAppLanguage,
		Country: countryCode,
	}
	if request.App.Content != nil && request.App.Content.Language != "" {
		a.Lang = request.App.Content.Language
	}
	return a
}

// getFinalPkgName applies the first matching conversion rule. An exception in a rule
// keeps the bundle as is; "*" in unconvertedPkgNames matches any bundle.
func getFinalPkgName(bundleName string, pkgNameConverts []openrtb_ext.PkgNameConvert) string {
	for _, convert := range pkgNameConverts {
		if convert.ConvertedPkgName == "" {
			continue
		}
		for _, name := range convert.ExceptionPkgNames {
			if name == bundleName {
				return bundleName
			}
		}
		for _, name := range convert.UnconvertedPkgNames {
			if name == bundleName || name == "*" {
				return convert.ConvertedPkgName
			}
		}
		for _, keyword := range convert.UnconvertedPkgNameKeyWords {
			if keyword != "" && strings.Contains(bundleName, keyword) {
				return convert.ConvertedPkgName
			}
		}
		for _, prefix := range convert.UnconvertedPkgNamePrefixs {
			if prefix != "" && strings.HasPrefix(bundleName, prefix) {
				return convert.ConvertedPkgName
			}
		}
	}
	return bundleName
}
