package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	validator "github.com/asaskevich/govalidator"
)

// ImpFailurePolicy decides what a single invalid impression does to the whole call.
type ImpFailurePolicy string

const (
	// ImpFailurePolicyFailFast aborts the call on the first invalid impression.
	ImpFailurePolicyFailFast ImpFailurePolicy = "fail_fast"
	// ImpFailurePolicySkipInvalid drops invalid impressions and fails only when none are left.
	ImpFailurePolicySkipInvalid ImpFailurePolicy = "skip_invalid"
)

func (p ImpFailurePolicy) valid() bool {
	return p == "" || p == ImpFailurePolicyFailFast || p == ImpFailurePolicySkipInvalid
}

type Adapter struct {
	Endpoint string `mapstructure:"endpoint"` // Required
	Disabled bool   `mapstructure:"disabled"`
	// ExtraAdapterInfo is a JSON document the adapter decodes on build.
	ExtraAdapterInfo string           `mapstructure:"extra_info"`
	ImpFailurePolicy ImpFailurePolicy `mapstructure:"imp_failure_policy"`
}

// endpointTemplateParams are the macros an endpoint may reference, e.g. {{.Host}}.
type endpointTemplateParams struct {
	Host string
}

const dummyHost string = "dummyhost.com"

// validateAdapters validates every enabled adapter's endpoint, extra info and failure policy
func validateAdapters(adapterMap map[string]Adapter, errs []error) []error {
	for adapterName, adapter := range adapterMap {
		if adapter.Disabled {
			continue
		}
		errs = validateAdapterEndpoint(adapter.Endpoint, adapterName, errs)
		if adapter.ExtraAdapterInfo != "" && !json.Valid([]byte(adapter.ExtraAdapterInfo)) {
			errs = append(errs, fmt.Errorf("adapters.%s.extra_info must be valid JSON", adapterName))
		}
		if !adapter.ImpFailurePolicy.valid() {
			errs = append(errs, fmt.Errorf("adapters.%s.imp_failure_policy must be %q or %q. Got %q",
				adapterName, ImpFailurePolicyFailFast, ImpFailurePolicySkipInvalid, adapter.ImpFailurePolicy))
		}
	}
	return errs
}

// validateAdapterEndpoint makes sure that an adapter has a valid endpoint
// associated with it
func validateAdapterEndpoint(endpoint string, adapterName string, errs []error) []error {
	if endpoint == "" {
		return append(errs, fmt.Errorf("There's no default endpoint available for %s. Calls to this bidder/exchange will fail. "+
			"Please set adapters.%s.endpoint in your app config", adapterName, adapterName))
	}

	endpointTemplate, err := template.New("endpointTemplate").Parse(endpoint)
	if err != nil {
		return append(errs, fmt.Errorf("Invalid endpoint template: %s for adapter: %s. %v", endpoint, adapterName, err))
	}
	var resolved bytes.Buffer
	if err := endpointTemplate.Execute(&resolved, endpointTemplateParams{Host: dummyHost}); err != nil {
		return append(errs, fmt.Errorf("Unable to resolve endpoint: %s for adapter: %s. %v", endpoint, adapterName, err))
	}
	resolvedEndpoint := resolved.String()

	// IsURL allows relative paths and IsRequestURL misses some format checks, so both are needed.
	if !validator.IsURL(resolvedEndpoint) || !validator.IsRequestURL(resolvedEndpoint) {
		errs = append(errs, fmt.Errorf("The endpoint: %s for %s is not a valid URL", resolvedEndpoint, adapterName))
	}
	return errs
}
