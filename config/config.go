package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/prebid/prebid-huaweiads/errortypes"
)

// Configuration specifies the static application config.
type Configuration struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	AdminPort      int    `mapstructure:"admin_port"`
	EnableGzip     bool   `mapstructure:"enable_gzip"`
	StatusResponse string `mapstructure:"status_response"`
	// MaxRequestSize caps the body of inbound requests, in bytes. 0 disables the check.
	MaxRequestSize   int64              `mapstructure:"max_request_size"`
	AuctionTimeoutMS uint64             `mapstructure:"auction_timeout_ms"`
	BidderParamsDir  string             `mapstructure:"bidder_params_dir"`
	Client           HTTPClient         `mapstructure:"http_client"`
	Metrics          Metrics            `mapstructure:"metrics"`
	Adapters         map[string]Adapter `mapstructure:"adapters"`
	// RequestTimeoutHeaders names the headers a fronting queue uses to report how long a request waited.
	RequestTimeoutHeaders RequestTimeoutHeaders `mapstructure:"request_timeout_headers"`
}

type HTTPClient struct {
	MaxConnsPerHost     int `mapstructure:"max_connections_per_host"`
	MaxIdleConns        int `mapstructure:"max_idle_connections"`
	MaxIdleConnsPerHost int `mapstructure:"max_idle_connections_per_host"`
	IdleConnTimeout     int `mapstructure:"idle_connection_timeout_seconds"`
	// DialTimeout is in milliseconds.
	DialTimeout           int `mapstructure:"dial_timeout_ms"`
	DialKeepAlive         int `mapstructure:"dial_keepalive_seconds"`
	TLSHandshakeTimeout   int `mapstructure:"tls_handshake_timeout_seconds"`
	ResponseHeaderTimeout int `mapstructure:"response_header_timeout_seconds"`
}

type RequestTimeoutHeaders struct {
	RequestTimeInQueue    string `mapstructure:"request_time_in_queue"`
	RequestTimeoutInQueue string `mapstructure:"request_timeout_in_queue"`
}

type Metrics struct {
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
}

type PrometheusMetrics struct {
	Port             int    `mapstructure:"port"`
	Namespace        string `mapstructure:"namespace"`
	Subsystem        string `mapstructure:"subsystem"`
	TimeoutMillisRaw int    `mapstructure:"timeout_ms"`
}

// Timeout returns the timeout for the prometheus listener.
func (cfg *PrometheusMetrics) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMillisRaw) * time.Millisecond
}

// AuctionTimeout returns the deadline given to one outbound bidder call.
func (cfg *Configuration) AuctionTimeout() time.Duration {
	return time.Duration(cfg.AuctionTimeoutMS) * time.Millisecond
}

func (cfg *Configuration) validate() []error {
	var errs []error
	if cfg.Port <= 0 {
		errs = append(errs, fmt.Errorf("port must be positive. Got %d", cfg.Port))
	}
	if cfg.AdminPort == cfg.Port {
		errs = append(errs, fmt.Errorf("admin_port and port must differ. Both are %d", cfg.Port))
	}
	if cfg.Metrics.Prometheus.Port != 0 && cfg.Metrics.Prometheus.TimeoutMillisRaw <= 0 {
		errs = append(errs, fmt.Errorf("metrics.prometheus.timeout_ms must be positive when the prometheus listener is enabled"))
	}
	if cfg.MaxRequestSize < 0 {
		errs = append(errs, fmt.Errorf("max_request_size cannot be negative. Got %d", cfg.MaxRequestSize))
	}
	errs = validateAdapters(cfg.Adapters, errs)
	return errs
}

// New uses viper to get our server configurations.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}

	// Viper lower-cases map keys; the adapter names follow.
	adapters := make(map[string]Adapter, len(c.Adapters))
	for name, adapter := range c.Adapters {
		adapters[strings.ToLower(name)] = adapter
	}
	c.Adapters = adapters

	if errs := c.validate(); len(errs) > 0 {
		return &c, errortypes.NewAggregateErrors("validation errors", errs)
	}
	return &c, nil
}

// SetupViper sets the defaults, the config file search path and the env binding.
// An empty filename skips the config file, which tests rely on.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("host", "")
	v.SetDefault("port", 8000)
	v.SetDefault("admin_port", 6060)
	v.SetDefault("enable_gzip", false)
	v.SetDefault("status_response", "")
	v.SetDefault("max_request_size", 1024*256)
	v.SetDefault("auction_timeout_ms", 1000)
	v.SetDefault("bidder_params_dir", "static/bidder-params")
	v.SetDefault("http_client.max_connections_per_host", 0)
	v.SetDefault("http_client.max_idle_connections", 400)
	v.SetDefault("http_client.max_idle_connections_per_host", 10)
	v.SetDefault("http_client.idle_connection_timeout_seconds", 60)
	v.SetDefault("http_client.dial_timeout_ms", 0)
	v.SetDefault("http_client.dial_keepalive_seconds", 0)
	v.SetDefault("http_client.tls_handshake_timeout_seconds", 0)
	v.SetDefault("http_client.response_header_timeout_seconds", 0)
	v.SetDefault("request_timeout_headers.request_time_in_queue", "")
	v.SetDefault("request_timeout_headers.request_timeout_in_queue", "")
	v.SetDefault("metrics.prometheus.port", 0)
	v.SetDefault("metrics.prometheus.namespace", "")
	v.SetDefault("metrics.prometheus.subsystem", "")
	v.SetDefault("metrics.prometheus.timeout_ms", 10000)

	v.SetDefault("adapters.huaweiads.endpoint", "https://acd.op.hicloud.com/ppsadx/getResult")
	v.SetDefault("adapters.huaweiads.disabled", false)
	v.SetDefault("adapters.huaweiads.extra_info", "{}")
	v.SetDefault("adapters.huaweiads.imp_failure_policy", string(ImpFailurePolicyFailFast))

	v.SetEnvPrefix("PBS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.ReadInConfig()
}
