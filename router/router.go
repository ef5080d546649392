package router

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/prebid/prebid-huaweiads/adapters"
	"github.com/prebid/prebid-huaweiads/adapters/huaweiads"
	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/endpoints"
	infoEndpoints "github.com/prebid/prebid-huaweiads/endpoints/info"
	"github.com/prebid/prebid-huaweiads/endpoints/openrtb2"
	"github.com/prebid/prebid-huaweiads/logger"
	metricsConf "github.com/prebid/prebid-huaweiads/metrics/config"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
	"github.com/prebid/prebid-huaweiads/router/aspects"
)

// adapterBuilder builds a Bidder from its config section.
type adapterBuilder func(openrtb_ext.BidderName, config.Adapter) (adapters.Bidder, error)

func newAdapterBuilders() map[openrtb_ext.BidderName]adapterBuilder {
	return map[openrtb_ext.BidderName]adapterBuilder{
		openrtb_ext.BidderHuaweiAds: huaweiads.Builder,
	}
}

// NewJsonDirectoryServer is used to serve .json files from a directory as a single blob. For example,
// given a directory containing the files "a.json" and "b.json", this returns a Handle which serves JSON like:
//
//	{
//	  "a": { ... content from the file a.json ... },
//	  "b": { ... content from the file b.json ... }
//	}
//
// This function stores the file contents in memory, and should not be used on large directories.
// If the root directory, or any of the files in it, cannot be read, then the program will exit.
func NewJsonDirectoryServer(schemaDirectory string, validator openrtb_ext.BidderParamValidator) httprouter.Handle {
	// Slurp the files into memory first, since they're small and it minimizes request latency.
	files, err := os.ReadDir(schemaDirectory)
	if err != nil {
		logger.Fatalf("Failed to read directory %s: %v", schemaDirectory, err)
	}

	data := make(map[string]json.RawMessage, len(files))
	for _, file := range files {
		bidder := strings.TrimSuffix(file.Name(), ".json")
		bidderName, isValid := openrtb_ext.GetBidderName(bidder)
		if !isValid {
			logger.Fatalf("Schema exists for an unknown bidder: %s", bidder)
		}
		data[bidder] = json.RawMessage(validator.Schema(bidderName))
	}

	response, err := json.Marshal(data)
	if err != nil {
		logger.Fatalf("Failed to marshal bidder param JSON-schema: %v", err)
	}

	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Add("Content-Type", "application/json")
		w.Write(response)
	}
}

type NoCache struct {
	Handler http.Handler
}

func (m NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Add("Pragma", "no-cache")
	w.Header().Add("Expires", "0")
	m.Handler.ServeHTTP(w, r)
}

type Router struct {
	*httprouter.Router
	MetricsEngine   *metricsConf.DetailedMetricsEngine
	ParamsValidator openrtb_ext.BidderParamValidator
}

func getTransport(cfg *config.Configuration) *http.Transport {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxConnsPerHost: cfg.Client.MaxConnsPerHost,
		IdleConnTimeout: time.Duration(cfg.Client.IdleConnTimeout) * time.Second,
	}

	if cfg.Client.DialTimeout > 0 {
		transport.DialContext = (&net.Dialer{
			Timeout:   time.Duration(cfg.Client.DialTimeout) * time.Millisecond,
			KeepAlive: time.Duration(cfg.Client.DialKeepAlive) * time.Second,
		}).DialContext
	}

	if cfg.Client.TLSHandshakeTimeout > 0 {
		transport.TLSHandshakeTimeout = time.Duration(cfg.Client.TLSHandshakeTimeout) * time.Second
	}

	if cfg.Client.ResponseHeaderTimeout > 0 {
		transport.ResponseHeaderTimeout = time.Duration(cfg.Client.ResponseHeaderTimeout) * time.Second
	}

	if cfg.Client.MaxIdleConns > 0 {
		transport.MaxIdleConns = cfg.Client.MaxIdleConns
	}

	if cfg.Client.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.Client.MaxIdleConnsPerHost
	}

	return transport
}

// New builds the main router. The HuaweiAds routes are only registered when the adapter is enabled.
func New(cfg *config.Configuration, revision string) (r *Router, err error) {
	r = &Router{
		Router: httprouter.New(),
	}

	generalHttpClient := &http.Client{
		Transport: getTransport(cfg),
	}

	r.MetricsEngine = metricsConf.NewMetricsEngine(cfg)

	r.ParamsValidator, err = openrtb_ext.NewBidderParamsValidator(cfg.BidderParamsDir)
	if err != nil {
		return nil, fmt.Errorf("Failed to create the bidder params validator. %v", err)
	}

	uuidGenerator := openrtb2.NewUUIDGenerator()
	builders := newAdapterBuilders()
	for bidderName, build := range builders {
		adapterCfg, ok := cfg.Adapters[string(bidderName)]
		if !ok || adapterCfg.Disabled {
			logger.Infof("Adapter %s is disabled", bidderName)
			continue
		}

		bidder, err := build(bidderName, adapterCfg)
		if err != nil {
			return nil, fmt.Errorf("Failed to initialize adapter %s: %v", bidderName, err)
		}

		adaptationEndpoint, err := openrtb2.NewAdaptationEndpoint(bidder, bidderName, r.ParamsValidator, cfg, r.MetricsEngine, uuidGenerator)
		if err != nil {
			return nil, err
		}

		auctionEndpoint, err := openrtb2.NewEndpoint(adapters.AdaptBidder(bidder, generalHttpClient, bidderName), bidderName, r.ParamsValidator, cfg, r.MetricsEngine, uuidGenerator)
		if err != nil {
			return nil, err
		}

		requestTimeoutHeaders := config.RequestTimeoutHeaders{}
		if cfg.RequestTimeoutHeaders != requestTimeoutHeaders {
			auctionEndpoint = aspects.QueuedRequestTimeout(auctionEndpoint, cfg.RequestTimeoutHeaders)
		}

		r.POST("/"+string(bidderName)+"/request", adaptationEndpoint)
		r.POST("/openrtb2/auction", auctionEndpoint)
	}

	r.GET("/info/bidders", infoEndpoints.NewBiddersEndpoint(cfg.Adapters))
	r.GET("/bidders/params", NewJsonDirectoryServer(cfg.BidderParamsDir, r.ParamsValidator))
	r.GET("/status", endpoints.NewStatusEndpoint(cfg.StatusResponse))
	r.HandlerFunc("GET", "/version", endpoints.NewVersionEndpoint(os.Getenv("VERSION"), revision))

	return r, nil
}

// SupportCORS enables cross-origin requests from any origin.
//
// This is an inherent security risk. However, the server doesn't use cookies for authorization--just identification.
//
// For more info, see:
//
// - https://github.com/rs/cors/issues/55
// - https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS/Errors/CORSNotSupportingCredentials
func SupportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowOriginFunc: func(string) bool {
			return true
		},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"}})
	return c.Handler(handler)
}
