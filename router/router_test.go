package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

type testValidator struct{}

func (validator *testValidator) Validate(name openrtb_ext.BidderName, ext json.RawMessage) error {
	return nil
}

func (validator *testValidator) Schema(name openrtb_ext.BidderName) string {
	if name == openrtb_ext.BidderHuaweiAds {
		return "{\"huaweiads\":true}"
	}
	return "{\"huaweiads\":false}"
}

func TestNewJsonDirectoryServer(t *testing.T) {
	handler := NewJsonDirectoryServer("../static/bidder-params", &testValidator{})
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/whatever", nil)
	handler(recorder, request, nil)

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &data))

	for _, bidderName := range openrtb_ext.CoreBidderNames() {
		schema, ok := data[string(bidderName)]
		if assert.True(t, ok, "Expected map to produce a schema for adapter: %s", bidderName) {
			assert.JSONEq(t, `{"huaweiads":true}`, string(schema))
		}
	}
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
}

func TestNoCache(t *testing.T) {
	nc := NoCache{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	}
	rw := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "http://localhost/nocache", nil)
	require.NoError(t, err)

	nc.ServeHTTP(rw, req)

	h := rw.Header()
	assert.Equal(t, "no-cache, no-store, must-revalidate", h.Get("Cache-Control"))
	assert.Equal(t, "no-cache", h.Get("Pragma"))
	assert.Equal(t, "0", h.Get("Expires"))
}

func TestSupportCORS(t *testing.T) {
	handler := SupportCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/status", nil)
	req.Header.Set("Origin", "https://publisher.example.com")
	rw := httptest.NewRecorder()

	handler.ServeHTTP(rw, req)

	assert.Equal(t, "https://publisher.example.com", rw.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rw.Header().Get("Access-Control-Allow-Credentials"))
}

func TestGetTransport(t *testing.T) {
	cfg := &config.Configuration{
		Client: config.HTTPClient{
			MaxConnsPerHost:     5,
			MaxIdleConns:        50,
			MaxIdleConnsPerHost: 7,
			IdleConnTimeout:     30,
			DialTimeout:         100,
		},
	}

	transport := getTransport(cfg)

	assert.Equal(t, 5, transport.MaxConnsPerHost)
	assert.Equal(t, 50, transport.MaxIdleConns)
	assert.Equal(t, 7, transport.MaxIdleConnsPerHost)
	assert.Equal(t, "30s", transport.IdleConnTimeout.String())
	assert.NotNil(t, transport.DialContext)
	assert.Zero(t, transport.TLSHandshakeTimeout)
}

func newTestConfig(disabled bool) *config.Configuration {
	return &config.Configuration{
		StatusResponse:   "ok",
		MaxRequestSize:   1024 * 256,
		AuctionTimeoutMS: 500,
		BidderParamsDir:  "../static/bidder-params",
		Adapters: map[string]config.Adapter{
			"huaweiads": {
				Endpoint: "https://acd.op.hicloud.com/ppsadx/getResult",
				Disabled: disabled,
			},
		},
	}
}

func TestNewRegistersRoutes(t *testing.T) {
	r, err := New(newTestConfig(false), "abc123")
	require.NoError(t, err)

	testCases := []struct {
		method       string
		path         string
		body         string
		expectedCode int
	}{
		{method: "GET", path: "/status", expectedCode: http.StatusOK},
		{method: "GET", path: "/version", expectedCode: http.StatusOK},
		{method: "GET", path: "/info/bidders", expectedCode: http.StatusOK},
		{method: "GET", path: "/bidders/params", expectedCode: http.StatusOK},
		{method: "POST", path: "/huaweiads/request", body: `{"id":"req-1","imp":[]}`, expectedCode: http.StatusBadRequest},
		{method: "POST", path: "/openrtb2/auction", body: `{"id":"req-1","imp":[]}`, expectedCode: http.StatusBadRequest},
	}

	for _, test := range testCases {
		rw := httptest.NewRecorder()
		r.ServeHTTP(rw, httptest.NewRequest(test.method, test.path, strings.NewReader(test.body)))
		assert.Equal(t, test.expectedCode, rw.Code, test.path)
	}
}

func TestNewSkipsDisabledAdapter(t *testing.T) {
	r, err := New(newTestConfig(true), "")
	require.NoError(t, err)

	rw := httptest.NewRecorder()
	r.ServeHTTP(rw, httptest.NewRequest("POST", "/openrtb2/auction", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusNotFound, rw.Code)
}

func TestNewInvalidExtraInfo(t *testing.T) {
	cfg := newTestConfig(false)
	cfg.Adapters["huaweiads"] = config.Adapter{
		Endpoint:         "https://acd.op.hicloud.com/ppsadx/getResult",
		ExtraAdapterInfo: `{"pkgNameConvert":`,
	}

	_, err := New(cfg, "")

	assert.Error(t, err)
}
