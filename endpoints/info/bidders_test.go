package info

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prebid/prebid-huaweiads/config"
)

func TestBiddersEndpoint(t *testing.T) {
	testCases := []struct {
		description string
		adapters    map[string]config.Adapter
		expected    []string
	}{
		{
			description: "Enabled",
			adapters:    map[string]config.Adapter{"huaweiads": {Endpoint: "https://acd.op.hicloud.com/ppsadx/getResult"}},
			expected:    []string{"huaweiads"},
		},
		{
			description: "Not configured",
			adapters:    nil,
			expected:    []string{"huaweiads"},
		},
		{
			description: "Disabled",
			adapters:    map[string]config.Adapter{"huaweiads": {Disabled: true}},
			expected:    []string{},
		},
	}

	for _, test := range testCases {
		endpoint := NewBiddersEndpoint(test.adapters)

		req, err := http.NewRequest("GET", "http://prebid-server.com/info/bidders", strings.NewReader(""))
		require.NoError(t, err, test.description)

		r := httptest.NewRecorder()
		endpoint(r, req, nil)

		assert.Equal(t, http.StatusOK, r.Code, test.description)
		assert.Equal(t, "application/json", r.Header().Get("Content-Type"), test.description)

		var bidders []string
		require.NoError(t, json.Unmarshal(r.Body.Bytes(), &bidders), test.description)
		assert.ElementsMatch(t, test.expected, bidders, test.description)
	}
}
