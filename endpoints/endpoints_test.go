package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusEndpoint(t *testing.T) {
	testCases := []struct {
		description  string
		response     string
		expectedCode int
		expectedBody string
	}{
		{
			description:  "Configured response",
			response:     "ready",
			expectedCode: http.StatusOK,
			expectedBody: "ready",
		},
		{
			description:  "No content",
			response:     "",
			expectedCode: http.StatusNoContent,
			expectedBody: "",
		},
	}

	for _, test := range testCases {
		handler := NewStatusEndpoint(test.response)
		w := httptest.NewRecorder()

		handler(w, httptest.NewRequest("GET", "/status", nil), nil)

		assert.Equal(t, test.expectedCode, w.Code, test.description)
		assert.Equal(t, test.expectedBody, w.Body.String(), test.description)
	}
}

func TestVersionEndpoint(t *testing.T) {
	testCases := []struct {
		description string
		version     string
		revision    string
		expected    string
	}{
		{
			description: "Empty",
			expected:    `{"revision":"not-set","version":"not-set"}`,
		},
		{
			description: "Populated",
			version:     "1.2.3",
			revision:    "abc123",
			expected:    `{"revision":"abc123","version":"1.2.3"}`,
		},
	}

	for _, test := range testCases {
		handler := NewVersionEndpoint(test.version, test.revision)
		w := httptest.NewRecorder()

		handler(w, httptest.NewRequest("GET", "/version", nil))

		assert.Equal(t, http.StatusOK, w.Code, test.description)
		assert.JSONEq(t, test.expected, w.Body.String(), test.description)
	}
}
