package aspects

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"

	"github.com/prebid/prebid-huaweiads/config"
)

const (
	reqTimeInQueueHeaderName = "X-Ngx-Request-Time-In-Queue"
	reqTimeoutHeaderName     = "X-Ngx-Request-Timeout"
)

func TestQueuedRequestTimeout(t *testing.T) {
	testCases := []struct {
		description    string
		timeInQueue    string
		timeout        string
		expectedStatus int
		expectedCalled bool
	}{
		{
			description:    "No headers",
			expectedStatus: http.StatusOK,
			expectedCalled: true,
		},
		{
			description:    "Within budget",
			timeInQueue:    "0.5",
			timeout:        "3",
			expectedStatus: http.StatusOK,
			expectedCalled: true,
		},
		{
			description:    "Budget spent",
			timeInQueue:    "6",
			timeout:        "5",
			expectedStatus: http.StatusRequestTimeout,
		},
		{
			description:    "Malformed time in queue",
			timeInQueue:    "test1",
			timeout:        "5",
			expectedStatus: http.StatusBadRequest,
		},
		{
			description:    "Malformed timeout",
			timeInQueue:    "1",
			timeout:        "test2",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, test := range testCases {
		called := false
		handler := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			called = true
			w.WriteHeader(http.StatusOK)
		}

		req := httptest.NewRequest("POST", "/openrtb2/auction", nil)
		if test.timeInQueue != "" {
			req.Header.Set(reqTimeInQueueHeaderName, test.timeInQueue)
		}
		if test.timeout != "" {
			req.Header.Set(reqTimeoutHeaderName, test.timeout)
		}

		headers := config.RequestTimeoutHeaders{
			RequestTimeInQueue:    reqTimeInQueueHeaderName,
			RequestTimeoutInQueue: reqTimeoutHeaderName,
		}
		rr := httptest.NewRecorder()
		QueuedRequestTimeout(handler, headers)(rr, req, nil)

		assert.Equal(t, test.expectedStatus, rr.Code, test.description)
		assert.Equal(t, test.expectedCalled, called, test.description)
	}
}
