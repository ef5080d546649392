package adapterstest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mxmCherry/openrtb/v15/openrtb2"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/prebid/prebid-huaweiads/adapters"
)

// RunJSONBidderTest is a helper method intended to unit test Bidders' adapters.
// It requires that:
//
//   - Bidders communicate with external servers over HTTP.
//   - The HTTP request bodies are legal JSON.
//
// This method will look for JSON files in the following directories:
//
//	adapters/{bidder}/{bidder}test/exemplary
//	adapters/{bidder}/{bidder}test/supplemental
//
// Each file in those directories must be a testCase, see below.
//
// "exemplary" tests document how the Bidder is expected to behave in common cases.
// "supplemental" tests cover the edge cases: errors, empty responses, odd inputs.
//
// Requests are built with ExtraRequestInfo.RequestTime fixed to FixedRequestTime so that
// any time-derived output stays stable between runs.
func RunJSONBidderTest(t *testing.T, rootDir string, bidder adapters.Bidder) {
	runTests(t, fmt.Sprintf("%s/exemplary", rootDir), bidder, false)
	runTests(t, fmt.Sprintf("%s/supplemental", rootDir), bidder, true)
}

// FixedRequestTime is the RequestTime every fixture runs with.
var FixedRequestTime = time.Date(2021, time.May, 10, 8, 30, 0, 0, time.UTC)

// runTests runs all the *.json files in a directory. If allowErrors is false, and one of the test files
// expects errors from the bidder, then the test will fail.
func runTests(t *testing.T, directory string, bidder adapters.Bidder, allowErrors bool) {
	t.Helper()
	if caseFiles, err := os.ReadDir(directory); err == nil {
		for _, caseFile := range caseFiles {
			if caseFile.IsDir() || !strings.HasSuffix(caseFile.Name(), ".json") {
				continue
			}
			fileName := filepath.Join(directory, caseFile.Name())
			caseData, err := loadFile(fileName)
			if err != nil {
				t.Fatalf("Failed to load contents of file %s: %v", fileName, err)
			}

			if !allowErrors && caseData.expectsErrors() {
				t.Fatalf("Exemplary test case %s must not expect errors.", fileName)
			}
			t.Run(caseFile.Name(), func(t *testing.T) {
				runTestCase(t, fileName, caseData, bidder)
			})
		}
	}
}

// loadFile reads and parses a file as a test case. If something goes wrong, it returns an error.
func loadFile(filename string) (*testCase, error) {
	caseData, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Failed to read file %s: %v", filename, err)
	}

	var tc testCase
	if err := json.Unmarshal(caseData, &tc); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal JSON from file: %v", err)
	}

	return &tc, nil
}

// runTestCase runs a single test case. It will make sure:
//
//   - That the Bidder does not return nil HTTP requests, bids, or errors inside their lists
//   - That the Bidder's HTTP calls match the fixture's expectations.
//   - That the Bidder's Bids match the fixture's expectations
//   - That the Bidder's errors match the fixture's expectations
func runTestCase(t *testing.T, filename string, tc *testCase, bidder adapters.Bidder) {
	reqInfo := adapters.NewExtraRequestInfo(FixedRequestTime)
	requests, errs := bidder.MakeRequests(&tc.BidRequest, &reqInfo)

	diffErrorLists(t, fmt.Sprintf("%s: MakeRequests", filename), errs, tc.MakeRequestErrors)
	diffHttpRequestLists(t, filename, requests, tc.HttpCalls)

	bidResponses := make([]*adapters.BidderResponse, 0)
	var bidsErrs = make([]error, 0, len(tc.MakeBidsErrors))
	for i := 0; i < len(tc.HttpCalls) && i < len(requests); i++ {
		bidResponse, theseErrs := bidder.MakeBids(&tc.BidRequest, requests[i], &adapters.ResponseData{
			StatusCode: tc.HttpCalls[i].Response.Status,
			Body:       tc.HttpCalls[i].Response.Body,
			Headers:    tc.HttpCalls[i].Response.Headers,
		})
		bidsErrs = append(bidsErrs, theseErrs...)
		if bidResponse != nil {
			bidResponses = append(bidResponses, bidResponse)
		}
	}

	diffErrorLists(t, fmt.Sprintf("%s: MakeBids", filename), bidsErrs, tc.MakeBidsErrors)
	diffBidResponses(t, filename, bidResponses, tc.BidResponses)
}

type testCase struct {
	BidRequest        openrtb2.BidRequest     `json:"mockBidRequest"`
	HttpCalls         []httpCall              `json:"httpCalls"`
	BidResponses      []expectedBidResponse   `json:"expectedBidResponses"`
	MakeRequestErrors []testCaseExpectedError `json:"expectedMakeRequestsErrors"`
	MakeBidsErrors    []testCaseExpectedError `json:"expectedMakeBidsErrors"`
}

type testCaseExpectedError struct {
	Value      string `json:"value"`
	Comparison string `json:"comparison"`
}

func (tc *testCase) expectsErrors() bool {
	return len(tc.MakeRequestErrors) > 0 || len(tc.MakeBidsErrors) > 0
}

type httpCall struct {
	Request  httpRequest  `json:"expectedRequest"`
	Response httpResponse `json:"mockResponse"`
}

type httpRequest struct {
	Body    json.RawMessage `json:"body"`
	Uri     string          `json:"uri"`
	Headers http.Header     `json:"headers"`
}

type httpResponse struct {
	Status  int             `json:"status"`
	Body    json.RawMessage `json:"body"`
	Headers http.Header     `json:"headers"`
}

type expectedBidResponse struct {
	Bids     []expectedBid `json:"bids"`
	Currency string        `json:"currency"`
}

type expectedBid struct {
	Bid  json.RawMessage `json:"bid"`
	Type string          `json:"type"`
}

// ---------------------------------------
// Lots of ugly, repetitive code below here.
//
// reflect.DeepEquals doesn't work because each OpenRTB field has an `ext []byte`, but we really care if those are JSON-equal

// diffHttpRequests compares the actual HTTP request data to the expected one.
// It assumes that the request bodies are JSON
func diffHttpRequestLists(t *testing.T, filename string, actual []*adapters.RequestData, expected []httpCall) {
	t.Helper()

	if len(expected) != len(actual) {
		t.Fatalf("%s: MakeRequests had wrong request count. Expected %d, got %d", filename, len(expected), len(actual))
	}
	for i := 0; i < len(actual); i++ {
		diffHttpRequests(t, fmt.Sprintf("%s: httpRequest[%d]", filename, i), actual[i], &(expected[i].Request))
	}
}

func diffErrorLists(t *testing.T, description string, actual []error, expected []testCaseExpectedError) {
	t.Helper()

	if len(expected) != len(actual) {
		t.Fatalf("%s had wrong error count. Expected %d, got %d (%v)", description, len(expected), len(actual), actual)
	}
	for i := 0; i < len(actual); i++ {
		if expected[i].Comparison == "literal" {
			if expected[i].Value != actual[i].Error() {
				t.Errorf(`%s error[%d] had wrong message. Expected "%s", got "%s"`, description, i, expected[i].Value, actual[i].Error())
			}
		} else if expected[i].Comparison == "regex" {
			if matched, _ := regexp.MatchString(expected[i].Value, actual[i].Error()); !matched {
				t.Errorf(`%s error[%d] had wrong message. Expected match with regex "%s", got "%s"`, description, i, expected[i].Value, actual[i].Error())
			}
		} else {
			t.Fatalf(`invalid comparison type "%s"`, expected[i].Comparison)
		}
	}
}

func diffBidResponses(t *testing.T, filename string, actual []*adapters.BidderResponse, expected []expectedBidResponse) {
	t.Helper()

	if len(actual) != len(expected) {
		t.Fatalf("%s: MakeBids returned wrong bid response count. Expected %d, got %d", filename, len(expected), len(actual))
	}
	for i := 0; i < len(actual); i++ {
		if expected[i].Currency != "" && expected[i].Currency != actual[i].Currency {
			t.Errorf("%s: bidResponse[%d] had currency %s, expected %s", filename, i, actual[i].Currency, expected[i].Currency)
		}
		diffBidLists(t, fmt.Sprintf("%s: bidResponse[%d]", filename, i), actual[i].Bids, expected[i].Bids)
	}
}

func diffBidLists(t *testing.T, description string, actual []*adapters.TypedBid, expected []expectedBid) {
	t.Helper()

	if len(actual) != len(expected) {
		t.Fatalf("%s had wrong bid count. Expected %d, got %d", description, len(expected), len(actual))
	}
	for i := 0; i < len(actual); i++ {
		diffBids(t, fmt.Sprintf("%s bid[%d]", description, i), actual[i], &(expected[i]))
	}
}

func diffHttpRequests(t *testing.T, description string, actual *adapters.RequestData, expected *httpRequest) {
	t.Helper()
	if actual == nil {
		t.Errorf("Bidders cannot return nil HTTP calls. %s was nil.", description)
		return
	}

	if expected.Uri != actual.Uri {
		t.Errorf(`%s.uri "%s" does not match expected "%s."`, description, actual.Uri, expected.Uri)
	}
	if expected.Headers != nil {
		actualHeader, _ := json.Marshal(actual.Headers)
		expectedHeader, _ := json.Marshal(expected.Headers)
		diffJson(t, description, actualHeader, expectedHeader)
	}
	diffJson(t, description, actual.Body, expected.Body)
}

func diffBids(t *testing.T, description string, actual *adapters.TypedBid, expected *expectedBid) {
	t.Helper()
	if actual == nil {
		t.Errorf("Bidders cannot return nil TypedBids. %s was nil.", description)
		return
	}

	if string(actual.BidType) != expected.Type {
		t.Errorf(`%s.type "%s" does not match expected "%s."`, description, string(actual.BidType), expected.Type)
	}

	actualJson, err := json.Marshal(actual.Bid)
	if err != nil {
		t.Fatalf("%s failed to marshal actual Bid into JSON. %v", description, err)
	}

	diffJson(t, fmt.Sprintf("%s.bid", description), actualJson, expected.Bid)
}

// diffJson compares two JSON byte arrays for structural equality. It will produce an error if either
// byte array is not actually JSON.
func diffJson(t *testing.T, description string, actual []byte, expected []byte) {
	t.Helper()
	if len(actual) == 0 && len(expected) == 0 {
		return
	}
	if len(actual) == 0 || len(expected) == 0 {
		t.Fatalf("%s json diff failed. Expected %d bytes in body, but got %d.", description, len(expected), len(actual))
	}
	diff, err := gojsondiff.New().Compare(actual, expected)
	if err != nil {
		t.Fatalf("%s json diff failed. %v", description, err)
	}

	if diff.Modified() {
		var left interface{}
		if err := json.Unmarshal(actual, &left); err != nil {
			t.Fatalf("%s json did not match, but unmarshalling failed. %v", description, err)
		}
		printer := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
			ShowArrayIndex: true,
		})
		output, err := printer.Format(diff)
		if err != nil {
			t.Errorf("%s did not match, but diff formatting failed. %v", description, err)
		} else {
			t.Errorf("%s json did not match expected.\n\n%s", description, output)
		}
	}
}
