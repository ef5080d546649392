package openrtb2

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/buger/jsonparser"
	"github.com/gofrs/uuid"
	"github.com/mxmCherry/openrtb/v15/openrtb2"

	"github.com/prebid/prebid-huaweiads/adapters"
	"github.com/prebid/prebid-huaweiads/config"
	"github.com/prebid/prebid-huaweiads/errortypes"
	"github.com/prebid/prebid-huaweiads/logger"
	"github.com/prebid/prebid-huaweiads/metrics"
	"github.com/prebid/prebid-huaweiads/openrtb_ext"
)

// UUIDGenerator produces ids for requests which arrive without one.
type UUIDGenerator interface {
	Generate() (string, error)
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NewUUIDGenerator returns the random v4 generator used in production.
func NewUUIDGenerator() UUIDGenerator {
	return uuidGenerator{}
}

type endpointDeps struct {
	bidderName      openrtb_ext.BidderName
	paramsValidator openrtb_ext.BidderParamValidator
	cfg             *config.Configuration
	metricsEngine   metrics.MetricsEngine
	uuidGenerator   UUIDGenerator
	clock           func() time.Time
}

func (deps *endpointDeps) now() time.Time {
	if deps.clock == nil {
		return time.Now()
	}
	return deps.clock()
}

// errorMessage is the JSON form of one error in a response body.
type errorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newErrorMessages(errs []error) []errorMessage {
	if len(errs) == 0 {
		return nil
	}
	messages := make([]errorMessage, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, errorMessage{
			Code:    errortypes.ReadCode(err),
			Message: err.Error(),
		})
	}
	return messages
}

// parseRequest reads and validates the inbound bid request. A blank request id is replaced
// with a generated one.
func (deps *endpointDeps) parseRequest(httpRequest *http.Request) (*openrtb2.BidRequest, []error) {
	var body io.Reader = httpRequest.Body
	if deps.cfg.MaxRequestSize > 0 {
		body = io.LimitReader(httpRequest.Body, deps.cfg.MaxRequestSize+1)
	}

	requestJson, err := io.ReadAll(body)
	if err != nil {
		return nil, []error{err}
	}
	if deps.cfg.MaxRequestSize > 0 && int64(len(requestJson)) > deps.cfg.MaxRequestSize {
		return nil, []error{fmt.Errorf("request size exceeded max size of %d bytes.", deps.cfg.MaxRequestSize)}
	}

	req := &openrtb2.BidRequest{}
	if err := json.Unmarshal(requestJson, req); err != nil {
		return nil, []error{err}
	}

	if req.ID == "" {
		id, err := deps.uuidGenerator.Generate()
		if err != nil {
			return nil, []error{fmt.Errorf("failed to generate a request id: %v", err)}
		}
		req.ID = id
	}

	if err := deps.validateRequest(req); err != nil {
		return nil, []error{err}
	}
	return req, nil
}

func (deps *endpointDeps) validateRequest(req *openrtb2.BidRequest) error {
	if req.TMax < 0 {
		return fmt.Errorf("request.tmax must be nonnegative. Got %d", req.TMax)
	}

	if len(req.Imp) < 1 {
		return errors.New("request.imp must contain at least one element.")
	}

	for index := range req.Imp {
		if err := deps.validateImp(&req.Imp[index], index); err != nil {
			return err
		}
	}
	return nil
}

func (deps *endpointDeps) validateImp(imp *openrtb2.Imp, index int) error {
	if imp.ID == "" {
		return fmt.Errorf("request.imp[%d] missing required field: \"id\"", index)
	}

	bidderExt, _, _, err := jsonparser.Get(imp.Ext, "bidder")
	if err != nil {
		return fmt.Errorf("request.imp[%d].ext.bidder is required: %v", index, err)
	}

	if err := deps.paramsValidator.Validate(deps.bidderName, bidderExt); err != nil {
		return fmt.Errorf("request.imp[%d].ext.bidder failed validation.\n%v", index, err)
	}
	return nil
}

// recordAdaptationErrors feeds adaptation failures and skipped impressions into the metrics engine.
func (deps *endpointDeps) recordAdaptationErrors(errs []error) {
	skipped := 0
	for _, err := range errs {
		if errortypes.ReadCode(err) == errortypes.SkippedImpressionWarningCode {
			skipped++
			continue
		}
		if failure, ok := metrics.AdaptationFailureOf(err); ok {
			deps.metricsEngine.RecordAdaptationFailure(failure)
		}
	}
	deps.metricsEngine.RecordSkippedImps(deps.bidderName, skipped)
}

func (deps *endpointDeps) recordImps(req *openrtb2.BidRequest) {
	for _, imp := range req.Imp {
		deps.metricsEngine.RecordImps(metrics.ImpLabels{
			BannerImps: imp.Banner != nil,
			VideoImps:  imp.Video != nil,
			AudioImps:  imp.Audio != nil,
			NativeImps: imp.Native != nil,
		})
	}
}

// isInputError reports whether err was caused by the inbound request rather than the remote server.
func isInputError(err error) bool {
	if _, ok := metrics.AdaptationFailureOf(err); ok {
		return true
	}
	var badInput *errortypes.BadInput
	return errors.As(err, &badInput)
}

func writeBadRequest(w http.ResponseWriter, errs []error) {
	w.WriteHeader(http.StatusBadRequest)
	for _, err := range errs {
		fmt.Fprintf(w, "Invalid request format: %s\n", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	responseBytes, err := json.Marshal(value)
	if err != nil {
		logger.Errorf("Failed to marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Failed to marshal response: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(responseBytes)
}

func (deps *endpointDeps) newExtraRequestInfo() adapters.ExtraRequestInfo {
	return adapters.NewExtraRequestInfo(deps.now())
}
