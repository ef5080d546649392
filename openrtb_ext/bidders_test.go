package openrtb_ext

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaDirectory = "../static/bidder-params"

func TestBidderParamValidatorAcceptsValidParams(t *testing.T) {
	validator, err := NewBidderParamsValidator(testSchemaDirectory)
	require.NoError(t, err)

	ext := json.RawMessage(`{"slotid":"m8x9x3rzff","adtype":"banner","publisherid":"123","signkey":"abc","keyid":"41"}`)
	assert.NoError(t, validator.Validate(BidderHuaweiAds, ext))
	assert.NotEmpty(t, validator.Schema(BidderHuaweiAds))
}

func TestBidderParamValidatorRejectsInvalidParams(t *testing.T) {
	validator, err := NewBidderParamsValidator(testSchemaDirectory)
	require.NoError(t, err)

	testCases := []struct {
		description string
		ext         string
	}{
		{"missing-slotid", `{"adtype":"banner","publisherid":"123","signkey":"abc","keyid":"41"}`},
		{"empty-keyid", `{"slotid":"s","adtype":"banner","publisherid":"123","signkey":"abc","keyid":""}`},
		{"wrong-type", `{"slotid":1,"adtype":"banner","publisherid":"123","signkey":"abc","keyid":"41"}`},
		{"not-an-object", `[]`},
	}

	for _, test := range testCases {
		assert.Error(t, validator.Validate(BidderHuaweiAds, json.RawMessage(test.ext)), test.description)
	}
}

func TestBidderParamValidatorUnknownSchemaFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unknown.json"), []byte(`{}`), 0644))

	_, err := NewBidderParamsValidator(dir)
	assert.Error(t, err)
}

func TestBidderParamValidatorMissingDirectory(t *testing.T) {
	_, err := NewBidderParamsValidator(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestGetBidderName(t *testing.T) {
	name, ok := GetBidderName("HuaweiAds")
	assert.True(t, ok)
	assert.Equal(t, BidderHuaweiAds, name)

	_, ok = GetBidderName("appnexus")
	assert.False(t, ok)
}

func TestParseBidType(t *testing.T) {
	for _, bidType := range BidTypes() {
		parsed, err := ParseBidType(string(bidType))
		assert.NoError(t, err)
		assert.Equal(t, bidType, parsed)
	}

	_, err := ParseBidType("carousel")
	assert.Error(t, err)
}
