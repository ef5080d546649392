package huaweiads

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mxmCherry/openrtb/v15/openrtb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prebid/prebid-huaweiads/errortypes"
)

func TestParseImpExtValid(t *testing.T) {
	imp := &openrtb2.Imp{
		ID:  "1",
		Ext: json.RawMessage(`{"bidder":{"slotid":"u42ohmaufh","adtype":"Banner","publisherid":"123","signkey":"144c","keyid":"41","isTestAuthorization":"true"}}`),
	}

	ext, err := parseImpExt(imp)
	require.NoError(t, err)
	assert.Equal(t, "u42ohmaufh", ext.SlotId)
	assert.Equal(t, "Banner", ext.Adtype)
	assert.Equal(t, "123", ext.PublisherId)
	assert.Equal(t, "144c", ext.SignKey)
	assert.Equal(t, "41", ext.KeyId)
	assert.Equal(t, "true", ext.IsTestAuthorization)
}

func TestParseImpExtMalformed(t *testing.T) {
	testCases := []struct {
		description string
		ext         string
	}{
		{"not-json", `{`},
		{"ext-is-array", `[]`},
		{"bidder-is-string", `{"bidder":"slot"}`},
		{"slotid-is-number", `{"bidder":{"slotid":42}}`},
	}

	for _, test := range testCases {
		_, err := parseImpExt(&openrtb2.Imp{ID: "1", Ext: json.RawMessage(test.ext)})

		var malformed *errortypes.MalformedExtension
		assert.True(t, errors.As(err, &malformed), test.description)
	}
}

func TestParseImpExtMissingField(t *testing.T) {
	testCases := []struct {
		description   string
		bidder        string
		expectedField string
	}{
		{"no-slotid", `{"adtype":"banner","publisherid":"1","signkey":"k","keyid":"41"}`, "slotid"},
		{"blank-adtype", `{"slotid":"s","adtype":"  ","publisherid":"1","signkey":"k","keyid":"41"}`, "adtype"},
		{"no-publisherid", `{"slotid":"s","adtype":"banner","signkey":"k","keyid":"41"}`, "publisherid"},
		{"no-signkey", `{"slotid":"s","adtype":"banner","publisherid":"1","keyid":"41"}`, "signkey"},
		{"no-keyid", `{"slotid":"s","adtype":"banner","publisherid":"1","signkey":"k"}`, "keyid"},
		{"empty-object-reports-first", `{}`, "slotid"},
	}

	for _, test := range testCases {
		imp := &openrtb2.Imp{ID: "1", Ext: json.RawMessage(`{"bidder":` + test.bidder + `}`)}
		_, err := parseImpExt(imp)

		var missing *errortypes.MissingRequiredField
		if assert.True(t, errors.As(err, &missing), test.description) {
			assert.Equal(t, test.expectedField, missing.Field, test.description)
		}
	}
}
