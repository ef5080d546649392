package errortypes

import "fmt"

// The errors in this file describe why a bid request could not be adapted into a
// vendor payload. They are request-level validation failures: retrying the same
// request will fail the same way.

// MalformedExtension is returned when a vendor extension blob (imp.ext, user.ext)
// cannot be decoded into the shape the adapter expects.
type MalformedExtension struct {
	Message string
}

func (err *MalformedExtension) Error() string {
	return err.Message
}

func (err *MalformedExtension) Code() int {
	return MalformedExtensionErrorCode
}

func (err *MalformedExtension) Severity() Severity {
	return SeverityFatal
}

// MissingRequiredField names the field which was blank or absent.
type MissingRequiredField struct {
	Field   string
	Message string
}

func (err *MissingRequiredField) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return fmt.Sprintf("%s is empty", err.Field)
}

func (err *MissingRequiredField) Code() int {
	return MissingRequiredFieldErrorCode
}

func (err *MissingRequiredField) Severity() Severity {
	return SeverityFatal
}

// UnsupportedMediaType is returned for impressions whose media type the vendor cannot serve.
type UnsupportedMediaType struct {
	Message string
}

func (err *UnsupportedMediaType) Error() string {
	return err.Message
}

func (err *UnsupportedMediaType) Code() int {
	return UnsupportedMediaTypeErrorCode
}

func (err *UnsupportedMediaType) Severity() Severity {
	return SeverityFatal
}

// InconsistentMediaType is returned when the configured ad type does not match the
// media object present on the impression.
type InconsistentMediaType struct {
	Message string
}

func (err *InconsistentMediaType) Error() string {
	return err.Message
}

func (err *InconsistentMediaType) Code() int {
	return InconsistentMediaTypeErrorCode
}

func (err *InconsistentMediaType) Severity() Severity {
	return SeverityFatal
}

// MalformedNativePayload is returned when imp.native.request is blank or not a valid native request.
type MalformedNativePayload struct {
	Message string
}

func (err *MalformedNativePayload) Error() string {
	return err.Message
}

func (err *MalformedNativePayload) Code() int {
	return MalformedNativePayloadErrorCode
}

func (err *MalformedNativePayload) Severity() Severity {
	return SeverityFatal
}

// MissingDeviceIdentifier is returned when no usable device identifier (oaid, gaid, imei, ifa) was sent.
type MissingDeviceIdentifier struct {
	Message string
}

func (err *MissingDeviceIdentifier) Error() string {
	return err.Message
}

func (err *MissingDeviceIdentifier) Code() int {
	return MissingDeviceIdentifierErrorCode
}

func (err *MissingDeviceIdentifier) Severity() Severity {
	return SeverityFatal
}
