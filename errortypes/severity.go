package errortypes

import "errors"

// Severity represents the severity level of a bid processing error.
type Severity int

const (
	// SeverityUnknown represents an unknown severity level.
	SeverityUnknown Severity = iota

	// SeverityFatal marks an error which stops the call or the impression it belongs to.
	SeverityFatal

	// SeverityWarning marks a problem which was worked around, e.g. an impression skipped
	// under the skip_invalid policy.
	SeverityWarning
)

// severityOf finds the first Coder in err's chain. Errors without one are fatal.
func severityOf(err error) Severity {
	var coder Coder
	if !errors.As(err, &coder) {
		return SeverityFatal
	}
	return coder.Severity()
}

func isFatal(err error) bool {
	return severityOf(err) != SeverityWarning
}

// IsWarning reports whether err carries SeverityWarning. Only *Warning does.
func IsWarning(err error) bool {
	return severityOf(err) == SeverityWarning
}

// ContainsFatalError reports whether any error in the list is fatal.
func ContainsFatalError(errs []error) bool {
	for _, err := range errs {
		if isFatal(err) {
			return true
		}
	}
	return false
}

// FatalOnly keeps the fatal errors of errs, in order.
func FatalOnly(errs []error) []error {
	return filter(errs, isFatal)
}

// WarningOnly keeps the warnings of errs, in order.
func WarningOnly(errs []error) []error {
	return filter(errs, IsWarning)
}

func filter(errs []error, keep func(error) bool) []error {
	kept := make([]error, 0, len(errs))
	for _, err := range errs {
		if keep(err) {
			kept = append(kept, err)
		}
	}
	return kept
}
