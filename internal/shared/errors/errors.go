package errors

import "errors"

// Domain errors
var (
	// Input errors
	ErrMissingURL = errors.New("URL is required")
	ErrInvalidURL = errors.New("invalid URL")

	// Check errors
	ErrNoCertificate      = errors.New("no certificate presented")
	ErrTooManyRedirects   = errors.New("maximum number of redirects exceeded")
	ErrReputationDisabled = errors.New("reputation lookup disabled")
	ErrCheckPanicked      = errors.New("check panicked")

	// Serialization errors
	ErrSerializationFailed = errors.New("serialization failed")
)
