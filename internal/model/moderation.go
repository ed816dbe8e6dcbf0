package model

import "errors"

// Moderation errors
var (
	// ErrWordSourceUnavailable means the banned word list could not be
	// loaded. Moderation fails closed on it.
	ErrWordSourceUnavailable = errors.New("banned word source unavailable")
)
