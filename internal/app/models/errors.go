package models

import "errors"

// Domain specific errors for the assistant pipeline.
var (
	ErrEmptyMessage      = errors.New("message cannot be empty")
	ErrEmptyCompletion   = errors.New("provider returned empty completion")
	ErrMalformedResponse = errors.New("provider response missing expected fields")
)
