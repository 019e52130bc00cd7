package fieldmap

import "errors"

var (
	// ErrModelCall indicates the model call failed in transport or timed out.
	// Calls failing this way are retried per the retry policy.
	ErrModelCall = errors.New("model call failed")
	// ErrSchemaViolation indicates the model response does not conform to the
	// field schema contract. Never retried.
	ErrSchemaViolation = errors.New("model response violates field schema")
)
