package metrics

import "errors"

var (
	// ErrInvalidField indicates a recognized update key carried a value of
	// an unusable type or out-of-range magnitude.
	ErrInvalidField = errors.New("metrics: invalid field value")
)
