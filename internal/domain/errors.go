package domain

import (
	"errors"
	"fmt"
)

// TransportError marks an upstream network or server failure. It is fatal
// to the single entry being processed but never to the whole batch.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// CacheError marks a persistence failure. The cache is required for
// correctness, so a CacheError aborts the whole batch.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// IsCache reports whether err is (or wraps) a CacheError.
func IsCache(err error) bool {
	var ce *CacheError
	return errors.As(err, &ce)
}
