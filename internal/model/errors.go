package model

import (
	"errors"
	"fmt"
)

// Well-formed empty results. Reported to callers as "nothing found",
// never treated as system faults.
var (
	ErrNoPositions = errors.New("no positions found for pool")
	ErrNoLiquidity = errors.New("no liquidity in any bin")
	ErrNoOrders    = errors.New("no orders found for maker")
)

// ErrInvalidQuery rejects missing or contradictory parameters before
// any I/O happens.
var ErrInvalidQuery = errors.New("invalid query parameters")

// IsEmptyResult reports whether an error is a well-formed empty result
// rather than a system fault.
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrNoPositions) ||
		errors.Is(err, ErrNoLiquidity) ||
		errors.Is(err, ErrNoOrders)
}

// DecodeError reports a malformed or undersized account buffer. Batch
// decoding skips the offending record and continues.
type DecodeError struct {
	Kind   string
	Got    int
	Want   int
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("decode %s: %s (len=%d)", e.Kind, e.Reason, e.Got)
	}
	return fmt.Sprintf("decode %s: buffer too short: got %d, want at least %d", e.Kind, e.Got, e.Want)
}

// UpstreamError wraps an external fetch failure. It triggers the
// durable-store fallback in the cache coordinator.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
