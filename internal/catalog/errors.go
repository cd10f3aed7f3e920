package catalog

import (
	"errors"
	"fmt"

	"movies-etl/internal/config"
)

var (
	// ErrConfiguration matches missing credentials or an unusable target date.
	// Raised before any network or database work.
	ErrConfiguration = config.ErrConfiguration
	// ErrUpstream matches failures talking to the metadata API.
	ErrUpstream = errors.New("upstream error")
	// ErrStore matches database failures.
	ErrStore = errors.New("store error")
)

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// UpstreamError wraps a failed API call.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// StoreError wraps a failed database operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }
