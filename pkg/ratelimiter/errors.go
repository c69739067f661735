package ratelimiter

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidConfig     = errors.New("ratelimiter.invalid_config")
	ErrInvalidTokenCount = errors.New("ratelimiter.invalid_token_count")
	ErrStoreUnavailable  = errors.New("ratelimiter.store_unavailable")
	ErrLimitExceeded     = errors.New("ratelimiter.limit_exceeded")
)

// LimitError carries the denied Result. It matches ErrLimitExceeded with errors.Is.
type LimitError struct {
	Result *Result
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrLimitExceeded, e.Result.RetryAfter().Round(time.Second))
}

func (e *LimitError) Unwrap() error { return ErrLimitExceeded }
