package cache

import "errors"

// Sentinel errors shared by the repository clients that read through a Cache.
var (
	// ErrNotFound reports that the repository has no such resource.
	ErrNotFound = errors.New("not found")

	// ErrNetwork reports a transport failure or an unexpected HTTP status.
	ErrNetwork = errors.New("network error")
)

// RetryableError marks a failure that Backoff.Retry should try again.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether any error in err's chain is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
