package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// AdapterError carries the provider name and HTTP status alongside the
// underlying failure so retry policy can act on both.
type AdapterError struct {
	Provider  string
	Status    int
	Temporary bool
	Err       error
}

func (e *AdapterError) Error() string {
	if e == nil {
		return "adapter error"
	}
	provider := e.Provider
	if provider == "" {
		provider = "adapter"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", provider, e.Err)
	}
	return fmt.Sprintf("%s: request failed (status=%d)", provider, e.Status)
}

func (e *AdapterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Retryable reports whether the provider failure is worth another attempt.
// Rate limiting and server-side errors retry; auth and request shape
// errors do not. The Temporary flag covers provider-specific cases such as
// Hugging Face model cold starts.
func (e *AdapterError) Retryable() bool {
	if e == nil {
		return false
	}
	if e.Temporary {
		return true
	}
	return e.Status == http.StatusTooManyRequests || (e.Status >= 500 && e.Status <= 599)
}

// IsTransient reports whether an error is safe to retry.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) {
		return adapterErr.Retryable()
	}
	return false
}
