package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Cause classifies why an outbound call failed.
type Cause string

const (
	CauseTimeout    Cause = "timeout"
	CauseConnection Cause = "connection"
	CauseHTTPStatus Cause = "http_status"
)

// ErrInvalidURL marks requests that could never succeed and are not retried.
var ErrInvalidURL = errors.New("invalid request URL")

// FetchError is returned for every failed call made through Client.
type FetchError struct {
	Cause  Cause
	Status int // set when Cause is CauseHTTPStatus
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Cause == CauseHTTPStatus {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Cause, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a FetchError caused by a timeout.
func IsTimeout(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Cause == CauseTimeout
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}

func classify(rawURL string, err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Cause: CauseTimeout, URL: rawURL, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &FetchError{Cause: CauseTimeout, URL: rawURL, Err: err}
	}
	return &FetchError{Cause: CauseConnection, URL: rawURL, Err: err}
}

func isTransient(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	// Caller cancellation is final.
	if errors.Is(fe.Err, context.Canceled) || errors.Is(fe.Err, ErrInvalidURL) {
		return false
	}
	switch fe.Cause {
	case CauseTimeout, CauseConnection:
		return true
	case CauseHTTPStatus:
		return fe.Status == http.StatusTooManyRequests || fe.Status >= 500
	}
	return false
}
