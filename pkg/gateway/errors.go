package gateway

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// ErrorKind classifies a gateway failure. RateLimited, ServerError and
// NetworkError are transient and retried; ClientError is surfaced
// immediately.
type ErrorKind int

const (
	KindRateLimited ErrorKind = iota
	KindServerError
	KindNetworkError
	KindClientError
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindServerError:
		return "server_error"
	case KindNetworkError:
		return "network_error"
	default:
		return "client_error"
	}
}

// Error is the failure type returned by Gateway.Execute.
type Error struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway: %s (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("gateway: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the failure may succeed on a later attempt.
func (e *Error) Retryable() bool { return e.Kind != KindClientError }

// classifyStatus maps an HTTP status to an error kind, or nil for success.
func classifyStatus(status int) *Error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Status: status}
	case status >= 500:
		return &Error{Kind: KindServerError, Status: status}
	default:
		return &Error{Kind: KindClientError, Status: status}
	}
}

// classifyTransport maps a transport-level error to an error kind. Timeouts,
// resets, aborted connections and unresolvable hosts are the recognized
// transient set; anything else (bad URL, unsupported scheme) is a client
// error.
func classifyTransport(err error) *Error {
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.ECONNREFUSED):
		return &Error{Kind: KindNetworkError, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Error{Kind: KindNetworkError, Err: err}
	}

	return &Error{Kind: KindClientError, Err: err}
}
