// Package bannererrors defines the error taxonomy for banner generation.
// It distinguishes user-input errors (actionable by the caller) from
// infrastructure failures (transient, mapped to service statuses) and from
// recoverable per-component failures (downgraded to warnings upstream).
package bannererrors

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a banner generation failure.
type Kind string

const (
	// KindUserInput covers bad caller input: invalid username format,
	// unsupported custom background image type, malformed options.
	KindUserInput Kind = "user_input"

	// KindNotFound covers a missing upstream resource (HTTP 404).
	KindNotFound Kind = "not_found"

	// KindRateLimited covers upstream throttling (HTTP 429).
	KindRateLimited Kind = "rate_limited"

	// KindUnavailable covers unreachable or failing upstream services
	// (DNS failure, connection refused, HTTP 5xx, timeouts).
	KindUnavailable Kind = "service_unavailable"

	// KindImageFetch covers a failed asset resolution. Components downgrade
	// this kind to a warning instead of failing the render.
	KindImageFetch Kind = "image_fetch"

	// KindInternal covers everything else, including canvas encoding
	// failures that abort the whole banner.
	KindInternal Kind = "internal"
)

// Error is the typed error carried across the banner pipeline.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a typed error without an underlying cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap creates a typed error wrapping an underlying cause.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// UserInput creates a user-input error. These are surfaced to the caller
// before any rendering work begins.
func UserInput(op, message string) *Error {
	return New(KindUserInput, op, message)
}

// ImageFetch creates the typed "failed to get image" error produced by the
// asset resolver and downgraded to a warning by components.
func ImageFetch(op string, err error) *Error {
	return Wrap(KindImageFetch, op, err)
}

// KindOf extracts the Kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ClassifyHTTPStatus maps an upstream HTTP status code to an error kind,
// per symptom: 404 not found, 429 rate limited, 5xx unavailable.
func ClassifyHTTPStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindUnavailable
	default:
		return KindInternal
	}
}

// ClassifyTransport maps transport-level failures (DNS, connection refused,
// timeouts) to KindUnavailable. Anything unrecognized stays internal.
func ClassifyTransport(err error) Kind {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindUnavailable
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindUnavailable
	}
	return KindInternal
}

// HTTPStatus maps an error kind to the caller-visible HTTP status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUserInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
