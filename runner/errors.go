package runner

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/BurkeyCode/routecheck/addr"
	"github.com/BurkeyCode/routecheck/gateway"
	"github.com/BurkeyCode/routecheck/probe"
	"github.com/BurkeyCode/routecheck/trace"
)

// ErrorCode is a stable, classifiable failure code shared by the CLI's
// exit-status mapping and the HTTP API's error responses.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates bad parameters from the caller.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeDenied indicates the probe resource could not be acquired,
	// typically for lack of privilege.
	ErrCodeDenied ErrorCode = "DENIED"
	// ErrCodeTimeout indicates the operation timed out or was cancelled.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeUnreachable indicates the target host or network is
	// unreachable at the socket level.
	ErrCodeUnreachable ErrorCode = "UNREACHABLE"
	// ErrCodeUnknown is the catch-all for unclassified errors.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

// ErrMissingDestination is returned when no destination was supplied.
var ErrMissingDestination = errors.New("no destination specified")

// RouteCheckError is a classified error from a route check run.
type RouteCheckError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *RouteCheckError) Error() string {
	return e.Message
}

func (e *RouteCheckError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body returned on error from the HTTP API.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ClassifyError inspects an error chain and returns a RouteCheckError with
// the appropriate code.
func ClassifyError(err error) *RouteCheckError {
	if err == nil {
		return nil
	}

	// Our own typed errors first
	if errors.Is(err, ErrMissingDestination) {
		return &RouteCheckError{Code: ErrCodeInvalidRequest, Message: err.Error(), Err: err}
	}

	var addrErr *addr.InvalidAddressError
	if errors.As(err, &addrErr) {
		return &RouteCheckError{Code: ErrCodeInvalidRequest, Message: err.Error(), Err: err}
	}

	var cfgErr *trace.InvalidConfigError
	if errors.As(err, &cfgErr) {
		return &RouteCheckError{Code: ErrCodeInvalidRequest, Message: err.Error(), Err: err}
	}

	if errors.Is(err, gateway.ErrUnsupported) {
		return &RouteCheckError{Code: ErrCodeInvalidRequest, Message: err.Error(), Err: err}
	}

	var resErr *probe.ResourceError
	if errors.As(err, &resErr) {
		return &RouteCheckError{Code: ErrCodeDenied, Message: err.Error(), Err: err}
	}

	// Context errors (timeout / cancellation)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &RouteCheckError{Code: ErrCodeTimeout, Message: err.Error(), Err: err}
	}

	// net.OpError wrapping a syscall error or a timeout
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		var sysErr *syscall.Errno
		if errors.As(opErr.Err, &sysErr) {
			return classifySyscallError(*sysErr, err)
		}
		if opErr.Timeout() {
			return &RouteCheckError{Code: ErrCodeTimeout, Message: err.Error(), Err: err}
		}
	}

	// Raw syscall.Errno anywhere in the chain
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return classifySyscallError(errno, err)
	}

	return &RouteCheckError{Code: ErrCodeUnknown, Message: err.Error(), Err: err}
}

func classifySyscallError(errno syscall.Errno, original error) *RouteCheckError {
	switch errno {
	case syscall.EHOSTUNREACH, syscall.ENETUNREACH:
		return &RouteCheckError{Code: ErrCodeUnreachable, Message: original.Error(), Err: original}
	case syscall.EACCES, syscall.EPERM:
		return &RouteCheckError{Code: ErrCodeDenied, Message: original.Error(), Err: original}
	case syscall.ETIMEDOUT:
		return &RouteCheckError{Code: ErrCodeTimeout, Message: original.Error(), Err: original}
	default:
		return &RouteCheckError{Code: ErrCodeUnknown, Message: original.Error(), Err: original}
	}
}
