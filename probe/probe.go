// Package probe defines the echo-probe capability the tracer consumes and
// provides the raw-socket ICMP implementation of it.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/BurkeyCode/routecheck/addr"
)

// Outcome is the result of a single bounded-TTL echo probe. Responder is
// meaningful only when Replied is true.
type Outcome struct {
	Replied   bool
	Responder addr.Addr
}

// Prober sends one echo request toward dest with the given TTL and waits up
// to timeout for a reply. The call blocks and returns within the timeout
// bound whether or not a reply arrived; a silent hop is Outcome{Replied:
// false} with a nil error. Errors are reserved for socket-level failures.
type Prober interface {
	Probe(ctx context.Context, dest addr.Addr, ttl int, timeout time.Duration) (Outcome, error)
}

// ResourceError reports that the underlying probe resource could not be
// acquired, typically for lack of raw-socket privilege. It is fatal for the
// whole trace.
type ResourceError struct {
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("cannot acquire probe resource: %s", e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
