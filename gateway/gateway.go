// Package gateway discovers the system's default gateways so a route check
// can run without the caller naming candidates explicitly.
package gateway

import (
	"errors"

	"github.com/BurkeyCode/routecheck/addr"
)

// ErrUnsupported is returned on platforms where routing-table discovery is
// not implemented.
var ErrUnsupported = errors.New("default gateway discovery is not supported on this platform")

// Gateway is one discovered default route.
type Gateway struct {
	// Addr is the gateway's IPv4 address.
	Addr addr.Addr
	// Interface is the name of the link the route leaves through, when
	// known.
	Interface string
}

// Label returns the display name used for discovered gateways in reports.
func (g Gateway) Label() string {
	if g.Interface != "" {
		return g.Addr.String() + "%" + g.Interface
	}
	return g.Addr.String()
}
