//go:build linux

package gateway

import (
	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"

	"github.com/BurkeyCode/routecheck/addr"
	"github.com/BurkeyCode/routecheck/log"
)

// DefaultGateways queries the kernel routing table and returns the IPv4
// default gateways, in routing-table order. A multi-homed host returns one
// entry per redundant uplink.
func DefaultGateways() ([]Gateway, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list IPv4 routes")
	}

	var gateways []Gateway
	for _, route := range routes {
		// a default route has no destination prefix
		if route.Dst != nil && route.Dst.IP != nil && !route.Dst.IP.IsUnspecified() {
			continue
		}
		if route.Gw == nil {
			continue
		}

		a, ok := addr.FromSlice(route.Gw)
		if !ok {
			log.Debugf("skipping non-IPv4 gateway %s", route.Gw)
			continue
		}
		gateways = append(gateways, Gateway{
			Addr:      a,
			Interface: linkName(route.LinkIndex),
		})
	}
	return gateways, nil
}

func linkName(index int) string {
	if index == 0 {
		return ""
	}
	link, err := netlink.LinkByIndex(index)
	if err != nil {
		log.Debugf("failed to resolve link index %d: %s", index, err)
		return ""
	}
	return link.Attrs().Name
}
