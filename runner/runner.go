// Package runner ties the pieces of a route check together: it parses the
// caller's destination and gateway inputs, acquires the probe resource, runs
// the trace, and wraps the outcome in a Results envelope.
package runner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/BurkeyCode/routecheck/addr"
	"github.com/BurkeyCode/routecheck/gateway"
	"github.com/BurkeyCode/routecheck/log"
	"github.com/BurkeyCode/routecheck/probe"
	"github.com/BurkeyCode/routecheck/publicip"
	"github.com/BurkeyCode/routecheck/result"
	"github.com/BurkeyCode/routecheck/trace"
)

// closableProber is what the runner needs from a concrete prober: the probe
// capability plus release of the underlying resource.
type closableProber interface {
	probe.Prober
	io.Closer
}

// newProberFn is declared for testing purpose (to be replaced by mock impl during tests)
var newProberFn = func() (closableProber, error) {
	return probe.NewICMPProber()
}

// discoverGatewaysFn is declared for testing purpose (to be replaced by mock impl during tests)
var discoverGatewaysFn = gateway.DefaultGateways

// RouteCheck runs route checks.
type RouteCheck struct {
	publicIPFetcher publicip.Fetcher
}

// NewRouteCheck returns a RouteCheck with a default public IP fetcher.
func NewRouteCheck() *RouteCheck {
	return &RouteCheck{
		publicIPFetcher: publicip.NewPublicIPFetcher(),
	}
}

// Run performs one route check and returns the Results envelope. Parameter
// validation happens before any network activity; probe resource
// acquisition failure aborts the run with no partial results.
func (r RouteCheck) Run(ctx context.Context, params Params) (*result.Results, error) {
	if params.Destination == "" {
		return nil, ErrMissingDestination
	}
	destAddr, err := addr.Parse(params.Destination)
	if err != nil {
		return nil, fmt.Errorf("invalid destination: %w", err)
	}
	destination := result.NewNode(params.Destination, destAddr)

	gateways, err := resolveGateways(params)
	if err != nil {
		return nil, err
	}

	cfg := trace.DefaultConfig()
	if params.MaxHops != 0 {
		cfg.MaxHops = params.MaxHops
	}
	if params.Timeout != 0 {
		cfg.Timeout = params.Timeout
	}

	prober, err := newProberFn()
	if err != nil {
		return nil, err
	}
	defer prober.Close()

	trRes, err := trace.NewTracer(prober).Trace(ctx, destination, gateways, cfg)
	if err != nil {
		return nil, err
	}
	log.Debugf("matched %d of %d gateways", len(trRes.MatchedGateways()), len(trRes.Gateways))

	results := &result.Results{
		RunID: result.NewRunID(),
		Params: result.Params{
			Destination: params.Destination,
			MaxHops:     cfg.MaxHops,
			TimeoutMs:   cfg.Timeout.Milliseconds(),
		},
		Trace: *trRes,
	}

	if params.CollectSourcePublicIP {
		ip, err := r.publicIPFetcher.GetIP(ctx)
		if err != nil {
			log.Debugf("Error getting public IP: %s", err)
		} else {
			results.Source.PublicIP = ip.String()
		}
	}

	return results, nil
}

// resolveGateways builds the effective gateway set from the explicit specs
// and, when requested, the system's default gateways. Malformed specs are
// excluded with a warning rather than failing the run.
func resolveGateways(params Params) ([]result.Node, error) {
	var gateways []result.Node
	for _, spec := range params.Gateways {
		node, err := parseGatewaySpec(spec)
		if err != nil {
			log.Warnf("skipping gateway %q: %s", spec, err)
			continue
		}
		gateways = append(gateways, node)
	}

	if params.AutoGateway {
		discovered, err := discoverGatewaysFn()
		if err != nil {
			return nil, fmt.Errorf("failed to discover default gateways: %w", err)
		}
		for _, gw := range discovered {
			log.Debugf("discovered default gateway %s", gw.Label())
			gateways = append(gateways, result.NewNode(gw.Label(), gw.Addr))
		}
	}

	return gateways, nil
}

// parseGatewaySpec accepts "LABEL=IP" or a bare "IP"; a bare address is
// labelled with its own text.
func parseGatewaySpec(spec string) (result.Node, error) {
	label, text := spec, spec
	if name, rest, found := strings.Cut(spec, "="); found {
		if name == "" {
			return result.Node{}, fmt.Errorf("empty gateway label")
		}
		label, text = name, rest
	}
	a, err := addr.Parse(text)
	if err != nil {
		return result.Node{}, err
	}
	return result.NewNode(label, a), nil
}
