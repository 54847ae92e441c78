// Package trace implements the route-tracing engine: it verifies that a
// destination answers at all, then sweeps TTL-bounded echo probes along the
// path and records which of the caller's gateways were seen responding.
package trace

import (
	"context"
	"fmt"

	"github.com/BurkeyCode/routecheck/log"
	"github.com/BurkeyCode/routecheck/probe"
	"github.com/BurkeyCode/routecheck/result"
)

// Tracer runs route checks through a Prober. It holds no state across
// traces.
type Tracer struct {
	prober probe.Prober
}

// NewTracer returns a Tracer that probes through p.
func NewTracer(p probe.Prober) *Tracer {
	return &Tracer{prober: p}
}

// Trace checks whether destination answers and which gateways lie on the
// path to it.
//
// The destination is verified first with a single full-distance probe at
// ttl=cfg.MaxHops. If it doesn't answer, the trace ends there: no gateway
// probes are issued and every gateway reports no reply. Otherwise the sweep
// probes ttl 1 through cfg.MaxHops-1 in order, one probe per hop with no
// retries, and marks every still-unmatched gateway whose address equals the
// responder's. The sweep deliberately runs to completion even after all
// gateways have matched.
//
// Trace owns the responded flags: the caller's nodes are copied in, flipped
// only here, and returned as a snapshot. A flag never transitions back to
// false within a trace.
func (t *Tracer) Trace(ctx context.Context, destination result.Node, gateways []result.Node, cfg Config) (*result.TraceResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	res := &result.TraceResult{
		Destination: destination,
		Gateways:    append([]result.Node(nil), gateways...),
	}
	res.Destination.Responded = false
	for i := range res.Gateways {
		res.Gateways[i].Responded = false
	}

	outcome, err := t.prober.Probe(ctx, destination.Addr, cfg.MaxHops, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("destination probe failed: %w", err)
	}
	if !outcome.Replied {
		log.Debugf("destination %s did not reply within %s", destination.Name, cfg.Timeout)
		return res, nil
	}
	res.Destination.Responded = true
	log.Debugf("destination %s replied", destination.Name)

	if len(res.Gateways) == 0 {
		return res, nil
	}

	for ttl := 1; ttl < cfg.MaxHops; ttl++ {
		outcome, err := t.prober.Probe(ctx, destination.Addr, ttl, cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("probe at hop %d failed: %w", ttl, err)
		}
		if !outcome.Replied {
			log.Tracef("no reply at hop %d", ttl)
			continue
		}

		for i := range res.Gateways {
			if res.Gateways[i].Responded {
				continue
			}
			if res.Gateways[i].Addr == outcome.Responder {
				res.Gateways[i].Responded = true
				log.Debugf("gateway %s replied at hop %d", res.Gateways[i].Name, ttl)
			}
		}
	}

	return res, nil
}
