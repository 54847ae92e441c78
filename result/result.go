// Package result holds the structured output of a route check. The tracer
// produces a TraceResult; the runner wraps it in a Results envelope for the
// CLI and the HTTP API to render.
package result

import (
	"github.com/BurkeyCode/routecheck/addr"
)

type (
	// Results is the full output of one route check run.
	Results struct {
		RunID  string      `json:"run_id"`
		Params Params      `json:"params"`
		Trace  TraceResult `json:"trace"`
		Source Source      `json:"source"`
	}

	// Params echoes the effective parameters the run used.
	Params struct {
		Destination string `json:"destination"`
		MaxHops     int    `json:"max_hops"`
		TimeoutMs   int64  `json:"timeout_ms"`
	}

	// Source describes the probing host.
	Source struct {
		PublicIP string `json:"public_ip,omitempty"`
	}

	// Node is a network location of interest: the destination or one of the
	// candidate gateways. Name is whatever label the caller supplied;
	// identity is the address.
	Node struct {
		Name      string    `json:"name"`
		Addr      addr.Addr `json:"address"`
		Responded bool      `json:"responded"`
	}

	// TraceResult is the outcome of a single trace: the destination's final
	// reply state and the per-gateway match states, in caller order.
	TraceResult struct {
		Destination Node   `json:"destination"`
		Gateways    []Node `json:"gateways"`
	}
)

// NewNode builds a Node with the responded flag at its initial false state.
func NewNode(name string, a addr.Addr) Node {
	return Node{Name: name, Addr: a}
}

const (
	// StatusReplied marks a node that answered during the trace.
	StatusReplied = "replied"
	// StatusNoReply marks a node that was never observed.
	StatusNoReply = "no reply"
)

// ReportLine is one row of the line-oriented report.
type ReportLine struct {
	Label  string
	Status string
}

// String renders the line in the tool's section:label:status form.
func (l ReportLine) String() string {
	return l.Label + ":" + l.Status
}

func status(responded bool) string {
	if responded {
		return StatusReplied
	}
	return StatusNoReply
}

// Report flattens the trace into ordered (label, status) lines: the
// destination first, then every gateway in the order the caller gave them.
func (r *TraceResult) Report() []ReportLine {
	lines := make([]ReportLine, 0, len(r.Gateways)+1)
	lines = append(lines, ReportLine{
		Label:  "Destination:" + r.Destination.Name,
		Status: status(r.Destination.Responded),
	})
	for _, gw := range r.Gateways {
		lines = append(lines, ReportLine{
			Label:  "Gateway:" + gw.Name,
			Status: status(gw.Responded),
		})
	}
	return lines
}

// MatchedGateways returns the gateways observed on the path, in caller
// order.
func (r *TraceResult) MatchedGateways() []Node {
	var matched []Node
	for _, gw := range r.Gateways {
		if gw.Responded {
			matched = append(matched, gw)
		}
	}
	return matched
}
