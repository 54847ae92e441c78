package runner

import (
	"time"
)

// Params are the caller-facing inputs of one route check run. Zero values
// for MaxHops and Timeout select the trace defaults.
type Params struct {
	// Destination is the dotted-decimal IPv4 address to check.
	Destination string
	// Gateways are the candidate gateways, each either "LABEL=IP" or a bare
	// "IP" (the label then defaults to the address text).
	Gateways []string
	// MaxHops bounds the hop sweep and sets the full-distance probe TTL.
	MaxHops int
	// Timeout is the per-probe reply wait.
	Timeout time.Duration
	// AutoGateway adds the system's default gateways to the candidate set.
	AutoGateway bool
	// CollectSourcePublicIP annotates the results with the probing host's
	// public IP.
	CollectSourcePublicIP bool
}
