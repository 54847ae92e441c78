// Package pinger runs plain reachability pings against a destination,
// without any hop sweep, for the `routecheck ping` subcommand.
package pinger

import (
	"errors"
	"time"
)

const (
	DefaultCount      = 10
	DefaultIntervalMs = 200
	DefaultTimeoutMs  = 10000
)

// ErrNoTarget is returned when the pinger is invoked without a destination.
var ErrNoTarget = errors.New("no ping target specified")

type (
	// Config defines how pings should be run.
	Config struct {
		// UseRawSocket selects RAW over UDP sockets; RAW needs privilege but
		// matches what the route check itself uses.
		UseRawSocket bool
		// Delay is the interval between echo requests.
		Delay time.Duration
		// Timeout is the total time budget for all pings.
		Timeout time.Duration
		// Count is the number of echo requests to send.
		Count int
	}

	// Result encapsulates one ping run.
	Result struct {
		// PacketsSent is the number of echo requests sent.
		PacketsSent int `json:"packets_sent"`
		// PacketsReceived is the number of replies received.
		PacketsReceived int `json:"packets_received"`
		// PacketLossPercentage is the percentage of lost packets.
		PacketLossPercentage float64 `json:"packet_loss_percentage"`
		// Rtts is the round-trip time of each reply, in milliseconds.
		Rtts []float64 `json:"rtts"`
		// JitterMs is the mean absolute difference between consecutive
		// round-trip times, in milliseconds.
		JitterMs float64 `json:"jitter_ms"`
	}
)
