package pinger

import (
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/BurkeyCode/routecheck/log"
)

// RunPing sends the configured number of echo requests to host and collects
// reply statistics. It blocks until the run finishes or the timeout expires.
func RunPing(cfg *Config, host string) (*Result, error) {
	if host == "" {
		return &Result{}, ErrNoTarget
	}

	pinger, err := probing.NewPinger(host)
	if err != nil {
		return &Result{}, err
	}
	pinger.Timeout = DefaultTimeoutMs * time.Millisecond
	pinger.Interval = DefaultIntervalMs * time.Millisecond
	pinger.Count = DefaultCount
	pinger.SetPrivileged(cfg.UseRawSocket)
	if cfg.Timeout > 0 {
		pinger.Timeout = cfg.Timeout
	}
	if cfg.Delay > 0 {
		pinger.Interval = cfg.Delay
	}
	if cfg.Count > 0 {
		pinger.Count = cfg.Count
	}

	err = pinger.Run() // blocks until finished
	if err != nil {
		return &Result{}, err
	}
	stats := pinger.Statistics()

	log.Tracef("ping stats: %+v", stats)

	return &Result{
		PacketsSent:          stats.PacketsSent,
		PacketsReceived:      stats.PacketsRecv,
		PacketLossPercentage: stats.PacketLoss,
		Rtts:                 convertRttsAsFloat(stats.Rtts),
		JitterMs:             float64(computeJitter(stats.Rtts)) / float64(time.Millisecond),
	}, nil
}

func convertRttsAsFloat(rtts []time.Duration) []float64 {
	rttsFloat := make([]float64, 0, len(rtts))
	for _, rtt := range rtts {
		rttsFloat = append(rttsFloat, float64(rtt)/float64(time.Millisecond))
	}
	return rttsFloat
}

func computeJitter(rtts []time.Duration) time.Duration {
	if len(rtts) < 2 {
		return 0
	}
	var prevRtt time.Duration
	var cumulativeDifference time.Duration
	for _, rtt := range rtts {
		if prevRtt != 0 {
			cumulativeDifference += (rtt - prevRtt).Abs()
		}
		prevRtt = rtt
	}
	return cumulativeDifference / time.Duration(len(rtts)-1)
}
