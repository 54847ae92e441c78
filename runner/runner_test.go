package runner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BurkeyCode/routecheck/addr"
	"github.com/BurkeyCode/routecheck/gateway"
	"github.com/BurkeyCode/routecheck/probe"
	"github.com/BurkeyCode/routecheck/publicip"
	"github.com/BurkeyCode/routecheck/result"
)

// fakeProber answers probes from a scripted ttl->responder table. The
// destination replies to the full-distance probe when destReplies is set.
type fakeProber struct {
	responders  map[int]addr.Addr
	destReplies bool
	probeErr    error

	calls  int
	closed bool
}

func (f *fakeProber) Probe(_ context.Context, dest addr.Addr, ttl int, _ time.Duration) (probe.Outcome, error) {
	f.calls++
	if f.probeErr != nil {
		return probe.Outcome{}, f.probeErr
	}
	if responder, ok := f.responders[ttl]; ok {
		return probe.Outcome{Replied: true, Responder: responder}, nil
	}
	if f.destReplies && f.calls == 1 {
		return probe.Outcome{Replied: true, Responder: dest}, nil
	}
	return probe.Outcome{}, nil
}

func (f *fakeProber) Close() error {
	f.closed = true
	return nil
}

func withFakeProber(t *testing.T, f *fakeProber) {
	t.Helper()
	prev := newProberFn
	newProberFn = func() (closableProber, error) {
		return f, nil
	}
	t.Cleanup(func() { newProberFn = prev })
}

func TestRun(t *testing.T) {
	prober := &fakeProber{
		destReplies: true,
		responders: map[int]addr.Addr{
			1: addr.MustParse("192.168.1.1"),
			2: addr.MustParse("192.168.1.2"),
		},
	}
	withFakeProber(t, prober)

	rc := NewRouteCheck()
	results, err := rc.Run(context.Background(), Params{
		Destination: "10.0.0.1",
		Gateways:    []string{"GW1=192.168.1.1", "192.168.1.2", "not-an-address"},
		MaxHops:     5,
		Timeout:     2 * time.Second,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, results.RunID)
	assert.Equal(t, result.Params{
		Destination: "10.0.0.1",
		MaxHops:     5,
		TimeoutMs:   2000,
	}, results.Params)

	assert.Equal(t, "10.0.0.1", results.Trace.Destination.Name)
	assert.True(t, results.Trace.Destination.Responded)

	// the malformed gateway spec is dropped, not fatal
	require.Len(t, results.Trace.Gateways, 2)
	assert.Equal(t, "GW1", results.Trace.Gateways[0].Name)
	assert.True(t, results.Trace.Gateways[0].Responded)
	assert.Equal(t, "192.168.1.2", results.Trace.Gateways[1].Name)
	assert.True(t, results.Trace.Gateways[1].Responded)

	// full-distance probe plus the sweep through maxHops-1
	assert.Equal(t, 5, prober.calls)
	assert.True(t, prober.closed)
}

func TestRunAppliesDefaults(t *testing.T) {
	withFakeProber(t, &fakeProber{destReplies: true})

	results, err := NewRouteCheck().Run(context.Background(), Params{
		Destination: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, 30, results.Params.MaxHops)
	assert.Equal(t, int64(10000), results.Params.TimeoutMs)
}

func TestRunMissingDestination(t *testing.T) {
	prev := newProberFn
	newProberFn = func() (closableProber, error) {
		t.Fatal("should not acquire a prober without a destination")
		return nil, nil
	}
	t.Cleanup(func() { newProberFn = prev })

	_, err := NewRouteCheck().Run(context.Background(), Params{})
	require.ErrorIs(t, err, ErrMissingDestination)
	assert.Equal(t, ErrCodeInvalidRequest, ClassifyError(err).Code)
}

func TestRunInvalidDestination(t *testing.T) {
	_, err := NewRouteCheck().Run(context.Background(), Params{Destination: "10.0.0"})
	var addrErr *addr.InvalidAddressError
	require.ErrorAs(t, err, &addrErr)
	assert.Equal(t, ErrCodeInvalidRequest, ClassifyError(err).Code)
}

func TestRunProberAcquisitionFailure(t *testing.T) {
	resErr := &probe.ResourceError{Err: errors.New("operation not permitted")}
	prev := newProberFn
	newProberFn = func() (closableProber, error) {
		return nil, resErr
	}
	t.Cleanup(func() { newProberFn = prev })

	_, err := NewRouteCheck().Run(context.Background(), Params{Destination: "10.0.0.1"})
	require.ErrorIs(t, err, resErr)
	assert.Equal(t, ErrCodeDenied, ClassifyError(err).Code)
}

func TestRunClosesProberOnTraceError(t *testing.T) {
	prober := &fakeProber{probeErr: errors.New("socket gone")}
	withFakeProber(t, prober)

	_, err := NewRouteCheck().Run(context.Background(), Params{Destination: "10.0.0.1"})
	require.Error(t, err)
	assert.True(t, prober.closed)
}

func TestRunAutoGateway(t *testing.T) {
	withFakeProber(t, &fakeProber{
		destReplies: true,
		responders: map[int]addr.Addr{
			1: addr.MustParse("10.0.0.254"),
		},
	})

	prev := discoverGatewaysFn
	discoverGatewaysFn = func() ([]gateway.Gateway, error) {
		return []gateway.Gateway{
			{Addr: addr.MustParse("10.0.0.254"), Interface: "eth0"},
		}, nil
	}
	t.Cleanup(func() { discoverGatewaysFn = prev })

	results, err := NewRouteCheck().Run(context.Background(), Params{
		Destination: "10.0.0.1",
		Gateways:    []string{"GW1=192.168.1.1"},
		MaxHops:     3,
		AutoGateway: true,
	})
	require.NoError(t, err)

	// discovered gateways come after the explicit ones
	require.Len(t, results.Trace.Gateways, 2)
	assert.Equal(t, "GW1", results.Trace.Gateways[0].Name)
	assert.False(t, results.Trace.Gateways[0].Responded)
	assert.Equal(t, "10.0.0.254%eth0", results.Trace.Gateways[1].Name)
	assert.True(t, results.Trace.Gateways[1].Responded)
}

func TestRunAutoGatewayDiscoveryFailure(t *testing.T) {
	prev := discoverGatewaysFn
	discoverGatewaysFn = func() ([]gateway.Gateway, error) {
		return nil, gateway.ErrUnsupported
	}
	t.Cleanup(func() { discoverGatewaysFn = prev })

	_, err := NewRouteCheck().Run(context.Background(), Params{
		Destination: "10.0.0.1",
		AutoGateway: true,
	})
	require.ErrorIs(t, err, gateway.ErrUnsupported)
	assert.Equal(t, ErrCodeInvalidRequest, ClassifyError(err).Code)
}

func TestRunCollectsSourcePublicIP(t *testing.T) {
	withFakeProber(t, &fakeProber{destReplies: true})

	tests := []struct {
		name             string
		setupMockFetcher func(ctrl *gomock.Controller) publicip.Fetcher
		expectedPublicIP string
	}{
		{
			name: "public IP enrichment",
			setupMockFetcher: func(ctrl *gomock.Controller) publicip.Fetcher {
				mockFetcher := publicip.NewMockFetcher(ctrl)
				mockFetcher.EXPECT().GetIP(gomock.Any()).Return(net.ParseIP("8.8.8.8"), nil)
				return mockFetcher
			},
			expectedPublicIP: "8.8.8.8",
		},
		{
			name: "public IP enrichment error",
			setupMockFetcher: func(ctrl *gomock.Controller) publicip.Fetcher {
				mockFetcher := publicip.NewMockFetcher(ctrl)
				mockFetcher.EXPECT().GetIP(gomock.Any()).Return(nil, fmt.Errorf("failed to fetch public IP"))
				return mockFetcher
			},
			expectedPublicIP: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			rc := NewRouteCheck()
			rc.publicIPFetcher = tt.setupMockFetcher(ctrl)

			results, err := rc.Run(context.Background(), Params{
				Destination:           "10.0.0.1",
				CollectSourcePublicIP: true,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPublicIP, results.Source.PublicIP)
		})
	}
}

func TestParseGatewaySpec(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		wantNode  result.Node
		wantError bool
	}{
		{
			name:     "labelled gateway",
			spec:     "GW1=192.168.1.1",
			wantNode: result.NewNode("GW1", addr.MustParse("192.168.1.1")),
		},
		{
			name:     "bare address",
			spec:     "192.168.1.2",
			wantNode: result.NewNode("192.168.1.2", addr.MustParse("192.168.1.2")),
		},
		{
			name:      "empty label",
			spec:      "=192.168.1.1",
			wantError: true,
		},
		{
			name:      "malformed address",
			spec:      "GW1=192.168.1",
			wantError: true,
		},
		{
			name:      "hostname is rejected",
			spec:      "gateway.example.com",
			wantError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := parseGatewaySpec(tt.spec)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNode, node)
		})
	}
}
