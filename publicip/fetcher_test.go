package publicip

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper implements http.RoundTripper for testing
type mockRoundTripper struct {
	statusCode int
	body       string
	calls      int
}

func (m *mockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	m.calls++
	return &http.Response{
		StatusCode: m.statusCode,
		Status:     http.StatusText(m.statusCode),
		Body:       io.NopCloser(strings.NewReader(m.body)),
	}, nil
}

func TestDoGetPublicIP(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantIP     string
		wantErr    bool
	}{
		{
			name:       "valid IPv4",
			statusCode: 200,
			body:       "1.2.3.4\n",
			wantIP:     "1.2.3.4",
		},
		{
			name:       "IP with whitespace",
			statusCode: 200,
			body:       "  8.8.8.8  \n",
			wantIP:     "8.8.8.8",
		},
		{
			name:       "bad request is permanent",
			statusCode: 400,
			body:       "nope",
			wantErr:    true,
		},
		{
			name:       "garbage body",
			statusCode: 200,
			body:       "not an ip",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &mockRoundTripper{statusCode: tt.statusCode, body: tt.body}
			client := &http.Client{Transport: rt}

			ip, err := doGetPublicIP(context.Background(), client, "https://example.invalid/ip")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, net.ParseIP(tt.wantIP).String(), ip.String())
		})
	}
}

func TestDoGetPublicIP_PermanentErrorStopsRetries(t *testing.T) {
	rt := &mockRoundTripper{statusCode: 400, body: "bad"}
	client := &http.Client{Transport: rt}

	_, err := doGetPublicIP(context.Background(), client, "https://example.invalid/ip")
	require.Error(t, err)
	assert.Equal(t, 1, rt.calls, "4xx must not be retried")
}
