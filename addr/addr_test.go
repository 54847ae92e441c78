package addr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Addr
		wantErr bool
	}{
		{
			name:  "plain address",
			input: "192.168.1.1",
			want:  Addr{192, 168, 1, 1},
		},
		{
			name:  "zero address",
			input: "0.0.0.0",
			want:  Addr{},
		},
		{
			name:  "broadcast",
			input: "255.255.255.255",
			want:  Addr{255, 255, 255, 255},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "hostname",
			input:   "dns.google.com",
			wantErr: true,
		},
		{
			name:    "octet out of range",
			input:   "10.0.0.256",
			wantErr: true,
		},
		{
			name:    "too few octets",
			input:   "10.0.0",
			wantErr: true,
		},
		{
			name:    "trailing garbage",
			input:   "10.0.0.1x",
			wantErr: true,
		},
		{
			name:    "leading zeros",
			input:   "010.0.0.1",
			wantErr: true,
		},
		{
			name:    "IPv6 literal",
			input:   "2001:db8::1",
			wantErr: true,
		},
		{
			name:    "IPv4-mapped IPv6",
			input:   "::ffff:10.0.0.1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var invalidErr *InvalidAddressError
				require.ErrorAs(t, err, &invalidErr)
				assert.Equal(t, tt.input, invalidErr.Text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{
		"0.0.0.0",
		"1.2.3.4",
		"10.0.0.1",
		"127.0.0.1",
		"192.168.1.254",
		"255.255.255.255",
	} {
		a, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, a.String())

		back, err := Parse(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, back)
	}
}

func TestFromSlice(t *testing.T) {
	a, ok := FromSlice([]byte{10, 1, 2, 3})
	require.True(t, ok)
	assert.Equal(t, Addr{10, 1, 2, 3}, a)

	// 16-byte IPv4-mapped form, as net.IP produces
	mapped := MustParse("10.1.2.3").NetIP()
	a, ok = FromSlice(mapped)
	require.True(t, ok)
	assert.Equal(t, Addr{10, 1, 2, 3}, a)

	_, ok = FromSlice([]byte{1, 2, 3})
	assert.False(t, ok)

	// real IPv6 address is rejected
	v6 := make([]byte, 16)
	v6[0] = 0x20
	v6[1] = 0x01
	_, ok = FromSlice(v6)
	assert.False(t, ok)
}

func TestEquality(t *testing.T) {
	assert.Equal(t, MustParse("192.168.1.1"), MustParse("192.168.1.1"))
	assert.NotEqual(t, MustParse("192.168.1.1"), MustParse("192.168.1.2"))
}

func TestJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Gateway Addr `json:"gateway"`
	}

	out, err := json.Marshal(wrapper{Gateway: MustParse("172.16.0.1")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"gateway":"172.16.0.1"}`, string(out))

	var in wrapper
	require.NoError(t, json.Unmarshal(out, &in))
	assert.Equal(t, MustParse("172.16.0.1"), in.Gateway)

	err = json.Unmarshal([]byte(`{"gateway":"not-an-ip"}`), &in)
	require.Error(t, err)
}
