package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailrelay/pkg/clientip"
)

func TestPeerIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
		wantErr    bool
	}{
		{name: "ipv4 with port", remoteAddr: "127.0.0.1:54321", want: "127.0.0.1"},
		{name: "ipv6 with port", remoteAddr: "[::1]:54321", want: "::1"},
		{name: "ipv4 mapped ipv6", remoteAddr: "[::ffff:127.0.0.1]:54321", want: "127.0.0.1"},
		{name: "zoned ipv6", remoteAddr: "[fe80::1%eth0]:54321", want: "fe80::1"},
		{name: "without port", remoteAddr: "10.0.0.5", want: "10.0.0.5"},
		{
			name:       "forwarding headers ignored",
			remoteAddr: "10.0.0.5:1234",
			headers:    map[string]string{"X-Forwarded-For": "127.0.0.1", "X-Real-IP": "127.0.0.1"},
			want:       "10.0.0.5",
		},
		{name: "empty", remoteAddr: "", wantErr: true},
		{name: "garbage", remoteAddr: "not-an-ip:80", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			ip, err := clientip.PeerIP(r)
			if tt.wantErr {
				assert.ErrorIs(t, err, clientip.ErrNoPeerAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, netip.MustParseAddr(tt.want), ip)
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	ip, err := clientip.Parse(" ::ffff:10.1.2.3 ")
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.1.2.3"), ip)

	ip, err = clientip.Parse("[2001:db8::1]")
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("2001:db8::1"), ip)

	_, err = clientip.Parse("localhost")
	assert.Error(t, err)
}
