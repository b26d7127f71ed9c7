package clientip

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ErrNoPeerAddress is returned when the request carries no usable RemoteAddr.
var ErrNoPeerAddress = errors.New("no peer address")

// PeerIP returns the IP of the socket peer. Forwarding headers are ignored.
// IPv4-mapped IPv6 addresses are unmapped and zones dropped, so
// "[::ffff:127.0.0.1]:5000" yields 127.0.0.1.
func PeerIP(r *http.Request) (netip.Addr, error) {
	if r == nil || r.RemoteAddr == "" {
		return netip.Addr{}, ErrNoPeerAddress
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = h
	}

	ip, err := Parse(host)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %w", ErrNoPeerAddress, err)
	}
	return ip, nil
}

// Parse parses an IP address and normalizes it the same way PeerIP does.
// Surrounding brackets are accepted.
func Parse(s string) (netip.Addr, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]")
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	return ip.Unmap().WithZone(""), nil
}
