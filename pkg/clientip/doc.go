// Package clientip resolves the IP address of the directly connected peer.
//
// Only http.Request.RemoteAddr is consulted. Headers such as X-Forwarded-For,
// X-Real-IP or CF-Connecting-IP are client-controlled and never trusted here,
// which makes the result safe for access decisions:
//
//	ip, err := clientip.PeerIP(r)
//	if err != nil || ip != allowed {
//		w.WriteHeader(http.StatusForbidden)
//		return
//	}
//
// Addresses are normalized with netip: IPv4-mapped IPv6 is unmapped and zones
// are dropped, so ::ffff:127.0.0.1 and 127.0.0.1 compare equal.
package clientip
