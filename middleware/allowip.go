package middleware

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/dmitrymomot/mailrelay/core/logger"
	"github.com/dmitrymomot/mailrelay/pkg/clientip"
)

// AllowIPConfig configures the IP allow-list middleware.
type AllowIPConfig struct {
	// Allowed lists the peer addresses that may pass. Compared after
	// unmapping IPv4-mapped IPv6.
	Allowed []netip.Addr

	// Logger receives one warn record per rejected request (default: discard)
	Logger *slog.Logger

	// OnDeny is called for every rejected request, e.g. to count denials
	OnDeny func(r *http.Request)
}

// AllowIP rejects every request whose socket peer is not one of allowed with
// 403 and an empty body. Forwarding headers are never consulted.
func AllowIP(allowed ...netip.Addr) Middleware {
	return AllowIPWithConfig(AllowIPConfig{Allowed: allowed})
}

// AllowIPWithConfig creates the allow-list middleware with custom configuration.
func AllowIPWithConfig(cfg AllowIPConfig) Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	allowed := make(map[netip.Addr]struct{}, len(cfg.Allowed))
	for _, ip := range cfg.Allowed {
		allowed[ip.Unmap().WithZone("")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, err := clientip.PeerIP(r)
			if err == nil {
				if _, ok := allowed[ip]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			peer := "unknown"
			if ip.IsValid() {
				peer = ip.String()
			}
			cfg.Logger.LogAttrs(r.Context(), slog.LevelWarn, "request from disallowed address",
				logger.Component("access"),
				logger.ClientIP(peer),
				logger.RemoteAddr(r.RemoteAddr),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			if cfg.OnDeny != nil {
				cfg.OnDeny(r)
			}

			w.WriteHeader(http.StatusForbidden)
		})
	}
}
