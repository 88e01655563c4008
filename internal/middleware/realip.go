package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// NewRealIP sets r.RemoteAddr to the client address forwarded by a trusted
// proxy. Requests from any other peer keep their socket address, so a client
// cannot pick its own address through X-Forwarded-For or X-Real-IP.
//
// trusted lists proxy addresses or CIDR ranges, e.g. "10.0.0.0/8". With none
// configured every forwarding header is ignored.
//
// Unlike chimiddleware.RealIP the rate limiter can rely on the result.
func NewRealIP(trusted []string) (func(http.Handler) http.Handler, error) {
	prefixes := make([]netip.Prefix, 0, len(trusted))
	for _, s := range trusted {
		p, err := parsePrefix(s)
		if err != nil {
			return nil, fmt.Errorf("middleware.NewRealIP: %w", err)
		}
		prefixes = append(prefixes, p)
	}
	isTrusted := func(addr netip.Addr) bool {
		for _, p := range prefixes {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if peer, ok := peerAddr(r.RemoteAddr); ok && isTrusted(peer) {
				if client, ok := forwardedClient(r, isTrusted); ok {
					r.RemoteAddr = client.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

// forwardedClient walks X-Forwarded-For from the right, skipping trusted
// proxies, and returns the first other address. Entries further left were
// written by the client and are never used. X-Real-IP is the fallback when
// X-Forwarded-For is absent.
func forwardedClient(r *http.Request, isTrusted func(netip.Addr) bool) (netip.Addr, bool) {
	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				return netip.Addr{}, false
			}
			addr = addr.Unmap()
			if !isTrusted(addr) {
				return addr, true
			}
		}
		return netip.Addr{}, false
	}
	if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
		if addr, err := netip.ParseAddr(xrip); err == nil {
			return addr.Unmap(), true
		}
	}
	return netip.Addr{}, false
}

func peerAddr(remote string) (netip.Addr, bool) {
	host := remote
	if h, _, err := net.SplitHostPort(remote); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// parsePrefix accepts a CIDR range or a single address.
func parsePrefix(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}
