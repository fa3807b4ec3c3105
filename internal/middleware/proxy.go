package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustProxyMiddleware applies X-Forwarded-* and X-Real-IP only when the
// TCP peer is one of the trusted proxies. Requests from any other peer keep
// their own address, scheme and host.
func TrustProxyMiddleware(trusted []netip.Prefix) func(HandlerFunc) HandlerFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			peer, ok := peerAddr(r)
			if !ok || !isTrusted(trusted, peer) {
				return next(w, r)
			}

			if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
				r.URL.Scheme = proto
			}

			if host := r.Header.Get("X-Forwarded-Host"); host != "" {
				r.Host = host
			}

			if ip, ok := forwardedClient(r, trusted); ok {
				r.RemoteAddr = net.JoinHostPort(ip.String(), "0")
			}

			return next(w, r)
		}
	}
}

// forwardedClient prefers X-Real-IP, then walks X-Forwarded-For from the
// right and stops at the first hop that is not a trusted proxy.
func forwardedClient(r *http.Request, trusted []netip.Prefix) (netip.Addr, bool) {
	if ip, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return ip.Unmap(), true
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	var client netip.Addr
	for i := len(hops) - 1; i >= 0; i-- {
		ip, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		client = ip.Unmap()
		if !isTrusted(trusted, client) {
			break
		}
	}
	return client, client.IsValid()
}

func peerAddr(r *http.Request) (netip.Addr, bool) {
	ip, err := netip.ParseAddr(ClientIP(r))
	if err != nil {
		return netip.Addr{}, false
	}
	return ip.Unmap(), true
}

func isTrusted(trusted []netip.Prefix, ip netip.Addr) bool {
	for _, p := range trusted {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns the host part of r.RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
