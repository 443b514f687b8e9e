package instrument

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"crudgate/internal/pkg/rate"
)

// KeyFunc derives the rate limit key for a request
type KeyFunc func(r *http.Request) string

// ClientKey returns the peer address of the connection without its port.
// Forwarding headers are ignored. Requests with no usable address share
// the rate.UnknownKey bucket.
func ClientKey(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return rate.UnknownKey
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		// No port present
		host = strings.Trim(addr, "[]")
	}
	if host == "" {
		return rate.UnknownKey
	}
	return host
}

// ForwardedKey reads the client from header (for example X-Forwarded-For)
// when the peer is one of trusted. Entries are walked right to left and the
// first address that is not itself a trusted proxy wins, so values a client
// prepends are never used. An empty trusted list trusts every peer but still
// only takes the rightmost entry. Anything unusable falls back to ClientKey.
func ForwardedKey(header string, trusted []string) (KeyFunc, error) {
	nets, err := parseTrusted(trusted)
	if err != nil {
		return nil, err
	}
	isTrusted := func(ip net.IP) bool {
		for _, n := range nets {
			if n.Contains(ip) {
				return true
			}
		}
		return false
	}

	return func(r *http.Request) string {
		peer := ClientKey(r)
		if len(nets) > 0 {
			ip := net.ParseIP(peer)
			if ip == nil || !isTrusted(ip) {
				return peer
			}
		}

		v := r.Header.Get(header)
		for v != "" {
			part := v
			if idx := strings.LastIndexByte(v, ','); idx >= 0 {
				part, v = v[idx+1:], v[:idx]
			} else {
				v = ""
			}

			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			ip := net.ParseIP(part)
			if ip == nil {
				return peer
			}
			if len(nets) == 0 || !isTrusted(ip) {
				return ip.String()
			}
		}
		return peer
	}, nil
}

// parseTrusted accepts single addresses and CIDR blocks
func parseTrusted(trusted []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(trusted))
	for _, t := range trusted {
		t = strings.TrimSpace(t)
		if _, n, err := net.ParseCIDR(t); err == nil {
			nets = append(nets, n)
			continue
		}
		ip := net.ParseIP(t)
		if ip == nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", t)
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets, nil
}
