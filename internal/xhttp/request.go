package xhttp

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address used to identify the caller.
//
// trustedHops is the number of reverse proxies in front of the server, each of
// which appends the address it received from to X-Forwarded-For. With zero
// hops forwarding headers are ignored, since any client can set them. With n
// hops the nth entry from the right is used: the address the outermost trusted
// proxy saw. Entries to its left are client-supplied and never trusted.
func ClientIP(r *http.Request, trustedHops int) string {
	peer := hostOnly(r.RemoteAddr)
	if trustedHops <= 0 {
		return peer
	}

	if hops := forwardedHops(r.Header.Values(XForwardedFor)); len(hops) > 0 {
		i := max(len(hops)-trustedHops, 0)
		if ip := hostOnly(hops[i]); ip != "" {
			return ip
		}
	}
	if ip := hostOnly(strings.TrimSpace(r.Header.Get(XRealIP))); ip != "" {
		return ip
	}
	return peer
}

// forwardedHops flattens repeated X-Forwarded-For headers into one list, left to right.
func forwardedHops(values []string) []string {
	var hops []string
	for _, v := range values {
		for hop := range strings.SplitSeq(v, ",") {
			hops = append(hops, strings.TrimSpace(hop))
		}
	}
	return hops
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
