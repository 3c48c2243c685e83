package ws

import (
	"net"
	"net/http"
	"strings"
)

// Connection identity for lifecycle events, pulled from the upgrade
// request before it is consumed by the websocket handshake.

func deviceIDFrom(r *http.Request) string {
	return r.Header.Get("X-Device-Id")
}

func requestIDFrom(r *http.Request) string {
	return r.Header.Get("X-Request-Id")
}

// clientIPFrom prefers the first X-Forwarded-For hop over the socket
// peer address.
func clientIPFrom(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
