package server

import (
	"encoding/hex"
	"net"

	"github.com/nao1215/tsukuyomi/internal/fractal"
)

// uaDigestLen is the number of digest bytes kept from the user agent.
// Six bytes (twelve hex characters) is plenty to separate concurrent
// crawlers behind one NAT without storing raw user agents in the key.
const uaDigestLen = 6

// ClientKey derives the tracking key for a request: the remote IP joined
// with a short digest of the user agent. Two crawlers sharing an address but
// announcing different agents are tracked separately.
func ClientKey(remoteAddr, userAgent string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	digest := fractal.Digest(userAgent)
	return host + "#" + hex.EncodeToString(digest[:uaDigestLen])
}

// ClientAddr returns the remote address without the port.
func ClientAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
