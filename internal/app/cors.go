package app

import (
	"net/url"
	"strings"
)

// originHost strips the scheme from an Origin header value, leaving
// "host[:port]" for pattern matching.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// originMatches reports whether host satisfies an allowed-origin entry.
// Entries are either exact hosts, "*.domain" subdomain wildcards, or
// "host:*" any-port wildcards.
func originMatches(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, strings.TrimSuffix(pattern, "*"))
	default:
		return false
	}
}
